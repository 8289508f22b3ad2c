package model

import "time"

// ScanSummary tallies one pass over the timeframe x symbol matrix.
type ScanSummary struct {
	RunID        string
	Started      time.Time
	Finished     time.Time
	Pairs        int
	Evaluated    int
	Skipped      map[SkipReason]int
	FetchErrors  int
	Signals      []Evaluation
	NotifyErrors int
	// Interrupted is set when the pass stopped before covering every pair.
	Interrupted bool
}

// SkippedTotal returns the number of pairs skipped for any reason.
func (s *ScanSummary) SkippedTotal() int {
	n := 0
	for _, c := range s.Skipped {
		n += c
	}
	return n
}
