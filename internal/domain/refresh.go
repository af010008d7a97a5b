package domain

import "time"

// RefreshStats holds statistics about one batch refresh pass.
type RefreshStats struct {
	Scanned   int
	Refreshed int
	Deferred  int // rate-limited links pushed to the next pass
	Failed    int
	Duration  time.Duration
}
