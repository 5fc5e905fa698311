package checkpoint

import (
	"fmt"
	"time"
)

// Period scopes the checkpoint sets to a calendar month. A new period starts
// with empty sets; earlier periods are left on disk untouched.
type Period struct {
	Month time.Month
	Year  int
}

func PeriodOf(t time.Time) Period {
	return Period{Month: t.Month(), Year: t.Year()}
}

func (p Period) String() string {
	return fmt.Sprintf("%d_%d", int(p.Month), p.Year)
}

// KnownGoodName returns e.g. "known_good_3_2026.txt".
func (p Period) KnownGoodName() string {
	return "known_good_" + p.String() + ".txt"
}

// StateFilePatterns match every file a Store writes into its directory:
// both checkpoint files of any period and the per-directory failure logs.
var StateFilePatterns = []string{"known_good_*_*.txt", "to_check_*.txt"}

// ToCheckName returns e.g. "to_check_3_2026.txt".
func (p Period) ToCheckName() string {
	return "to_check_" + p.String() + ".txt"
}
