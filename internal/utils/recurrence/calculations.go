package recurrence

import (
	"fmt"
	"time"

	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/domain"
)

// NextDate returns the billing date immediately after the given one.
func NextDate(date time.Time, cycle domain.BillingCycle) (time.Time, error) {
	switch cycle {
	case domain.BillingWeekly:
		return date.AddDate(0, 0, 7), nil
	case domain.BillingMonthly:
		return date.AddDate(0, 1, 0), nil
	case domain.BillingQuarterly:
		return date.AddDate(0, 3, 0), nil
	case domain.BillingYearly:
		return date.AddDate(1, 0, 0), nil
	default:
		return time.Time{}, fmt.Errorf("unknown billing cycle '%s'", cycle)
	}
}

// AdvancePast rolls a billing date forward until it is strictly after now.
// A date already in the future is returned unchanged. This is used after a
// renewal passes to land on the next upcoming charge.
func AdvancePast(date time.Time, cycle domain.BillingCycle, now time.Time) (time.Time, error) {
	next := date
	for !next.After(now) {
		advanced, err := NextDate(next, cycle)
		if err != nil {
			return time.Time{}, err
		}
		next = advanced
	}
	return next, nil
}

// DaysUntil counts whole days from now until the billing date. A renewal
// later today counts as 0; past dates clamp to 0.
func DaysUntil(date time.Time, now time.Time) int {
	if date.Before(now) {
		return 0
	}
	return int(date.Sub(now).Hours() / 24)
}
