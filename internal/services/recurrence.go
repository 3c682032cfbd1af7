package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/asifshaikgit/workforce-sub006/internal/models"
)

// ErrNoMoreOccurrences means the recurrence schedule is exhausted: the
// next computed date falls past the configured end date.
var ErrNoMoreOccurrences = errors.New("recurrence schedule has no further occurrences")

// NextOccurrence computes the next date a recurring configuration fires:
// IntervalCount units of CycleType past the last materialized occurrence,
// or past the start date when nothing has been materialized yet. Pure: the
// caller persists the advance.
func NextOccurrence(cfg *models.RecurringConfiguration) (time.Time, error) {
	base := cfg.StartDate
	if cfg.LastOccurrence != nil {
		base = *cfg.LastOccurrence
	}

	interval := cfg.IntervalCount
	if interval < 1 {
		interval = 1
	}

	var next time.Time
	switch cfg.CycleType {
	case models.CycleDay:
		next = base.AddDate(0, 0, interval)
	case models.CycleWeek:
		next = base.AddDate(0, 0, 7*interval)
	case models.CycleMonth:
		next = base.AddDate(0, interval, 0)
	case models.CycleYear:
		next = base.AddDate(interval, 0, 0)
	default:
		return time.Time{}, fmt.Errorf("unknown cycle type %q", cfg.CycleType)
	}

	return checkExpiry(cfg, next)
}

func checkExpiry(cfg *models.RecurringConfiguration, next time.Time) (time.Time, error) {
	if cfg.NeverExpires {
		return next, nil
	}
	if cfg.EndDate == nil || next.After(*cfg.EndDate) {
		return time.Time{}, ErrNoMoreOccurrences
	}
	return next, nil
}
