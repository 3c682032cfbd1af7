package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asifshaikgit/workforce-sub006/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextOccurrence_FirstOccurrenceOneIntervalAfterStart(t *testing.T) {
	end := date(2024, 12, 31)
	cfg := &models.RecurringConfiguration{
		CycleType:     models.CycleMonth,
		IntervalCount: 1,
		StartDate:     date(2024, 1, 15),
		EndDate:       &end,
	}

	next, err := NextOccurrence(cfg)
	require.NoError(t, err)
	assert.Equal(t, date(2024, 2, 15), next)
}

func TestNextOccurrence_MonthlyScheduleRunsToExhaustion(t *testing.T) {
	// Monthly from Jan 15 ending Mar 1: the schedule yields exactly one
	// occurrence, Feb 15, and the next computed date Mar 15 exhausts it.
	end := date(2024, 3, 1)
	cfg := &models.RecurringConfiguration{
		CycleType:     models.CycleMonth,
		IntervalCount: 1,
		StartDate:     date(2024, 1, 15),
		EndDate:       &end,
	}

	first, err := NextOccurrence(cfg)
	require.NoError(t, err)
	require.Equal(t, date(2024, 2, 15), first)

	cfg.LastOccurrence = &first
	cfg.OccurrenceCount = 1

	_, err = NextOccurrence(cfg)
	assert.ErrorIs(t, err, ErrNoMoreOccurrences)
}

func TestNextOccurrence_MonthlyAdvance(t *testing.T) {
	end := date(2024, 12, 31)
	last := date(2024, 1, 15)
	cfg := &models.RecurringConfiguration{
		CycleType:      models.CycleMonth,
		IntervalCount:  1,
		StartDate:      date(2024, 1, 15),
		EndDate:        &end,
		LastOccurrence: &last,
	}

	next, err := NextOccurrence(cfg)
	require.NoError(t, err)
	assert.Equal(t, date(2024, 2, 15), next)
}

func TestNextOccurrence_ExhaustedPastEndDate(t *testing.T) {
	// Monthly from Jan 15 with end date Mar 1: Feb 15 fires, the next
	// computed date Mar 15 falls past the end, so the schedule is done.
	end := date(2024, 3, 1)
	last := date(2024, 2, 15)
	cfg := &models.RecurringConfiguration{
		CycleType:      models.CycleMonth,
		IntervalCount:  1,
		StartDate:      date(2024, 1, 15),
		EndDate:        &end,
		LastOccurrence: &last,
	}

	_, err := NextOccurrence(cfg)
	assert.ErrorIs(t, err, ErrNoMoreOccurrences)
}

func TestNextOccurrence_NeverExpires(t *testing.T) {
	last := date(2030, 6, 1)
	cfg := &models.RecurringConfiguration{
		CycleType:      models.CycleYear,
		IntervalCount:  2,
		StartDate:      date(2020, 6, 1),
		NeverExpires:   true,
		LastOccurrence: &last,
	}

	next, err := NextOccurrence(cfg)
	require.NoError(t, err)
	assert.Equal(t, date(2032, 6, 1), next)
}

func TestNextOccurrence_WeeklyInterval(t *testing.T) {
	end := date(2024, 3, 1)
	last := date(2024, 1, 1)
	cfg := &models.RecurringConfiguration{
		CycleType:      models.CycleWeek,
		IntervalCount:  2,
		StartDate:      date(2024, 1, 1),
		EndDate:        &end,
		LastOccurrence: &last,
	}

	next, err := NextOccurrence(cfg)
	require.NoError(t, err)
	assert.Equal(t, date(2024, 1, 15), next)
}

func TestNextOccurrence_DailyOnEndDateStillFires(t *testing.T) {
	// An occurrence landing exactly on the end date is still in range.
	end := date(2024, 1, 2)
	last := date(2024, 1, 1)
	cfg := &models.RecurringConfiguration{
		CycleType:      models.CycleDay,
		IntervalCount:  1,
		StartDate:      date(2024, 1, 1),
		EndDate:        &end,
		LastOccurrence: &last,
	}

	next, err := NextOccurrence(cfg)
	require.NoError(t, err)
	assert.Equal(t, date(2024, 1, 2), next)
}

func TestNextOccurrence_MissingEndDate(t *testing.T) {
	cfg := &models.RecurringConfiguration{
		CycleType:     models.CycleDay,
		IntervalCount: 1,
		StartDate:     date(2024, 1, 1),
	}

	_, err := NextOccurrence(cfg)
	assert.ErrorIs(t, err, ErrNoMoreOccurrences)
}

func TestNextOccurrence_UnknownCycleType(t *testing.T) {
	last := date(2024, 1, 1)
	cfg := &models.RecurringConfiguration{
		CycleType:      models.CycleType("quarter"),
		NeverExpires:   true,
		LastOccurrence: &last,
	}

	_, err := NextOccurrence(cfg)
	assert.Error(t, err)
}
