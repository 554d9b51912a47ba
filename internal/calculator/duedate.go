package calculator

import (
	"time"

	"github.com/PixelCode01/SHG-Mangement-sub000/internal/models"
)

// DueDate returns the due date of the active period as a UTC date.
//
// periodStart anchors MONTHLY schedules to the period's own month so a period
// viewed in a later calendar month keeps its original due date. When it is nil
// the month of today is used instead. The other frequencies resolve the most
// recent occurrence on or before today.
func DueDate(schedule models.Schedule, periodStart *time.Time, today time.Time) (time.Time, error) {
	if err := schedule.Validate(); err != nil {
		return time.Time{}, err
	}
	today = DateOf(today)

	switch schedule.Frequency {
	case models.FrequencyWeekly:
		back := (int(today.Weekday()) - int(schedule.DayOfWeek) + 7) % 7
		return today.AddDate(0, 0, -back), nil

	case models.FrequencyFortnightly:
		weeks := fortnightWeeks(schedule.WeekOfMonth)
		for _, monthStart := range []time.Time{monthOf(today), monthOf(today).AddDate(0, -1, 0)} {
			for i := len(weeks) - 1; i >= 0; i-- {
				d := nthWeekday(monthStart, schedule.DayOfWeek, weeks[i])
				if !d.After(today) {
					return d, nil
				}
			}
		}
		// unreachable: the previous month's last occurrence is always before today
		return nthWeekday(monthOf(today).AddDate(0, -1, 0), schedule.DayOfWeek, weeks[len(weeks)-1]), nil

	case models.FrequencyMonthly:
		anchor := today
		if periodStart != nil {
			anchor = DateOf(*periodStart)
		}
		return clampedDate(anchor.Year(), anchor.Month(), schedule.DayOfMonth), nil

	case models.FrequencyYearly:
		d := clampedDate(today.Year(), schedule.Month, schedule.DayOfMonth)
		if d.After(today) {
			d = clampedDate(today.Year()-1, schedule.Month, schedule.DayOfMonth)
		}
		return d, nil
	}
	return time.Time{}, models.NewValidationError("INVALID_FREQUENCY", "schedule.frequency", "unknown collection frequency")
}

// DaysLate returns the whole days between due and asOf, compared as UTC dates
// and floored at zero.
func DaysLate(due, asOf time.Time) int {
	days := int(DateOf(asOf).Sub(DateOf(due)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// DateOf truncates t to midnight UTC of its UTC calendar date.
func DateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NextPeriodStart advances start by one collection step of frequency.
// Monthly steps clamp to the end of the target month (Jan 31 -> Feb 28).
func NextPeriodStart(frequency models.Frequency, start time.Time) time.Time {
	start = DateOf(start)
	switch frequency {
	case models.FrequencyWeekly:
		return start.AddDate(0, 0, 7)
	case models.FrequencyFortnightly:
		return start.AddDate(0, 0, 14)
	case models.FrequencyYearly:
		return clampedDate(start.Year()+1, start.Month(), start.Day())
	default:
		next := monthOf(start).AddDate(0, 1, 0)
		return clampedDate(next.Year(), next.Month(), start.Day())
	}
}

func fortnightWeeks(weekOfMonth int) []int {
	if weekOfMonth == 2 || weekOfMonth == 4 {
		return []int{2, 4}
	}
	return []int{1, 3}
}

// nthWeekday returns the n-th occurrence of wd in the month starting at monthStart.
func nthWeekday(monthStart time.Time, wd time.Weekday, n int) time.Time {
	offset := (int(wd) - int(monthStart.Weekday()) + 7) % 7
	return monthStart.AddDate(0, 0, offset+7*(n-1))
}

func monthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func clampedDate(year int, month time.Month, day int) time.Time {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
