package calculator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PixelCode01/SHG-Mangement-sub000/internal/models"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDueDate(t *testing.T) {
	weekly := models.Schedule{Frequency: models.FrequencyWeekly, DayOfWeek: time.Monday, HasDayOfWeek: true}
	fortnightOdd := models.Schedule{Frequency: models.FrequencyFortnightly, DayOfWeek: time.Monday, HasDayOfWeek: true, WeekOfMonth: 1}
	fortnightEven := models.Schedule{Frequency: models.FrequencyFortnightly, DayOfWeek: time.Monday, HasDayOfWeek: true, WeekOfMonth: 4}
	periodStart := date("2024-02-10")

	tests := []struct {
		name        string
		schedule    models.Schedule
		periodStart *time.Time
		today       time.Time
		want        string
	}{
		{"weekly earlier in week", weekly, nil, date("2024-03-15"), "2024-03-11"},
		{"weekly on the day", weekly, nil, date("2024-03-18"), "2024-03-18"},
		{"fortnightly first week", fortnightOdd, nil, date("2024-03-15"), "2024-03-04"},
		{"fortnightly third week", fortnightOdd, nil, date("2024-03-20"), "2024-03-18"},
		{"fortnightly falls back to previous month", fortnightOdd, nil, date("2024-03-02"), "2024-02-19"},
		{"fortnightly even weeks", fortnightEven, nil, date("2024-03-15"), "2024-03-11"},
		{"fortnightly even weeks previous month", fortnightEven, nil, date("2024-03-05"), "2024-02-26"},
		{
			name:        "monthly uses period start month",
			schedule:    models.Schedule{Frequency: models.FrequencyMonthly, DayOfMonth: 15},
			periodStart: &periodStart,
			today:       date("2024-04-20"),
			want:        "2024-02-15",
		},
		{
			name:        "monthly clamps to month end",
			schedule:    models.Schedule{Frequency: models.FrequencyMonthly, DayOfMonth: 31},
			periodStart: &periodStart,
			today:       date("2024-04-20"),
			want:        "2024-02-29",
		},
		{
			name:     "monthly without period uses current month",
			schedule: models.Schedule{Frequency: models.FrequencyMonthly, DayOfMonth: 10},
			today:    date("2024-03-15"),
			want:     "2024-03-10",
		},
		{
			name:     "yearly already passed this year",
			schedule: models.Schedule{Frequency: models.FrequencyYearly, Month: time.March, DayOfMonth: 10},
			today:    date("2024-03-15"),
			want:     "2024-03-10",
		},
		{
			name:     "yearly not yet reached uses last year",
			schedule: models.Schedule{Frequency: models.FrequencyYearly, Month: time.March, DayOfMonth: 20},
			today:    date("2024-03-15"),
			want:     "2023-03-20",
		},
		{
			name:     "yearly leap day clamps",
			schedule: models.Schedule{Frequency: models.FrequencyYearly, Month: time.February, DayOfMonth: 29},
			today:    date("2025-03-01"),
			want:     "2025-02-28",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DueDate(tt.schedule, tt.periodStart, tt.today)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Format("2006-01-02"))
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestDueDate_MissingScheduleField(t *testing.T) {
	schedules := []models.Schedule{
		{Frequency: models.FrequencyWeekly},
		{Frequency: models.FrequencyFortnightly, DayOfWeek: time.Monday, HasDayOfWeek: true},
		{Frequency: models.FrequencyMonthly},
		{Frequency: models.FrequencyYearly, DayOfMonth: 5},
		{Frequency: "DAILY"},
	}
	for _, s := range schedules {
		_, err := DueDate(s, nil, date("2024-03-15"))
		require.Error(t, err, "frequency %s", s.Frequency)
		assert.True(t, models.IsValidation(err))
	}
}

func TestDaysLate(t *testing.T) {
	due := date("2024-03-10")

	assert.Equal(t, 5, DaysLate(due, time.Date(2024, 3, 15, 13, 45, 0, 0, time.UTC)))
	assert.Equal(t, 0, DaysLate(due, due))
	assert.Equal(t, 0, DaysLate(due, date("2024-03-01")))
	assert.Equal(t, 1, DaysLate(due, time.Date(2024, 3, 11, 0, 0, 1, 0, time.UTC)))
}

func TestNextPeriodStart(t *testing.T) {
	tests := []struct {
		frequency models.Frequency
		start     string
		want      string
	}{
		{models.FrequencyWeekly, "2024-03-04", "2024-03-11"},
		{models.FrequencyFortnightly, "2024-03-04", "2024-03-18"},
		{models.FrequencyMonthly, "2024-01-31", "2024-02-29"},
		{models.FrequencyMonthly, "2024-12-15", "2025-01-15"},
		{models.FrequencyYearly, "2024-02-29", "2025-02-28"},
	}
	for _, tt := range tests {
		t.Run(string(tt.frequency)+" "+tt.start, func(t *testing.T) {
			got := NextPeriodStart(tt.frequency, date(tt.start))
			assert.Equal(t, tt.want, got.Format("2006-01-02"))
		})
	}
}
