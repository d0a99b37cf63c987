package tracker

import (
	"sort"
	"time"

	"github.com/dukerupert/macrolog/internal/model"
	"github.com/dukerupert/macrolog/internal/plan"
)

const dayLayout = "2006-01-02"

// DayTotal is the sum of all entries logged on one UTC day.
type DayTotal struct {
	Day     string      `json:"day"`
	Entries int         `json:"entries"`
	Totals  model.Macro `json:"totals"`
}

// WeekTotal sums the days of one Monday-based UTC week.
type WeekTotal struct {
	WeekStart    string      `json:"week_start"`
	DaysLogged   int         `json:"days_logged"`
	Totals       model.Macro `json:"totals"`
	DailyAverage model.Macro `json:"daily_average"`
}

// DayKey returns the UTC calendar day of ts as YYYY-MM-DD.
func DayKey(ts time.Time) string {
	return ts.UTC().Format(dayLayout)
}

// WeekStart returns the Monday at or before ts, at midnight UTC.
func WeekStart(ts time.Time) time.Time {
	day := ts.UTC().Truncate(24 * time.Hour)
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return day.AddDate(0, 0, -(weekday - 1))
}

// DailyTotals returns per-day sums, newest day first.
func (t *Tracker) DailyTotals() []DayTotal {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return dailyTotals(t.entries)
}

func dailyTotals(entries []model.MealEntry) []DayTotal {
	byDay := make(map[string]*DayTotal)
	for _, e := range entries {
		k := DayKey(e.Timestamp)
		d, ok := byDay[k]
		if !ok {
			d = &DayTotal{Day: k}
			byDay[k] = d
		}
		d.Entries++
		d.Totals = d.Totals.Add(e.Totals)
	}

	out := make([]DayTotal, 0, len(byDay))
	for _, d := range byDay {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day > out[j].Day })
	return out
}

// WeeklyTotals returns per-week sums, newest week first. The daily average
// is taken over days that have at least one entry.
func (t *Tracker) WeeklyTotals() []WeekTotal {
	days := t.DailyTotals()

	byWeek := make(map[string]*WeekTotal)
	for _, d := range days {
		day, err := time.Parse(dayLayout, d.Day)
		if err != nil {
			continue
		}
		k := WeekStart(day).Format(dayLayout)
		w, ok := byWeek[k]
		if !ok {
			w = &WeekTotal{WeekStart: k}
			byWeek[k] = w
		}
		w.DaysLogged++
		w.Totals = w.Totals.Add(d.Totals)
	}

	out := make([]WeekTotal, 0, len(byWeek))
	for _, w := range byWeek {
		w.DailyAverage = w.Totals.Scale(1 / float64(w.DaysLogged))
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekStart > out[j].WeekStart })
	return out
}

// Today returns the totals logged on the current UTC day.
func (t *Tracker) Today() model.Macro {
	today := DayKey(t.now())
	for _, d := range t.DailyTotals() {
		if d.Day == today {
			return d.Totals
		}
	}
	return model.Macro{}
}

// Remaining compares today's totals with the current plan.
func (t *Tracker) Remaining() plan.Remaining {
	return plan.RemainingFor(t.Plan(), t.Today())
}
