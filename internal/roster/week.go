package roster

import (
	"time"

	"github.com/javiermolinar/rota/internal/dateutil"
)

// DaysPerWeek is the number of columns in the grid.
const DaysPerWeek = 7

// WeekWindow computes the visible week and the display order of hour rows.
type WeekWindow struct {
	WeekStart  time.Weekday // first column of the grid
	ShiftStart int          // hour shown in the first row
}

// NewWeekWindow returns a window. An out of range shift start falls back to 0.
func NewWeekWindow(weekStart time.Weekday, shiftStart int) WeekWindow {
	if !ValidHour(shiftStart) {
		shiftStart = 0
	}
	return WeekWindow{WeekStart: weekStart, ShiftStart: shiftStart}
}

// Days returns the 7 calendar days of the week containing anchor.
func (w WeekWindow) Days(anchor time.Time) [DaysPerWeek]time.Time {
	var days [DaysPerWeek]time.Time
	first := dateutil.WeekStart(anchor, w.WeekStart)
	for i := range days {
		days[i] = first.AddDate(0, 0, i)
	}
	return days
}

// Range returns the first and last day of the week containing anchor.
func (w WeekWindow) Range(anchor time.Time) (start, end time.Time) {
	days := w.Days(anchor)
	return days[0], days[DaysPerWeek-1]
}

// Keys returns the date keys of the week containing anchor.
func (w WeekWindow) Keys(anchor time.Time) [DaysPerWeek]DateKey {
	var keys [DaysPerWeek]DateKey
	for i, d := range w.Days(anchor) {
		keys[i] = DateKeyOf(d)
	}
	return keys
}

// SameWeek reports whether a and b fall in the same displayed week.
func (w WeekWindow) SameWeek(a, b time.Time) bool {
	return dateutil.WeekStart(a, w.WeekStart).Equal(dateutil.WeekStart(b.In(a.Location()), w.WeekStart))
}

// OrderedHours returns the display row order: ShiftStart..23 then 0..ShiftStart-1.
// Storage keys always stay on the canonical clock.
func (w WeekWindow) OrderedHours() [HoursPerDay]int {
	var hours [HoursPerDay]int
	for i := range hours {
		hours[i] = (w.ShiftStart + i) % HoursPerDay
	}
	return hours
}

// HourAt returns the canonical hour shown on display row.
func (w WeekWindow) HourAt(row int) int {
	return (w.ShiftStart + row) % HoursPerDay
}

// HourRow returns the display row of a canonical hour, or -1 if invalid.
func (w WeekWindow) HourRow(hour int) int {
	if !ValidHour(hour) {
		return -1
	}
	return (hour - w.ShiftStart + HoursPerDay) % HoursPerDay
}

// DayIndex returns the column of date within the week containing anchor,
// or -1 if date falls outside it.
func (w WeekWindow) DayIndex(anchor, date time.Time) int {
	key := DateKeyOf(date)
	for i, k := range w.Keys(anchor) {
		if k == key {
			return i
		}
	}
	return -1
}
