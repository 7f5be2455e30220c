package viewmodel

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lysokunvoath/grex/internal/models"
)

const (
	DaysPerWeek = 7
	HoursPerDay = 24

	// CellHeightRem is the rendered height of one hour cell.
	CellHeightRem = 4.0
)

// WeekStart returns Monday 00:00 of t's week in t's location.
func WeekStart(t time.Time) time.Time {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	offset := (int(midnight.Weekday()) + 6) % DaysPerWeek
	return midnight.AddDate(0, 0, -offset)
}

// WeekDays lists the seven days starting at start.
func WeekDays(start time.Time) []time.Time {
	days := make([]time.Time, DaysPerWeek)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// Selection is the set of groups shown on the calendar. A nil Selection shows all.
type Selection map[uuid.UUID]bool

func (s Selection) Includes(groupID uuid.UUID) bool {
	return s == nil || s[groupID]
}

// WeekMeetups keeps selected meetups in [weekStart, weekStart+7d).
func WeekMeetups(meetups []models.Meetup, weekStart time.Time, selected Selection) []models.Meetup {
	end := weekStart.AddDate(0, 0, DaysPerWeek)
	out := make([]models.Meetup, 0)
	for _, mt := range meetups {
		if !selected.Includes(mt.GroupID) {
			continue
		}
		if mt.DateTime.Before(weekStart) || !mt.DateTime.Before(end) {
			continue
		}
		out = append(out, mt)
	}
	return out
}

// Cell addresses one hour slot of the week grid. Day 0 is Monday.
type Cell struct {
	Day  int
	Hour int
}

// CellEntry is a meetup placed inside its hour cell.
type CellEntry struct {
	Meetup models.Meetup
	// Offset is the fraction of the hour elapsed at the start time.
	Offset float64
}

// TopOffsetRem is the entry's distance from the top of a cell of the given height.
func (e CellEntry) TopOffsetRem(cellHeightRem float64) float64 {
	return e.Offset * cellHeightRem
}

// BucketWeek groups the week's selected meetups by day and hour, sorted by
// start time within a cell.
func BucketWeek(meetups []models.Meetup, weekStart time.Time, selected Selection) map[Cell][]CellEntry {
	loc := weekStart.Location()
	grid := make(map[Cell][]CellEntry)
	for _, mt := range WeekMeetups(meetups, weekStart, selected) {
		local := mt.DateTime.In(loc)
		day := (int(local.Weekday()) + 6) % DaysPerWeek
		cell := Cell{Day: day, Hour: local.Hour()}
		grid[cell] = append(grid[cell], CellEntry{
			Meetup: mt,
			Offset: float64(local.Minute()) / 60,
		})
	}
	for cell := range grid {
		entries := grid[cell]
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Meetup.DateTime.Before(entries[j].Meetup.DateTime)
		})
	}
	return grid
}
