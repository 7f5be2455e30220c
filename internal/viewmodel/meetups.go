package viewmodel

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lysokunvoath/grex/internal/models"
)

// TodayMeetups keeps meetups on the calendar day of now, in now's location.
func TodayMeetups(meetups []models.Meetup, now time.Time) []models.Meetup {
	y, m, d := now.Date()
	out := make([]models.Meetup, 0)
	for _, mt := range meetups {
		my, mm, md := mt.DateTime.In(now.Location()).Date()
		if my == y && mm == m && md == d {
			out = append(out, mt)
		}
	}
	return out
}

// UpcomingMeetups keeps the group's meetups strictly after now, soonest first.
func UpcomingMeetups(meetups []models.Meetup, groupID uuid.UUID, now time.Time) []models.Meetup {
	out := make([]models.Meetup, 0)
	for _, mt := range meetups {
		if mt.GroupID == groupID && mt.DateTime.After(now) {
			out = append(out, mt)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DateTime.Before(out[j].DateTime) })
	return out
}

// TodayEntry pairs a meetup with its group's display name.
type TodayEntry struct {
	Meetup    models.Meetup
	GroupName string
}

func TodayWithGroups(meetups []models.Meetup, groups []models.Group, now time.Time) []TodayEntry {
	today := TodayMeetups(meetups, now)
	out := make([]TodayEntry, 0, len(today))
	for _, mt := range today {
		out = append(out, TodayEntry{Meetup: mt, GroupName: GroupName(groups, mt.GroupID)})
	}
	return out
}
