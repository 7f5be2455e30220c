package viewmodel

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lysokunvoath/grex/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func group(name string, owner uuid.UUID, public bool, members ...uuid.UUID) models.Group {
	g := models.Group{ID: uuid.New(), Name: name, CreatorID: owner, IsPublic: public}
	for _, m := range members {
		g.Members = append(g.Members, models.GroupMember{GroupID: g.ID, UserID: m})
	}
	return g
}

func names(groups []models.Group) []string {
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.Name)
	}
	return out
}

func TestRelevantGroups(t *testing.T) {
	me, other := uuid.New(), uuid.New()
	groups := []models.Group{
		group("Owned", me, true),
		group("Joined", other, false, other, me),
		group("Foreign", other, true, other),
	}

	assert.Equal(t, []string{"Owned", "Joined"}, names(RelevantGroups(groups, me)))
	assert.Empty(t, RelevantGroups(groups, uuid.New()))
}

func TestSortFavoritesFirst(t *testing.T) {
	me := uuid.New()
	a, b, c, d := group("A", me, true), group("B", me, true), group("C", me, true), group("D", me, true)
	in := []models.Group{a, b, c, d}

	t.Run("favourites lead and order is stable", func(t *testing.T) {
		out := SortFavoritesFirst(in, NewFavoriteSet(c.ID, a.ID))
		assert.Equal(t, []string{"A", "C", "B", "D"}, names(out))
	})

	t.Run("input untouched", func(t *testing.T) {
		SortFavoritesFirst(in, NewFavoriteSet(d.ID))
		assert.Equal(t, []string{"A", "B", "C", "D"}, names(in))
	})

	t.Run("empty in empty out", func(t *testing.T) {
		out := SortFavoritesFirst(nil, NewFavoriteSet(a.ID))
		require.NotNil(t, out)
		assert.Empty(t, out)
	})
}

func TestFilterAndSearch(t *testing.T) {
	me := uuid.New()
	groups := []models.Group{
		group("Book Club", me, true),
		group("Movie Buffs", me, false),
		group("Board Game Night", me, true),
	}

	assert.Equal(t, []string{"Book Club", "Board Game Night"}, names(FilterByName(groups, "bo")))
	assert.Len(t, FilterByName(groups, ""), 3)
	assert.Equal(t, []string{"Book Club", "Board Game Night"}, names(PublicGroups(groups)))
	assert.Empty(t, SearchPublic(groups, "movie"))
	assert.Equal(t, []string{"Board Game Night"}, names(SearchPublic(groups, "GAME")))
}

func TestGroupName(t *testing.T) {
	g := group("Hiking Buddies", uuid.New(), true)
	assert.Equal(t, "Hiking Buddies", GroupName([]models.Group{g}, g.ID))
	assert.Equal(t, UnknownGroupName, GroupName([]models.Group{g}, uuid.New()))
}

func TestTodayMeetups(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, loc)
	gid := uuid.New()
	meetups := []models.Meetup{
		{Title: "last second", GroupID: gid, DateTime: time.Date(2024, 3, 15, 23, 59, 59, 0, loc)},
		{Title: "tomorrow", GroupID: gid, DateTime: time.Date(2024, 3, 16, 0, 0, 0, 0, loc)},
		// 18:00 UTC on the 14th is 01:00 on the 15th in loc.
		{Title: "utc morning", GroupID: gid, DateTime: time.Date(2024, 3, 14, 18, 0, 0, 0, time.UTC)},
		{Title: "next year", GroupID: gid, DateTime: time.Date(2025, 3, 15, 10, 0, 0, 0, loc)},
	}

	var got []string
	for _, e := range TodayWithGroups(meetups, nil, now) {
		got = append(got, e.Meetup.Title)
		assert.Equal(t, UnknownGroupName, e.GroupName)
	}
	assert.Equal(t, []string{"last second", "utc morning"}, got)
}

func TestUpcomingMeetups(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	gid, other := uuid.New(), uuid.New()
	meetups := []models.Meetup{
		{Title: "later", GroupID: gid, DateTime: now.Add(48 * time.Hour)},
		{Title: "now", GroupID: gid, DateTime: now},
		{Title: "soon", GroupID: gid, DateTime: now.Add(time.Hour)},
		{Title: "elsewhere", GroupID: other, DateTime: now.Add(time.Hour)},
		{Title: "past", GroupID: gid, DateTime: now.Add(-time.Hour)},
	}

	out := UpcomingMeetups(meetups, gid, now)
	require.Len(t, out, 2)
	assert.Equal(t, "soon", out[0].Title)
	assert.Equal(t, "later", out[1].Title)
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"Friday", time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC), time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)},
		{"Monday midnight", time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)},
		{"Sunday late", time.Date(2024, 3, 17, 23, 59, 0, 0, time.UTC), time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)},
		{"Across a month", time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC), time.Date(2024, 2, 26, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(WeekStart(tt.in)), "WeekStart(%v) = %v", tt.in, WeekStart(tt.in))
		})
	}

	days := WeekDays(time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC))
	require.Len(t, days, DaysPerWeek)
	assert.Equal(t, time.Monday, days[0].Weekday())
	assert.Equal(t, time.Sunday, days[6].Weekday())
}

func TestWeekMeetupsAndBuckets(t *testing.T) {
	start := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	chess, hiking := uuid.New(), uuid.New()
	meetups := []models.Meetup{
		{Title: "monday open", GroupID: chess, DateTime: start},
		{Title: "friday blitz", GroupID: chess, DateTime: time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)},
		{Title: "friday early", GroupID: chess, DateTime: time.Date(2024, 3, 15, 18, 5, 0, 0, time.UTC)},
		{Title: "sunday trail", GroupID: hiking, DateTime: time.Date(2024, 3, 17, 8, 0, 0, 0, time.UTC)},
		{Title: "next monday", GroupID: hiking, DateTime: start.AddDate(0, 0, 7)},
		{Title: "last sunday", GroupID: hiking, DateTime: start.Add(-time.Second)},
	}

	assert.Len(t, WeekMeetups(meetups, start, nil), 4)
	assert.Len(t, WeekMeetups(meetups, start, Selection{chess: true}), 3)
	assert.Empty(t, WeekMeetups(meetups, start, Selection{}))

	grid := BucketWeek(meetups, start, nil)
	friday := grid[Cell{Day: 4, Hour: 18}]
	require.Len(t, friday, 2)
	assert.Equal(t, "friday early", friday[0].Meetup.Title)
	assert.Equal(t, 0.5, friday[1].Offset)
	assert.Equal(t, 2.0, friday[1].TopOffsetRem(CellHeightRem))

	require.Len(t, grid[Cell{Day: 0, Hour: 0}], 1)
	require.Len(t, grid[Cell{Day: 6, Hour: 8}], 1)
	assert.Equal(t, 0.0, grid[Cell{Day: 6, Hour: 8}][0].Offset)

	assert.NotContains(t, BucketWeek(meetups, start, Selection{chess: true}), Cell{Day: 6, Hour: 8})

	late := []models.Meetup{{Title: "late close", GroupID: chess, DateTime: time.Date(2024, 3, 13, 21, 59, 0, 0, time.UTC)}}
	lateGrid := BucketWeek(late, start, nil)
	require.Len(t, lateGrid[Cell{Day: 2, Hour: 21}], 1)
	assert.InDelta(t, 59.0/60, lateGrid[Cell{Day: 2, Hour: 21}][0].Offset, 1e-9)
	assert.NotContains(t, lateGrid, Cell{Day: 2, Hour: 22})
}

func TestPermissions(t *testing.T) {
	owner, member, stranger := uuid.New(), uuid.New(), uuid.New()
	g := models.Group{ID: uuid.New(), CreatorID: owner}
	members := []models.GroupMember{{UserID: owner, Role: models.RoleOwner}, {UserID: member}}

	tests := []struct {
		name string
		user uuid.UUID
		want GroupPermissions
	}{
		{"Owner", owner, GroupPermissions{IsOwner: true, IsMember: true, CanAddActivity: true, CanAddMember: true, CanTogglePrivacy: true, CanDelete: true}},
		{"Member", member, GroupPermissions{IsMember: true, CanAddActivity: true, CanLeave: true}},
		{"Stranger", stranger, GroupPermissions{}},
		{"Anonymous", uuid.Nil, GroupPermissions{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Permissions(g, members, tt.user))
		})
	}
}
