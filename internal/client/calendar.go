package client

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lysokunvoath/grex/internal/models"
	"github.com/lysokunvoath/grex/internal/navigation"
	"github.com/lysokunvoath/grex/internal/viewmodel"
)

// CalendarPage is the week grid of meetups.
type CalendarPage struct {
	app *App

	mu       sync.Mutex
	anchor   time.Time
	selected viewmodel.Selection
}

func newCalendarPage(app *App) *CalendarPage {
	return &CalendarPage{app: app, anchor: viewmodel.WeekStart(app.now())}
}

func (p *CalendarPage) Screen() navigation.Screen { return navigation.Calendar }

func (p *CalendarPage) WeekStart() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.anchor
}

func (p *CalendarPage) Days() []time.Time {
	return viewmodel.WeekDays(p.WeekStart())
}

func (p *CalendarPage) shift(days int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.anchor = viewmodel.WeekStart(p.anchor.AddDate(0, 0, days))
}

func (p *CalendarPage) PrevWeek() { p.shift(-viewmodel.DaysPerWeek) }
func (p *CalendarPage) NextWeek() { p.shift(viewmodel.DaysPerWeek) }

func (p *CalendarPage) Today() {
	now := p.app.now()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.anchor = viewmodel.WeekStart(now)
}

// Groups are the checkbox rows.
func (p *CalendarPage) Groups() []models.Group {
	return viewmodel.RelevantGroups(p.app.Groups(), p.app.UserID())
}

func (p *CalendarPage) IsSelected(groupID uuid.UUID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selected.Includes(groupID)
}

// ToggleGroup flips one checkbox. The first toggle turns the implicit
// all-selected state into an explicit set.
func (p *CalendarPage) ToggleGroup(groupID uuid.UUID) {
	groups := p.Groups()
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.selected == nil {
		p.selected = make(viewmodel.Selection, len(groups))
		for _, g := range groups {
			p.selected[g.ID] = true
		}
	}
	p.selected[groupID] = !p.selected[groupID]
}

// listed keeps meetups of groups that have a checkbox row. Visible public
// groups the user has not joined contribute nothing to the calendar.
func (p *CalendarPage) listed() []models.Meetup {
	rows := make(map[uuid.UUID]bool)
	for _, g := range p.Groups() {
		rows[g.ID] = true
	}
	var out []models.Meetup
	for _, m := range p.app.Meetups() {
		if rows[m.GroupID] {
			out = append(out, m)
		}
	}
	return out
}

func (p *CalendarPage) Meetups() []models.Meetup {
	meetups := p.listed()
	p.mu.Lock()
	start, sel := p.anchor, p.selected
	p.mu.Unlock()
	return viewmodel.WeekMeetups(meetups, start, sel)
}

func (p *CalendarPage) Grid() map[viewmodel.Cell][]viewmodel.CellEntry {
	meetups := p.listed()
	p.mu.Lock()
	start, sel := p.anchor, p.selected
	p.mu.Unlock()
	return viewmodel.BucketWeek(meetups, start, sel)
}

// OpenMeetup jumps to the meetup's group.
func (p *CalendarPage) OpenMeetup(m models.Meetup) error {
	return p.app.nav.OpenGroup(m.GroupID)
}
