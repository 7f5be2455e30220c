package client

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/lysokunvoath/grex/internal/gateway"
	"github.com/lysokunvoath/grex/internal/models"
	"github.com/lysokunvoath/grex/internal/navigation"
	"github.com/lysokunvoath/grex/internal/validation"
	"github.com/lysokunvoath/grex/internal/viewmodel"
	"github.com/pkg/errors"
)

// AddActivityPage schedules a meetup for one group.
type AddActivityPage struct {
	app     *App
	groupID uuid.UUID

	mu          sync.Mutex
	board       noticeBoard
	subject     string
	date        string
	clock       string
	description string
	submitting  bool
}

func newAddActivityPage(app *App, groupID uuid.UUID) *AddActivityPage {
	p := &AddActivityPage{app: app, groupID: groupID}
	p.board = noticeBoard{mu: &p.mu, sched: app.sched}
	return p
}

func (p *AddActivityPage) Screen() navigation.Screen { return navigation.AddActivity }

func (p *AddActivityPage) GroupName() string {
	return viewmodel.GroupName(p.app.Groups(), p.groupID)
}

func (p *AddActivityPage) SetSubject(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subject = s
}

// SetDate takes YYYY-MM-DD.
func (p *AddActivityPage) SetDate(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.date = s
}

// SetTime takes HH:MM.
func (p *AddActivityPage) SetTime(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clock = s
}

func (p *AddActivityPage) SetDescription(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.description = s
}

func (p *AddActivityPage) Notice() Notice {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.board.notice
}

func dateTimeMessage(err error) string {
	switch {
	case errors.Is(err, validation.ErrMissingDate):
		return "Please pick a date."
	case errors.Is(err, validation.ErrMissingTime):
		return "Please pick a time."
	case errors.Is(err, validation.ErrBadDate):
		return "Date must look like 2006-01-02."
	case errors.Is(err, validation.ErrBadTime):
		return "Time must look like 15:04."
	}
	return "Please check the date and time."
}

// Submit creates the meetup. After success the page returns to the group
// once activityNavWait has passed.
func (p *AddActivityPage) Submit(ctx context.Context) Notice {
	p.mu.Lock()
	if p.submitting {
		p.mu.Unlock()
		return Notice{}
	}
	subject := strings.TrimSpace(p.subject)
	description := strings.TrimSpace(p.description)
	date, clock := p.date, p.clock
	p.mu.Unlock()

	if subject == "" {
		return p.fail("Please enter a subject.")
	}
	when, err := validation.ParseDateTime(date, clock, p.app.now().Location())
	if err != nil {
		return p.fail(dateTimeMessage(err))
	}

	p.mu.Lock()
	p.submitting = true
	p.board.clear()
	p.mu.Unlock()

	meetup, err := p.app.gw.CreateMeetup(ctx, p.groupID, gateway.CreateMeetupInput{
		Title:       subject,
		Description: description,
		DateTime:    when,
	})
	if err != nil {
		logFailure("create meetup", err)
		p.mu.Lock()
		p.submitting = false
		p.mu.Unlock()
		return p.fail("Failed to add activity: " + gateway.Message(err))
	}
	p.app.addMeetup(*meetup)
	return p.succeed(*meetup)
}

func (p *AddActivityPage) fail(text string) Notice {
	n := failure(text)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.board.show(n, 0)
	return n
}

func (p *AddActivityPage) succeed(m models.Meetup) Notice {
	n := success("Activity added successfully!")
	p.mu.Lock()
	defer p.mu.Unlock()
	p.board.show(n, 0)
	gen := p.board.gen
	p.app.sched.AfterFunc(activityNavWait, func() {
		p.mu.Lock()
		if p.board.gen == gen {
			p.board.clear()
		}
		p.submitting = false
		p.mu.Unlock()
		here := navigation.Route{Screen: navigation.AddActivity, GroupID: p.groupID}
		if p.app.nav.Current() == here {
			_ = p.app.nav.OpenGroup(m.GroupID)
		}
	})
	return n
}
