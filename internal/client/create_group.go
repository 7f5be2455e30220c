package client

import (
	"context"
	"strings"
	"sync"

	"github.com/lysokunvoath/grex/internal/gateway"
	"github.com/lysokunvoath/grex/internal/models"
	"github.com/lysokunvoath/grex/internal/navigation"
)

// CreateGroupPage is the new-group form.
type CreateGroupPage struct {
	app *App

	mu          sync.Mutex
	name        string
	description string
	private     bool
	tags        []string
	notice      Notice
	submitting  bool
}

func newCreateGroupPage(app *App) *CreateGroupPage {
	return &CreateGroupPage{app: app}
}

func (p *CreateGroupPage) Screen() navigation.Screen { return navigation.CreateGroup }

func (p *CreateGroupPage) SetName(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.name = name
}

func (p *CreateGroupPage) SetDescription(description string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.description = description
}

func (p *CreateGroupPage) SetPrivate(private bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.private = private
}

// AddTag appends a trimmed tag. Blank and repeated tags are ignored.
func (p *CreateGroupPage) AddTag(tag string) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, t := range p.tags {
		if t == tag {
			return
		}
	}
	p.tags = append(p.tags, tag)
}

func (p *CreateGroupPage) RemoveTag(tag string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, t := range p.tags {
		if t == tag {
			p.tags = append(p.tags[:i:i], p.tags[i+1:]...)
			return
		}
	}
}

func (p *CreateGroupPage) Tags() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.tags...)
}

func (p *CreateGroupPage) Notice() Notice {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.notice
}

// Submit creates the group and returns home. On failure the form is kept.
func (p *CreateGroupPage) Submit(ctx context.Context) (*models.Group, Notice) {
	p.mu.Lock()
	if p.submitting {
		p.mu.Unlock()
		return nil, Notice{}
	}
	input := gateway.CreateGroupInput{
		Name:        strings.TrimSpace(p.name),
		Description: strings.TrimSpace(p.description),
		IsPublic:    !p.private,
		Tags:        append([]string(nil), p.tags...),
	}
	if input.Name == "" {
		p.notice = failure("Group name is required.")
		n := p.notice
		p.mu.Unlock()
		return nil, n
	}
	p.submitting = true
	p.notice = Notice{}
	p.mu.Unlock()

	group, err := p.app.gw.CreateGroup(ctx, input)

	p.mu.Lock()
	p.submitting = false
	if err != nil {
		logFailure("create group", err)
		p.notice = failure("Failed to create group: " + gateway.Message(err))
		n := p.notice
		p.mu.Unlock()
		return nil, n
	}
	p.mu.Unlock()

	p.app.upsertGroup(*group)
	_ = p.app.nav.Go(navigation.Home)
	return group, success("Group created!")
}
