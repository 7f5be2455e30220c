package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/lysokunvoath/grex/internal/gateway"
	"github.com/lysokunvoath/grex/internal/models"
	"github.com/lysokunvoath/grex/internal/navigation"
	"github.com/lysokunvoath/grex/internal/viewmodel"
	"github.com/pkg/errors"
)

var errClipboardUnavailable = errors.New("clipboard unavailable")

// JoinGroupPage lists public groups and joins them.
type JoinGroupPage struct {
	app *App

	mu     sync.Mutex
	board  noticeBoard
	search string
	joined map[uuid.UUID]bool
}

func newJoinGroupPage(app *App) *JoinGroupPage {
	p := &JoinGroupPage{app: app, joined: make(map[uuid.UUID]bool)}
	p.board = noticeBoard{mu: &p.mu, sched: app.sched}
	return p
}

func (p *JoinGroupPage) Screen() navigation.Screen { return navigation.JoinGroup }

func (p *JoinGroupPage) SetSearch(term string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.search = term
}

func (p *JoinGroupPage) Groups() []models.Group {
	p.mu.Lock()
	term := p.search
	p.mu.Unlock()
	return viewmodel.SearchPublic(p.app.Groups(), term)
}

func (p *JoinGroupPage) Notice() Notice {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.board.notice
}

// IsJoined reports whether the user belongs to the group or joined it here.
func (p *JoinGroupPage) IsJoined(groupID uuid.UUID) bool {
	p.mu.Lock()
	joined := p.joined[groupID]
	p.mu.Unlock()
	if joined {
		return true
	}
	g, ok := viewmodel.FindGroup(p.app.Groups(), groupID)
	return ok && g.HasMember(p.app.UserID())
}

func (p *JoinGroupPage) Join(ctx context.Context, groupID uuid.UUID) Notice {
	name := viewmodel.GroupName(p.app.Groups(), groupID)
	already := info(fmt.Sprintf("You are already a member of %q.", name))

	if p.IsJoined(groupID) {
		return p.show(already)
	}

	member, err := p.app.gw.JoinGroup(ctx, groupID)
	switch {
	case errors.Is(err, gateway.ErrAlreadyMember):
		p.mu.Lock()
		p.joined[groupID] = true
		p.mu.Unlock()
		return p.show(already)
	case err != nil:
		logFailure("join group", err)
		return p.show(failure(fmt.Sprintf("Failed to join %q: %s", name, gateway.Message(err))))
	}

	p.mu.Lock()
	p.joined[groupID] = true
	p.mu.Unlock()
	p.app.addMember(groupID, *member)
	return p.show(success(fmt.Sprintf("Successfully joined %q!", name)))
}

func (p *JoinGroupPage) show(n Notice) Notice {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.board.show(n, joinNoticeTTL)
	return n
}

func (p *JoinGroupPage) CopyGroupID(groupID uuid.UUID) Notice {
	n := copyNotice(p.app, groupID)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.board.show(n, noticeTTL)
	return n
}

func copyNotice(app *App, groupID uuid.UUID) Notice {
	if err := app.copyToClipboard(groupID.String()); err != nil {
		logFailure("copy group id", err)
		return failure("Could not copy the group ID.")
	}
	return success("Group ID copied to clipboard!")
}
