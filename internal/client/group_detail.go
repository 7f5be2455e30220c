package client

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lysokunvoath/grex/internal/gateway"
	"github.com/lysokunvoath/grex/internal/models"
	"github.com/lysokunvoath/grex/internal/navigation"
	"github.com/lysokunvoath/grex/internal/viewmodel"
	"github.com/pkg/errors"
)

type Tab string

const (
	TabActivities Tab = "activities"
	TabMembers    Tab = "members"
)

// GroupDetailPage shows one group with its activities and members.
type GroupDetailPage struct {
	app     *App
	groupID uuid.UUID

	mu      sync.Mutex
	board   noticeBoard
	members []models.GroupMember
	loaded  bool
	tab     Tab

	addOpen     bool
	newMemberID string
}

func newGroupDetailPage(app *App, groupID uuid.UUID) *GroupDetailPage {
	p := &GroupDetailPage{app: app, groupID: groupID, tab: TabActivities}
	p.board = noticeBoard{mu: &p.mu, sched: app.sched}
	return p
}

func (p *GroupDetailPage) Screen() navigation.Screen { return navigation.GroupDetail }

func (p *GroupDetailPage) GroupID() uuid.UUID { return p.groupID }

// Load fetches the member list. Until it succeeds the page has no members
// and no member-derived permissions.
func (p *GroupDetailPage) Load(ctx context.Context) error {
	members, err := p.app.gw.ListMembers(ctx, p.groupID)
	if err != nil {
		logFailure("list members", err)
		return err
	}
	p.mu.Lock()
	p.members = members
	p.loaded = true
	p.mu.Unlock()
	return nil
}

func (p *GroupDetailPage) Loaded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded
}

func (p *GroupDetailPage) Group() (models.Group, bool) {
	return viewmodel.FindGroup(p.app.Groups(), p.groupID)
}

func (p *GroupDetailPage) Name() string {
	return viewmodel.GroupName(p.app.Groups(), p.groupID)
}

func (p *GroupDetailPage) Members() []models.GroupMember {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.GroupMember(nil), p.members...)
}

func (p *GroupDetailPage) Permissions() viewmodel.GroupPermissions {
	g, _ := p.Group()
	return viewmodel.Permissions(g, p.Members(), p.app.UserID())
}

func (p *GroupDetailPage) Upcoming() []models.Meetup {
	return viewmodel.UpcomingMeetups(p.app.Meetups(), p.groupID, p.app.now())
}

func (p *GroupDetailPage) Tab() Tab {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tab
}

func (p *GroupDetailPage) SetTab(t Tab) {
	if t != TabActivities && t != TabMembers {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tab = t
}

func (p *GroupDetailPage) Notice() Notice {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.board.notice
}

func (p *GroupDetailPage) show(n Notice, ttl time.Duration) Notice {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.board.show(n, ttl)
	return n
}

// TogglePrivacy flips the public flag. The local group changes only after
// the gateway accepts it.
func (p *GroupDetailPage) TogglePrivacy(ctx context.Context) Notice {
	g, ok := p.Group()
	if !ok || !p.Permissions().CanTogglePrivacy {
		return Notice{}
	}
	want := !g.IsPublic
	if _, err := p.app.gw.SetGroupPublic(ctx, p.groupID, want); err != nil {
		logFailure("toggle privacy", err)
		return p.show(failure("Failed to change privacy: "+gateway.Message(err)), noticeTTL)
	}
	p.app.patchGroup(p.groupID, func(g *models.Group) { g.IsPublic = want })
	if want {
		return p.show(success("Group is now public."), noticeTTL)
	}
	return p.show(success("Group is now private."), noticeTTL)
}

func (p *GroupDetailPage) CopyGroupID() Notice {
	return p.show(copyNotice(p.app, p.groupID), noticeTTL)
}

func (p *GroupDetailPage) AddMemberOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.addOpen
}

func (p *GroupDetailPage) NewMemberID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.newMemberID
}

// OpenAddMember opens the add-member modal for owners.
func (p *GroupDetailPage) OpenAddMember() bool {
	if !p.Permissions().CanAddMember {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.addOpen = true
	return true
}

func (p *GroupDetailPage) CancelAddMember() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.addOpen = false
	p.newMemberID = ""
}

func (p *GroupDetailPage) SetNewMemberID(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.newMemberID = id
}

// ConfirmAddMember adds the user typed into the modal. A duplicate keeps the
// modal open.
func (p *GroupDetailPage) ConfirmAddMember(ctx context.Context) Notice {
	p.mu.Lock()
	open := p.addOpen
	raw := strings.TrimSpace(p.newMemberID)
	p.mu.Unlock()
	if !open {
		return Notice{}
	}

	userID, err := uuid.Parse(raw)
	if raw == "" || err != nil {
		return p.show(failure("Please enter a valid member ID."), 0)
	}

	member, err := p.app.gw.AddMember(ctx, p.groupID, userID)
	switch {
	case errors.Is(err, gateway.ErrAlreadyMember):
		return p.show(info("User is already a member."), 0)
	case err != nil:
		logFailure("add member", err)
		return p.show(failure("Failed to add member: "+gateway.Message(err)), 0)
	}

	p.app.addMember(p.groupID, *member)
	p.mu.Lock()
	p.members = append(p.members, *member)
	p.addOpen = false
	p.newMemberID = ""
	p.mu.Unlock()

	who := member.DisplayName
	if who == "" {
		who = member.UserID.String()
	}
	return p.show(success(fmt.Sprintf("User %s has been added.", who)), noticeTTL)
}

// Leave removes the current user after confirmation and returns home.
func (p *GroupDetailPage) Leave(ctx context.Context, confirm Confirm) Notice {
	if !p.Permissions().CanLeave {
		return Notice{}
	}
	if confirm == nil || !confirm(fmt.Sprintf("Are you sure you want to leave %q?", p.Name())) {
		return Notice{}
	}
	userID := p.app.UserID()
	if err := p.app.gw.RemoveMember(ctx, p.groupID, userID); err != nil {
		logFailure("leave group", err)
		return p.show(failure("Failed to leave group: "+gateway.Message(err)), 0)
	}
	p.app.removeMember(p.groupID, userID)
	_ = p.app.nav.Go(navigation.Home)
	return success(fmt.Sprintf("You left %q.", p.Name()))
}

// Delete removes the group with its members and meetups after confirmation.
func (p *GroupDetailPage) Delete(ctx context.Context, confirm Confirm) Notice {
	if !p.Permissions().CanDelete {
		return Notice{}
	}
	name := p.Name()
	if confirm == nil || !confirm(fmt.Sprintf("Are you sure you want to delete %q? This is irreversible.", name)) {
		return Notice{}
	}
	if err := p.app.gw.DeleteGroup(ctx, p.groupID); err != nil {
		logFailure("delete group", err)
		return p.show(failure("Failed to delete group: "+gateway.Message(err)), 0)
	}
	p.app.removeGroup(p.groupID)
	_ = p.app.nav.Go(navigation.Home)
	return success(fmt.Sprintf("Deleted %q.", name))
}

func (p *GroupDetailPage) OpenAddActivity() error {
	if !p.Permissions().CanAddActivity {
		return gateway.ErrForbidden
	}
	return p.app.nav.OpenAddActivity(p.groupID)
}
