package client

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lysokunvoath/grex/internal/gateway"
	"github.com/lysokunvoath/grex/internal/models"
)

// fakeGateway is an in-memory Gateway. errs forces a method, by name, to fail.
type fakeGateway struct {
	mu        sync.Mutex
	session   *gateway.Session
	users     map[uuid.UUID]models.UserResponse
	groups    []models.Group
	members   map[uuid.UUID][]models.GroupMember
	meetups   []models.Meetup
	errs      map[string]error
	calls     []string
	listeners map[int]gateway.AuthListener
	nextID    int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		users:     make(map[uuid.UUID]models.UserResponse),
		members:   make(map[uuid.UUID][]models.GroupMember),
		errs:      make(map[string]error),
		listeners: make(map[int]gateway.AuthListener),
	}
}

func (f *fakeGateway) addUser(name string) models.UserResponse {
	u := models.UserResponse{ID: uuid.New(), DisplayName: name, Email: name + "@example.com"}
	f.users[u.ID] = u
	return u
}

func (f *fakeGateway) signedIn(u models.UserResponse) {
	f.session = &gateway.Session{AccessToken: "token", User: u}
}

func (f *fakeGateway) addGroup(name string, owner uuid.UUID, public bool, members ...uuid.UUID) models.Group {
	g := models.Group{ID: uuid.New(), Name: name, IsPublic: public, CreatorID: owner, CreatedAt: time.Now()}
	f.members[g.ID] = append(f.members[g.ID], f.member(g.ID, owner, models.RoleOwner))
	for _, m := range members {
		f.members[g.ID] = append(f.members[g.ID], f.member(g.ID, m, models.RoleMember))
	}
	f.groups = append(f.groups, g)
	return g
}

func (f *fakeGateway) member(groupID, userID uuid.UUID, role models.GroupRole) models.GroupMember {
	return models.GroupMember{
		GroupID:     groupID,
		UserID:      userID,
		Role:        role,
		DisplayName: f.users[userID].DisplayName,
	}
}

func (f *fakeGateway) addMeetup(groupID uuid.UUID, title string, at time.Time) models.Meetup {
	m := models.Meetup{ID: uuid.New(), GroupID: groupID, Title: title, DateTime: at}
	f.meetups = append(f.meetups, m)
	return m
}

// called records the call and returns any forced error.
func (f *fakeGateway) called(name string) error {
	f.calls = append(f.calls, name)
	return f.errs[name]
}

func (f *fakeGateway) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeGateway) notify(event gateway.AuthEvent) {
	f.mu.Lock()
	s := f.session
	fns := make([]gateway.AuthListener, 0, len(f.listeners))
	for _, fn := range f.listeners {
		fns = append(fns, fn)
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn(event, s)
	}
}

func (f *fakeGateway) GetSession(ctx context.Context) (*models.UserResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.called("GetSession"); err != nil {
		return nil, err
	}
	if f.session == nil {
		return nil, nil
	}
	u := f.session.User
	return &u, nil
}

func (f *fakeGateway) OnAuthStateChange(fn gateway.AuthListener) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.listeners[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.listeners, id)
	}
}

func (f *fakeGateway) SignIn(ctx context.Context, email, password string) (*gateway.Session, error) {
	f.mu.Lock()
	if err := f.called("SignIn"); err != nil {
		f.mu.Unlock()
		return nil, err
	}
	var found *models.UserResponse
	for _, u := range f.users {
		if u.Email == email {
			found = &u
		}
	}
	if found == nil {
		f.mu.Unlock()
		return nil, gateway.NewAPIError(401, "invalid_credentials", "Invalid email or password.")
	}
	f.signedIn(*found)
	s := *f.session
	f.mu.Unlock()
	f.notify(gateway.SignedIn)
	return &s, nil
}

func (f *fakeGateway) SignUp(ctx context.Context, displayName, email, password string) (*gateway.Session, error) {
	f.mu.Lock()
	if err := f.called("SignUp"); err != nil {
		f.mu.Unlock()
		return nil, err
	}
	u := models.UserResponse{ID: uuid.New(), DisplayName: displayName, Email: email}
	f.users[u.ID] = u
	f.signedIn(u)
	s := *f.session
	f.mu.Unlock()
	f.notify(gateway.SignedIn)
	return &s, nil
}

func (f *fakeGateway) SignOut(ctx context.Context) error {
	f.mu.Lock()
	err := f.called("SignOut")
	f.session = nil
	f.mu.Unlock()
	f.notify(gateway.SignedOut)
	return err
}

func (f *fakeGateway) withMembers(g models.Group) models.Group {
	g.Members = append([]models.GroupMember(nil), f.members[g.ID]...)
	return g
}

func (f *fakeGateway) ListGroups(ctx context.Context) ([]models.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.called("ListGroups"); err != nil {
		return nil, err
	}
	out := make([]models.Group, 0, len(f.groups))
	for _, g := range f.groups {
		out = append(out, f.withMembers(g))
	}
	return out, nil
}

func (f *fakeGateway) CreateGroup(ctx context.Context, input gateway.CreateGroupInput) (*models.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.called("CreateGroup"); err != nil {
		return nil, err
	}
	owner := f.session.User.ID
	g := models.Group{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		IsPublic:    input.IsPublic,
		Tags:        input.Tags,
		CreatorID:   owner,
	}
	f.members[g.ID] = []models.GroupMember{f.member(g.ID, owner, models.RoleOwner)}
	f.groups = append(f.groups, g)
	out := f.withMembers(g)
	return &out, nil
}

func (f *fakeGateway) SetGroupPublic(ctx context.Context, groupID uuid.UUID, isPublic bool) (*models.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.called("SetGroupPublic"); err != nil {
		return nil, err
	}
	for i := range f.groups {
		if f.groups[i].ID == groupID {
			f.groups[i].IsPublic = isPublic
			out := f.withMembers(f.groups[i])
			return &out, nil
		}
	}
	return nil, gateway.ErrNotFound
}

func (f *fakeGateway) DeleteGroup(ctx context.Context, groupID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.called("DeleteGroup"); err != nil {
		return err
	}
	kept := f.groups[:0]
	for _, g := range f.groups {
		if g.ID != groupID {
			kept = append(kept, g)
		}
	}
	f.groups = kept
	delete(f.members, groupID)
	return nil
}

func (f *fakeGateway) isMember(groupID, userID uuid.UUID) bool {
	for _, m := range f.members[groupID] {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

func (f *fakeGateway) JoinGroup(ctx context.Context, groupID uuid.UUID) (*models.GroupMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.called("JoinGroup"); err != nil {
		return nil, err
	}
	userID := f.session.User.ID
	if f.isMember(groupID, userID) {
		return nil, gateway.NewAPIError(409, "already_member", "Already a member.")
	}
	m := f.member(groupID, userID, models.RoleMember)
	f.members[groupID] = append(f.members[groupID], m)
	return &m, nil
}

func (f *fakeGateway) ListMembers(ctx context.Context, groupID uuid.UUID) ([]models.GroupMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.called("ListMembers"); err != nil {
		return nil, err
	}
	return append([]models.GroupMember(nil), f.members[groupID]...), nil
}

func (f *fakeGateway) AddMember(ctx context.Context, groupID, userID uuid.UUID) (*models.GroupMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.called("AddMember"); err != nil {
		return nil, err
	}
	if f.isMember(groupID, userID) {
		return nil, gateway.NewAPIError(409, "already_member", "Already a member.")
	}
	if _, ok := f.users[userID]; !ok {
		return nil, gateway.NewAPIError(404, "not_found", "User not found.")
	}
	m := f.member(groupID, userID, models.RoleMember)
	f.members[groupID] = append(f.members[groupID], m)
	return &m, nil
}

func (f *fakeGateway) RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.called("RemoveMember"); err != nil {
		return err
	}
	kept := make([]models.GroupMember, 0, len(f.members[groupID]))
	for _, m := range f.members[groupID] {
		if m.UserID != userID {
			kept = append(kept, m)
		}
	}
	f.members[groupID] = kept
	return nil
}

func (f *fakeGateway) ListMeetups(ctx context.Context, groupIDs ...uuid.UUID) ([]models.Meetup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.called("ListMeetups"); err != nil {
		return nil, err
	}
	out := append([]models.Meetup(nil), f.meetups...)
	sort.Slice(out, func(i, j int) bool { return out[i].DateTime.Before(out[j].DateTime) })
	return out, nil
}

func (f *fakeGateway) CreateMeetup(ctx context.Context, groupID uuid.UUID, input gateway.CreateMeetupInput) (*models.Meetup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.called("CreateMeetup"); err != nil {
		return nil, err
	}
	m := models.Meetup{
		ID:          uuid.New(),
		GroupID:     groupID,
		Title:       input.Title,
		Description: input.Description,
		DateTime:    input.DateTime,
		CreatorID:   f.session.User.ID,
	}
	f.meetups = append(f.meetups, m)
	return &m, nil
}

// manualScheduler fires timers only when advanced.
type manualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	at      time.Duration
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{at: s.now + d, f: f}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves time forward and runs every timer that came due.
func (s *manualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	var due, pending []*manualTimer
	for _, t := range s.timers {
		if t.at <= s.now {
			due = append(due, t)
		} else {
			pending = append(pending, t)
		}
	}
	s.timers = pending
	s.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, t := range due {
		if !t.stopped {
			t.stopped = true
			t.f()
		}
	}
}

type recordingClipboard struct {
	text string
	err  error
}

func (c *recordingClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}
