package client

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lysokunvoath/grex/internal/gateway"
	"github.com/lysokunvoath/grex/internal/models"
	"github.com/lysokunvoath/grex/internal/navigation"
	"github.com/lysokunvoath/grex/internal/viewmodel"
)

// App is the root controller: session, shared data and navigation.
type App struct {
	gw        Gateway
	sched     Scheduler
	clock     func() time.Time
	clipboard Clipboard
	nav       *navigation.Navigator
	registry  *navigation.Registry

	mu          sync.Mutex
	user        *models.UserResponse
	groups      []models.Group
	meetups     []models.Meetup
	favorites   viewmodel.FavoriteSet
	unsubscribe func()

	page      navigation.Page
	pageRoute navigation.Route
	pageAuth  bool
}

type AppOption func(*App)

func WithScheduler(s Scheduler) AppOption {
	return func(a *App) { a.sched = s }
}

func WithClock(now func() time.Time) AppOption {
	return func(a *App) { a.clock = now }
}

func WithClipboard(c Clipboard) AppOption {
	return func(a *App) { a.clipboard = c }
}

// WithFavorites seeds the favourite set. There is no write path for it.
func WithFavorites(ids ...uuid.UUID) AppOption {
	return func(a *App) { a.favorites = viewmodel.NewFavoriteSet(ids...) }
}

func NewApp(gw Gateway, opts ...AppOption) *App {
	a := &App{
		gw:        gw,
		sched:     RealScheduler,
		clock:     time.Now,
		nav:       navigation.NewNavigator(),
		favorites: viewmodel.NewFavoriteSet(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.registry = a.newRegistry()
	a.nav.OnChange(func(navigation.Route) {
		a.mu.Lock()
		a.page = nil
		a.mu.Unlock()
	})
	return a
}

func (a *App) newRegistry() *navigation.Registry {
	r := navigation.NewRegistry()
	r.Register(navigation.Landing, func(navigation.Route) navigation.Page { return newLandingPage(a) })
	r.Register(navigation.Home, func(navigation.Route) navigation.Page { return newHomePage(a) })
	r.Register(navigation.AllGroups, func(navigation.Route) navigation.Page { return newAllGroupsPage(a) })
	r.Register(navigation.JoinGroup, func(navigation.Route) navigation.Page { return newJoinGroupPage(a) })
	r.Register(navigation.CreateGroup, func(navigation.Route) navigation.Page { return newCreateGroupPage(a) })
	r.Register(navigation.Calendar, func(navigation.Route) navigation.Page { return newCalendarPage(a) })
	r.Register(navigation.GroupDetail, func(rt navigation.Route) navigation.Page { return newGroupDetailPage(a, rt.GroupID) })
	r.Register(navigation.AddActivity, func(rt navigation.Route) navigation.Page { return newAddActivityPage(a, rt.GroupID) })
	return r
}

// Start restores any saved session, subscribes to auth changes and loads data.
func (a *App) Start(ctx context.Context) error {
	user, err := a.gw.GetSession(ctx)
	if err != nil {
		return err
	}
	a.setUser(user)

	unsubscribe := a.gw.OnAuthStateChange(func(event gateway.AuthEvent, s *gateway.Session) {
		if s == nil {
			a.setUser(nil)
			return
		}
		u := s.User
		a.setUser(&u)
	})
	a.mu.Lock()
	a.unsubscribe = unsubscribe
	a.mu.Unlock()

	if user == nil {
		return nil
	}
	return a.Refresh(ctx)
}

// Close stops listening for auth changes.
func (a *App) Close() {
	a.mu.Lock()
	unsubscribe := a.unsubscribe
	a.unsubscribe = nil
	a.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

func (a *App) setUser(u *models.UserResponse) {
	a.mu.Lock()
	prev := a.user
	a.user = u
	if u == nil {
		a.groups = nil
		a.meetups = nil
	}
	a.mu.Unlock()

	switch {
	case u == nil && prev != nil:
		a.nav.Reset()
	case u != nil && prev == nil && a.nav.Current().Screen == navigation.Landing:
		_ = a.nav.Go(navigation.Home)
	}
}

// Refresh re-fetches groups and meetups.
func (a *App) Refresh(ctx context.Context) error {
	groups, err := a.gw.ListGroups(ctx)
	if err != nil {
		return err
	}
	meetups, err := a.gw.ListMeetups(ctx)
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.groups = groups
	a.meetups = meetups
	a.mu.Unlock()
	return nil
}

func (a *App) SignOut(ctx context.Context) error {
	err := a.gw.SignOut(ctx)
	a.setUser(nil)
	return err
}

func (a *App) Navigator() *navigation.Navigator { return a.nav }

func (a *App) User() *models.UserResponse {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.user
}

func (a *App) UserID() uuid.UUID {
	if u := a.User(); u != nil {
		return u.ID
	}
	return uuid.Nil
}

func (a *App) Authenticated() bool { return a.User() != nil }

func (a *App) Groups() []models.Group {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]models.Group(nil), a.groups...)
}

func (a *App) Meetups() []models.Meetup {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]models.Meetup(nil), a.meetups...)
}

func (a *App) Favorites() viewmodel.FavoriteSet {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.favorites
}

// Page resolves the current route. Until the route or the auth state changes
// the same page is returned, so its local state survives between calls.
func (a *App) Page() navigation.Page {
	route := a.nav.Current()
	auth := a.Authenticated()

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.page != nil && a.pageRoute == route && a.pageAuth == auth {
		return a.page
	}
	a.page = a.registry.Dispatch(route, auth)
	a.pageRoute, a.pageAuth = route, auth
	return a.page
}

func (a *App) now() time.Time { return a.clock() }

func (a *App) copyToClipboard(text string) error {
	if a.clipboard == nil {
		return errClipboardUnavailable
	}
	return a.clipboard.WriteAll(text)
}

func (a *App) upsertGroup(g models.Group) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.groups {
		if a.groups[i].ID == g.ID {
			if g.Members == nil {
				g.Members = a.groups[i].Members
			}
			a.groups[i] = g
			return
		}
	}
	a.groups = append(a.groups, g)
}

func (a *App) patchGroup(id uuid.UUID, fn func(*models.Group)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.groups {
		if a.groups[i].ID == id {
			fn(&a.groups[i])
			return
		}
	}
}

func (a *App) addMember(groupID uuid.UUID, m models.GroupMember) {
	a.patchGroup(groupID, func(g *models.Group) {
		if !g.HasMember(m.UserID) {
			g.Members = append(append([]models.GroupMember(nil), g.Members...), m)
		}
	})
}

func (a *App) removeMember(groupID, userID uuid.UUID) {
	a.patchGroup(groupID, func(g *models.Group) {
		kept := make([]models.GroupMember, 0, len(g.Members))
		for _, m := range g.Members {
			if m.UserID != userID {
				kept = append(kept, m)
			}
		}
		g.Members = kept
	})
}

// removeGroup drops the group and its meetups.
func (a *App) removeGroup(id uuid.UUID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	groups := make([]models.Group, 0, len(a.groups))
	for _, g := range a.groups {
		if g.ID != id {
			groups = append(groups, g)
		}
	}
	meetups := make([]models.Meetup, 0, len(a.meetups))
	for _, m := range a.meetups {
		if m.GroupID != id {
			meetups = append(meetups, m)
		}
	}
	a.groups, a.meetups = groups, meetups
}

func (a *App) addMeetup(m models.Meetup) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.meetups = append(a.meetups, m)
}

func logFailure(action string, err error) {
	slog.Debug("action failed", "action", action, "error", err)
}
