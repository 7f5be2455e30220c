// Package navigation tracks which page the client is on.
package navigation

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

type Screen string

const (
	Landing     Screen = "landing"
	Home        Screen = "home"
	Calendar    Screen = "calendar"
	CreateGroup Screen = "createGroup"
	AllGroups   Screen = "allGroups"
	JoinGroup   Screen = "joinGroup"
	GroupDetail Screen = "groupDetail"
	AddActivity Screen = "addActivity"
)

var ErrGroupRequired = errors.New("screen requires a group id")

// NeedsGroup reports whether s is scoped to one group.
func (s Screen) NeedsGroup() bool {
	return s == GroupDetail || s == AddActivity
}

type Route struct {
	Screen  Screen
	GroupID uuid.UUID
}

func (r Route) Validate() error {
	if r.Screen.NeedsGroup() && r.GroupID == uuid.Nil {
		return ErrGroupRequired
	}
	return nil
}

// Navigator holds the current route. Listeners run after every change.
type Navigator struct {
	mu        sync.Mutex
	current   Route
	listeners []func(Route)
}

func NewNavigator() *Navigator {
	return &Navigator{current: Route{Screen: Home}}
}

func (n *Navigator) Current() Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// OnChange registers fn to receive every new route.
func (n *Navigator) OnChange(fn func(Route)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, fn)
}

func (n *Navigator) set(r Route) error {
	if err := r.Validate(); err != nil {
		return err
	}
	n.mu.Lock()
	n.current = r
	listeners := append([]func(Route){}, n.listeners...)
	n.mu.Unlock()

	for _, fn := range listeners {
		fn(r)
	}
	return nil
}

// Go switches screens keeping the selected group, so group-scoped screens
// work once a group has been opened.
func (n *Navigator) Go(s Screen) error {
	return n.set(Route{Screen: s, GroupID: n.Current().GroupID})
}

func (n *Navigator) OpenGroup(id uuid.UUID) error {
	return n.set(Route{Screen: GroupDetail, GroupID: id})
}

func (n *Navigator) OpenAddActivity(id uuid.UUID) error {
	return n.set(Route{Screen: AddActivity, GroupID: id})
}

// Back returns from addActivity to its group, and from everything else to home.
func (n *Navigator) Back() error {
	cur := n.Current()
	if cur.Screen == AddActivity {
		return n.set(Route{Screen: GroupDetail, GroupID: cur.GroupID})
	}
	return n.set(Route{Screen: Home})
}

// Reset drops all state, as on sign-out.
func (n *Navigator) Reset() {
	_ = n.set(Route{Screen: Landing})
}
