package navigation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavigatorFlow(t *testing.T) {
	n := NewNavigator()
	assert.Equal(t, Home, n.Current().Screen)

	var seen []Screen
	n.OnChange(func(r Route) { seen = append(seen, r.Screen) })

	gid := uuid.New()
	require.NoError(t, n.OpenGroup(gid))
	require.NoError(t, n.OpenAddActivity(gid))
	assert.Equal(t, Route{Screen: AddActivity, GroupID: gid}, n.Current())

	require.NoError(t, n.Back())
	assert.Equal(t, Route{Screen: GroupDetail, GroupID: gid}, n.Current())

	require.NoError(t, n.Back())
	assert.Equal(t, Home, n.Current().Screen)

	require.NoError(t, n.Go(Calendar))
	require.NoError(t, n.Back())
	assert.Equal(t, Home, n.Current().Screen)

	n.Reset()
	assert.Equal(t, Route{Screen: Landing}, n.Current())
	assert.Equal(t, []Screen{GroupDetail, AddActivity, GroupDetail, Home, Calendar, Home, Landing}, seen)
}

func TestGroupScopedScreensNeedGroup(t *testing.T) {
	n := NewNavigator()
	assert.ErrorIs(t, n.OpenGroup(uuid.Nil), ErrGroupRequired)
	assert.ErrorIs(t, n.Go(AddActivity), ErrGroupRequired)
	assert.Equal(t, Home, n.Current().Screen, "failed navigation leaves the route alone")
}

type stubPage struct {
	route Route
}

func (p stubPage) Screen() Screen { return p.route.Screen }

func TestRegistryDispatch(t *testing.T) {
	r := NewRegistry()
	for _, s := range []Screen{Landing, Home, Calendar, GroupDetail} {
		r.Register(s, func(route Route) Page { return stubPage{route: route} })
	}
	gid := uuid.New()

	tests := []struct {
		name          string
		route         Route
		authenticated bool
		want          Screen
	}{
		{"Anonymous always lands", Route{Screen: Calendar}, false, Landing},
		{"Known screen", Route{Screen: Calendar}, true, Calendar},
		{"Group detail", Route{Screen: GroupDetail, GroupID: gid}, true, GroupDetail},
		{"Group detail without group", Route{Screen: GroupDetail}, true, Home},
		{"Unregistered screen", Route{Screen: JoinGroup}, true, Home},
		{"Unknown screen", Route{Screen: "settings"}, true, Home},
		{"Landing when signed in", Route{Screen: Landing}, true, Home},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := r.Dispatch(tt.route, tt.authenticated)
			require.NotNil(t, page)
			assert.Equal(t, tt.want, page.Screen())
		})
	}
}
