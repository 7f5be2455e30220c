package navigation

// Page is anything a route can resolve to.
type Page interface {
	Screen() Screen
}

// Factory builds the page for a route.
type Factory func(Route) Page

// Registry maps screens to page factories.
type Registry struct {
	factories map[Screen]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[Screen]Factory)}
}

func (r *Registry) Register(s Screen, f Factory) {
	r.factories[s] = f
}

// Dispatch resolves route to a page. Unauthenticated users always get the
// landing page and unknown screens fall back to home. A group-scoped route
// without a group also falls back to home.
func (r *Registry) Dispatch(route Route, authenticated bool) Page {
	if !authenticated {
		return r.build(Route{Screen: Landing})
	}
	if _, ok := r.factories[route.Screen]; !ok || route.Validate() != nil || route.Screen == Landing {
		return r.build(Route{Screen: Home})
	}
	return r.build(route)
}

func (r *Registry) build(route Route) Page {
	f, ok := r.factories[route.Screen]
	if !ok {
		return nil
	}
	return f(route)
}
