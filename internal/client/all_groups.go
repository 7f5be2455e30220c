package client

import (
	"sync"

	"github.com/lysokunvoath/grex/internal/models"
	"github.com/lysokunvoath/grex/internal/navigation"
	"github.com/lysokunvoath/grex/internal/viewmodel"
)

type AllGroupsPage struct {
	app *App

	mu     sync.Mutex
	search string
}

func newAllGroupsPage(app *App) *AllGroupsPage {
	return &AllGroupsPage{app: app}
}

func (p *AllGroupsPage) Screen() navigation.Screen { return navigation.AllGroups }

func (p *AllGroupsPage) SetSearch(term string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.search = term
}

// Groups lists the user's groups matching the search, favourites first.
func (p *AllGroupsPage) Groups() []models.Group {
	p.mu.Lock()
	term := p.search
	p.mu.Unlock()

	relevant := viewmodel.RelevantGroups(p.app.Groups(), p.app.UserID())
	return viewmodel.SortFavoritesFirst(viewmodel.FilterByName(relevant, term), p.app.Favorites())
}
