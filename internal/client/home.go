package client

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/lysokunvoath/grex/internal/models"
	"github.com/lysokunvoath/grex/internal/navigation"
	"github.com/lysokunvoath/grex/internal/viewmodel"
)

const featuredGroupCount = 3

type HomePage struct {
	app *App
}

func newHomePage(app *App) *HomePage {
	return &HomePage{app: app}
}

func (p *HomePage) Screen() navigation.Screen { return navigation.Home }

func (p *HomePage) Welcome() string {
	if u := p.app.User(); u != nil && u.DisplayName != "" {
		return fmt.Sprintf("Welcome, %s!", u.DisplayName)
	}
	return "Welcome!"
}

// Groups lists the user's groups, favourites first.
func (p *HomePage) Groups() []models.Group {
	relevant := viewmodel.RelevantGroups(p.app.Groups(), p.app.UserID())
	return viewmodel.SortFavoritesFirst(relevant, p.app.Favorites())
}

// Featured is the first three of Groups, shown as cards.
func (p *HomePage) Featured() []models.Group {
	groups := p.Groups()
	if len(groups) > featuredGroupCount {
		groups = groups[:featuredGroupCount]
	}
	return groups
}

func (p *HomePage) IsFavorite(id uuid.UUID) bool {
	return p.app.Favorites().Has(id)
}

// Today lists today's meetups across all loaded groups.
func (p *HomePage) Today() []viewmodel.TodayEntry {
	return viewmodel.TodayWithGroups(p.app.Meetups(), p.app.Groups(), p.app.now())
}

func (p *HomePage) OpenGroup(id uuid.UUID) error {
	return p.app.nav.OpenGroup(id)
}
