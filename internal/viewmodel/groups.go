// Package viewmodel derives what the pages show from fetched records.
// Nothing here performs I/O or mutates its arguments.
package viewmodel

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/lysokunvoath/grex/internal/models"
)

// UnknownGroupName is shown for a meetup whose group is not loaded.
const UnknownGroupName = "N/A"

// FavoriteSet is the caller-supplied set of favourite group ids.
type FavoriteSet map[uuid.UUID]struct{}

func NewFavoriteSet(ids ...uuid.UUID) FavoriteSet {
	set := make(FavoriteSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (f FavoriteSet) Has(id uuid.UUID) bool {
	_, ok := f[id]
	return ok
}

// RelevantGroups keeps groups the user owns or has joined.
func RelevantGroups(groups []models.Group, userID uuid.UUID) []models.Group {
	out := make([]models.Group, 0, len(groups))
	for _, g := range groups {
		if g.CreatorID == userID || g.HasMember(userID) {
			out = append(out, g)
		}
	}
	return out
}

// SortFavoritesFirst moves favourites ahead of the rest, otherwise keeping order.
func SortFavoritesFirst(groups []models.Group, favorites FavoriteSet) []models.Group {
	out := append([]models.Group(nil), groups...)
	if out == nil {
		out = []models.Group{}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return favorites.Has(out[i].ID) && !favorites.Has(out[j].ID)
	})
	return out
}

// FilterByName matches term as a case-insensitive substring of the name.
func FilterByName(groups []models.Group, term string) []models.Group {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]models.Group, 0, len(groups))
	for _, g := range groups {
		if term == "" || strings.Contains(strings.ToLower(g.Name), term) {
			out = append(out, g)
		}
	}
	return out
}

// PublicGroups keeps joinable groups only.
func PublicGroups(groups []models.Group) []models.Group {
	out := make([]models.Group, 0, len(groups))
	for _, g := range groups {
		if g.IsPublic {
			out = append(out, g)
		}
	}
	return out
}

func SearchPublic(groups []models.Group, term string) []models.Group {
	return FilterByName(PublicGroups(groups), term)
}

// GroupName resolves id against groups.
func GroupName(groups []models.Group, id uuid.UUID) string {
	for _, g := range groups {
		if g.ID == id {
			return g.Name
		}
	}
	return UnknownGroupName
}

// FindGroup returns the group with id, if loaded.
func FindGroup(groups []models.Group, id uuid.UUID) (models.Group, bool) {
	for _, g := range groups {
		if g.ID == id {
			return g, true
		}
	}
	return models.Group{}, false
}
