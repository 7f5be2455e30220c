package viewmodel

import (
	"github.com/google/uuid"
	"github.com/lysokunvoath/grex/internal/models"
)

// GroupPermissions is what the viewer may do on a group detail page.
type GroupPermissions struct {
	IsOwner  bool
	IsMember bool

	CanAddActivity   bool
	CanAddMember     bool
	CanTogglePrivacy bool
	CanDelete        bool
	CanLeave         bool
}

// Permissions derives capabilities from ownership and the fetched member list.
func Permissions(group models.Group, members []models.GroupMember, userID uuid.UUID) GroupPermissions {
	isOwner := userID != uuid.Nil && group.CreatorID == userID
	isMember := false
	for _, m := range members {
		if m.UserID == userID {
			isMember = true
			break
		}
	}
	return GroupPermissions{
		IsOwner:          isOwner,
		IsMember:         isMember,
		CanAddActivity:   isMember,
		CanAddMember:     isOwner,
		CanTogglePrivacy: isOwner,
		CanDelete:        isOwner,
		CanLeave:         isMember && !isOwner,
	}
}
