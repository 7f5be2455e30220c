package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestUserToResponse(t *testing.T) {
	user := &User{
		ID:           uuid.New(),
		Email:        "ana@example.com",
		DisplayName:  "ana",
		PasswordHash: "secret-hash",
	}

	response := user.ToResponse()

	if response.ID != user.ID {
		t.Errorf("ToResponse ID = %s, want %s", response.ID, user.ID)
	}
	if response.Email != user.Email {
		t.Errorf("ToResponse Email = %q, want %q", response.Email, user.Email)
	}
	if response.DisplayName != user.DisplayName {
		t.Errorf("ToResponse DisplayName = %q, want %q", response.DisplayName, user.DisplayName)
	}
}

func TestBeforeCreateAssignsID(t *testing.T) {
	g := &Group{Name: "Chess"}
	if err := g.BeforeCreate(nil); err != nil {
		t.Fatalf("BeforeCreate returned %v", err)
	}
	if g.ID == uuid.Nil {
		t.Fatal("BeforeCreate left group ID empty")
	}

	fixed := uuid.New()
	m := &Meetup{ID: fixed}
	_ = m.BeforeCreate(nil)
	if m.ID != fixed {
		t.Errorf("BeforeCreate overwrote preset ID: got %s, want %s", m.ID, fixed)
	}
}

func TestGroupHasMember(t *testing.T) {
	owner := uuid.New()
	member := uuid.New()
	g := &Group{
		CreatorID: owner,
		Members: []GroupMember{
			{UserID: owner, Role: RoleOwner},
			{UserID: member, Role: RoleMember},
		},
	}

	tests := []struct {
		name   string
		userID uuid.UUID
		want   bool
	}{
		{"owner", owner, true},
		{"member", member, true},
		{"stranger", uuid.New(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.HasMember(tt.userID); got != tt.want {
				t.Errorf("HasMember = %v, want %v", got, tt.want)
			}
		})
	}

	if ids := g.MemberIDs(); len(ids) != 2 || ids[0] != owner {
		t.Errorf("MemberIDs = %v, want owner first of 2", ids)
	}
}

func TestGroupRoleConstants(t *testing.T) {
	tests := []struct {
		name     string
		role     GroupRole
		expected string
	}{
		{"RoleOwner", RoleOwner, "owner"},
		{"RoleMember", RoleMember, "member"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if string(tt.role) != tt.expected {
				t.Errorf("GroupRole = %q, want %q", string(tt.role), tt.expected)
			}
		})
	}
}

func TestRefreshTokenIsActive(t *testing.T) {
	now := time.Now()
	revoked := now.Add(-time.Minute)

	tests := []struct {
		name  string
		token RefreshToken
		want  bool
	}{
		{"valid", RefreshToken{ExpiresAt: now.Add(time.Hour)}, true},
		{"expired", RefreshToken{ExpiresAt: now.Add(-time.Second)}, false},
		{"revoked", RefreshToken{ExpiresAt: now.Add(time.Hour), RevokedAt: &revoked}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.token.IsActive(now); got != tt.want {
				t.Errorf("IsActive = %v, want %v", got, tt.want)
			}
		})
	}
}
