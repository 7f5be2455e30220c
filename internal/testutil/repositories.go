package testutil

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lysokunvoath/grex/internal/models"
	"gorm.io/gorm"
)

// UserRepository is an in-memory repository.UserRepositoryInterface.
type UserRepository struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[uuid.UUID]*models.User)}
}

func (m *UserRepository) Create(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	m.users[user.ID] = user
	return nil
}

func (m *UserRepository) FindByEmail(email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *UserRepository) EmailExists(email string) (bool, error) {
	_, err := m.FindByEmail(email)
	return err == nil, nil
}

func (m *UserRepository) FindByID(id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *UserRepository) lookup(id uuid.UUID) models.User {
	if m == nil {
		return models.User{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return *u
	}
	return models.User{}
}

// RefreshTokenRepository is an in-memory repository.RefreshTokenRepositoryInterface.
type RefreshTokenRepository struct {
	mu     sync.Mutex
	tokens map[string]*models.RefreshToken
}

func NewRefreshTokenRepository() *RefreshTokenRepository {
	return &RefreshTokenRepository{tokens: make(map[string]*models.RefreshToken)}
}

func (m *RefreshTokenRepository) Create(token *models.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token.TokenHash] = token
	return nil
}

func (m *RefreshTokenRepository) Consume(hash string, now time.Time) (*models.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	token, ok := m.tokens[hash]
	if !ok || !token.IsActive(now) {
		return nil, gorm.ErrRecordNotFound
	}
	token.RevokedAt = &now
	return token, nil
}

func (m *RefreshTokenRepository) Revoke(hash string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if token, ok := m.tokens[hash]; ok && !token.IsRevoked() {
		token.RevokedAt = &now
	}
	return nil
}

func (m *RefreshTokenRepository) PurgeExpired(cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for hash, token := range m.tokens {
		if token.ExpiresAt.Before(cutoff) || (token.RevokedAt != nil && token.RevokedAt.Before(cutoff)) {
			delete(m.tokens, hash)
			n++
		}
	}
	return n, nil
}

// Len counts stored tokens.
func (m *RefreshTokenRepository) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tokens)
}

// GroupRepository is an in-memory repository.GroupRepositoryInterface.
// Members are joined against users when one is given.
type GroupRepository struct {
	// FailCreate, when set, is returned by CreateWithOwner before anything is stored.
	FailCreate error

	mu          sync.Mutex
	users       *UserRepository
	groups      map[uuid.UUID]*models.Group
	memberships map[uuid.UUID]map[uuid.UUID]models.GroupRole
	meetups     *MeetupRepository
}

func NewGroupRepository(users *UserRepository) *GroupRepository {
	return &GroupRepository{
		users:       users,
		groups:      make(map[uuid.UUID]*models.Group),
		memberships: make(map[uuid.UUID]map[uuid.UUID]models.GroupRole),
	}
}

// SetMember writes a membership directly, skipping every check.
func (m *GroupRepository) SetMember(groupID, userID uuid.UUID, role models.GroupRole) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.memberships[groupID] == nil {
		m.memberships[groupID] = make(map[uuid.UUID]models.GroupRole)
	}
	m.memberships[groupID][userID] = role
}

// Len counts stored groups.
func (m *GroupRepository) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.groups)
}

// Stored returns the live stored group, or nil.
func (m *GroupRepository) Stored(id uuid.UUID) *models.Group {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.groups[id]
}

// snapshot copies g with Members populated, owner first. Callers hold mu.
func (m *GroupRepository) snapshot(g *models.Group) models.Group {
	out := *g
	out.Members = m.members(g.ID)
	return out
}

func (m *GroupRepository) members(groupID uuid.UUID) []models.GroupMember {
	var out []models.GroupMember
	for userID, role := range m.memberships[groupID] {
		out = append(out, models.GroupMember{GroupID: groupID, UserID: userID, Role: role, User: m.users.lookup(userID)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Role != out[j].Role {
			return out[i].Role == models.RoleOwner
		}
		return out[i].UserID.String() < out[j].UserID.String()
	})
	return out
}

func (m *GroupRepository) CreateWithOwner(group *models.Group) error {
	if m.FailCreate != nil {
		return m.FailCreate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if group.ID == uuid.Nil {
		group.ID = uuid.New()
	}
	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now()
	}
	stored := *group
	m.groups[group.ID] = &stored
	m.memberships[group.ID] = map[uuid.UUID]models.GroupRole{group.CreatorID: models.RoleOwner}
	group.Members = []models.GroupMember{{GroupID: group.ID, UserID: group.CreatorID, Role: models.RoleOwner}}
	return nil
}

func (m *GroupRepository) FindByID(id uuid.UUID) (*models.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.groups[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := m.snapshot(g)
	return &out, nil
}

func (m *GroupRepository) ListVisible(userID uuid.UUID) ([]models.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Group
	for _, g := range m.groups {
		if _, member := m.memberships[g.ID][userID]; g.IsPublic || member {
			out = append(out, m.snapshot(g))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *GroupRepository) SearchPublic(query string, limit int) ([]models.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Group
	for _, g := range m.groups {
		if g.IsPublic && strings.Contains(strings.ToLower(g.Name), strings.ToLower(query)) {
			out = append(out, m.snapshot(g))
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *GroupRepository) SetPublic(id uuid.UUID, isPublic bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.groups[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	g.IsPublic = isPublic
	return nil
}

func (m *GroupRepository) SetIcon(id uuid.UUID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.groups[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	g.Icon = key
	return nil
}

func (m *GroupRepository) Delete(id uuid.UUID) error {
	m.mu.Lock()
	if _, ok := m.groups[id]; !ok {
		m.mu.Unlock()
		return gorm.ErrRecordNotFound
	}
	delete(m.groups, id)
	delete(m.memberships, id)
	m.mu.Unlock()

	if m.meetups != nil {
		m.meetups.deleteGroup(id)
	}
	return nil
}

func (m *GroupRepository) AddMember(groupID, userID uuid.UUID, role models.GroupRole) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	members, ok := m.memberships[groupID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if _, dup := members[userID]; dup {
		return gorm.ErrDuplicatedKey
	}
	members[userID] = role
	return nil
}

func (m *GroupRepository) RemoveMember(groupID, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.memberships[groupID][userID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.memberships[groupID], userID)
	return nil
}

func (m *GroupRepository) ListMembers(groupID uuid.UUID) ([]models.GroupMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.groups[groupID]; !ok {
		return nil, nil
	}
	return m.members(groupID), nil
}

func (m *GroupRepository) ListMemberships(userID uuid.UUID) ([]models.GroupMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.GroupMember
	for groupID, members := range m.memberships {
		if role, ok := members[userID]; ok {
			out = append(out, models.GroupMember{GroupID: groupID, UserID: userID, Role: role})
		}
	}
	return out, nil
}

func (m *GroupRepository) IsMember(groupID, userID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.memberships[groupID][userID]
	return ok, nil
}

func (m *GroupRepository) visibleTo(groupID, userID uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.groups[groupID]
	if !ok {
		return false
	}
	_, member := m.memberships[groupID][userID]
	return g.IsPublic || member
}

// MeetupRepository is an in-memory repository.MeetupRepositoryInterface
// that honors its group repository's visibility and deletes.
type MeetupRepository struct {
	mu      sync.Mutex
	groups  *GroupRepository
	meetups []models.Meetup
}

func NewMeetupRepository(groups *GroupRepository) *MeetupRepository {
	r := &MeetupRepository{groups: groups}
	groups.meetups = r
	return r
}

// Len reports how many meetups are stored.
func (m *MeetupRepository) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.meetups)
}

func (m *MeetupRepository) Create(meetup *models.Meetup) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if meetup.ID == uuid.Nil {
		meetup.ID = uuid.New()
	}
	m.meetups = append(m.meetups, *meetup)
	return nil
}

func (m *MeetupRepository) ListVisible(userID uuid.UUID, groupIDs []uuid.UUID) ([]models.Meetup, error) {
	wanted := make(map[uuid.UUID]bool, len(groupIDs))
	for _, id := range groupIDs {
		wanted[id] = true
	}

	m.mu.Lock()
	all := append([]models.Meetup(nil), m.meetups...)
	m.mu.Unlock()

	var out []models.Meetup
	for _, mt := range all {
		if !m.groups.visibleTo(mt.GroupID, userID) {
			continue
		}
		if len(wanted) > 0 && !wanted[mt.GroupID] {
			continue
		}
		out = append(out, mt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateTime.Before(out[j].DateTime) })
	return out, nil
}

func (m *MeetupRepository) deleteGroup(groupID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.meetups[:0]
	for _, mt := range m.meetups {
		if mt.GroupID != groupID {
			kept = append(kept, mt)
		}
	}
	m.meetups = kept
}
