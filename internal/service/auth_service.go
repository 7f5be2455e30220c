package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	stderrors "errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lysokunvoath/grex/internal/middleware"
	"github.com/lysokunvoath/grex/internal/models"
	"github.com/lysokunvoath/grex/internal/repository"
	"github.com/lysokunvoath/grex/internal/validation"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	AccessTokenTTL  = time.Hour
	RefreshTokenTTL = 30 * 24 * time.Hour
)

type AuthService struct {
	userRepo    repository.UserRepositoryInterface
	refreshRepo repository.RefreshTokenRepositoryInterface
	secret      []byte
	now         func() time.Time
}

func NewAuthService(
	userRepo repository.UserRepositoryInterface,
	refreshRepo repository.RefreshTokenRepositoryInterface,
	jwtSecret string,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		refreshRepo: refreshRepo,
		secret:      []byte(jwtSecret),
		now:         time.Now,
	}
}

type RegisterInput struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthSession is returned by every call that establishes or renews a session.
type AuthSession struct {
	AccessToken  string              `json:"access_token"`
	RefreshToken string              `json:"refresh_token"`
	ExpiresAt    time.Time           `json:"expires_at"`
	User         models.UserResponse `json:"user"`
}

func (s *AuthService) Register(input RegisterInput) (*AuthSession, error) {
	email := validation.NormalizeEmail(input.Email)
	name := validation.NormalizeDisplayName(input.DisplayName)

	if !validation.ValidateEmail(email) {
		return nil, invalid("invalid email address")
	}
	if !validation.ValidateDisplayName(name) {
		return nil, invalid("username must be 3-32 letters, digits or underscores")
	}
	if !validation.ValidatePassword(input.Password) {
		return nil, invalid("password is too short")
	}

	taken, err := s.userRepo.EmailExists(email)
	if err != nil {
		return nil, errors.Wrap(err, "check email")
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	user := &models.User{
		Email:        email,
		DisplayName:  name,
		PasswordHash: string(hashedPassword),
	}
	if err := s.userRepo.Create(user); err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, errors.Wrap(err, "create user")
	}

	return s.issueSession(user)
}

func (s *AuthService) Login(input LoginInput) (*AuthSession, error) {
	user, err := s.userRepo.FindByEmail(validation.NormalizeEmail(input.Email))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueSession(user)
}

// Refresh exchanges a live refresh token for a new session. The presented
// token is revoked, so each refresh token works once.
func (s *AuthService) Refresh(refreshToken string) (*AuthSession, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, ErrInvalidToken
	}
	stored, err := s.refreshRepo.Consume(hashToken(refreshToken), s.now())
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, errors.Wrap(err, "consume refresh token")
	}

	user, err := s.userRepo.FindByID(stored.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return s.issueSession(user)
}

// Logout revokes the refresh token. Unknown tokens are not an error.
func (s *AuthService) Logout(refreshToken string) error {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil
	}
	return s.refreshRepo.Revoke(hashToken(refreshToken), s.now())
}

// PurgeExpiredSessions drops refresh tokens that stopped being usable more
// than a day ago.
func (s *AuthService) PurgeExpiredSessions() (int64, error) {
	n, err := s.refreshRepo.PurgeExpired(s.now().Add(-24 * time.Hour))
	return n, errors.Wrap(err, "purge refresh tokens")
}

func (s *AuthService) CurrentUser(userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, translate(err, "user")
	}
	return user, nil
}

func (s *AuthService) issueSession(user *models.User) (*AuthSession, error) {
	now := s.now()
	expiresAt := now.Add(AccessTokenTTL)

	claims := middleware.Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, errors.Wrap(err, "sign access token")
	}

	refresh, err := randomToken()
	if err != nil {
		return nil, errors.Wrap(err, "generate refresh token")
	}
	if err := s.refreshRepo.Create(&models.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashToken(refresh),
		ExpiresAt: now.Add(RefreshTokenTTL),
	}); err != nil {
		return nil, errors.Wrap(err, "store refresh token")
	}

	return &AuthSession{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
		User:         user.ToResponse(),
	}, nil
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
