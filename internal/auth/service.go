package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mrlokans/taskmanager/internal/config"
	"github.com/mrlokans/taskmanager/internal/database"
	"github.com/mrlokans/taskmanager/internal/database/users"
	"github.com/mrlokans/taskmanager/internal/entities"
)

// Validation patterns
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailRequired      = errors.New("email is required")
	ErrEmailInvalid       = errors.New("invalid email format")
)

// AccountStore defines the persistence the service needs for credentials.
// Implemented by database/users.Repository.
type AccountStore interface {
	CreateUser(user *entities.User) error
	FindCredentialByIdentifier(email string) (*entities.User, error)
	FindCredentialBySubjectID(id uint) (*entities.User, error)
	UpdateUser(id uint, updates map[string]any) (*entities.User, error)
}

var _ AccountStore = (*users.Repository)(nil)

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *entities.User
}

// ProfileUpdate holds optional profile changes. Nil fields are left untouched.
type ProfileUpdate struct {
	Name     *string
	Email    *string
	Password *string
}

// Service handles registration, login and profile management.
type Service struct {
	store    AccountStore
	hasher   *Hasher
	tokens   *TokenManager
	denylist Denylist
	config   config.Auth
}

// NewService creates a new authentication service. denylist may be nil,
// in which case Logout is a no-op.
func NewService(store AccountStore, hasher *Hasher, tokens *TokenManager, denylist Denylist, cfg config.Auth) *Service {
	return &Service{
		store:    store,
		hasher:   hasher,
		tokens:   tokens,
		denylist: denylist,
		config:   cfg,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return ErrEmailRequired
	}
	// RFC 5321 limit is 254
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return ErrEmailInvalid
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	if len(password) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}

// Register creates a new account.
func (s *Service) Register(ctx context.Context, name, email, password string) (*entities.User, error) {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	// Check if user already exists
	_, err := s.store.FindCredentialByIdentifier(email)
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	passwordHash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entities.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: passwordHash,
	}
	if err := s.store.CreateUser(user); err != nil {
		// Lost a race with a concurrent registration
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate validates credentials and returns the user.
// Unknown emails and wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*entities.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.store.FindCredentialByIdentifier(email)
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up user: %w", err)
		}
		if err := s.hasher.VerifyDummy(ctx, password); err != nil {
			return nil, err
		}
		return nil, ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates the user and issues an access token.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.tokens.Issue(SubjectID(user.ID), s.config.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// GetProfile returns the account behind subjectID.
func (s *Service) GetProfile(ctx context.Context, subjectID string) (*entities.User, error) {
	id, err := ParseSubjectID(subjectID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	user, err := s.store.FindCredentialBySubjectID(id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdateProfile applies the provided fields. A new password is re-hashed.
func (s *Service) UpdateProfile(ctx context.Context, subjectID string, update ProfileUpdate) (*entities.User, error) {
	id, err := ParseSubjectID(subjectID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	updates := make(map[string]any)
	if update.Name != nil {
		updates["name"] = strings.TrimSpace(*update.Name)
	}
	if update.Email != nil {
		email := normalizeEmail(*update.Email)
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		updates["email"] = email
	}
	if update.Password != nil {
		if err := validatePassword(*update.Password); err != nil {
			return nil, err
		}
		passwordHash, err := s.hasher.Hash(ctx, *update.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		updates["password_hash"] = passwordHash
	}

	user, err := s.store.UpdateUser(id, updates)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, database.ErrDuplicate):
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// Logout revokes the token described by claims until it would expire.
func (s *Service) Logout(ctx context.Context, claims *Claims) error {
	if s.denylist == nil || claims == nil || claims.ID == "" {
		return nil
	}

	until := time.Now().Add(s.config.TokenTTL)
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	if err := s.denylist.Revoke(ctx, claims.ID, until); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}
