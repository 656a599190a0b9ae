package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cmuseum/catalog/common/logger"
	"github.com/cmuseum/catalog/common/models"
)

// Identity is what the upstream identity provider asserts at sign-in
type Identity struct {
	UserID      string
	Email       string
	DisplayName string
	PhotoURL    string
}

// SessionService establishes, resolves and clears sessions
type SessionService struct {
	sessions SessionStore
	users    UserStore
	ttl      time.Duration
	admins   map[string]bool
	now      func() time.Time
	log      *logger.Logger
}

// NewSessionService creates a session service. Users signing in with one of
// bootstrapAdmins as email are promoted to admin.
func NewSessionService(sessions SessionStore, users UserStore, ttl time.Duration, bootstrapAdmins []string, log *logger.Logger) *SessionService {
	admins := make(map[string]bool, len(bootstrapAdmins))
	for _, email := range bootstrapAdmins {
		admins[strings.ToLower(strings.TrimSpace(email))] = true
	}
	return &SessionService{
		sessions: sessions,
		users:    users,
		ttl:      ttl,
		admins:   admins,
		now:      time.Now,
		log:      log,
	}
}

// SignIn records the identity and opens a new session
func (s *SessionService) SignIn(ctx context.Context, id Identity) (*models.Session, error) {
	if id.UserID == "" {
		return nil, models.ErrUnauthenticated
	}

	bootstrap := s.admins[strings.ToLower(id.Email)]
	role := models.RoleVisitor
	if bootstrap {
		role = models.RoleAdmin
	}

	user, err := s.users.Upsert(ctx, &models.User{
		UserID:      id.UserID,
		Email:       id.Email,
		DisplayName: id.DisplayName,
		PhotoURL:    id.PhotoURL,
		Role:        role,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record user: %w", err)
	}

	if bootstrap && !user.IsAdmin() {
		if err := s.users.SetRole(ctx, user.UserID, models.RoleAdmin); err != nil {
			return nil, fmt.Errorf("failed to promote bootstrap admin: %w", err)
		}
		user.Role = models.RoleAdmin
	}

	now := s.now().UTC()
	session := &models.Session{
		Token:     uuid.New().String(),
		User:      *user,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	s.log.Info("signed in", "user_id", user.UserID, "role", user.Role)
	return session, nil
}

// SignOut clears a session
func (s *SessionService) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return models.ErrUnauthenticated
	}
	return s.sessions.Delete(ctx, token)
}

// Resolve returns the session for token with the user's current role
func (s *SessionService) Resolve(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, models.ErrUnauthenticated
	}

	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if !s.now().Before(session.ExpiresAt) {
		return nil, models.ErrUnauthenticated
	}

	user, err := s.users.GetByID(ctx, session.User.UserID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}
	session.User = *user
	return session, nil
}
