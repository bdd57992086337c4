package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studenthub/backend/internal/hash"
	"github.com/studenthub/backend/internal/logging"
	"github.com/studenthub/backend/internal/models"
	"github.com/studenthub/backend/internal/repo"
	"github.com/studenthub/backend/internal/tokens"
)

var emailRe = regexp.MustCompile(`^\S+@\S+\.\S+$`)

const userEventsTopic = "user_events"

type UserEvent struct {
	Type   string    `json:"type"`
	UserID uuid.UUID `json:"user_id"`
	At     time.Time `json:"at"`
}

type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
	TokenTTL  time.Duration
	Events    EventPublisher
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if len(username) < 3 {
		return nil, fmt.Errorf("username must be at least 3 characters long: %w", ErrValidation)
	}
	if !emailRe.MatchString(email) {
		return nil, fmt.Errorf("please provide a valid email: %w", ErrValidation)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters long: %w", ErrValidation)
	}

	if taken, err := s.Repo.UsernameTaken(ctx, username); err != nil {
		l.Error("register_error", "status", 500, "error", err)
		return nil, err
	} else if taken {
		return nil, &DuplicateError{Field: "username"}
	}
	if taken, err := s.Repo.UserEmailTaken(ctx, email); err != nil {
		l.Error("register_error", "status", 500, "error", err)
		return nil, err
	} else if taken {
		return nil, &DuplicateError{Field: "email"}
	}

	// The password is hashed exactly once, here, at registration.
	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
		Role:         models.RoleUser,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		l.Error("register_error", "status", 500, "error", err)
		return nil, err
	}

	if s.Events != nil {
		event := UserEvent{Type: "user_registered", UserID: user.ID, At: time.Now().UTC()}
		if err := s.Events.Publish(ctx, userEventsTopic, user.ID.String(), event); err != nil {
			l.Warn("event_publish_failed", "type", "user_registered", "error", err)
		}
	}

	l.Info("user_registered", "user_id", user.ID)
	return &user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		l.Error("login_error", "status", 500, "error", err)
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	l.Info("login_successful", "user_id", user.ID)
	return user, nil
}

func (s *AuthService) IssueToken(user *models.User) (string, error) {
	return tokens.Issue(user.ID, user.Role, s.JWTSecret, s.TokenTTL)
}

func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.Repo.ListUsers(ctx)
}
