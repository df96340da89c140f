package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/mrlokans/criminaldb/internal/database"
	"github.com/mrlokans/criminaldb/internal/database/users"
	"github.com/mrlokans/criminaldb/internal/entities"
	"github.com/mrlokans/criminaldb/internal/failure"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrUsernameRequired   = errors.New("username is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Service registers users, signs them in and out, and changes passwords. A
// successful Login is recorded in the SessionState it was built with.
type Service struct {
	provider database.Provider
	state    *SessionState
	codec    PasswordCodec
}

// NewService creates a new authentication service. A nil codec stores
// passwords verbatim.
func NewService(provider database.Provider, state *SessionState, codec PasswordCodec) *Service {
	if codec == nil {
		codec = PlainCodec{}
	}
	return &Service{
		provider: provider,
		state:    state,
		codec:    codec,
	}
}

// credentials trims the username and checks both inputs are present. The
// password itself is kept as typed.
func credentials(op, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", failure.Validation(op, ErrUsernameRequired)
	}
	if strings.TrimSpace(password) == "" {
		return "", failure.Validation(op, ErrPasswordRequired)
	}
	return username, nil
}

// Register creates a user. A taken username fails with a constraint error
// matching ErrUserExists.
func (s *Service) Register(ctx context.Context, username, password string) (*entities.User, error) {
	const op = "auth.register"

	username, err := credentials(op, username, password)
	if err != nil {
		return nil, err
	}
	encoded, err := s.codec.Encode(password)
	if err != nil {
		return nil, failure.Validation(op, err)
	}

	var user *entities.User
	err = database.WithSession(ctx, s.provider, func(db *gorm.DB) error {
		var err error
		user, err = users.NewRepository(db).CreateUser(username, encoded)
		return err
	})
	if err != nil {
		err = database.Classify(op, err)
		if errors.Is(err, database.ErrDuplicate) {
			return nil, failure.Constraint(op, fmt.Errorf("%w: %w", ErrUserExists, errors.Unwrap(err)))
		}
		return nil, err
	}

	log.WithField("username", username).Info("User registered")
	return user, nil
}

// Login checks the credentials and makes the user the current identity. An
// unknown username and a wrong password fail identically.
func (s *Service) Login(ctx context.Context, username, password string) (Identity, error) {
	const op = "auth.login"

	username, err := credentials(op, username, password)
	if err != nil {
		return Identity{}, err
	}

	var user *entities.User
	err = database.WithSession(ctx, s.provider, func(db *gorm.DB) error {
		var err error
		user, err = users.NewRepository(db).GetUserByUsername(username)
		return err
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Identity{}, failure.Validation(op, ErrInvalidCredentials)
	}
	if err != nil {
		return Identity{}, database.Classify(op, err)
	}
	if !s.codec.Matches(user.Password, password) {
		return Identity{}, failure.Validation(op, ErrInvalidCredentials)
	}

	id := s.state.Login(user.Username)
	log.WithField("username", user.Username).Info("User logged in")
	return id, nil
}

// ChangePassword overwrites the password of username without asking for the
// old one. An unknown username changes nothing and is not an error.
func (s *Service) ChangePassword(ctx context.Context, username, newPassword string) error {
	const op = "auth.change_password"

	username, err := credentials(op, username, newPassword)
	if err != nil {
		return err
	}
	encoded, err := s.codec.Encode(newPassword)
	if err != nil {
		return failure.Validation(op, err)
	}

	var affected int64
	err = database.WithSession(ctx, s.provider, func(db *gorm.DB) error {
		var err error
		affected, err = users.NewRepository(db).UpdatePassword(username, encoded)
		return err
	})
	if err != nil {
		return database.Classify(op, err)
	}

	if affected == 0 {
		log.WithField("username", username).Debug("Password change matched no user")
	} else {
		log.WithField("username", username).Info("Password changed")
	}
	return nil
}

// UserCount reports how many accounts are registered.
func (s *Service) UserCount(ctx context.Context) (int64, error) {
	const op = "auth.user_count"

	var count int64
	err := database.WithSession(ctx, s.provider, func(db *gorm.DB) error {
		var err error
		count, err = users.NewRepository(db).Count()
		return err
	})
	if err != nil {
		return 0, database.Classify(op, err)
	}
	return count, nil
}

// Logout clears the current identity.
func (s *Service) Logout() (string, bool) {
	username, ok := s.state.Logout()
	if ok {
		log.WithField("username", username).Info("User logged out")
	}
	return username, ok
}

func (s *Service) Current() (Identity, bool) {
	return s.state.Current()
}

// State returns the session state the service records logins in.
func (s *Service) State() *SessionState {
	return s.state
}
