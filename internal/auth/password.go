package auth

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/criminaldb/internal/config"
)

// bcrypt ignores everything past 72 bytes, so longer passwords are refused.
const bcryptMaxPasswordBytes = 72

var ErrPasswordTooLong = errors.New("password exceeds maximum length of 72 bytes")

// PasswordCodec turns a password into its stored form and checks a login
// attempt against the stored form.
type PasswordCodec interface {
	Encode(password string) (string, error)
	Matches(stored, password string) bool
}

// PlainCodec stores passwords verbatim. It is the default and keeps rows
// readable by existing deployments that store plaintext.
type PlainCodec struct{}

func (PlainCodec) Encode(password string) (string, error) {
	return password, nil
}

func (PlainCodec) Matches(stored, password string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}

// BcryptCodec stores bcrypt hashes.
type BcryptCodec struct {
	Cost int
}

func (c BcryptCodec) Encode(password string) (string, error) {
	if len(password) > bcryptMaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	cost := c.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (c BcryptCodec) Matches(stored, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

// NewPasswordCodec picks the codec configured by AUTH_PASSWORD_STORAGE.
func NewPasswordCodec(cfg config.Auth) PasswordCodec {
	if cfg.PasswordStorage == config.PasswordStorageBcrypt {
		return BcryptCodec{Cost: cfg.BcryptCost}
	}
	return PlainCodec{}
}
