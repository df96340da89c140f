// Package settingsstore keeps the official account marker: a small JSON file
// naming the account that is treated as the station's official login.
//
// The marker lives outside the database so it survives a database switch.
// Reads never fail loudly; a missing or unreadable file means there is no
// official account.
package settingsstore

import (
	"strings"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const usernameKey = "username"

// Store reads and writes the marker file.
type Store struct {
	mu   sync.Mutex
	fs   afero.Fs
	path string
}

// New creates a marker store for path on fs.
func New(fs afero.Fs, path string) *Store {
	return &Store{fs: fs, path: path}
}

func (s *Store) newViper() *viper.Viper {
	v := viper.New()
	v.SetFs(s.fs)
	v.SetConfigFile(s.path)
	v.SetConfigType("json")
	return v
}

// OfficialAccount returns the marked username, or "" when no marker can be read.
func (s *Store) OfficialAccount() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := afero.Exists(s.fs, s.path)
	if err != nil || !exists {
		return ""
	}

	v := s.newViper()
	if err := v.ReadInConfig(); err != nil {
		log.WithError(err).WithField("path", s.path).Warn("failed to read official account marker")
		return ""
	}
	return strings.TrimSpace(v.GetString(usernameKey))
}

// IsOfficial reports whether username is the marked official account.
func (s *Store) IsOfficial(username string) bool {
	username = strings.TrimSpace(username)
	if username == "" {
		return false
	}
	return s.OfficialAccount() == username
}

// SetOfficialAccount overwrites the marker. An empty username clears it.
func (s *Store) SetOfficialAccount(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.newViper()
	v.Set(usernameKey, strings.TrimSpace(username))
	if err := v.WriteConfigAs(s.path); err != nil {
		return errors.Wrapf(err, "failed to write official account marker %s", s.path)
	}
	log.WithField("username", username).Info("official account updated")
	return nil
}
