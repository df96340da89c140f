// Package users provides database operations for user accounts.
//
// # Usage
//
//	repo := users.NewRepository(session.DB)
//	user, err := repo.GetUserByUsername("jdoe")
package users

import (
	"gorm.io/gorm"

	"github.com/mrlokans/criminaldb/internal/entities"
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser inserts a user. password is stored exactly as given; encoding it
// is the caller's job.
func (r *Repository) CreateUser(username, password string) (*entities.User, error) {
	user := &entities.User{
		Username: username,
		Password: password,
	}

	if err := r.db.Create(user).Error; err != nil {
		return nil, err
	}

	return user, nil
}

// GetUserByUsername retrieves a user by username. A missing user yields
// gorm.ErrRecordNotFound.
func (r *Repository) GetUserByUsername(username string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdatePassword overwrites the stored password and reports how many rows
// changed. An unknown username changes nothing and is not an error.
func (r *Repository) UpdatePassword(username, password string) (int64, error) {
	result := r.db.Model(&entities.User{}).
		Where("username = ?", username).
		Update("password", password)
	return result.RowsAffected, result.Error
}

// Count returns the number of registered users.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.User{}).Count(&count).Error
	return count, err
}
