// Package users provides database operations for account management.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.FindCredentialByIdentifier("a@example.com")
package users

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/taskmanager/internal/database"
	"github.com/mrlokans/taskmanager/internal/entities"
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser inserts a new user. Returns database.ErrDuplicate if the email is taken.
func (r *Repository) CreateUser(user *entities.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return database.TranslateError(err)
	}
	return nil
}

// FindCredentialByIdentifier retrieves a user by login email.
func (r *Repository) FindCredentialByIdentifier(email string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, database.TranslateError(err)
	}
	return &user, nil
}

// FindCredentialBySubjectID retrieves a user by primary key.
func (r *Repository) FindCredentialBySubjectID(id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, database.TranslateError(err)
	}
	return &user, nil
}

// UpdateUser applies the given column updates and returns the stored record.
// Only the listed columns are written.
func (r *Repository) UpdateUser(id uint, updates map[string]any) (*entities.User, error) {
	var user entities.User
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&user).Updates(updates).Error; err != nil {
			return fmt.Errorf("update user %d: %w", id, err)
		}
		return tx.First(&user, id).Error
	})
	if err != nil {
		return nil, database.TranslateError(err)
	}
	return &user, nil
}
