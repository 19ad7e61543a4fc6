package repositories

import (
	"errors"

	"userapi/internal/models"
)

// NoLimit tells FindAll to return every user.
const NoLimit = -1

var (
	// ErrUserNotFound is returned when no user has the requested ID.
	ErrUserNotFound = errors.New("user not found")
	// ErrNameTaken is returned when another user already holds the name.
	ErrNameTaken = errors.New("user name already taken")
)

// UserRepository defines the interface for user data access.
// Implementations are the sole arbiter of name uniqueness and ID assignment.
type UserRepository interface {
	// FindAll returns users in creation order, at most limit of them (NoLimit for all).
	FindAll(limit int) ([]models.User, error)
	FindByID(id uint) (*models.User, error)
	FindByName(name string) (*models.User, error)
	Create(user *models.User) error
	// Update renames the user identified by user.ID. It returns ErrUserNotFound
	// before ErrNameTaken when both apply.
	Update(user *models.User) error
	// Delete removes the user and reports whether a record existed.
	Delete(id uint) (bool, error)
}
