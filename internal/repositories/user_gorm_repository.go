package repositories

import (
	"errors"
	"fmt"

	"userapi/internal/models"

	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// FindAll retrieves users ordered by ID.
func (r *GORMUserRepository) FindAll(limit int) ([]models.User, error) {
	users := make([]models.User, 0)
	if limit == 0 {
		return users, nil
	}
	query := r.db.Order("id asc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	return users, nil
}

// FindByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) FindByID(id uint) (*models.User, error) {
	return findUser(r.db, "id = ?", id)
}

// FindByName retrieves a user by their exact name from the database.
func (r *GORMUserRepository) FindByName(name string) (*models.User, error) {
	return findUser(r.db, "name = ?", name)
}

// Create inserts a new user. The database assigns the ID.
func (r *GORMUserRepository) Create(user *models.User) error {
	user.ID = 0
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureNameFree(tx, user.Name, 0); err != nil {
			return err
		}
		return tx.Create(user).Error
	})
	return translateWriteError("create user", err)
}

// Update changes the name of an existing user.
func (r *GORMUserRepository) Update(user *models.User) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		existing, err := findUser(tx, "id = ?", user.ID)
		if err != nil {
			return err
		}
		if err := ensureNameFree(tx, user.Name, user.ID); err != nil {
			return err
		}
		if existing.Name == user.Name {
			*user = *existing
			return nil
		}
		if err := tx.Model(existing).Update("name", user.Name).Error; err != nil {
			return err
		}
		existing.Name = user.Name
		*user = *existing
		return nil
	})
	return translateWriteError(fmt.Sprintf("update user %d", user.ID), err)
}

// Delete removes a user by ID. Deleting a missing user is not an error.
func (r *GORMUserRepository) Delete(id uint) (bool, error) {
	res := r.db.Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete user %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func findUser(db *gorm.DB, query string, arg interface{}) (*models.User, error) {
	var user models.User
	if err := db.Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// ensureNameFree fails with ErrNameTaken if a user other than exceptID holds name.
func ensureNameFree(tx *gorm.DB, name string, exceptID uint) error {
	var count int64
	if err := tx.Model(&models.User{}).Where("name = ? AND id <> ?", name, exceptID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check user name: %w", err)
	}
	if count > 0 {
		return ErrNameTaken
	}
	return nil
}

// translateWriteError keeps repository sentinels intact and maps unique index
// violations raised by the database to ErrNameTaken.
func translateWriteError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrNameTaken):
		return err
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrNameTaken
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}
