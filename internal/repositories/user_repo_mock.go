package repositories

import (
	"sync"
	"time"

	"userapi/internal/models"
)

// MockUserRepository is an in-memory implementation of UserRepository.
// IDs are assigned from a counter and never reused.
type MockUserRepository struct {
	users  map[uint]models.User
	nextID uint
	mu     sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:  make(map[uint]models.User),
		nextID: 1,
	}
}

// FindAll returns users in ID order.
func (r *MockUserRepository) FindAll(limit int) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	userList := make([]models.User, 0, len(r.users))
	for id := uint(1); id < r.nextID; id++ {
		if limit >= 0 && len(userList) >= limit {
			break
		}
		if user, ok := r.users[id]; ok {
			userList = append(userList, user)
		}
	}
	return userList, nil
}

// FindByID returns a user by its ID.
func (r *MockUserRepository) FindByID(id uint) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

// FindByName returns a user by its exact name.
func (r *MockUserRepository) FindByName(name string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if user, ok := r.lookupName(name); ok {
		return &user, nil
	}
	return nil, ErrUserNotFound
}

// Create adds a new user and assigns it the next ID.
func (r *MockUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.lookupName(user.Name); taken {
		return ErrNameTaken
	}
	now := time.Now()
	user.ID = r.nextID
	user.CreatedAt = now
	user.UpdatedAt = now
	r.nextID++
	r.users[user.ID] = *user
	return nil
}

// Update renames an existing user.
func (r *MockUserRepository) Update(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[user.ID]
	if !ok {
		return ErrUserNotFound
	}
	if other, taken := r.lookupName(user.Name); taken && other.ID != user.ID {
		return ErrNameTaken
	}
	if existing.Name != user.Name {
		existing.Name = user.Name
		existing.UpdatedAt = time.Now()
		r.users[user.ID] = existing
	}
	*user = existing
	return nil
}

// Delete removes a user by its ID.
func (r *MockUserRepository) Delete(id uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return false, nil
	}
	delete(r.users, id)
	return true, nil
}

// lookupName must be called with r.mu held.
func (r *MockUserRepository) lookupName(name string) (models.User, bool) {
	for _, user := range r.users {
		if user.Name == name {
			return user, true
		}
	}
	return models.User{}, false
}
