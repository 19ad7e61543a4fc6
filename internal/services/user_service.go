package services

import (
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"userapi/internal/models"
	"userapi/internal/repositories"

	"github.com/google/uuid"
)

// EventPublisher delivers user lifecycle events to a broker.
type EventPublisher interface {
	PublishUserEvent(event models.UserEvent) error
}

// UserService handles business logic for the users resource.
type UserService struct {
	repo         repositories.UserRepository
	publisher    EventPublisher // optional
	defaultLimit int
}

// NewUserService creates a new UserService. publisher may be nil. A
// defaultLimit of 0 lists every user when the caller gives no limit.
func NewUserService(repo repositories.UserRepository, publisher EventPublisher, defaultLimit int) *UserService {
	return &UserService{
		repo:         repo,
		publisher:    publisher,
		defaultLimit: defaultLimit,
	}
}

// ListUsers returns users in creation order, truncated to the parsed limit.
func (s *UserService) ListUsers(rawLimit string) ([]models.User, error) {
	limit, ok, err := ParseLimit(rawLimit)
	if err != nil {
		return nil, err
	}
	if !ok {
		limit = repositories.NoLimit
		if s.defaultLimit > 0 {
			limit = s.defaultLimit
		}
	}
	return s.repo.FindAll(limit)
}

// GetUser returns the user with the given id.
func (s *UserService) GetUser(rawID string) (*models.User, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return nil, err
	}
	storeID, ok := toStoreID(id)
	if !ok {
		return nil, notFound(id)
	}
	user, err := s.repo.FindByID(storeID)
	if err != nil {
		return nil, s.mapStoreError(id, err)
	}
	return user, nil
}

// CreateUser validates the input and stores a new user.
func (s *UserService) CreateUser(input UserInput) (*models.User, error) {
	input, err := NormalizeUserInput(input)
	if err != nil {
		return nil, err
	}
	user := &models.User{Name: input.Name}
	if err := s.repo.Create(user); err != nil {
		return nil, s.mapStoreError(0, err)
	}
	s.publish(models.UserCreated, *user)
	return user, nil
}

// UpdateUser renames an existing user. Checks run in this order: id format,
// name presence, existence, name uniqueness.
func (s *UserService) UpdateUser(rawID string, input UserInput) (*models.User, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return nil, err
	}
	input, err = NormalizeUserInput(input)
	if err != nil {
		return nil, err
	}
	storeID, ok := toStoreID(id)
	if !ok {
		return nil, notFound(id)
	}
	user := &models.User{ID: storeID, Name: input.Name}
	if err := s.repo.Update(user); err != nil {
		return nil, s.mapStoreError(id, err)
	}
	s.publish(models.UserUpdated, *user)
	return user, nil
}

// DeleteUser removes the user with the given id. A missing user is not an error.
func (s *UserService) DeleteUser(rawID string) error {
	id, err := ParseID(rawID)
	if err != nil {
		return err
	}
	storeID, ok := toStoreID(id)
	if !ok {
		return nil
	}
	deleted, err := s.repo.Delete(storeID)
	if err != nil {
		return err
	}
	if deleted {
		s.publish(models.UserDeleted, models.User{ID: storeID})
	}
	return nil
}

func (s *UserService) mapStoreError(id int64, err error) error {
	switch {
	case errors.Is(err, repositories.ErrUserNotFound):
		return notFound(id)
	case errors.Is(err, repositories.ErrNameTaken):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	default:
		return err
	}
}

func (s *UserService) publish(eventType models.UserEventType, user models.User) {
	if s.publisher == nil {
		return
	}
	event := models.UserEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		User:       user,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishUserEvent(event); err != nil {
		log.Printf("Warning: failed to publish %s event for user %d: %v", eventType, user.ID, err)
	}
}

func notFound(id int64) error {
	return fmt.Errorf("%w: user with ID %d not found", ErrNotFound, id)
}

// toStoreID reports false for ids no record can have.
func toStoreID(id int64) (uint, bool) {
	if id < 1 || uint64(id) > math.MaxUint {
		return 0, false
	}
	return uint(id), true
}
