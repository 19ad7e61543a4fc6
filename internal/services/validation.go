package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// UserInput is the request payload for creating or renaming a user.
type UserInput struct {
	Name string `json:"name" validate:"required,max=255"`
}

var validate = validator.New()

// ParseID parses a path id. Any base-10 integer is accepted, including ones
// that can never match a record; out-of-range values are clamped.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("%w: id %q is not an integer", ErrInvalidParameter, raw)
	}
	return id, nil
}

// ParseLimit parses the list limit query parameter. ok is false when raw is empty.
func ParseLimit(raw string) (limit int, ok bool, err error) {
	if raw == "" {
		return 0, false, nil
	}
	limit, err = strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) && limit > 0 {
		// Larger than any store can hold: no truncation.
		return limit, true, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("%w: limit %q is not an integer", ErrInvalidParameter, raw)
	}
	if limit < 0 {
		return 0, false, fmt.Errorf("%w: limit must not be negative", ErrInvalidParameter)
	}
	return limit, true, nil
}

// NormalizeUserInput trims the name and checks it is present.
func NormalizeUserInput(input UserInput) (UserInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validate.Struct(input); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return UserInput{}, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
		}
		messages := make([]string, 0, len(validationErrors))
		for _, e := range validationErrors {
			messages = append(messages, fmt.Sprintf("field '%s' failed on the '%s' tag", e.Field(), e.Tag()))
		}
		return UserInput{}, fmt.Errorf("%w: %s", ErrInvalidParameter, strings.Join(messages, "; "))
	}
	return input, nil
}
