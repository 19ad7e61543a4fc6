package handlers

import (
	"errors"
	"log"

	"userapi/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for users.
type UserHandler struct {
	service *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// RegisterRoutes registers the user routes. Write routes pass through the
// optional guards before reaching the handler.
func (h *UserHandler) RegisterRoutes(router fiber.Router, writeGuards ...fiber.Handler) {
	guarded := func(handler fiber.Handler) []fiber.Handler {
		chain := make([]fiber.Handler, 0, len(writeGuards)+1)
		chain = append(chain, writeGuards...)
		return append(chain, handler)
	}

	userRoutes := router.Group("/users")
	userRoutes.Get("/", h.HandleListUsers)
	userRoutes.Get("/:id", h.HandleGetUser)
	userRoutes.Post("/", guarded(h.HandleCreateUser)...)
	userRoutes.Put("/:id", guarded(h.HandleUpdateUser)...)
	userRoutes.Delete("/:id", guarded(h.HandleDeleteUser)...)
}

// HandleListUsers returns users, optionally limited by ?limit=.
func (h *UserHandler) HandleListUsers(c *fiber.Ctx) error {
	users, err := h.service.ListUsers(c.Query("limit"))
	if err != nil {
		return respondError(c, "Could not list users", err)
	}
	return c.JSON(users)
}

// HandleGetUser returns a single user.
func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	user, err := h.service.GetUser(c.Params("id"))
	if err != nil {
		return respondError(c, "Could not retrieve user", err)
	}
	return c.JSON(user)
}

// HandleCreateUser creates a user from a {"name": ...} body.
func (h *UserHandler) HandleCreateUser(c *fiber.Ctx) error {
	var input services.UserInput
	if err := parseBody(c, &input); err != nil {
		return respondError(c, "Invalid request body", err)
	}
	user, err := h.service.CreateUser(input)
	if err != nil {
		return respondError(c, "Could not create user", err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// HandleUpdateUser renames a user. The id is checked before the body.
func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := services.ParseID(id); err != nil {
		return respondError(c, "Could not update user", err)
	}
	var input services.UserInput
	if err := parseBody(c, &input); err != nil {
		return respondError(c, "Invalid request body", err)
	}
	user, err := h.service.UpdateUser(id, input)
	if err != nil {
		return respondError(c, "Could not update user", err)
	}
	return c.JSON(user)
}

// HandleDeleteUser deletes a user and always answers 204 for a well-formed id.
func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	if err := h.service.DeleteUser(c.Params("id")); err != nil {
		return respondError(c, "Could not delete user", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// parseBody decodes the request body into out. An empty body leaves out untouched.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return errors.Join(services.ErrInvalidParameter, err)
	}
	return nil
}

// respondError maps service error kinds to status codes.
func respondError(c *fiber.Ctx, message string, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrInvalidParameter):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		status = fiber.StatusConflict
	default:
		log.Printf("%s: %v", message, err)
	}
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}
