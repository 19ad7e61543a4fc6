package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"userapi/internal/handlers"
	"userapi/internal/models"
	"userapi/internal/repositories"
	"userapi/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupApp sets up a Fiber app backed by a private in-memory SQLite database
// seeded with alice, bek and chris (ids 1, 2, 3).
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	userRepo := repositories.NewGORMUserRepository(db)
	seedUsersForTest(t, userRepo)

	userService := services.NewUserService(userRepo, nil, 0)
	userHandler := handlers.NewUserHandler(userService)

	app := fiber.New()
	userHandler.RegisterRoutes(app)
	return app
}

func seedUsersForTest(t *testing.T, repo repositories.UserRepository) {
	t.Helper()
	for _, name := range []string{"alice", "bek", "chris"} {
		require.NoError(t, repo.Create(&models.User{Name: name}))
	}
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func doRequest(t *testing.T, app *fiber.App, method, target string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestListUsers(t *testing.T) {
	app := setupApp(t)

	resp := doRequest(t, app, http.MethodGet, "/users", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	users := decode[[]models.User](t, resp)
	assert.Len(t, users, 3)
	assert.Equal(t, "alice", users[0].Name)

	resp = doRequest(t, app, http.MethodGet, "/users?limit=2", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]models.User](t, resp), 2)

	resp = doRequest(t, app, http.MethodGet, "/users?limit=0", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(body))

	resp = doRequest(t, app, http.MethodGet, "/users?limit=two", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, app, http.MethodGet, "/users?limit=99999999999999999999", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]models.User](t, resp), 3)
}

func TestGetUser(t *testing.T) {
	app := setupApp(t)

	resp := doRequest(t, app, http.MethodGet, "/users/1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"name":"alice"}`, string(body))

	resp = doRequest(t, app, http.MethodGet, "/users/one", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, app, http.MethodGet, "/users/5", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doRequest(t, app, http.MethodGet, "/users/99999999999999999999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doRequest(t, app, http.MethodDelete, "/users/99999999999999999999", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestDeleteUser(t *testing.T) {
	app := setupApp(t)

	resp := doRequest(t, app, http.MethodDelete, "/users/1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Empty(t, body)

	resp = doRequest(t, app, http.MethodGet, "/users/1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Deleting again is still a success.
	resp = doRequest(t, app, http.MethodDelete, "/users/1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doRequest(t, app, http.MethodDelete, "/users/one", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateUser(t *testing.T) {
	app := setupApp(t)

	resp := doRequest(t, app, http.MethodPost, "/users", map[string]string{"name": "daniel"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[models.User](t, resp)
	assert.Equal(t, uint(4), created.ID)
	assert.Equal(t, "daniel", created.Name)

	resp = doRequest(t, app, http.MethodGet, fmt.Sprintf("/users/%d", created.ID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, created, decode[models.User](t, resp))

	resp = doRequest(t, app, http.MethodPost, "/users", map[string]string{"name": "daniel"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPost, "/users", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPost, "/users", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPost, "/users", map[string]interface{}{"name": 42})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPost, "/users", map[string]string{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateUser(t *testing.T) {
	app := setupApp(t)

	resp := doRequest(t, app, http.MethodPut, "/users/2", map[string]string{"name": "bob"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.User{ID: 2, Name: "bob"}, decode[models.User](t, resp))

	// Keeping the current name is not a conflict.
	resp = doRequest(t, app, http.MethodPut, "/users/2", map[string]string{"name": "bob"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPut, "/users/one", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPut, "/users/one", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPut, "/users/2", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPut, "/users/6", map[string]string{"name": "foo"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPut, "/users/2", map[string]string{"name": "chris"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestUsersScenario(t *testing.T) {
	app := setupApp(t)

	resp := doRequest(t, app, http.MethodGet, "/users?limit=2", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]models.User](t, resp), 2)

	resp = doRequest(t, app, http.MethodGet, "/users/1", nil)
	assert.Equal(t, models.User{ID: 1, Name: "alice"}, decode[models.User](t, resp))

	resp = doRequest(t, app, http.MethodDelete, "/users/1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = doRequest(t, app, http.MethodGet, "/users/1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPost, "/users", map[string]string{"name": "daniel"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, models.User{ID: 4, Name: "daniel"}, decode[models.User](t, resp))
	resp = doRequest(t, app, http.MethodPost, "/users", map[string]string{"name": "daniel"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPut, "/users/2", map[string]string{"name": "chris"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestErrorResponseBody(t *testing.T) {
	app := setupApp(t)

	resp := doRequest(t, app, http.MethodGet, "/users/5", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.Equal(t, "Could not retrieve user", body["message"])
	assert.Contains(t, body["error"], "not found")
}
