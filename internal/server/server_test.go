package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"storyforge/internal/ai"
	"storyforge/internal/config"
	"storyforge/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// stubGenerator implements ai.Generator for handler tests.
type stubGenerator struct {
	text    string
	err     error
	calls   int
	prompts []string
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.calls++
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	return g.text, nil
}

// setupTestApp builds a server against an in-memory SQLite database and the
// given generator stub.
func setupTestApp(t *testing.T, gen ai.Generator) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Character{}, &models.Story{}))

	cfg := &config.Config{
		JWTSecret:      "test-secret-key",
		JWTExpiryHours: 1,
	}
	srv, err := New(cfg, db, nil, gen)
	require.NoError(t, err)

	return srv.App(), db
}

// apiEnvelope is the standard response shape.
type apiEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Count   int             `json:"count"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, apiEnvelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var envelope apiEnvelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &envelope), "body: %s", raw)
	}
	return resp.StatusCode, envelope
}

// registerAndLogin creates an account and returns its bearer token and user id.
func registerAndLogin(t *testing.T, app *fiber.App, email string) (string, uint) {
	t.Helper()

	status, _ := doJSON(t, app, "POST", "/api/auth/register", "", map[string]string{
		"name":     "Test User",
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, fiber.StatusCreated, status)

	status, envelope := doJSON(t, app, "POST", "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, fiber.StatusOK, status)

	var data struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(envelope.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token, data.User.ID
}

// createCharacter creates a character and returns its id.
func createCharacter(t *testing.T, app *fiber.App, token string, in map[string]interface{}) uint {
	t.Helper()

	status, envelope := doJSON(t, app, "POST", "/api/characters", token, in)
	require.Equal(t, fiber.StatusCreated, status, "message: %s", envelope.Message)

	var character models.Character
	require.NoError(t, json.Unmarshal(envelope.Data, &character))
	require.NotZero(t, character.ID)
	return character.ID
}

func storyCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.Story{}).Count(&count).Error)
	return count
}
