package server

import (
	"encoding/json"
	"fmt"
	"testing"

	"storyforge/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCharacterCRUD(t *testing.T) {
	app, _ := setupTestApp(t, &stubGenerator{})
	token, userID := registerAndLogin(t, app, "owner@example.com")

	var characterID uint

	t.Run("create", func(t *testing.T) {
		status, envelope := doJSON(t, app, "POST", "/api/characters", token, map[string]interface{}{
			"name":        "Ava",
			"description": "A fearless explorer",
			"traits":      []string{"brave", "curious"},
		})
		require.Equal(t, fiber.StatusCreated, status)

		var character models.Character
		require.NoError(t, json.Unmarshal(envelope.Data, &character))
		assert.Equal(t, "Ava", character.Name)
		assert.Equal(t, userID, character.UserID)
		characterID = character.ID
	})

	t.Run("list", func(t *testing.T) {
		status, envelope := doJSON(t, app, "GET", "/api/characters", token, nil)
		require.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, 1, envelope.Count)
	})

	t.Run("get", func(t *testing.T) {
		status, envelope := doJSON(t, app, "GET", fmt.Sprintf("/api/characters/%d", characterID), token, nil)
		require.Equal(t, fiber.StatusOK, status)

		var character models.Character
		require.NoError(t, json.Unmarshal(envelope.Data, &character))
		assert.Equal(t, "Ava", character.Name)
		assert.Equal(t, []string{"brave", "curious"}, []string(character.Traits))
	})

	t.Run("update", func(t *testing.T) {
		status, envelope := doJSON(t, app, "PUT", fmt.Sprintf("/api/characters/%d", characterID), token, map[string]interface{}{
			"name":        "Ava Stone",
			"description": "A fearless explorer of ruins",
			"traits":      []string{"brave"},
			"backstory":   "Raised in the mountains",
		})
		require.Equal(t, fiber.StatusOK, status)

		var character models.Character
		require.NoError(t, json.Unmarshal(envelope.Data, &character))
		assert.Equal(t, "Ava Stone", character.Name)
		assert.Equal(t, "Raised in the mountains", character.Backstory)
		assert.Equal(t, userID, character.UserID, "owner must not change on update")
	})

	t.Run("delete", func(t *testing.T) {
		status, _ := doJSON(t, app, "DELETE", fmt.Sprintf("/api/characters/%d", characterID), token, nil)
		require.Equal(t, fiber.StatusOK, status)

		status, _ = doJSON(t, app, "GET", fmt.Sprintf("/api/characters/%d", characterID), token, nil)
		assert.Equal(t, fiber.StatusNotFound, status)
	})
}

func TestCharacterOwnershipIsolation(t *testing.T) {
	app, _ := setupTestApp(t, &stubGenerator{})
	ownerToken, _ := registerAndLogin(t, app, "owner@example.com")
	strangerToken, _ := registerAndLogin(t, app, "stranger@example.com")

	characterID := createCharacter(t, app, ownerToken, map[string]interface{}{
		"name":        "Ava",
		"description": "A fearless explorer",
		"traits":      []string{"brave"},
	})

	path := fmt.Sprintf("/api/characters/%d", characterID)

	t.Run("get by non-owner", func(t *testing.T) {
		status, envelope := doJSON(t, app, "GET", path, strangerToken, nil)
		assert.Equal(t, fiber.StatusForbidden, status)
		assert.NotContains(t, string(envelope.Data)+envelope.Message, "fearless",
			"field values must not leak to a non-owner")
	})

	t.Run("update by non-owner", func(t *testing.T) {
		status, _ := doJSON(t, app, "PUT", path, strangerToken, map[string]interface{}{
			"name":        "Hijacked",
			"description": "x",
		})
		assert.Equal(t, fiber.StatusForbidden, status)
	})

	t.Run("delete by non-owner", func(t *testing.T) {
		status, _ := doJSON(t, app, "DELETE", path, strangerToken, nil)
		assert.Equal(t, fiber.StatusForbidden, status)

		// Still present for the owner.
		status, _ = doJSON(t, app, "GET", path, ownerToken, nil)
		assert.Equal(t, fiber.StatusOK, status)
	})

	t.Run("list never crosses users", func(t *testing.T) {
		status, envelope := doJSON(t, app, "GET", "/api/characters", strangerToken, nil)
		require.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, 0, envelope.Count)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		status, _ := doJSON(t, app, "GET", "/api/characters", "", nil)
		assert.Equal(t, fiber.StatusUnauthorized, status)
	})
}
