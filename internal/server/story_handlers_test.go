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

func TestStoryGenerationEndToEnd(t *testing.T) {
	gen := &stubGenerator{text: "TEXT"}
	app, db := setupTestApp(t, gen)
	token, userID := registerAndLogin(t, app, "author@example.com")

	characterID := createCharacter(t, app, token, map[string]interface{}{
		"name":        "Ava",
		"description": "A fearless explorer",
		"traits":      []string{"brave"},
	})

	status, envelope := doJSON(t, app, "POST", "/api/stories", token, map[string]interface{}{
		"title":      "T",
		"story_type": "adventure",
		"characters": []uint{characterID},
	})
	require.Equal(t, fiber.StatusCreated, status, "message: %s", envelope.Message)

	var story models.Story
	require.NoError(t, json.Unmarshal(envelope.Data, &story))
	assert.Equal(t, "TEXT", story.Content)
	assert.Equal(t, "adventure", story.StoryType)
	assert.Contains(t, story.Prompt, "Ava")
	assert.Contains(t, story.Prompt, "brave")
	assert.Equal(t, userID, story.UserID)
	assert.Equal(t, []uint{characterID}, []uint(story.CharacterIDs))
	assert.Equal(t, 1, gen.calls)

	t.Run("list includes the story", func(t *testing.T) {
		status, envelope := doJSON(t, app, "GET", "/api/stories", token, nil)
		require.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, 1, envelope.Count)
	})

	t.Run("get returns character summaries", func(t *testing.T) {
		status, envelope := doJSON(t, app, "GET", fmt.Sprintf("/api/stories/%d", story.ID), token, nil)
		require.Equal(t, fiber.StatusOK, status)

		var fetched models.Story
		require.NoError(t, json.Unmarshal(envelope.Data, &fetched))
		require.Len(t, fetched.Characters, 1)
		assert.Equal(t, "Ava", fetched.Characters[0].Name)
		assert.Equal(t, "A fearless explorer", fetched.Characters[0].Description)
	})

	t.Run("delete", func(t *testing.T) {
		status, _ := doJSON(t, app, "DELETE", fmt.Sprintf("/api/stories/%d", story.ID), token, nil)
		require.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, int64(0), storyCount(t, db))
	})
}

func TestStoryGeneration_InvalidCharacterNoWrites(t *testing.T) {
	gen := &stubGenerator{text: "TEXT"}
	app, db := setupTestApp(t, gen)
	token, _ := registerAndLogin(t, app, "author@example.com")

	characterID := createCharacter(t, app, token, map[string]interface{}{
		"name":        "Ava",
		"description": "d",
	})

	status, _ := doJSON(t, app, "POST", "/api/stories", token, map[string]interface{}{
		"title":      "T",
		"story_type": "adventure",
		"characters": []uint{characterID, 9999},
	})
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, int64(0), storyCount(t, db), "no orphan story record")
	assert.Zero(t, gen.calls, "model must not be called for an invalid character list")
}

func TestStoryGeneration_ForeignCharacter(t *testing.T) {
	gen := &stubGenerator{text: "TEXT"}
	app, db := setupTestApp(t, gen)
	ownerToken, _ := registerAndLogin(t, app, "owner@example.com")
	strangerToken, _ := registerAndLogin(t, app, "stranger@example.com")

	characterID := createCharacter(t, app, ownerToken, map[string]interface{}{
		"name":        "Ava",
		"description": "d",
	})

	status, _ := doJSON(t, app, "POST", "/api/stories", strangerToken, map[string]interface{}{
		"title":      "T",
		"story_type": "adventure",
		"characters": []uint{characterID},
	})
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, int64(0), storyCount(t, db))
	assert.Zero(t, gen.calls)
}

func TestStoryGeneration_ProviderFailureNoWrites(t *testing.T) {
	gen := &stubGenerator{err: fmt.Errorf("provider down")}
	app, db := setupTestApp(t, gen)
	token, _ := registerAndLogin(t, app, "author@example.com")

	characterID := createCharacter(t, app, token, map[string]interface{}{
		"name":        "Ava",
		"description": "d",
	})

	status, envelope := doJSON(t, app, "POST", "/api/stories", token, map[string]interface{}{
		"title":      "T",
		"story_type": "adventure",
		"characters": []uint{characterID},
	})
	assert.Equal(t, fiber.StatusBadGateway, status)
	assert.Equal(t, "Failed to generate story with AI service", envelope.Message)
	assert.NotContains(t, envelope.Message, "provider down", "internal cause must not be exposed")
	assert.Equal(t, int64(0), storyCount(t, db), "failed generation must not create a story")
}

func TestStoryGeneration_Validation(t *testing.T) {
	gen := &stubGenerator{text: "TEXT"}
	app, _ := setupTestApp(t, gen)
	token, _ := registerAndLogin(t, app, "author@example.com")

	characterID := createCharacter(t, app, token, map[string]interface{}{
		"name":        "Ava",
		"description": "d",
	})

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing title", map[string]interface{}{"story_type": "adventure", "characters": []uint{characterID}}},
		{"missing characters", map[string]interface{}{"title": "T", "story_type": "adventure"}},
		{"invalid story type", map[string]interface{}{"title": "T", "story_type": "noir", "characters": []uint{characterID}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := doJSON(t, app, "POST", "/api/stories", token, tt.body)
			assert.Equal(t, fiber.StatusBadRequest, status)
		})
	}
	assert.Zero(t, gen.calls)
}

func TestStoryOwnershipIsolation(t *testing.T) {
	gen := &stubGenerator{text: "TEXT"}
	app, _ := setupTestApp(t, gen)
	ownerToken, _ := registerAndLogin(t, app, "owner@example.com")
	strangerToken, _ := registerAndLogin(t, app, "stranger@example.com")

	characterID := createCharacter(t, app, ownerToken, map[string]interface{}{
		"name":        "Ava",
		"description": "d",
	})
	status, envelope := doJSON(t, app, "POST", "/api/stories", ownerToken, map[string]interface{}{
		"title":      "T",
		"story_type": "fantasy",
		"characters": []uint{characterID},
	})
	require.Equal(t, fiber.StatusCreated, status)

	var story models.Story
	require.NoError(t, json.Unmarshal(envelope.Data, &story))

	path := fmt.Sprintf("/api/stories/%d", story.ID)

	status, _ = doJSON(t, app, "GET", path, strangerToken, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = doJSON(t, app, "DELETE", path, strangerToken, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, envelope = doJSON(t, app, "GET", "/api/stories", strangerToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 0, envelope.Count)
}
