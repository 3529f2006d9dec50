package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCreatesMessagesAndImages(t *testing.T) {
	api := setupAPI(t)
	project := api.createProject(t, "P")
	video := api.createVideo(t, project["id"].(float64), "V")
	videoID := video["id"].(float64)

	var chats []map[string]interface{}
	rec := api.do(t, http.MethodGet, fmt.Sprintf("/api/videos/%.0f/chats", videoID), nil, &chats)
	require.Equal(t, http.StatusOK, rec.Code)
	chatID := chats[0]["id"].(float64)

	var msg map[string]interface{}
	rec = api.do(t, http.MethodPost, fmt.Sprintf("/api/chats/%.0f/generate", chatID),
		map[string]interface{}{"prompt": "a fox in the snow", "count": 2}, &msg)
	require.Equal(t, http.StatusCreated, rec.Code)

	assert.Equal(t, "assistant", msg["role"])
	assert.Equal(t, "mock", msg["provider"])
	images := msg["images"].([]interface{})
	require.Len(t, images, 2)
	first := images[0].(map[string]interface{})
	assert.Equal(t, "a fox in the snow", first["prompt"])
	assert.Equal(t, "done", first["download_status"], "local placeholders skip the download step")

	// both the user prompt and the reply are in the transcript
	var messages []map[string]interface{}
	rec = api.do(t, http.MethodGet, fmt.Sprintf("/api/chats/%.0f/messages", chatID), nil, &messages)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, messages, 2)
	assert.Equal(t, "user", messages[0]["role"])
	assert.Equal(t, "assistant", messages[1]["role"])

	// generated images land in the chat's image set
	var setImages []map[string]interface{}
	rec = api.do(t, http.MethodGet, fmt.Sprintf("/api/sets/chat/%.0f/images", chatID), nil, &setImages)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, setImages, 2)
}

func TestGenerateRequiresPrompt(t *testing.T) {
	api := setupAPI(t)
	project := api.createProject(t, "P")
	video := api.createVideo(t, project["id"].(float64), "V")

	var chats []map[string]interface{}
	rec := api.do(t, http.MethodGet, fmt.Sprintf("/api/videos/%.0f/chats", video["id"].(float64)), nil, &chats)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodPost, fmt.Sprintf("/api/chats/%.0f/generate", chats[0]["id"].(float64)),
		map[string]string{"prompt": "  "}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteMessageEndpoint(t *testing.T) {
	api := setupAPI(t)
	project := api.createProject(t, "P")
	video := api.createVideo(t, project["id"].(float64), "V")
	videoID := video["id"].(float64)

	var chats []map[string]interface{}
	rec := api.do(t, http.MethodGet, fmt.Sprintf("/api/videos/%.0f/chats", videoID), nil, &chats)
	require.Equal(t, http.StatusOK, rec.Code)
	chatID := chats[0]["id"].(float64)

	var msg map[string]interface{}
	rec = api.do(t, http.MethodPost, fmt.Sprintf("/api/chats/%.0f/generate", chatID),
		map[string]interface{}{"prompt": "a pier at sunset", "count": 1}, &msg)
	require.Equal(t, http.StatusCreated, rec.Code)
	images := msg["images"].([]interface{})
	imageID := images[0].(map[string]interface{})["id"].(float64)

	rec = api.do(t, http.MethodDelete, fmt.Sprintf("/api/messages/%.0f", msg["id"].(float64)), nil, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// the message-owned image goes with it
	rec = api.do(t, http.MethodGet, fmt.Sprintf("/api/images/%.0f", imageID), nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProvidersEndpoint(t *testing.T) {
	api := setupAPI(t)

	var providers []map[string]interface{}
	rec := api.do(t, http.MethodGet, "/api/providers", nil, &providers)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, providers, 1)
	assert.Equal(t, "mock", providers[0]["id"])
	assert.Equal(t, true, providers[0]["available"])
	assert.Equal(t, true, providers[0]["default"])
}
