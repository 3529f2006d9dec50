package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectCRUD(t *testing.T) {
	api := setupAPI(t)

	created := api.createProject(t, "Launch Teaser")
	projectID := created["id"].(float64)
	assert.Equal(t, "Launch Teaser", created["name"])

	var listed []map[string]interface{}
	rec := api.do(t, http.MethodGet, "/api/projects", nil, &listed)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, listed, 1)

	var fetched map[string]interface{}
	rec = api.do(t, http.MethodGet, fmt.Sprintf("/api/projects/%.0f", projectID), nil, &fetched)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Launch Teaser", fetched["name"])

	var updated map[string]interface{}
	rec = api.do(t, http.MethodPut, fmt.Sprintf("/api/projects/%.0f", projectID),
		map[string]string{"name": "Launch Teaser v2"}, &updated)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Launch Teaser v2", updated["name"])

	rec = api.do(t, http.MethodDelete, fmt.Sprintf("/api/projects/%.0f", projectID), nil, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(t, http.MethodGet, fmt.Sprintf("/api/projects/%.0f", projectID), nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProjectValidation(t *testing.T) {
	api := setupAPI(t)

	rec := api.do(t, http.MethodPost, "/api/projects", map[string]string{"name": "   "}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/projects/abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/projects/9999", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVideoCreateProvisionsContext(t *testing.T) {
	api := setupAPI(t)
	project := api.createProject(t, "P")
	video := api.createVideo(t, project["id"].(float64), "Episode 1")
	videoID := video["id"].(float64)

	var ctx map[string]interface{}
	rec := api.do(t, http.MethodGet, fmt.Sprintf("/api/videos/%.0f/context", videoID), nil, &ctx)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, videoID, ctx["video_id"])

	var updatedCtx map[string]interface{}
	rec = api.do(t, http.MethodPut, fmt.Sprintf("/api/videos/%.0f/context", videoID),
		map[string]string{"notes": "moody lighting, 35mm"}, &updatedCtx)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "moody lighting, 35mm", updatedCtx["notes"])

	var chats []map[string]interface{}
	rec = api.do(t, http.MethodGet, fmt.Sprintf("/api/videos/%.0f/chats", videoID), nil, &chats)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, chats, 1)
	assert.Equal(t, true, chats[0]["is_default"])
}

func TestDeleteDefaultChatRejected(t *testing.T) {
	api := setupAPI(t)
	project := api.createProject(t, "P")
	video := api.createVideo(t, project["id"].(float64), "V")
	videoID := video["id"].(float64)

	var chats []map[string]interface{}
	rec := api.do(t, http.MethodGet, fmt.Sprintf("/api/videos/%.0f/chats", videoID), nil, &chats)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, chats, 1)

	rec = api.do(t, http.MethodDelete, fmt.Sprintf("/api/chats/%.0f", chats[0]["id"].(float64)), nil, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}
