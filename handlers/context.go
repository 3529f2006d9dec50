package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/storyforge/storyboardbackend/repository"
	"gorm.io/gorm"
)

type ContextHandler struct {
	Repo repository.ContextRepositoryInterface
}

// GetContext returns the single context row of a video.
func (ch *ContextHandler) GetContext(w http.ResponseWriter, r *http.Request) {
	videoID, err := parseIDParam(r, "video_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	ctx, err := ch.Repo.GetByVideoID(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Context not found"})
		} else {
			log.Printf("Error getting context for video %d: %v", videoID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve context"})
		}
		return
	}

	writeJSON(w, http.StatusOK, ctx)
}

func (ch *ContextHandler) UpdateContext(w http.ResponseWriter, r *http.Request) {
	videoID, err := parseIDParam(r, "video_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	ctx, err := ch.Repo.GetByVideoID(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Context not found"})
		} else {
			log.Printf("Error getting context for video %d: %v", videoID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve context"})
		}
		return
	}

	var req struct {
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}

	if err := ch.Repo.UpdateNotes(ctx.ID, req.Notes); err != nil {
		log.Printf("Error updating context %d: %v", ctx.ID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to update context"})
		return
	}

	updated, err := ch.Repo.GetByID(ctx.ID)
	if err != nil {
		log.Printf("Error fetching updated context %d: %v", ctx.ID, err)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Context updated successfully"})
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
