package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/storyforge/storyboardbackend/models"
	"github.com/storyforge/storyboardbackend/repository"
	"gorm.io/gorm"
)

type VideoHandler struct {
	Repo        repository.VideoRepositoryInterface
	ProjectRepo repository.ProjectRepositoryInterface
}

// CreateVideo creates a video under a project. The repository also creates
// the video's context and its default chat thread.
func (vh *VideoHandler) CreateVideo(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseIDParam(r, "project_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if _, err := vh.ProjectRepo.GetByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Project not found"})
		} else {
			log.Printf("Error checking project %d before creating video: %v", projectID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to verify project"})
		}
		return
	}

	var req struct {
		Title       string  `json:"title"`
		Description *string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required field: title"})
		return
	}

	video := models.Video{
		ProjectID:   projectID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
	}
	if err := vh.Repo.Create(&video); err != nil {
		log.Printf("Error creating video '%s' in project %d: %v", req.Title, projectID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to create video"})
		return
	}

	writeJSON(w, http.StatusCreated, video)
}

func (vh *VideoHandler) ListVideos(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseIDParam(r, "project_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	videos, err := vh.Repo.ListByProject(projectID)
	if err != nil {
		log.Printf("Error listing videos for project %d: %v", projectID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve videos"})
		return
	}
	if videos == nil {
		videos = []models.Video{}
	}
	writeJSON(w, http.StatusOK, videos)
}

func (vh *VideoHandler) GetVideo(w http.ResponseWriter, r *http.Request) {
	videoID, err := parseIDParam(r, "video_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	video, err := vh.Repo.GetByID(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Video not found"})
		} else {
			log.Printf("Error getting video %d: %v", videoID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve video"})
		}
		return
	}

	writeJSON(w, http.StatusOK, video)
}

func (vh *VideoHandler) UpdateVideo(w http.ResponseWriter, r *http.Request) {
	videoID, err := parseIDParam(r, "video_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var req struct {
		Title       string  `json:"title"`
		Description *string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required field: title"})
		return
	}

	err = vh.Repo.Update(videoID, strings.TrimSpace(req.Title), req.Description)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Video not found"})
		} else {
			log.Printf("Error updating video %d: %v", videoID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to update video"})
		}
		return
	}

	updated, err := vh.Repo.GetByID(videoID)
	if err != nil {
		log.Printf("Error fetching updated video %d: %v", videoID, err)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Video updated successfully"})
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (vh *VideoHandler) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	videoID, err := parseIDParam(r, "video_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	err = vh.Repo.Delete(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Video not found"})
		} else {
			log.Printf("Error deleting video %d: %v", videoID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete video"})
		}
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}
