package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/storyforge/storyboardbackend/models"
	"github.com/storyforge/storyboardbackend/repository"
	"gorm.io/gorm"
)

type FrameHandler struct {
	Repo      repository.FrameRepositoryInterface
	VideoRepo repository.VideoRepositoryInterface
	ImageRepo repository.ImageRepositoryInterface
}

// CreateFrame appends a new frame at the end of the video's sequence.
func (fh *FrameHandler) CreateFrame(w http.ResponseWriter, r *http.Request) {
	videoID, err := parseIDParam(r, "video_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if _, err := fh.VideoRepo.GetByID(videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Video not found"})
		} else {
			log.Printf("Error checking video %d before creating frame: %v", videoID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to verify video"})
		}
		return
	}

	var req struct {
		Title  *string `json:"title"`
		Prompt *string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}

	frame := models.Frame{
		VideoID: videoID,
		Title:   req.Title,
		Prompt:  req.Prompt,
	}
	if err := fh.Repo.Create(&frame); err != nil {
		log.Printf("Error creating frame in video %d: %v", videoID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to create frame"})
		return
	}

	writeJSON(w, http.StatusCreated, frame)
}

func (fh *FrameHandler) ListFrames(w http.ResponseWriter, r *http.Request) {
	videoID, err := parseIDParam(r, "video_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	frames, err := fh.Repo.ListByVideo(videoID)
	if err != nil {
		log.Printf("Error listing frames for video %d: %v", videoID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve frames"})
		return
	}
	if frames == nil {
		frames = []models.Frame{}
	}
	writeJSON(w, http.StatusOK, frames)
}

func (fh *FrameHandler) GetFrame(w http.ResponseWriter, r *http.Request) {
	frameID, err := parseIDParam(r, "frame_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	frame, err := fh.Repo.GetByID(frameID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Frame not found"})
		} else {
			log.Printf("Error getting frame %d: %v", frameID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve frame"})
		}
		return
	}

	writeJSON(w, http.StatusOK, frame)
}

func (fh *FrameHandler) UpdateFrame(w http.ResponseWriter, r *http.Request) {
	frameID, err := parseIDParam(r, "frame_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var req struct {
		Title  *string `json:"title"`
		Prompt *string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}

	err = fh.Repo.Update(frameID, req.Title, req.Prompt)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Frame not found"})
		} else {
			log.Printf("Error updating frame %d: %v", frameID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to update frame"})
		}
		return
	}

	updated, err := fh.Repo.GetByID(frameID)
	if err != nil {
		log.Printf("Error fetching updated frame %d: %v", frameID, err)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Frame updated successfully"})
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// ReorderFrame moves a frame to a new position. Out-of-range positions are
// clamped; the video's frames are renumbered to stay dense.
func (fh *FrameHandler) ReorderFrame(w http.ResponseWriter, r *http.Request) {
	frameID, err := parseIDParam(r, "frame_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var req struct {
		Position *int `json:"position"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}
	if req.Position == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required field: position"})
		return
	}

	err = fh.Repo.Reorder(frameID, *req.Position)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Frame not found"})
		} else {
			log.Printf("Error reordering frame %d to %d: %v", frameID, *req.Position, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to reorder frame"})
		}
		return
	}

	frame, err := fh.Repo.GetByID(frameID)
	if err != nil {
		log.Printf("Error fetching reordered frame %d: %v", frameID, err)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Frame reordered successfully"})
		return
	}
	writeJSON(w, http.StatusOK, frame)
}

func (fh *FrameHandler) DeleteFrame(w http.ResponseWriter, r *http.Request) {
	frameID, err := parseIDParam(r, "frame_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	err = fh.Repo.Delete(frameID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Frame not found"})
		} else {
			log.Printf("Error deleting frame %d: %v", frameID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete frame"})
		}
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}

// SelectImage marks one of the frame's attached images as the chosen take.
// A null image_id clears the selection.
func (fh *FrameHandler) SelectImage(w http.ResponseWriter, r *http.Request) {
	frameID, err := parseIDParam(r, "frame_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var req struct {
		ImageID *uint `json:"image_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}

	err = fh.Repo.SelectImage(frameID, req.ImageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Frame not found"})
		} else if errors.Is(err, repository.ErrImageNotInSet) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "Image is not attached to this frame"})
		} else {
			log.Printf("Error selecting image for frame %d: %v", frameID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to select image"})
		}
		return
	}

	frame, err := fh.Repo.GetByID(frameID)
	if err != nil {
		log.Printf("Error fetching frame %d after selection: %v", frameID, err)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Selection updated successfully"})
		return
	}
	writeJSON(w, http.StatusOK, frame)
}
