package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/storyforge/storyboardbackend/models"
	"github.com/storyforge/storyboardbackend/repository"
	"gorm.io/gorm"
)

type ImageHandler struct {
	Repo repository.ImageRepositoryInterface
}

func (ih *ImageHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	imageID, err := parseIDParam(r, "image_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	image, err := ih.Repo.GetByID(imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Image not found"})
		} else {
			log.Printf("Error getting image %d: %v", imageID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve image"})
		}
		return
	}

	writeJSON(w, http.StatusOK, image)
}

// DeleteImage removes the image record and every set membership it has.
func (ih *ImageHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	imageID, err := parseIDParam(r, "image_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	err = ih.Repo.Delete(imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Image not found"})
		} else {
			log.Printf("Error deleting image %d: %v", imageID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete image"})
		}
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}

// setParams extracts the relation kind and owner ID from the URL. Routes
// mount this handler under /{kind}/{owner_id}/images.
func setParams(r *http.Request) (repository.RelationKind, uint, error) {
	kindStr := chi.URLParam(r, "kind")
	if !repository.IsValidRelationKind(kindStr) {
		return "", 0, errors.New("invalid relation kind")
	}
	kind := repository.RelationKind(kindStr)
	ownerID, err := parseIDParam(r, "owner_id")
	if err != nil {
		return "", 0, err
	}
	return kind, ownerID, nil
}

// ListSetImages lists the images attached to a frame, context, chat,
// gallery (project), or character, in attachment order.
func (ih *ImageHandler) ListSetImages(w http.ResponseWriter, r *http.Request) {
	kind, ownerID, err := setParams(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	images, err := ih.Repo.ListSetImages(kind, ownerID)
	if err != nil {
		log.Printf("Error listing %s %d images: %v", kind, ownerID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve images"})
		return
	}
	if images == nil {
		images = []models.Image{}
	}
	writeJSON(w, http.StatusOK, images)
}

// AddSetImage attaches an existing image to a set. Re-adding an image that
// is already attached is a no-op and still returns 201.
func (ih *ImageHandler) AddSetImage(w http.ResponseWriter, r *http.Request) {
	kind, ownerID, err := setParams(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var req struct {
		ImageID uint    `json:"image_id"`
		Source  *string `json:"source"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}
	if req.ImageID == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required field: image_id"})
		return
	}

	err = ih.Repo.AddToSet(kind, ownerID, req.ImageID, req.Source)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Image or owner not found"})
		} else {
			log.Printf("Error adding image %d to %s %d: %v", req.ImageID, kind, ownerID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to add image"})
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"image_id": req.ImageID})
}

// RemoveSetImage detaches an image from a set. The image record itself
// survives; removing a frame's selected image clears the selection.
func (ih *ImageHandler) RemoveSetImage(w http.ResponseWriter, r *http.Request) {
	kind, ownerID, err := setParams(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	imageID, err := parseIDParam(r, "image_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	err = ih.Repo.RemoveFromSet(kind, ownerID, imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Image is not attached here"})
		} else {
			log.Printf("Error removing image %d from %s %d: %v", imageID, kind, ownerID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to remove image"})
		}
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}

// CopyImage adds the image to a second set without touching the source
// set. The underlying image record is shared, not duplicated.
func (ih *ImageHandler) CopyImage(w http.ResponseWriter, r *http.Request) {
	imageID, err := parseIDParam(r, "image_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var req struct {
		ToKind string  `json:"to_kind"`
		ToID   uint    `json:"to_id"`
		Source *string `json:"source"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}
	if !repository.IsValidRelationKind(req.ToKind) || req.ToID == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing or invalid target: to_kind, to_id"})
		return
	}
	toKind := repository.RelationKind(req.ToKind)

	err = ih.Repo.AddToSet(toKind, req.ToID, imageID, req.Source)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Image or target not found"})
		} else {
			log.Printf("Error copying image %d to %s %d: %v", imageID, toKind, req.ToID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to copy image"})
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"image_id": imageID, "to_kind": req.ToKind, "to_id": req.ToID})
}

// MoveImage removes the image from the source set and attaches it to the
// target set.
func (ih *ImageHandler) MoveImage(w http.ResponseWriter, r *http.Request) {
	imageID, err := parseIDParam(r, "image_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var req struct {
		FromKind string  `json:"from_kind"`
		FromID   uint    `json:"from_id"`
		ToKind   string  `json:"to_kind"`
		ToID     uint    `json:"to_id"`
		Source   *string `json:"source"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}
	if !repository.IsValidRelationKind(req.FromKind) || !repository.IsValidRelationKind(req.ToKind) || req.FromID == 0 || req.ToID == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing or invalid source/target set"})
		return
	}
	fromKind := repository.RelationKind(req.FromKind)
	toKind := repository.RelationKind(req.ToKind)

	err = ih.Repo.MoveBetweenSets(fromKind, req.FromID, toKind, req.ToID, imageID, req.Source)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Image is not attached to the source set"})
		} else {
			log.Printf("Error moving image %d from %s %d to %s %d: %v", imageID, fromKind, req.FromID, toKind, req.ToID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to move image"})
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"image_id": imageID, "to_kind": req.ToKind, "to_id": req.ToID})
}
