package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/storyforge/storyboardbackend/database"
	"github.com/storyforge/storyboardbackend/repository"
	"github.com/storyforge/storyboardbackend/workers"
	"gorm.io/gorm"
)

type GalleryHandler struct {
	DB          *sql.DB
	ProjectRepo repository.ProjectRepositoryInterface
	Zipper      *workers.GalleryZipper
}

// SearchGallery lists a project's gallery with optional provider, source,
// and prompt-substring filters plus a sort order.
func (gh *GalleryHandler) SearchGallery(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseIDParam(r, "project_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if _, err := gh.ProjectRepo.GetByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Project not found"})
		} else {
			log.Printf("Error checking project %d before gallery search: %v", projectID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to verify project"})
		}
		return
	}

	sortOrder := r.URL.Query().Get("sort")
	if sortOrder != "" && !database.IsValidGallerySort(sortOrder) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid sort order"})
		return
	}

	filter := database.GalleryFilter{
		ProjectID: projectID,
		Provider:  r.URL.Query().Get("provider"),
		Source:    r.URL.Query().Get("source"),
		Query:     r.URL.Query().Get("q"),
		Sort:      sortOrder,
	}

	entries, err := database.SearchGalleryImages(gh.DB, filter)
	if err != nil {
		log.Printf("Error searching gallery of project %d: %v", projectID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to search gallery"})
		return
	}
	if entries == nil {
		entries = []database.GalleryEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// RequestZip queues a background build of the project gallery archive.
func (gh *GalleryHandler) RequestZip(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseIDParam(r, "project_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	err = gh.Zipper.QueueZip(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Project not found"})
		} else {
			log.Printf("Error queueing gallery zip for project %d: %v", projectID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to queue archive build"})
		}
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"message": "Archive build queued"})
}

// DownloadZip streams the most recent gallery archive.
func (gh *GalleryHandler) DownloadZip(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseIDParam(r, "project_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	project, err := gh.ProjectRepo.GetByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Project not found"})
		} else {
			log.Printf("Error getting project %d: %v", projectID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve project"})
		}
		return
	}

	if project.ZipStatus != database.StatusDone || project.ZipPath == nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "No archive available", "zip_status": project.ZipStatus})
		return
	}

	if _, err := os.Stat(*project.ZipPath); err != nil {
		log.Printf("Archive for project %d missing on disk: %v", projectID, err)
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Archive file missing"})
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+filepath.Base(*project.ZipPath)+"\"")
	http.ServeFile(w, r, *project.ZipPath)
}
