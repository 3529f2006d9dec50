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

type ProjectHandler struct {
	Repo repository.ProjectRepositoryInterface
}

func (ph *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string  `json:"name"`
		Description *string `json:"description"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required field: name"})
		return
	}

	project := models.Project{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}
	if err := ph.Repo.Create(&project); err != nil {
		log.Printf("Error creating project '%s': %v", req.Name, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to create project"})
		return
	}

	writeJSON(w, http.StatusCreated, project)
}

func (ph *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := ph.Repo.ListAll()
	if err != nil {
		log.Printf("Error listing projects: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve projects"})
		return
	}
	if projects == nil {
		projects = []models.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

func (ph *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseIDParam(r, "project_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	project, err := ph.Repo.GetByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Project not found"})
		} else {
			log.Printf("Error getting project %d: %v", projectID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve project"})
		}
		return
	}

	writeJSON(w, http.StatusOK, project)
}

func (ph *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseIDParam(r, "project_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var req struct {
		Name        string  `json:"name"`
		Description *string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required field: name"})
		return
	}

	err = ph.Repo.Update(projectID, strings.TrimSpace(req.Name), req.Description)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Project not found"})
		} else {
			log.Printf("Error updating project %d: %v", projectID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to update project"})
		}
		return
	}

	updated, err := ph.Repo.GetByID(projectID)
	if err != nil {
		log.Printf("Error fetching updated project %d: %v", projectID, err)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Project updated successfully"})
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (ph *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseIDParam(r, "project_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	err = ph.Repo.Delete(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Project not found"})
		} else {
			log.Printf("Error deleting project %d: %v", projectID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete project"})
		}
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}
