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

type CharacterHandler struct {
	Repo        repository.CharacterRepositoryInterface
	ProjectRepo repository.ProjectRepositoryInterface
}

func (ch *CharacterHandler) CreateCharacter(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseIDParam(r, "project_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if _, err := ch.ProjectRepo.GetByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Project not found"})
		} else {
			log.Printf("Error checking project %d before creating character: %v", projectID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to verify project"})
		}
		return
	}

	var req struct {
		Name  string  `json:"name"`
		Notes *string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required field: name"})
		return
	}

	character := models.Character{
		ProjectID: projectID,
		Name:      strings.TrimSpace(req.Name),
		Notes:     req.Notes,
	}
	if err := ch.Repo.Create(&character); err != nil {
		log.Printf("Error creating character '%s' in project %d: %v", req.Name, projectID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to create character"})
		return
	}

	writeJSON(w, http.StatusCreated, character)
}

func (ch *CharacterHandler) ListCharacters(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseIDParam(r, "project_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	characters, err := ch.Repo.ListByProject(projectID)
	if err != nil {
		log.Printf("Error listing characters for project %d: %v", projectID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve characters"})
		return
	}
	if characters == nil {
		characters = []models.Character{}
	}
	writeJSON(w, http.StatusOK, characters)
}

func (ch *CharacterHandler) GetCharacter(w http.ResponseWriter, r *http.Request) {
	characterID, err := parseIDParam(r, "character_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	character, err := ch.Repo.GetByID(characterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Character not found"})
		} else {
			log.Printf("Error getting character %d: %v", characterID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve character"})
		}
		return
	}

	writeJSON(w, http.StatusOK, character)
}

func (ch *CharacterHandler) UpdateCharacter(w http.ResponseWriter, r *http.Request) {
	characterID, err := parseIDParam(r, "character_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var req struct {
		Name  string  `json:"name"`
		Notes *string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required field: name"})
		return
	}

	err = ch.Repo.Update(characterID, strings.TrimSpace(req.Name), req.Notes)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Character not found"})
		} else {
			log.Printf("Error updating character %d: %v", characterID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to update character"})
		}
		return
	}

	updated, err := ch.Repo.GetByID(characterID)
	if err != nil {
		log.Printf("Error fetching updated character %d: %v", characterID, err)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Character updated successfully"})
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (ch *CharacterHandler) DeleteCharacter(w http.ResponseWriter, r *http.Request) {
	characterID, err := parseIDParam(r, "character_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	err = ch.Repo.Delete(characterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Character not found"})
		} else {
			log.Printf("Error deleting character %d: %v", characterID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete character"})
		}
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}
