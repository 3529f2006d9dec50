package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/storyforge/storyboardbackend/database"
	"github.com/storyforge/storyboardbackend/generation"
	"github.com/storyforge/storyboardbackend/models"
	"github.com/storyforge/storyboardbackend/repository"
	"github.com/storyforge/storyboardbackend/workers"
	"gorm.io/gorm"
)

type ChatHandler struct {
	Repo      repository.ChatRepositoryInterface
	VideoRepo repository.VideoRepositoryInterface
	ImageRepo repository.ImageRepositoryInterface
	Registry  *generation.Registry
	Assets    *workers.AssetProcessor
}

// CreateChat adds an extra thread to a video. The default thread is
// created with the video itself.
func (ch *ChatHandler) CreateChat(w http.ResponseWriter, r *http.Request) {
	videoID, err := parseIDParam(r, "video_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if _, err := ch.VideoRepo.GetByID(videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Video not found"})
		} else {
			log.Printf("Error checking video %d before creating chat: %v", videoID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to verify video"})
		}
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required field: name"})
		return
	}

	chat := models.Chat{
		VideoID: videoID,
		Name:    strings.TrimSpace(req.Name),
	}
	if err := ch.Repo.Create(&chat); err != nil {
		log.Printf("Error creating chat '%s' in video %d: %v", req.Name, videoID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to create chat"})
		return
	}

	writeJSON(w, http.StatusCreated, chat)
}

func (ch *ChatHandler) ListChats(w http.ResponseWriter, r *http.Request) {
	videoID, err := parseIDParam(r, "video_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	chats, err := ch.Repo.ListByVideo(videoID)
	if err != nil {
		log.Printf("Error listing chats for video %d: %v", videoID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve chats"})
		return
	}
	if chats == nil {
		chats = []models.Chat{}
	}
	writeJSON(w, http.StatusOK, chats)
}

func (ch *ChatHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	chatID, err := parseIDParam(r, "chat_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	chat, err := ch.Repo.GetByID(chatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Chat not found"})
		} else {
			log.Printf("Error getting chat %d: %v", chatID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve chat"})
		}
		return
	}

	writeJSON(w, http.StatusOK, chat)
}

func (ch *ChatHandler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	chatID, err := parseIDParam(r, "chat_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	err = ch.Repo.Delete(chatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Chat not found"})
		} else if errors.Is(err, repository.ErrDefaultChat) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "The default chat of a video cannot be deleted"})
		} else {
			log.Printf("Error deleting chat %d: %v", chatID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete chat"})
		}
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}

func (ch *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	chatID, err := parseIDParam(r, "chat_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if _, err := ch.Repo.GetByID(chatID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Chat not found"})
		} else {
			log.Printf("Error checking chat %d: %v", chatID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to verify chat"})
		}
		return
	}

	messages, err := ch.Repo.ListMessages(chatID)
	if err != nil {
		log.Printf("Error listing messages for chat %d: %v", chatID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve messages"})
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}
	writeJSON(w, http.StatusOK, messages)
}

// Generate records the user's prompt, runs image generation, and records
// the assistant reply with its produced images. Provider failures fall
// back to mock placeholder output rather than failing the request.
func (ch *ChatHandler) Generate(w http.ResponseWriter, r *http.Request) {
	chatID, err := parseIDParam(r, "chat_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if _, err := ch.Repo.GetByID(chatID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Chat not found"})
		} else {
			log.Printf("Error checking chat %d: %v", chatID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to verify chat"})
		}
		return
	}

	var req struct {
		Prompt   string `json:"prompt"`
		Provider string `json:"provider"`
		Model    string `json:"model"`
		Size     string `json:"size"`
		Count    int    `json:"count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required field: prompt"})
		return
	}

	userMsg := models.Message{ChatID: chatID, Role: "user", Content: prompt}
	if err := ch.Repo.CreateMessage(&userMsg); err != nil {
		log.Printf("Error recording user message in chat %d: %v", chatID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to record message"})
		return
	}

	result, err := ch.Registry.GenerateOrMock(r.Context(), req.Provider, generation.Request{
		Prompt: prompt,
		Model:  req.Model,
		Size:   req.Size,
		Count:  req.Count,
	})
	if err != nil {
		log.Printf("Error generating images for chat %d: %v", chatID, err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "Image generation failed"})
		return
	}

	assistantMsg := models.Message{
		ChatID:   chatID,
		Role:     "assistant",
		Content:  prompt,
		Provider: &result.Provider,
		Model:    &result.Model,
	}
	if err := ch.Repo.CreateMessage(&assistantMsg); err != nil {
		log.Printf("Error recording assistant message in chat %d: %v", chatID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to record generation result"})
		return
	}

	for _, genImg := range result.Images {
		img := models.Image{
			URL:       genImg.URL,
			Prompt:    &prompt,
			Provider:  result.Provider,
			Model:     &result.Model,
			MessageID: &assistantMsg.ID,
		}
		if genImg.Local {
			// locally rendered placeholders are already in the store
			rel := strings.TrimPrefix(genImg.URL, "/api/")
			img.StoragePath = &rel
			img.DownloadStatus = database.StatusDone
		}
		if genImg.Width > 0 {
			width := genImg.Width
			img.Width = &width
		}
		if genImg.Height > 0 {
			height := genImg.Height
			img.Height = &height
		}
		if err := ch.ImageRepo.Create(&img); err != nil {
			log.Printf("Error storing generated image for message %d: %v", assistantMsg.ID, err)
			continue
		}
		if addErr := ch.ImageRepo.AddToSet(repository.RelationChat, chatID, img.ID, nil); addErr != nil {
			log.Printf("Error attaching image %d to chat %d: %v", img.ID, chatID, addErr)
		}
		if ch.Assets != nil {
			ch.Assets.QueueImage(img.ID, genImg.URL, genImg.Local)
		}
	}

	created, err := ch.Repo.GetMessage(assistantMsg.ID)
	if err != nil {
		log.Printf("Error fetching assistant message %d: %v", assistantMsg.ID, err)
		writeJSON(w, http.StatusCreated, assistantMsg)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (ch *ChatHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	messageID, err := parseIDParam(r, "message_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	err = ch.Repo.DeleteMessage(messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Message not found"})
		} else {
			log.Printf("Error deleting message %d: %v", messageID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete message"})
		}
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}
