package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/storyforge/storyboardbackend/database"
	"github.com/storyforge/storyboardbackend/generation"
	"github.com/storyforge/storyboardbackend/media"
	"github.com/storyforge/storyboardbackend/repository"
)

type testAPI struct {
	router *chi.Mux
	db     *gorm.DB
}

// setupAPI wires the handlers against a fresh in-memory database and a
// mock-only provider registry, mirroring the production route tree.
func setupAPI(t *testing.T) *testAPI {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.InitGormDB(dsn)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrateModels(db))

	store, err := media.NewLocalStorage(t.TempDir(), map[media.AssetType]string{
		media.AssetTypeGenerated: "generated",
		media.AssetTypeThumbnail: "thumbnails",
	})
	require.NoError(t, err)
	proc := media.NewProcessor(store)
	registry := generation.NewRegistry("mock", generation.NewMockProvider(proc, "/api"))

	projectRepo := repository.NewProjectRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	contextRepo := repository.NewContextRepository(db)
	frameRepo := repository.NewFrameRepository(db)
	chatRepo := repository.NewChatRepository(db)
	imageRepo := repository.NewImageRepository(db)
	characterRepo := repository.NewCharacterRepository(db)

	projectHandler := &ProjectHandler{Repo: projectRepo}
	videoHandler := &VideoHandler{Repo: videoRepo, ProjectRepo: projectRepo}
	contextHandler := &ContextHandler{Repo: contextRepo}
	frameHandler := &FrameHandler{Repo: frameRepo, VideoRepo: videoRepo, ImageRepo: imageRepo}
	chatHandler := &ChatHandler{Repo: chatRepo, VideoRepo: videoRepo, ImageRepo: imageRepo, Registry: registry}
	imageHandler := &ImageHandler{Repo: imageRepo}
	characterHandler := &CharacterHandler{Repo: characterRepo, ProjectRepo: projectRepo}
	generationHandler := &GenerationHandler{Registry: registry}

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Route("/projects", func(r chi.Router) {
			r.Post("/", projectHandler.CreateProject)
			r.Get("/", projectHandler.ListProjects)
			r.Route("/{project_id}", func(r chi.Router) {
				r.Get("/", projectHandler.GetProject)
				r.Put("/", projectHandler.UpdateProject)
				r.Delete("/", projectHandler.DeleteProject)
				r.Post("/videos", videoHandler.CreateVideo)
				r.Get("/videos", videoHandler.ListVideos)
				r.Post("/characters", characterHandler.CreateCharacter)
				r.Get("/characters", characterHandler.ListCharacters)
			})
		})
		r.Route("/videos/{video_id}", func(r chi.Router) {
			r.Get("/", videoHandler.GetVideo)
			r.Put("/", videoHandler.UpdateVideo)
			r.Delete("/", videoHandler.DeleteVideo)
			r.Get("/context", contextHandler.GetContext)
			r.Put("/context", contextHandler.UpdateContext)
			r.Post("/frames", frameHandler.CreateFrame)
			r.Get("/frames", frameHandler.ListFrames)
			r.Post("/chats", chatHandler.CreateChat)
			r.Get("/chats", chatHandler.ListChats)
		})
		r.Route("/frames/{frame_id}", func(r chi.Router) {
			r.Get("/", frameHandler.GetFrame)
			r.Put("/", frameHandler.UpdateFrame)
			r.Delete("/", frameHandler.DeleteFrame)
			r.Put("/position", frameHandler.ReorderFrame)
			r.Put("/selected_image", frameHandler.SelectImage)
		})
		r.Route("/chats/{chat_id}", func(r chi.Router) {
			r.Get("/", chatHandler.GetChat)
			r.Delete("/", chatHandler.DeleteChat)
			r.Get("/messages", chatHandler.ListMessages)
			r.Post("/generate", chatHandler.Generate)
		})
		r.Delete("/messages/{message_id}", chatHandler.DeleteMessage)
		r.Route("/sets/{kind}/{owner_id}/images", func(r chi.Router) {
			r.Get("/", imageHandler.ListSetImages)
			r.Post("/", imageHandler.AddSetImage)
			r.Delete("/{image_id}", imageHandler.RemoveSetImage)
		})
		r.Route("/images/{image_id}", func(r chi.Router) {
			r.Get("/", imageHandler.GetImage)
			r.Delete("/", imageHandler.DeleteImage)
			r.Post("/copy", imageHandler.CopyImage)
			r.Post("/move", imageHandler.MoveImage)
		})
		r.Route("/characters/{character_id}", func(r chi.Router) {
			r.Get("/", characterHandler.GetCharacter)
			r.Put("/", characterHandler.UpdateCharacter)
			r.Delete("/", characterHandler.DeleteCharacter)
		})
		r.Get("/providers", generationHandler.ListProviders)
	})

	return &testAPI{router: r, db: db}
}

// do runs one request against the test router and decodes the JSON body
// into out when it is non-nil.
func (a *testAPI) do(t *testing.T, method, path string, body interface{}, out interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	if out != nil && rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

// createProject is a shorthand for tests that need one to exist.
func (a *testAPI) createProject(t *testing.T, name string) map[string]interface{} {
	t.Helper()
	var created map[string]interface{}
	rec := a.do(t, http.MethodPost, "/api/projects", map[string]string{"name": name}, &created)
	require.Equal(t, http.StatusCreated, rec.Code)
	return created
}

func (a *testAPI) createVideo(t *testing.T, projectID float64, title string) map[string]interface{} {
	t.Helper()
	var created map[string]interface{}
	rec := a.do(t, http.MethodPost, fmt.Sprintf("/api/projects/%.0f/videos", projectID), map[string]string{"title": title}, &created)
	require.Equal(t, http.StatusCreated, rec.Code)
	return created
}
