package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/storyforge/storyboardbackend/config"
	"github.com/storyforge/storyboardbackend/database"
	"github.com/storyforge/storyboardbackend/generation"
	"github.com/storyforge/storyboardbackend/handlers"
	"github.com/storyforge/storyboardbackend/media"
	"github.com/storyforge/storyboardbackend/realtime"
	"github.com/storyforge/storyboardbackend/repository"
	"github.com/storyforge/storyboardbackend/workers"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	storagePaths := []string{cfg.GeneratedPath, cfg.ThumbnailsPath, cfg.ArchivesPath}
	for _, p := range storagePaths {
		log.Printf("Ensuring storage directory exists: %s", p)
		if err := os.MkdirAll(p, 0755); err != nil {
			log.Fatalf("FATAL: Failed to create storage directory %s: %v", p, err)
		}
	}

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: Failed to migrate database schema: %v", err)
	}
	if database.IsInMemory(cfg.DatabasePath) {
		log.Printf("Using in-memory database; all data is lost on restart")
	}
	if err := database.SeedIfEmpty(db); err != nil {
		log.Printf("WARNING: Failed to seed demo data: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("FATAL: Failed to access underlying sql.DB: %v", err)
	}

	mediaSubDirs := map[media.AssetType]string{
		media.AssetTypeGenerated: filepath.Base(cfg.GeneratedPath),
		media.AssetTypeThumbnail: filepath.Base(cfg.ThumbnailsPath),
		media.AssetTypeArchive:   filepath.Base(cfg.ArchivesPath),
	}
	mediaStore, err := media.NewLocalStorage(cfg.MediaStoragePath, mediaSubDirs)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize media store: %v", err)
	}
	mediaProcessor := media.NewProcessor(mediaStore)

	projectRepo := repository.NewProjectRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	contextRepo := repository.NewContextRepository(db)
	frameRepo := repository.NewFrameRepository(db)
	chatRepo := repository.NewChatRepository(db)
	imageRepo := repository.NewImageRepository(db)
	characterRepo := repository.NewCharacterRepository(db)

	registry := generation.NewRegistry(cfg.DefaultProvider,
		generation.NewMockProvider(mediaProcessor, "/api"),
		generation.NewOpenAIProvider(cfg.OpenAIAPIKey),
		generation.NewFALProvider(cfg.FALKey),
	)
	for _, info := range registry.List() {
		log.Printf("Provider %s (%s): available=%t default=%t", info.ID, info.Name, info.Available, info.Default)
	}

	hub := realtime.NewHub()
	go hub.Run()

	log.Printf("Initializing asset processor worker pool (Workers: %d, Queue Size: %d)...", cfg.NumAssetWorkers, cfg.AssetQueueSize)
	assetProcessor := workers.NewAssetProcessor(cfg, imageRepo, mediaStore, mediaProcessor, hub, cfg.AssetQueueSize, cfg.NumAssetWorkers)
	assetProcessor.RequeueStalled()

	galleryZipper := workers.NewGalleryZipper(cfg, projectRepo, imageRepo, mediaStore, hub)

	log.Printf("Using database: %s", cfg.DatabasePath)
	log.Printf("Storing media in: %s", cfg.MediaStoragePath)
	log.Printf("Thumbnail max size (longest side): %dpx", cfg.ThumbnailMaxSize)

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}

	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	projectHandler := &handlers.ProjectHandler{Repo: projectRepo}
	videoHandler := &handlers.VideoHandler{Repo: videoRepo, ProjectRepo: projectRepo}
	contextHandler := &handlers.ContextHandler{Repo: contextRepo}
	frameHandler := &handlers.FrameHandler{Repo: frameRepo, VideoRepo: videoRepo, ImageRepo: imageRepo}
	chatHandler := &handlers.ChatHandler{Repo: chatRepo, VideoRepo: videoRepo, ImageRepo: imageRepo, Registry: registry, Assets: assetProcessor}
	imageHandler := &handlers.ImageHandler{Repo: imageRepo}
	characterHandler := &handlers.CharacterHandler{Repo: characterRepo, ProjectRepo: projectRepo}
	galleryHandler := &handlers.GalleryHandler{DB: sqlDB, ProjectRepo: projectRepo, Zipper: galleryZipper}
	generationHandler := &handlers.GenerationHandler{Registry: registry}

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

				r.Route("/gallery", func(r chi.Router) {
					r.Get("/", galleryHandler.SearchGallery)
					r.Post("/zip", galleryHandler.RequestZip)
					r.Get("/zip", galleryHandler.DownloadZip)
				})
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

		// relation-set membership, shared across frames, contexts, chats,
		// galleries (by project id), and characters
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

		generatedSubDir := filepath.Base(cfg.GeneratedPath)
		r.Get(fmt.Sprintf("/%s/*", generatedSubDir), handlers.AssetServer(cfg.MediaStoragePath, generatedSubDir))
		log.Printf("Registered generated-image server at /%s/*", generatedSubDir)

		thumbnailSubDir := filepath.Base(cfg.ThumbnailsPath)
		r.Get(fmt.Sprintf("/%s/*", thumbnailSubDir), handlers.AssetServer(cfg.MediaStoragePath, thumbnailSubDir))
		log.Printf("Registered thumbnail server at /%s/*", thumbnailSubDir)

		archiveSubDir := filepath.Base(cfg.ArchivesPath)
		r.Get(fmt.Sprintf("/%s/*", archiveSubDir), handlers.AssetServer(cfg.MediaStoragePath, archiveSubDir))
		log.Printf("Registered archive server at /%s/*", archiveSubDir)
	})

	r.Get("/ws", hub.ServeWS)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	serverAddr := ":" + port
	fmt.Printf("Server starting on http://localhost:%s\n", port)
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
