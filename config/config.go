package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	DefaultGeneratedSubDir  = "generated"
	DefaultThumbnailsSubDir = "thumbnails"
	DefaultArchivesSubDir   = "gallery_archives"
)

const (
	defaultAssetQueueSize   = 200
	defaultNumAssetWorkers  = 4
	defaultThumbnailMaxSize = 300
)

// DefaultDatabasePath keeps the whole store in process memory; all data is
// lost on restart. A single shared-cache connection is required for this
// DSN (see database.InitGormDB).
const DefaultDatabasePath = "file::memory:?cache=shared"

type Config struct {
	// database DSN (in-memory sqlite by default, may point at a file)
	DatabasePath string

	// media storage configuration
	MediaStoragePath string // primary root for stored assets
	GeneratedPath    string // full-calculated path for mirrored/generated originals
	ThumbnailsPath   string // full-calculated path for thumbnails
	ArchivesPath     string // full-calculated path for gallery archives

	// thumbnail generation settings
	ThumbnailMaxSize int

	// worker settings
	AssetQueueSize  int
	NumAssetWorkers int

	// image generation provider settings
	OpenAIAPIKey    string
	FALKey          string
	DefaultProvider string

	// http settings
	AllowedOrigins []string
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	dbPath := getEnvOrDefault("DATABASE_PATH", DefaultDatabasePath)

	mediaStorage := getEnvOrDefault("MEDIA_STORAGE_PATH", filepath.Join(".", "media_storage"))
	absMediaStorage, err := filepath.Abs(mediaStorage)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for media storage '%s': %w", mediaStorage, err)
	}

	generatedSubDir := getEnvOrDefault("GENERATED_SUBDIR", DefaultGeneratedSubDir)
	absGeneratedPath := filepath.Join(absMediaStorage, generatedSubDir)

	thumbSubDir := getEnvOrDefault("THUMBNAILS_SUBDIR", DefaultThumbnailsSubDir)
	absThumbnailsPath := filepath.Join(absMediaStorage, thumbSubDir)

	archiveSubDir := getEnvOrDefault("ARCHIVES_SUBDIR", DefaultArchivesSubDir)
	absArchivesPath := filepath.Join(absMediaStorage, archiveSubDir)

	thumbMaxSize := getEnvIntOrDefault("THUMBNAIL_MAX_SIZE", defaultThumbnailMaxSize)

	queueSize := getEnvIntOrDefault("ASSET_QUEUE_SIZE", defaultAssetQueueSize)
	numWorkers := getEnvIntOrDefault("NUM_ASSET_WORKERS", defaultNumAssetWorkers)

	defaultProvider := getEnvOrDefault("DEFAULT_PROVIDER", "mock")

	origins := []string{"http://localhost:3000"}
	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		origins = nil
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	cfg := Config{
		DatabasePath:     dbPath,
		MediaStoragePath: absMediaStorage,
		GeneratedPath:    absGeneratedPath,
		ThumbnailsPath:   absThumbnailsPath,
		ArchivesPath:     absArchivesPath,
		ThumbnailMaxSize: thumbMaxSize,
		AssetQueueSize:   queueSize,
		NumAssetWorkers:  numWorkers,
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		FALKey:           os.Getenv("FAL_KEY"),
		DefaultProvider:  defaultProvider,
		AllowedOrigins:   origins,
	}

	return cfg, nil
}
