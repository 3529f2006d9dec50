package workers

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/storyforge/storyboardbackend/config"
	"github.com/storyforge/storyboardbackend/media"
	"github.com/storyforge/storyboardbackend/realtime"
	"github.com/storyforge/storyboardbackend/repository"
	"github.com/storyforge/storyboardbackend/utils"
)

// GalleryZipper builds downloadable archives of a project's gallery in the
// background. Only one build per project runs at a time.
type GalleryZipper struct {
	Config      config.Config
	ProjectRepo repository.ProjectRepositoryInterface
	ImageRepo   repository.ImageRepositoryInterface
	Store       media.Store
	Hub         *realtime.Hub
	Mutex       sync.Mutex
	Building    map[uint]bool
}

func NewGalleryZipper(cfg config.Config, projectRepo repository.ProjectRepositoryInterface, imageRepo repository.ImageRepositoryInterface, store media.Store, hub *realtime.Hub) *GalleryZipper {
	return &GalleryZipper{
		Config:      cfg,
		ProjectRepo: projectRepo,
		ImageRepo:   imageRepo,
		Store:       store,
		Hub:         hub,
		Building:    make(map[uint]bool),
	}
}

// QueueZip marks the project's archive pending and starts a build unless
// one is already running for this project.
func (gz *GalleryZipper) QueueZip(projectID uint) error {
	if err := gz.ProjectRepo.RequestZip(projectID); err != nil {
		return err
	}

	gz.Mutex.Lock()
	if gz.Building[projectID] {
		gz.Mutex.Unlock()
		log.Printf("zipper: build already running for project %d", projectID)
		return nil
	}
	gz.Building[projectID] = true
	gz.Mutex.Unlock()

	go gz.build(projectID)
	return nil
}

func (gz *GalleryZipper) build(projectID uint) {
	defer func() {
		gz.Mutex.Lock()
		delete(gz.Building, projectID)
		gz.Mutex.Unlock()
	}()

	if err := gz.ProjectRepo.MarkZipProcessing(projectID); err != nil {
		log.Printf("zipper: ERROR marking project %d processing: %v", projectID, err)
		return
	}
	gz.publish(projectID, "processing", nil)

	var taskErr error
	var zipPathPtr *string
	var zipSizePtr *int64

	entries, taskErr := gz.collectEntries(projectID)
	if taskErr == nil {
		zipPath, zipSize, zipErr := utils.CreateGalleryZip(entries, gz.Config.ArchivesPath)
		if zipErr != nil {
			taskErr = zipErr
		} else {
			zipPathPtr = &zipPath
			zipSizePtr = &zipSize
		}
	}

	if dbErr := gz.ProjectRepo.SetZipResult(projectID, zipPathPtr, zipSizePtr, taskErr); dbErr != nil {
		log.Printf("zipper: ERROR storing zip result for project %d: %v", projectID, dbErr)
	}

	if taskErr != nil {
		log.Printf("zipper: build failed for project %d: %v", projectID, taskErr)
		gz.publish(projectID, "error", taskErr)
		return
	}
	gz.publish(projectID, "done", nil)
}

// collectEntries resolves the stored file of every gallery image that has
// been mirrored locally. Images still downloading are skipped.
func (gz *GalleryZipper) collectEntries(projectID uint) ([]utils.ZipEntry, error) {
	images, err := gz.ImageRepo.ListSetImages(repository.RelationGallery, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list gallery images: %w", err)
	}

	var entries []utils.ZipEntry
	for _, img := range images {
		if img.StoragePath == nil {
			continue
		}
		fullPath, pathErr := gz.Store.GetFullPath(*img.StoragePath)
		if pathErr != nil {
			log.Printf("zipper: skipping image %d: %v", img.ID, pathErr)
			continue
		}
		name := fmt.Sprintf("image_%d%s", img.ID, filepath.Ext(fullPath))
		entries = append(entries, utils.ZipEntry{Name: name, FullPath: fullPath})
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no locally stored gallery images for project %d", projectID)
	}
	return entries, nil
}

func (gz *GalleryZipper) publish(projectID uint, status string, taskErr error) {
	if gz.Hub == nil {
		return
	}
	event := realtime.Event{
		Type:      "zip",
		ProjectID: projectID,
		Status:    status,
		Timestamp: time.Now().Unix(),
	}
	if taskErr != nil {
		event.Error = taskErr.Error()
	}
	gz.Hub.Broadcast(event)
}
