package workers

import (
	"fmt"
	"log"
	"mime"
	"net/http"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/storyforge/storyboardbackend/config"
	"github.com/storyforge/storyboardbackend/media"
	"github.com/storyforge/storyboardbackend/realtime"
	"github.com/storyforge/storyboardbackend/repository"
)

// TaskType constants
const (
	TaskDownload  = "download"
	TaskThumbnail = "thumbnail"
	TaskMetadata  = "metadata"
)

type AssetJob struct {
	ImageID   uint
	RemoteURL string // only set for download jobs
	TaskType  string
}

// AssetProcessor mirrors generated images into local storage and derives
// thumbnails and metadata for them. Jobs for the same image and task are
// deduplicated via the Pending map.
type AssetProcessor struct {
	JobQueue   chan AssetJob
	Config     config.Config
	ImageRepo  repository.ImageRepositoryInterface
	Store      media.Store
	Proc       *media.Processor
	Hub        *realtime.Hub
	Wg         sync.WaitGroup
	StopChan   chan struct{}
	Pending    map[string]bool
	Mutex      sync.Mutex
	httpClient *http.Client
}

func NewAssetProcessor(cfg config.Config, imageRepo repository.ImageRepositoryInterface, store media.Store, proc *media.Processor, hub *realtime.Hub, queueSize, numWorkers int) *AssetProcessor {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	ap := &AssetProcessor{
		JobQueue:   make(chan AssetJob, queueSize),
		Config:     cfg,
		ImageRepo:  imageRepo,
		Store:      store,
		Proc:       proc,
		Hub:        hub,
		StopChan:   make(chan struct{}),
		Pending:    make(map[string]bool),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	ap.Wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go ap.worker(i)
	}
	log.Printf("Started %d asset processing worker(s) with queue size %d", numWorkers, queueSize)
	return ap
}

func (ap *AssetProcessor) worker(id int) {
	defer ap.Wg.Done()

	log.Printf("Asset worker %d started", id)
	for {
		select {
		case job, ok := <-ap.JobQueue:
			if !ok {
				log.Printf("Asset worker %d stopping: Job queue closed", id)
				return
			}

			pendingKey := fmt.Sprintf("%d:%s", job.ImageID, job.TaskType)
			log.Printf("Worker %d: Received job type '%s' for image %d", id, job.TaskType, job.ImageID)

			statusColumn := job.TaskType + "_status"
			err := ap.ImageRepo.MarkTaskProcessing(job.ImageID, statusColumn)
			if err != nil {
				log.Printf("Worker %d: ERROR marking %s processing for image %d: %v. Skipping job.", id, job.TaskType, job.ImageID, err)
				ap.Mutex.Lock()
				delete(ap.Pending, pendingKey)
				ap.Mutex.Unlock()
				continue
			}
			ap.publish(job, "processing", nil)

			var taskErr error
			switch job.TaskType {
			case TaskDownload:
				taskErr = ap.processDownloadTask(job)
			case TaskThumbnail:
				taskErr = ap.processThumbnailTask(job)
			case TaskMetadata:
				taskErr = ap.processMetadataTask(job)
			default:
				log.Printf("Worker %d: ERROR unknown task type '%s' for image %d", id, job.TaskType, job.ImageID)
			}

			ap.Mutex.Lock()
			delete(ap.Pending, pendingKey)
			ap.Mutex.Unlock()

			if taskErr != nil {
				ap.publish(job, "error", taskErr)
			} else {
				ap.publish(job, "done", nil)
			}

		case <-ap.StopChan:
			log.Printf("Asset worker %d stopping: Stop signal received", id)
			return
		}
	}
}

func (ap *AssetProcessor) publish(job AssetJob, status string, taskErr error) {
	if ap.Hub == nil {
		return
	}
	event := realtime.Event{
		Type:      "asset",
		ImageID:   job.ImageID,
		Task:      job.TaskType,
		Status:    status,
		Timestamp: time.Now().Unix(),
	}
	if taskErr != nil {
		event.Error = taskErr.Error()
	}
	ap.Hub.Broadcast(event)
}

// processDownloadTask fetches the remote image, stores a local copy and
// rewrites the image URL to the mirrored file. On success it chains the
// thumbnail and metadata tasks, which need the stored file.
func (ap *AssetProcessor) processDownloadTask(job AssetJob) error {
	var taskErr error
	var storagePathPtr *string
	var localURL string

	remoteURL := job.RemoteURL
	if remoteURL == "" {
		img, err := ap.ImageRepo.GetByID(job.ImageID)
		if err != nil {
			taskErr = fmt.Errorf("failed to load image record: %w", err)
		} else {
			remoteURL = img.URL
		}
	}

	if taskErr == nil {
		resp, err := ap.httpClient.Get(remoteURL)
		if err != nil {
			taskErr = fmt.Errorf("download failed: %w", err)
		} else {
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				taskErr = fmt.Errorf("download failed: unexpected status %d", resp.StatusCode)
			} else {
				ext := extensionForContentType(resp.Header.Get("Content-Type"))
				relPath, saveErr := ap.Store.Save(media.AssetTypeGenerated, "", ext, resp.Body)
				if saveErr != nil {
					taskErr = fmt.Errorf("failed to store downloaded image: %w", saveErr)
				} else {
					storagePathPtr = &relPath
					localURL = "/api/" + relPath
					log.Printf("Worker: Mirrored image %d to %s", job.ImageID, relPath)
				}
			}
		}
	}

	dbErr := ap.ImageRepo.UpdateDownloadResult(job.ImageID, storagePathPtr, localURL, taskErr)
	if dbErr != nil {
		log.Printf("Worker: ERROR updating download DB result for image %d: %v", job.ImageID, dbErr)
	}

	if taskErr == nil {
		ap.QueueJob(AssetJob{ImageID: job.ImageID, TaskType: TaskThumbnail})
		ap.QueueJob(AssetJob{ImageID: job.ImageID, TaskType: TaskMetadata})
	}
	return taskErr
}

func (ap *AssetProcessor) processThumbnailTask(job AssetJob) error {
	var taskErr error
	var thumbPathPtr *string

	img, err := ap.ImageRepo.GetByID(job.ImageID)
	if err != nil {
		taskErr = fmt.Errorf("failed to load image record: %w", err)
	} else if img.StoragePath == nil {
		taskErr = fmt.Errorf("image %d has no stored file", job.ImageID)
	} else {
		fullPath, pathErr := ap.Store.GetFullPath(*img.StoragePath)
		if pathErr != nil {
			taskErr = fmt.Errorf("failed to resolve stored file: %w", pathErr)
		} else {
			decoded, openErr := imaging.Open(fullPath)
			if openErr != nil {
				taskErr = fmt.Errorf("failed to open stored image: %w", openErr)
			} else {
				thumbPath, genErr := ap.Proc.GenerateThumbnail(decoded, ap.Config.ThumbnailMaxSize)
				if genErr != nil {
					taskErr = fmt.Errorf("thumbnail generation failed: %w", genErr)
				} else {
					thumbPathPtr = &thumbPath
					log.Printf("Worker: Generated thumbnail for image %d", job.ImageID)
				}
			}
		}
	}

	dbErr := ap.ImageRepo.UpdateThumbnailResult(job.ImageID, thumbPathPtr, taskErr)
	if dbErr != nil {
		log.Printf("Worker: ERROR updating thumbnail DB result for image %d: %v", job.ImageID, dbErr)
	}
	return taskErr
}

func (ap *AssetProcessor) processMetadataTask(job AssetJob) error {
	var taskErr error
	var metadata *media.Metadata

	img, err := ap.ImageRepo.GetByID(job.ImageID)
	if err != nil {
		taskErr = fmt.Errorf("failed to load image record: %w", err)
	} else if img.StoragePath == nil {
		taskErr = fmt.Errorf("image %d has no stored file", job.ImageID)
	} else {
		fullPath, pathErr := ap.Store.GetFullPath(*img.StoragePath)
		if pathErr != nil {
			taskErr = fmt.Errorf("failed to resolve stored file: %w", pathErr)
		} else {
			metadata, taskErr = media.ExtractMetadata(fullPath)
			if taskErr != nil {
				log.Printf("Worker: ERROR extracting metadata for image %d: %v", job.ImageID, taskErr)
			} else {
				log.Printf("Worker: Extracted metadata for image %d", job.ImageID)
			}
		}
	}

	dbErr := ap.ImageRepo.UpdateMetadataResult(job.ImageID, metadata, taskErr)
	if dbErr != nil {
		log.Printf("Worker: ERROR updating metadata DB result for image %d: %v", job.ImageID, dbErr)
	}
	return taskErr
}

// QueueImage queues the full pipeline for a freshly created image record.
// Remote images start with a download; locally rendered ones already have
// a stored file and skip straight to thumbnail and metadata.
func (ap *AssetProcessor) QueueImage(imageID uint, remoteURL string, local bool) {
	if local {
		ap.QueueJob(AssetJob{ImageID: imageID, TaskType: TaskThumbnail})
		ap.QueueJob(AssetJob{ImageID: imageID, TaskType: TaskMetadata})
		return
	}
	ap.QueueJob(AssetJob{ImageID: imageID, RemoteURL: remoteURL, TaskType: TaskDownload})
}

// QueueJob queues a specific task if not already pending
func (ap *AssetProcessor) QueueJob(job AssetJob) bool {
	// use composite key: "imageID:taskType"
	pendingKey := fmt.Sprintf("%d:%s", job.ImageID, job.TaskType)

	ap.Mutex.Lock()
	if ap.Pending[pendingKey] {
		ap.Mutex.Unlock()
		return false
	}

	ap.Pending[pendingKey] = true
	ap.Mutex.Unlock()

	select {
	case ap.JobQueue <- job:
		log.Printf("Queued task '%s' for image %d", job.TaskType, job.ImageID)
		return true
	default:
		log.Printf("WARNING: Asset processing job queue full. Failed to queue task '%s' for image %d", job.TaskType, job.ImageID)
		ap.Mutex.Lock()
		delete(ap.Pending, pendingKey)
		ap.Mutex.Unlock()
		return false
	}
}

// RequeueStalled re-queues work for images whose tasks never completed,
// e.g. after a crash while jobs were in flight.
func (ap *AssetProcessor) RequeueStalled() {
	images, err := ap.ImageRepo.GetImagesRequiringProcessing()
	if err != nil {
		log.Printf("ERROR fetching images requiring processing: %v", err)
		return
	}
	for _, img := range images {
		ap.QueueImage(img.ID, img.URL, img.StoragePath != nil)
	}
	if len(images) > 0 {
		log.Printf("Re-queued processing for %d image(s)", len(images))
	}
}

func (ap *AssetProcessor) Stop() {
	log.Println("Stopping asset processor workers...")
	close(ap.StopChan)
	ap.Wg.Wait()
	log.Println("All asset processor workers stopped")
}

func extensionForContentType(contentType string) string {
	if contentType != "" {
		if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
			switch mediaType {
			case "image/png":
				return ".png"
			case "image/jpeg":
				return ".jpg"
			case "image/webp":
				return ".webp"
			case "image/gif":
				return ".gif"
			}
		}
	}
	return ".png"
}
