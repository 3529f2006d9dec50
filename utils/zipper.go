package utils

import (
	"archive/zip"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ZipEntry names a single file to include in an archive. Name is the
// entry name inside the zip, FullPath is the absolute path on disk.
type ZipEntry struct {
	Name     string
	FullPath string
}

// CreateGalleryZip creates a ZIP archive of the given stored image files.
// archiveSaveDir: The *full, absolute* path where the ZIP file should be saved (e.g., cfg.ArchivesPath).
// Returns: full path of the created zip, size in bytes, error.
func CreateGalleryZip(entries []ZipEntry, archiveSaveDir string) (string, int64, error) {
	if err := os.MkdirAll(archiveSaveDir, 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create zip save directory %s: %w", archiveSaveDir, err)
	}

	timestamp := time.Now().Unix()
	archiveUUID, _ := uuid.NewRandom()
	zipFilename := fmt.Sprintf("archive_%d_%s.zip", timestamp, archiveUUID.String()[:8])
	zipFilePath := filepath.Join(archiveSaveDir, zipFilename)

	zipFile, err := os.Create(zipFilePath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create zip file %s: %w", zipFilePath, err)
	}
	defer zipFile.Close()

	zipWriter := zip.NewWriter(zipFile)
	defer zipWriter.Close()

	foundFiles := false
	for _, entry := range entries {
		fileToZip, err := os.Open(entry.FullPath)
		if err != nil {
			log.Printf("zipper: Failed to open file %s for zipping: %v. Skipping.", entry.FullPath, err)
			continue
		}

		writer, err := zipWriter.Create(entry.Name)
		if err != nil {
			fileToZip.Close()
			log.Printf("zipper: Failed to create entry in zip for %s: %v. Skipping.", entry.Name, err)
			continue
		}

		_, err = io.Copy(writer, fileToZip)
		fileToZip.Close()
		if err != nil {
			log.Printf("zipper: Failed to write file %s to zip: %v. Skipping.", entry.Name, err)
			continue
		}
		foundFiles = true
	}

	if !foundFiles {
		zipWriter.Close()
		zipFile.Close()
		os.Remove(zipFilePath)
		return "", 0, fmt.Errorf("no stored files available to zip")
	}

	if err := zipWriter.Close(); err != nil {
		return "", 0, fmt.Errorf("failed to finalize zip writer for %s: %w", zipFilePath, err)
	}
	// file handle closed by defer

	zipInfo, err := os.Stat(zipFilePath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to stat created zip file %s: %w", zipFilePath, err)
	}

	log.Printf("Successfully created gallery zip: %s (Size: %d bytes)", zipFilePath, zipInfo.Size())
	return zipFilePath, zipInfo.Size(), nil
}
