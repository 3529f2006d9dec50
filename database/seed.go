package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/storyforge/storyboardbackend/models"
)

// SeedIfEmpty populates the store with a small demo project when no
// projects exist yet. With the default in-memory database this runs on
// every boot.
func SeedIfEmpty(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Project{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count projects for seeding: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now().Unix()

	return db.Transaction(func(tx *gorm.DB) error {
		desc := "Demo project created at startup"
		project := models.Project{Name: "Demo Project", Description: &desc, CreatedAt: now, UpdatedAt: now}
		if err := tx.Create(&project).Error; err != nil {
			return fmt.Errorf("failed to seed project: %w", err)
		}

		video := models.Video{ProjectID: project.ID, Title: "Untitled Video", CreatedAt: now, UpdatedAt: now}
		if err := tx.Create(&video).Error; err != nil {
			return fmt.Errorf("failed to seed video: %w", err)
		}

		ctx := models.Context{VideoID: video.ID, Notes: "", CreatedAt: now, UpdatedAt: now}
		if err := tx.Create(&ctx).Error; err != nil {
			return fmt.Errorf("failed to seed context: %w", err)
		}

		chat := models.Chat{VideoID: video.ID, Name: "main", IsDefault: true, CreatedAt: now, UpdatedAt: now}
		if err := tx.Create(&chat).Error; err != nil {
			return fmt.Errorf("failed to seed chat: %w", err)
		}

		for i := 0; i < 3; i++ {
			frame := models.Frame{VideoID: video.ID, Position: i, CreatedAt: now, UpdatedAt: now}
			if err := tx.Create(&frame).Error; err != nil {
				return fmt.Errorf("failed to seed frame %d: %w", i, err)
			}
		}

		log.Printf("Seeded demo project %d with video %d", project.ID, video.ID)
		return nil
	})
}
