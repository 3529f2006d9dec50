package database

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/storyforge/storyboardbackend/models"
)

func setupSearchDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := InitGormDB(dsn)
	require.NoError(t, err)
	require.NoError(t, AutoMigrateModels(db))
	return db
}

func seedGalleryRow(t *testing.T, db *gorm.DB, projectID uint, prompt, provider, source string, addedAt int64) uint {
	t.Helper()
	img := models.Image{URL: "https://example.com/" + prompt, Prompt: &prompt, Provider: provider, CreatedAt: addedAt}
	require.NoError(t, db.Create(&img).Error)
	row := models.GalleryImage{ProjectID: projectID, ImageID: img.ID, AddedAt: addedAt}
	if source != "" {
		row.Source = &source
	}
	require.NoError(t, db.Create(&row).Error)
	return img.ID
}

func TestSearchGalleryImagesFilters(t *testing.T) {
	db := setupSearchDB(t)
	project := models.Project{Name: "P", CreatedAt: time.Now().Unix(), UpdatedAt: time.Now().Unix()}
	require.NoError(t, db.Create(&project).Error)

	base := time.Now().Unix()
	castle := seedGalleryRow(t, db, project.ID, "castle at dawn", "openai", "frame", base)
	seedGalleryRow(t, db, project.ID, "castle at night", "fal", "chat", base+1)
	seedGalleryRow(t, db, project.ID, "a red bicycle", "mock", "", base+2)

	sqlDB, err := db.DB()
	require.NoError(t, err)

	// provider filter
	entries, err := SearchGalleryImages(sqlDB, GalleryFilter{ProjectID: project.ID, Provider: "openai"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, castle, entries[0].ImageID)

	// source filter
	entries, err = SearchGalleryImages(sqlDB, GalleryFilter{ProjectID: project.ID, Source: "chat"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].Prompt)
	assert.Equal(t, "castle at night", *entries[0].Prompt)

	// prompt substring
	entries, err = SearchGalleryImages(sqlDB, GalleryFilter{ProjectID: project.ID, Query: "castle"})
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	// other projects never leak in
	entries, err = SearchGalleryImages(sqlDB, GalleryFilter{ProjectID: project.ID + 1})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSearchGalleryImagesSortOrders(t *testing.T) {
	db := setupSearchDB(t)
	project := models.Project{Name: "P", CreatedAt: time.Now().Unix(), UpdatedAt: time.Now().Unix()}
	require.NoError(t, db.Create(&project).Error)

	base := time.Now().Unix()
	first := seedGalleryRow(t, db, project.ID, "shot 10", "mock", "", base)
	second := seedGalleryRow(t, db, project.ID, "shot 2", "mock", "", base+1)

	sqlDB, err := db.DB()
	require.NoError(t, err)

	// default: newest first
	entries, err := SearchGalleryImages(sqlDB, GalleryFilter{ProjectID: project.ID})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, second, entries[0].ImageID)

	entries, err = SearchGalleryImages(sqlDB, GalleryFilter{ProjectID: project.ID, Sort: SortAddedAsc})
	require.NoError(t, err)
	assert.Equal(t, first, entries[0].ImageID)

	// lexicographic puts "shot 10" before "shot 2"
	entries, err = SearchGalleryImages(sqlDB, GalleryFilter{ProjectID: project.ID, Sort: SortPromptAsc})
	require.NoError(t, err)
	assert.Equal(t, first, entries[0].ImageID)

	// natural order puts "shot 2" before "shot 10"
	entries, err = SearchGalleryImages(sqlDB, GalleryFilter{ProjectID: project.ID, Sort: SortPromptNat})
	require.NoError(t, err)
	assert.Equal(t, second, entries[0].ImageID)
}

func TestIsValidGallerySort(t *testing.T) {
	assert.True(t, IsValidGallerySort(SortAddedDesc))
	assert.True(t, IsValidGallerySort(SortPromptNat))
	assert.False(t, IsValidGallerySort("random"))
}
