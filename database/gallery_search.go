package database

import (
	"database/sql"
	"fmt"
	"sort"

	sq "github.com/Masterminds/squirrel"
	"github.com/facette/natsort"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// GalleryFilter holds the dynamic search parameters for a project gallery
// listing. Zero values mean "no constraint".
type GalleryFilter struct {
	ProjectID uint
	Provider  string // filter by generating provider id
	Source    string // filter by where the image was copied from (frame/context/chat)
	Query     string // substring match against the generation prompt
	Sort      string // one of the Sort* constants, DefaultGallerySort if empty
}

// GalleryEntry is a gallery row joined with its image record.
type GalleryEntry struct {
	ImageID       uint    `json:"image_id"`
	URL           string  `json:"url"`
	Prompt        *string `json:"prompt,omitempty"`
	Provider      string  `json:"provider"`
	Model         *string `json:"model,omitempty"`
	ThumbnailPath *string `json:"thumbnail_path,omitempty"`
	Width         *int    `json:"width,omitempty"`
	Height        *int    `json:"height,omitempty"`
	Source        *string `json:"source,omitempty"`
	AddedAt       int64   `json:"added_at"`
}

// SearchGalleryImages runs a dynamic filtered query over gallery_images
// joined with images. The query is built with squirrel against the raw
// connection; natural prompt order is applied in Go since sqlite has no
// natural-sort collation.
func SearchGalleryImages(db *sql.DB, filter GalleryFilter) ([]GalleryEntry, error) {
	builder := psql.
		Select(
			"i.id", "i.url", "i.prompt", "i.provider", "i.model",
			"i.thumbnail_path", "i.width", "i.height",
			"g.source", "g.added_at",
		).
		From("gallery_images g").
		Join("images i ON i.id = g.image_id").
		Where(sq.Eq{"g.project_id": filter.ProjectID})

	if filter.Provider != "" {
		builder = builder.Where(sq.Eq{"i.provider": filter.Provider})
	}
	if filter.Source != "" {
		builder = builder.Where(sq.Eq{"g.source": filter.Source})
	}
	if filter.Query != "" {
		builder = builder.Where(sq.Like{"i.prompt": "%" + filter.Query + "%"})
	}

	sortOrder := filter.Sort
	if sortOrder == "" {
		sortOrder = DefaultGallerySort
	}
	switch sortOrder {
	case SortAddedAsc:
		builder = builder.OrderBy("g.added_at ASC", "i.id ASC")
	case SortPromptAsc, SortPromptNat:
		builder = builder.OrderBy("i.prompt ASC", "i.id ASC")
	case SortProviderAsc:
		builder = builder.OrderBy("i.provider ASC", "g.added_at DESC")
	default: // SortAddedDesc
		builder = builder.OrderBy("g.added_at DESC", "i.id DESC")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build gallery query: %w", err)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query gallery images: %w", err)
	}
	defer rows.Close()

	var entries []GalleryEntry
	for rows.Next() {
		var e GalleryEntry
		if err := rows.Scan(
			&e.ImageID, &e.URL, &e.Prompt, &e.Provider, &e.Model,
			&e.ThumbnailPath, &e.Width, &e.Height,
			&e.Source, &e.AddedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan gallery row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("gallery row iteration failed: %w", err)
	}

	if sortOrder == SortPromptNat {
		sort.SliceStable(entries, func(a, b int) bool {
			pa, pb := "", ""
			if entries[a].Prompt != nil {
				pa = *entries[a].Prompt
			}
			if entries[b].Prompt != nil {
				pb = *entries[b].Prompt
			}
			return natsort.Compare(pa, pb)
		})
	}

	return entries, nil
}
