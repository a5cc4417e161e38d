// Package repo persists artworks in the document store
package repo

import (
	"context"

	"atelier/internal/core/imagery"
	"atelier/internal/core/listing"
	"atelier/internal/modkit/repokit"
	"atelier/internal/platform/store/docs"
	"atelier/internal/services/api/art/domain"
)

// Collection is the document collection of artworks
const Collection = "art"

// Repo is the art persistence surface
type Repo struct {
	art *repokit.Collection[domain.Artwork]
}

// New binds the art collection to s
func New(s docs.Store) *Repo {
	return &Repo{art: repokit.NewCollection[domain.Artwork](s, Collection)}
}

type artDoc struct {
	Title       string        `json:"title"`
	ImagePath   string        `json:"image_path"`
	ImageURL    string        `json:"image_url"`
	ThumbPath   string        `json:"thumb_path"`
	ThumbURL    string        `json:"thumb_url"`
	ContentType string        `json:"content_type"`
	Size        int64         `json:"size"`
	Width       int           `json:"width"`
	Height      int           `json:"height"`
	Color       string        `json:"color,omitempty"`
	Exif        *imagery.Exif `json:"exif,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
	CreatedBy   string        `json:"created_by"`
}

// Create stores a under a.ID; the id is chosen by the caller so blob keys can embed it
func (r *Repo) Create(ctx context.Context, a domain.Artwork) (domain.Artwork, error) {
	return r.art.Create(ctx, a.ID, artDoc{
		Title:       a.Title,
		ImagePath:   a.ImagePath,
		ImageURL:    a.ImageURL,
		ThumbPath:   a.ThumbPath,
		ThumbURL:    a.ThumbURL,
		ContentType: a.ContentType,
		Size:        a.Size,
		Width:       a.Width,
		Height:      a.Height,
		Color:       a.Color,
		Exif:        a.Exif,
		Tags:        a.Tags,
		CreatedBy:   a.CreatedBy,
	})
}

// Get loads id
func (r *Repo) Get(ctx context.Context, id string) (domain.Artwork, error) {
	return r.art.Get(ctx, id)
}

// Delete removes id
func (r *Repo) Delete(ctx context.Context, id string) error {
	return r.art.Delete(ctx, id)
}

// Source feeds the listing accessor
func (r *Repo) Source() listing.Source[domain.Artwork] { return r.art.Source() }
