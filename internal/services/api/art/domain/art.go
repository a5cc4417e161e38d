// Package domain holds the gallery model: uploaded artworks and their thumbnails
package domain

import (
	"context"
	"strings"
	"time"

	"atelier/internal/core/fold"
	"atelier/internal/core/imagery"
	"atelier/internal/core/listing"
	"atelier/internal/modkit/repokit"
)

// Orderable fields of the art collection
const (
	FieldCreatedAt = "created_at"
	FieldTitle     = "title"
)

// Artwork is one image in the gallery
type Artwork struct {
	ID          string        `json:"id" example:"3f2a7c1e-5d4b-4e8a-9c0f-1a2b3c4d5e6f"`
	Title       string        `json:"title" example:"Harbour at dusk"`
	ImagePath   string        `json:"image_path" example:"art/3f2a7c1e-5d4b-4e8a-9c0f-1a2b3c4d5e6f_harbour.jpg"`
	ImageURL    string        `json:"image_url"`
	ThumbPath   string        `json:"thumb_path" example:"art/thumbs/3f2a7c1e-5d4b-4e8a-9c0f-1a2b3c4d5e6f.jpg"`
	ThumbURL    string        `json:"thumb_url"`
	ContentType string        `json:"content_type" example:"image/jpeg"`
	Size        int64         `json:"size"`
	Width       int           `json:"width"`
	Height      int           `json:"height"`
	Color       string        `json:"color,omitempty" example:"#3a5f7d"`
	Exif        *imagery.Exif `json:"exif,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
	CreatedBy   string        `json:"created_by"`
	CreatedAt   time.Time     `json:"created_at"`
}

// RecordID implements listing.Record
func (a Artwork) RecordID() string { return a.ID }

// SearchText implements listing.Record
func (a Artwork) SearchText() []string { return append([]string{a.Title}, a.Tags...) }

// Categories implements listing.Record
func (a Artwork) Categories() []string { return a.Tags }

// SortKey implements listing.Record
func (a Artwork) SortKey(field string) (string, bool) {
	switch field {
	case FieldCreatedAt:
		return repokit.TimeKey(a.CreatedAt), true
	case FieldTitle:
		return a.Title, a.Title != ""
	}
	return "", false
}

// UploadInput is shared by every file of one upload
// an empty title falls back to each file's name
type UploadInput struct {
	Title string   `validate:"omitempty,max=200"`
	Tags  []string `validate:"omitempty,max=20,dive,min=1,max=40"`
}

// Upload is a file taken from a form
type Upload struct {
	Filename string
	Data     []byte
}

// ListQuery is the gallery query
type ListQuery struct {
	listing.Params `query:",squash"`
	Tag            string `query:"tag" validate:"omitempty,max=40"`
}

// ParseTags turns the form's csv into lower case tags
func ParseTags(csv string) []string {
	tags := fold.Tags(csv)
	for i, t := range tags {
		tags[i] = strings.ToLower(t)
	}
	return tags
}

// ServicePort is the gallery workflow surface the http layer calls
type ServicePort interface {
	List(ctx context.Context, q ListQuery) (listing.Page[Artwork], []Artwork, error)
	Get(ctx context.Context, id string) (Artwork, error)
	Upload(ctx context.Context, author string, in UploadInput, files []Upload) ([]Artwork, error)
	Delete(ctx context.Context, id string) error
}
