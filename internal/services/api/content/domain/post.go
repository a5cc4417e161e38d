// Package domain holds the content model: blog posts with an optional photo
package domain

import (
	"context"
	"strings"
	"time"

	"atelier/internal/core/fold"
	"atelier/internal/core/listing"
	"atelier/internal/modkit/repokit"
)

// Orderable fields of the content collection
const (
	FieldCreatedAt = "created_at"
	FieldTitle     = "title"
)

// Post is a published blog entry
type Post struct {
	ID        string     `json:"id" example:"9d0f4c3e-1b7a-4f55-8a0e-2a3c4d5e6f70"`
	Title     string     `json:"title" example:"Studio notes"`
	Body      string     `json:"body" example:"Started a *new* series this week."`
	BodyHTML  string     `json:"body_html"`
	Excerpt   string     `json:"excerpt"`
	PhotoPath string     `json:"photo_path,omitempty"`
	PhotoURL  string     `json:"photo_url,omitempty"`
	Tags      []string   `json:"tags,omitempty"`
	CreatedBy string     `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// RecordID implements listing.Record
func (p Post) RecordID() string { return p.ID }

// SearchText implements listing.Record
func (p Post) SearchText() []string { return append([]string{p.Title, p.Body}, p.Tags...) }

// Categories implements listing.Record; posts are grouped by tag
func (p Post) Categories() []string { return p.Tags }

// SortKey implements listing.Record
func (p Post) SortKey(field string) (string, bool) {
	switch field {
	case FieldCreatedAt:
		return repokit.TimeKey(p.CreatedAt), true
	case FieldTitle:
		return p.Title, p.Title != ""
	}
	return "", false
}

// PostInput is a new post as sent by the admin form
type PostInput struct {
	Title string   `validate:"required,max=200"`
	Body  string   `validate:"required,max=100000"`
	Tags  []string `validate:"omitempty,max=20,dive,min=1,max=40"`
}

// PostPatch changes only the fields that were sent
type PostPatch struct {
	Title *string   `validate:"omitempty,min=1,max=200"`
	Body  *string   `validate:"omitempty,min=1,max=100000"`
	Tags  *[]string `validate:"omitempty,max=20,dive,min=1,max=40"`
}

// Upload is a file taken from a form
type Upload struct {
	Filename string
	Data     []byte
}

// ListQuery is the public feed query
// q, tag and sort narrow the fetched page only
type ListQuery struct {
	listing.Params `query:",squash"`
	Tag            string `query:"tag" validate:"omitempty,max=40"`
}

// ParseTags splits a comma separated tag field into cleaned, lower cased tags, first spelling wins
func ParseTags(csv string) []string {
	tags := fold.Tags(csv)
	for i, t := range tags {
		tags[i] = strings.ToLower(t)
	}
	return tags
}

// ServicePort is the content workflow surface the http layer calls
type ServicePort interface {
	List(ctx context.Context, q ListQuery) (listing.Page[Post], []Post, error)
	Latest(ctx context.Context) (Post, error)
	Get(ctx context.Context, id string) (Post, error)
	Create(ctx context.Context, author string, in PostInput, photo *Upload) (Post, error)
	Edit(ctx context.Context, id string, p PostPatch, photo *Upload) (Post, error)
	Delete(ctx context.Context, id string) error
}
