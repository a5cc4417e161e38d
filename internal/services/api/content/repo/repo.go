// Package repo persists posts in the document store
package repo

import (
	"context"
	"time"

	"atelier/internal/core/listing"
	"atelier/internal/modkit/repokit"
	"atelier/internal/platform/store/docs"
	"atelier/internal/services/api/content/domain"
)

// Collection is the document collection of posts
const Collection = "content"

// Repo is the content persistence surface
type Repo struct {
	posts *repokit.Collection[domain.Post]
}

// New binds the posts collection to s
func New(s docs.Store) *Repo {
	return &Repo{posts: repokit.NewCollection[domain.Post](s, Collection)}
}

// postDoc is the stored form of a post; id and created_at live in columns
type postDoc struct {
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	BodyHTML  string     `json:"body_html"`
	Excerpt   string     `json:"excerpt"`
	PhotoPath string     `json:"photo_path,omitempty"`
	PhotoURL  string     `json:"photo_url,omitempty"`
	Tags      []string   `json:"tags,omitempty"`
	CreatedBy string     `json:"created_by"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func toDoc(p domain.Post) postDoc {
	return postDoc{
		Title:     p.Title,
		Body:      p.Body,
		BodyHTML:  p.BodyHTML,
		Excerpt:   p.Excerpt,
		PhotoPath: p.PhotoPath,
		PhotoURL:  p.PhotoURL,
		Tags:      p.Tags,
		CreatedBy: p.CreatedBy,
		UpdatedAt: p.UpdatedAt,
	}
}

// Create stores p under a generated id
func (r *Repo) Create(ctx context.Context, p domain.Post) (domain.Post, error) {
	return r.posts.Add(ctx, toDoc(p))
}

// Get loads id
func (r *Repo) Get(ctx context.Context, id string) (domain.Post, error) {
	return r.posts.Get(ctx, id)
}

// Save replaces the stored fields of p.ID; created_at is kept
func (r *Repo) Save(ctx context.Context, p domain.Post) (domain.Post, error) {
	return r.posts.Set(ctx, p.ID, toDoc(p))
}

// Delete removes id
func (r *Repo) Delete(ctx context.Context, id string) error {
	return r.posts.Delete(ctx, id)
}

// Source feeds the listing accessor
func (r *Repo) Source() listing.Source[domain.Post] { return r.posts.Source() }
