// Package service contains content workflows: the public feed and admin editing
package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"atelier/internal/core/fold"
	"atelier/internal/core/imagery"
	"atelier/internal/core/listing"
	"atelier/internal/core/markup"
	perr "atelier/internal/platform/errors"
	"atelier/internal/platform/logger"
	"atelier/internal/platform/metrics"
	"atelier/internal/platform/store/blob"
	pstrings "atelier/internal/platform/strings"
	ptime "atelier/internal/platform/time"
	"atelier/internal/services/api/content/domain"
	"atelier/internal/services/api/content/repo"
)

// Service defines the content service contract
type Service interface {
	domain.ServicePort
}

// PhotoPrefix is the blob prefix of post photos
const PhotoPrefix = "content"

// ExcerptRunes bounds the stored excerpt
const ExcerptRunes = 200

// DefaultOrder is the feed order: newest first
var DefaultOrder = listing.Order{Field: domain.FieldCreatedAt, Dir: listing.Desc}

// Svc implements the content service
type Svc struct {
	repo    *repo.Repo
	blob    blob.Store
	md      *markup.Renderer
	acc     *listing.Accessor[domain.Post]
	metrics *metrics.Registry

	now func() time.Time
}

// New constructs a content service; a nil blob store rejects photos, a nil registry counts nothing
func New(r *repo.Repo, b blob.Store, reg *metrics.Registry) *Svc {
	if r == nil {
		panic("content.Service requires a non nil Repo")
	}
	opts := []listing.Option{listing.WithName(repo.Collection)}
	if reg != nil {
		opts = append(opts, listing.WithObserver(reg))
	}
	return &Svc{
		repo:    r,
		blob:    b,
		md:      markup.New(),
		acc:     listing.NewAccessor(r.Source(), opts...),
		metrics: reg,
		now:     time.Now,
	}
}

// List serves one feed page; q, tag and sort narrow that page only
func (s *Svc) List(ctx context.Context, q domain.ListQuery) (listing.Page[domain.Post], []domain.Post, error) {
	p, err := listing.Serve(ctx, s.acc, q.Params, DefaultOrder, domain.FieldCreatedAt, domain.FieldTitle)
	if err != nil {
		return p, nil, err
	}
	return p, listing.Apply(p.Items, q.Filter(strings.ToLower(q.Tag))), nil
}

// Latest returns the newest post
func (s *Svc) Latest(ctx context.Context) (domain.Post, error) {
	p := s.acc.First(ctx, 1, DefaultOrder)
	if err := p.Err(); err != nil {
		return domain.Post{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "content is unavailable")
	}
	if p.Empty() {
		return domain.Post{}, perr.NotFoundf("nothing has been posted yet")
	}
	return p.Items[0], nil
}

// Get returns one post
func (s *Svc) Get(ctx context.Context, id string) (domain.Post, error) {
	return s.repo.Get(ctx, id)
}

func (s *Svc) render(p *domain.Post) error {
	h, err := s.md.HTML(p.Body)
	if err != nil {
		return perr.WithField(perr.Wrap(err, perr.ErrorCodeInvalidArgument, "cannot render body"), "body")
	}
	p.BodyHTML = h
	p.Excerpt = s.md.Excerpt(p.Body, ExcerptRunes)
	return nil
}

// putPhoto stores u under content/<unixnano>_<name> and returns its key and url
func (s *Svc) putPhoto(ctx context.Context, u *domain.Upload) (string, string, error) {
	if s.blob == nil {
		return "", "", perr.Unavailablef("photo uploads are not configured")
	}
	ct, _, err := imagery.Sniff(u.Data)
	if err != nil {
		return "", "", perr.WithField(err, "photo")
	}
	key := fmt.Sprintf("%s/%d_%s", PhotoPrefix, s.now().UnixNano(), pstrings.FileName(u.Filename))
	if err := s.blob.Put(ctx, key, bytes.NewReader(u.Data), int64(len(u.Data)), ct); err != nil {
		return "", "", perr.Wrap(err, perr.ErrorCodeUnavailable, "store photo")
	}
	s.metrics.BlobBytes("put", int64(len(u.Data)))
	url, err := s.blob.URL(ctx, key)
	if err != nil {
		s.dropPhoto(ctx, key)
		return "", "", perr.Wrap(err, perr.ErrorCodeUnavailable, "photo url")
	}
	return key, url, nil
}

func (s *Svc) dropPhoto(ctx context.Context, key string) {
	if key == "" || s.blob == nil {
		return
	}
	if err := s.blob.Delete(ctx, key); err != nil {
		logger.C(ctx).Warn().Err(err).Str("key", key).Msg("photo not removed; the janitor will sweep it")
	}
}

// Create publishes a post; the photo is optional
func (s *Svc) Create(ctx context.Context, author string, in domain.PostInput, photo *domain.Upload) (domain.Post, error) {
	p := domain.Post{
		Title:     strings.TrimSpace(fold.Clean(in.Title)),
		Body:      in.Body,
		Tags:      in.Tags,
		CreatedBy: author,
	}
	if p.Title == "" {
		return domain.Post{}, perr.WithField(perr.New(perr.ErrorCodeValidation, "title is required"), "title")
	}
	if err := s.render(&p); err != nil {
		return domain.Post{}, err
	}
	if photo != nil {
		key, url, err := s.putPhoto(ctx, photo)
		if err != nil {
			return domain.Post{}, err
		}
		p.PhotoPath, p.PhotoURL = key, url
	}
	out, err := s.repo.Create(ctx, p)
	if err != nil {
		s.dropPhoto(ctx, p.PhotoPath)
		return domain.Post{}, err
	}
	logger.C(ctx).Info().Str("post_id", out.ID).Msg("post published")
	return out, nil
}

// Edit merges the sent fields into a post and replaces its photo when one is given
func (s *Svc) Edit(ctx context.Context, id string, patch domain.PostPatch, photo *domain.Upload) (domain.Post, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Post{}, err
	}
	if patch.Title != nil {
		p.Title = strings.TrimSpace(fold.Clean(*patch.Title))
		if p.Title == "" {
			return domain.Post{}, perr.WithField(perr.New(perr.ErrorCodeValidation, "title cannot be blank"), "title")
		}
	}
	if patch.Body != nil {
		p.Body = *patch.Body
		if err := s.render(&p); err != nil {
			return domain.Post{}, err
		}
	}
	if patch.Tags != nil {
		p.Tags = *patch.Tags
	}

	old := ""
	if photo != nil {
		key, url, err := s.putPhoto(ctx, photo)
		if err != nil {
			return domain.Post{}, err
		}
		old = p.PhotoPath
		p.PhotoPath, p.PhotoURL = key, url
	}
	p.UpdatedAt = ptime.Ptr(s.now())

	out, err := s.repo.Save(ctx, p)
	if err != nil {
		if photo != nil {
			s.dropPhoto(ctx, p.PhotoPath)
		}
		return domain.Post{}, err
	}
	if old != "" && old != out.PhotoPath {
		s.dropPhoto(ctx, old)
	}
	return out, nil
}

// Delete removes the post and then its photo
func (s *Svc) Delete(ctx context.Context, id string) error {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.dropPhoto(ctx, p.PhotoPath)
	logger.C(ctx).Info().Str("post_id", id).Msg("post deleted")
	return nil
}
