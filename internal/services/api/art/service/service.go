// Package service contains gallery workflows: listing, bulk upload and delete
package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"atelier/internal/core/fold"
	"atelier/internal/core/imagery"
	"atelier/internal/core/listing"
	perr "atelier/internal/platform/errors"
	"atelier/internal/platform/logger"
	"atelier/internal/platform/metrics"
	"atelier/internal/platform/store/blob"
	pstrings "atelier/internal/platform/strings"
	"atelier/internal/services/api/art/domain"
	"atelier/internal/services/api/art/repo"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// Service defines the art service contract
type Service interface {
	domain.ServicePort
}

const (
	// ImagePrefix is the blob prefix of originals
	ImagePrefix = "art"
	// ThumbPrefix is the blob prefix of rendered thumbnails
	ThumbPrefix = "art/thumbs"

	DefaultMaxFileBytes = 15 << 20
	DefaultMaxFiles     = 10
)

// DefaultOrder is the gallery order: newest first
var DefaultOrder = listing.Order{Field: domain.FieldCreatedAt, Dir: listing.Desc}

// Options bound an upload
type Options struct {
	MaxFileBytes int64
	MaxFiles     int
	Imagery      imagery.Options
}

// Svc implements the art service
type Svc struct {
	repo    *repo.Repo
	blob    blob.Store
	inspect *imagery.Inspector
	acc     *listing.Accessor[domain.Artwork]
	metrics *metrics.Registry
	opt     Options

	newID func() string
}

// New constructs an art service; the blob store is required
func New(r *repo.Repo, b blob.Store, reg *metrics.Registry, opt Options) *Svc {
	if r == nil || b == nil {
		panic("art.Service requires a non nil Repo and blob Store")
	}
	if opt.MaxFileBytes <= 0 {
		opt.MaxFileBytes = DefaultMaxFileBytes
	}
	if opt.MaxFiles <= 0 {
		opt.MaxFiles = DefaultMaxFiles
	}
	lo := []listing.Option{listing.WithName(repo.Collection)}
	if reg != nil {
		lo = append(lo, listing.WithObserver(reg))
	}
	return &Svc{
		repo:    r,
		blob:    b,
		inspect: imagery.New(opt.Imagery),
		acc:     listing.NewAccessor(r.Source(), lo...),
		metrics: reg,
		opt:     opt,
		newID:   uuid.NewString,
	}
}

// Limits are the upload bounds in effect after defaults
func (s *Svc) Limits() Options { return s.opt }

// List serves one gallery page; q, tag and sort narrow that page only
func (s *Svc) List(ctx context.Context, q domain.ListQuery) (listing.Page[domain.Artwork], []domain.Artwork, error) {
	p, err := listing.Serve(ctx, s.acc, q.Params, DefaultOrder, domain.FieldCreatedAt, domain.FieldTitle)
	if err != nil {
		return p, nil, err
	}
	return p, listing.Apply(p.Items, q.Filter(strings.ToLower(q.Tag))), nil
}

// Get returns one artwork
func (s *Svc) Get(ctx context.Context, id string) (domain.Artwork, error) {
	return s.repo.Get(ctx, id)
}

type staged struct {
	up   domain.Upload
	info imagery.Info
}

// Upload stores every file with its thumbnail and one document each
// all files are inspected before anything is written; a failure part way removes what this call stored
func (s *Svc) Upload(ctx context.Context, author string, in domain.UploadInput, files []domain.Upload) ([]domain.Artwork, error) {
	switch {
	case len(files) == 0:
		return nil, perr.WithField(perr.New(perr.ErrorCodeValidation, "at least one file is required"), "files")
	case len(files) > s.opt.MaxFiles:
		return nil, perr.WithField(perr.InvalidArgf("at most %d files per upload", s.opt.MaxFiles), "files")
	}

	batch := make([]staged, 0, len(files))
	for _, f := range files {
		if int64(len(f.Data)) > s.opt.MaxFileBytes {
			return nil, perr.WithField(perr.TooLargef("%s is %s, over the %s limit",
				pstrings.FileName(f.Filename), humanize.IBytes(uint64(len(f.Data))), humanize.IBytes(uint64(s.opt.MaxFileBytes))), "files")
		}
		info, err := s.inspect.Inspect(f.Data)
		if err != nil {
			if e, ok := perr.As(err); ok && e.Code() == perr.ErrorCodeInvalidArgument {
				return nil, perr.WithField(perr.InvalidArgf("%s: %s", pstrings.FileName(f.Filename), e.ToWire().Message), "files")
			}
			return nil, err
		}
		batch = append(batch, staged{up: f, info: info})
	}

	title := strings.TrimSpace(fold.Clean(in.Title))
	out := make([]domain.Artwork, 0, len(batch))
	for _, st := range batch {
		a, err := s.store(ctx, author, title, in.Tags, st)
		if err != nil {
			for _, done := range out {
				s.remove(ctx, done)
			}
			return nil, err
		}
		out = append(out, a)
	}
	logger.C(ctx).Info().Int("files", len(out)).Msg("artwork uploaded")
	return out, nil
}

func (s *Svc) store(ctx context.Context, author, title string, tags []string, st staged) (domain.Artwork, error) {
	id := s.newID()
	name := pstrings.FileName(st.up.Filename)
	a := domain.Artwork{
		ID:          id,
		Title:       title,
		ImagePath:   fmt.Sprintf("%s/%s_%s", ImagePrefix, id, name),
		ThumbPath:   fmt.Sprintf("%s/%s.jpg", ThumbPrefix, id),
		ContentType: st.info.ContentType,
		Size:        int64(len(st.up.Data)),
		Width:       st.info.Width,
		Height:      st.info.Height,
		Color:       st.info.Color,
		Tags:        tags,
		CreatedBy:   author,
	}
	if a.Title == "" {
		a.Title = stem(st.up.Filename)
	}
	if !st.info.Exif.Empty() {
		x := st.info.Exif
		a.Exif = &x
	}

	if err := s.put(ctx, a.ImagePath, st.up.Data, a.ContentType); err != nil {
		return domain.Artwork{}, err
	}
	if err := s.put(ctx, a.ThumbPath, st.info.Thumb, imagery.ThumbType); err != nil {
		s.drop(ctx, a.ImagePath)
		return domain.Artwork{}, err
	}
	saved, err := s.save(ctx, a)
	if err != nil {
		s.drop(ctx, a.ImagePath, a.ThumbPath)
		return domain.Artwork{}, err
	}
	return saved, nil
}

func (s *Svc) save(ctx context.Context, a domain.Artwork) (domain.Artwork, error) {
	var err error
	if a.ImageURL, err = s.blob.URL(ctx, a.ImagePath); err != nil {
		return a, perr.Wrap(err, perr.ErrorCodeUnavailable, "image url")
	}
	if a.ThumbURL, err = s.blob.URL(ctx, a.ThumbPath); err != nil {
		return a, perr.Wrap(err, perr.ErrorCodeUnavailable, "thumbnail url")
	}
	return s.repo.Create(ctx, a)
}

func (s *Svc) put(ctx context.Context, key string, data []byte, contentType string) error {
	if err := s.blob.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "store %s", key)
	}
	s.metrics.BlobBytes("put", int64(len(data)))
	return nil
}

func (s *Svc) drop(ctx context.Context, keys ...string) {
	for _, k := range keys {
		if err := s.blob.Delete(ctx, k); err != nil {
			logger.C(ctx).Warn().Err(err).Str("key", k).Msg("blob not removed; the janitor will sweep it")
		}
	}
}

func (s *Svc) remove(ctx context.Context, a domain.Artwork) {
	s.drop(ctx, a.ImagePath, a.ThumbPath)
	if err := s.repo.Delete(ctx, a.ID); err != nil {
		logger.C(ctx).Warn().Err(err).Str("art_id", a.ID).Msg("artwork doc not rolled back")
	}
}

// Delete removes the image and thumbnail first, then the document
// a blob failure keeps the document so the delete can be retried
func (s *Svc) Delete(ctx context.Context, id string) error {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	for _, k := range []string{a.ImagePath, a.ThumbPath} {
		if k == "" {
			continue
		}
		if err := s.blob.Delete(ctx, k); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeUnavailable, "delete %s", k)
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.C(ctx).Info().Str("art_id", id).Msg("artwork deleted")
	return nil
}

func stem(filename string) string {
	if s := pstrings.Stem(filename); s != "" {
		return fold.Clean(s)
	}
	return "Untitled"
}
