// Package http provides http transport for content
package http

import (
	stdhttp "net/http"

	"atelier/internal/modkit/httpkit"
	"atelier/internal/services/api/content/domain"
	svc "atelier/internal/services/api/content/service"
)

// Options tune the content endpoints
type Options struct {
	// PhotoMaxBytes bounds an admin form including its photo
	PhotoMaxBytes int64
}

// Register mounts content endpoints on the given router
func Register(r httpkit.Router, s svc.Service, gate httpkit.Gate, opt Options) {
	h := &handlers{svc: s, upload: httpkit.MultipartOptions{MaxBytes: opt.PhotoMaxBytes}}

	httpkit.Get(r, "/", h.list)
	httpkit.Get(r, "/latest", h.latest)
	httpkit.Get(r, "/{id}", h.get)

	gate.Admin(r, func(ar httpkit.Router) {
		httpkit.PostMultipart(ar, "/", h.upload, h.create)
		httpkit.PutMultipart(ar, "/{id}", h.upload, h.edit)
		httpkit.Delete(ar, "/{id}", h.remove)
	})
}

type handlers struct {
	svc    svc.Service
	upload httpkit.MultipartOptions
}

// swagger:route GET /content Content contentList
// @Summary Blog feed
// @Description Five posts per page, newest first. q, tag and sort narrow the returned page only
// @Tags Content
// @Produce json
// @Param size query int false "Page size" default(5)
// @Param order query string false "created_at or title"
// @Param dir query string false "asc or desc"
// @Param after query string false "Next token"
// @Param before query string false "Prev token"
// @Param q query string false "Search title and text"
// @Param tag query string false "Only posts with this tag"
// @Param sort query string false "Sort the page by title or created_at"
// @Success 200 {array} domain.Post "ok"
// @Router /content [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	q, err := httpkit.Query[domain.ListQuery](r)
	if err != nil {
		return nil, err
	}
	page, items, err := h.svc.List(r.Context(), q)
	if err != nil {
		return nil, err
	}
	return httpkit.Paged(page, items), nil
}

// swagger:route GET /content/latest Content contentLatest
// @Summary Newest post
// @Tags Content
// @Produce json
// @Success 200 {object} domain.Post "ok"
// @Failure 404 {object} ErrorResponse "nothing posted yet"
// @Router /content/latest [get]
func (h *handlers) latest(r *stdhttp.Request) (any, error) {
	return h.svc.Latest(r.Context())
}

// swagger:route GET /content/{id} Content contentGet
// @Summary One post
// @Tags Content
// @Produce json
// @Param id path string true "Post id"
// @Success 200 {object} domain.Post "ok"
// @Failure 404 {object} ErrorResponse "not found"
// @Router /content/{id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	return h.svc.Get(r.Context(), httpkit.Param(r, "id"))
}

func photoOf(form *httpkit.Form) (*domain.Upload, error) {
	f, ok, err := form.File("photo")
	if err != nil || !ok {
		return nil, err
	}
	return &domain.Upload{Filename: f.Filename, Data: f.Data}, nil
}

// swagger:route POST /content Content contentCreate
// @Summary Publish a post
// @Tags Content
// @Accept multipart/form-data
// @Produce json
// @Security bearerAuth
// @Param title formData string true "Title"
// @Param body formData string true "Markdown body"
// @Param tags formData string false "Comma separated tags"
// @Param photo formData file false "Photo"
// @Success 201 {object} domain.Post "created"
// @Failure 400 {object} ErrorResponse "title or body missing"
// @Router /content [post]
func (h *handlers) create(r *stdhttp.Request, form *httpkit.Form) (any, error) {
	in := domain.PostInput{
		Title: form.Value("title"),
		Body:  form.Value("body"),
		Tags:  domain.ParseTags(form.Value("tags")),
	}
	if err := httpkit.Validate(in); err != nil {
		return nil, err
	}
	photo, err := photoOf(form)
	if err != nil {
		return nil, err
	}
	p, err := h.svc.Create(r.Context(), httpkit.MustUser(r), in, photo)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(p), nil
}

// swagger:route PUT /content/{id} Content contentEdit
// @Summary Edit a post
// @Description Only the fields sent are changed. A new photo replaces the old one
// @Tags Content
// @Accept multipart/form-data
// @Produce json
// @Security bearerAuth
// @Param id path string true "Post id"
// @Param title formData string false "Title"
// @Param body formData string false "Markdown body"
// @Param tags formData string false "Comma separated tags, empty clears them"
// @Param photo formData file false "Photo"
// @Success 200 {object} domain.Post "ok"
// @Router /content/{id} [put]
func (h *handlers) edit(r *stdhttp.Request, form *httpkit.Form) (any, error) {
	var patch domain.PostPatch
	if form.Has("title") {
		v := form.Value("title")
		patch.Title = &v
	}
	if form.Has("body") {
		v := form.Value("body")
		patch.Body = &v
	}
	if form.Has("tags") {
		v := domain.ParseTags(form.Value("tags"))
		patch.Tags = &v
	}
	if err := httpkit.Validate(patch); err != nil {
		return nil, err
	}
	photo, err := photoOf(form)
	if err != nil {
		return nil, err
	}
	return h.svc.Edit(r.Context(), httpkit.Param(r, "id"), patch, photo)
}

// swagger:route DELETE /content/{id} Content contentDelete
// @Summary Delete a post and its photo
// @Tags Content
// @Security bearerAuth
// @Param id path string true "Post id"
// @Success 204 "deleted"
// @Router /content/{id} [delete]
func (h *handlers) remove(r *stdhttp.Request) (any, error) {
	if err := h.svc.Delete(r.Context(), httpkit.Param(r, "id")); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}
