// Package http provides http transport for the gallery
package http

import (
	stdhttp "net/http"

	"atelier/internal/modkit/httpkit"
	"atelier/internal/services/api/art/domain"
	svc "atelier/internal/services/api/art/service"
)

// Options bound the upload form
type Options struct {
	// MaxBytes bounds the whole multipart body
	MaxBytes int64
}

// Register mounts gallery endpoints on the given router
func Register(r httpkit.Router, s svc.Service, gate httpkit.Gate, opt Options) {
	h := &handlers{svc: s, upload: httpkit.MultipartOptions{MaxBytes: opt.MaxBytes}}

	httpkit.Get(r, "/", h.list)
	httpkit.Get(r, "/{id}", h.get)

	gate.Admin(r, func(ar httpkit.Router) {
		httpkit.PostMultipart(ar, "/", h.upload, h.create)
		httpkit.Delete(ar, "/{id}", h.remove)
	})
}

type handlers struct {
	svc    svc.Service
	upload httpkit.MultipartOptions
}

// swagger:route GET /art Art artList
// @Summary Gallery
// @Description Newest first. q, tag and sort narrow the returned page only
// @Tags Art
// @Produce json
// @Param size query int false "Page size" default(5)
// @Param order query string false "created_at or title"
// @Param dir query string false "asc or desc"
// @Param after query string false "Next token"
// @Param before query string false "Prev token"
// @Param q query string false "Search title and tags"
// @Param tag query string false "Only artwork with this tag"
// @Param sort query string false "Sort the page by title or created_at"
// @Success 200 {array} domain.Artwork "ok"
// @Router /art [get]
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

// swagger:route GET /art/{id} Art artGet
// @Summary One artwork
// @Tags Art
// @Produce json
// @Param id path string true "Artwork id"
// @Success 200 {object} domain.Artwork "ok"
// @Failure 404 {object} ErrorResponse "not found"
// @Router /art/{id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	return h.svc.Get(r.Context(), httpkit.Param(r, "id"))
}

// swagger:route POST /art Art artUpload
// @Summary Upload artwork
// @Description Every file becomes one artwork with a 400px jpeg thumbnail. Non images are rejected with 422 and nothing is stored
// @Tags Art
// @Accept multipart/form-data
// @Produce json
// @Security bearerAuth
// @Param files formData file true "Images, repeat the field for several"
// @Param title formData string false "Title for every file, defaults to the file name"
// @Param tags formData string false "Comma separated tags"
// @Success 201 {array} domain.Artwork "created"
// @Failure 422 {object} ErrorResponse "not an image or too large"
// @Router /art [post]
func (h *handlers) create(r *stdhttp.Request, form *httpkit.Form) (any, error) {
	in := domain.UploadInput{
		Title: form.Value("title"),
		Tags:  domain.ParseTags(form.Value("tags")),
	}
	if err := httpkit.Validate(in); err != nil {
		return nil, err
	}
	parts, err := form.Files("files")
	if err != nil {
		return nil, err
	}
	files := make([]domain.Upload, 0, len(parts))
	for _, p := range parts {
		files = append(files, domain.Upload{Filename: p.Filename, Data: p.Data})
	}
	out, err := h.svc.Upload(r.Context(), httpkit.MustUser(r), in, files)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(out), nil
}

// swagger:route DELETE /art/{id} Art artDelete
// @Summary Delete an artwork with its image and thumbnail
// @Tags Art
// @Security bearerAuth
// @Param id path string true "Artwork id"
// @Success 204 "deleted"
// @Router /art/{id} [delete]
func (h *handlers) remove(r *stdhttp.Request) (any, error) {
	if err := h.svc.Delete(r.Context(), httpkit.Param(r, "id")); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}
