// Package http provides http transport for users
package http

import (
	stdhttp "net/http"

	"atelier/internal/modkit/httpkit"
	perr "atelier/internal/platform/errors"
	"atelier/internal/services/api/users/domain"
	svc "atelier/internal/services/api/users/service"
)

// Options tune the users endpoints
type Options struct {
	// AvatarMaxBytes bounds an avatar upload
	AvatarMaxBytes int64
}

// Register mounts users endpoints on the given router
func Register(r httpkit.Router, s svc.Service, gate httpkit.Gate, opt Options) {
	h := &handlers{svc: s, upload: httpkit.MultipartOptions{MaxBytes: opt.AvatarMaxBytes}}

	gate.Protected(r, func(pr httpkit.Router) {
		httpkit.Get(pr, "/me", h.me)
		httpkit.PutJSON[domain.ProfileInput](pr, "/me", h.saveProfile)
		httpkit.PatchJSON[domain.ProfilePatch](pr, "/me", h.patchProfile)
		httpkit.PutMultipart(pr, "/me/avatar", h.upload, h.avatar)
		httpkit.Get(pr, "/me/preferences", h.preferences)
		httpkit.PutJSON[domain.Preferences](pr, "/me/preferences", h.setPreferences)
	})

	// admin panel
	gate.Admin(r, func(ar httpkit.Router) {
		httpkit.Get(ar, "/", h.list)
		httpkit.PostJSON[domain.CreateInput](ar, "/", h.create)
		httpkit.PutJSON[domain.RoleInput](ar, "/{id}/role", h.setRole)
		httpkit.Delete(ar, "/{id}", h.remove)
	})
}

type handlers struct {
	svc    svc.Service
	upload httpkit.MultipartOptions
}

// swagger:route GET /users/me Users usersMe
// @Summary Current user profile
// @Tags Users
// @Produce json
// @Security bearerAuth
// @Success 200 {object} domain.User "ok"
// @Router /users/me [get]
func (h *handlers) me(r *stdhttp.Request) (any, error) {
	return h.svc.Profile(r.Context(), httpkit.MustUser(r))
}

// swagger:route PUT /users/me Users usersSaveProfile
// @Summary Save the profile
// @Description Replaces the editable profile fields. Role and email are never changed here
// @Tags Users
// @Accept json
// @Produce json
// @Security bearerAuth
// @Param payload body domain.ProfileInput true "Profile"
// @Success 200 {object} domain.User "ok"
// @Router /users/me [put]
func (h *handlers) saveProfile(r *stdhttp.Request, in domain.ProfileInput) (any, error) {
	return h.svc.SaveProfile(r.Context(), httpkit.MustUser(r), in)
}

// swagger:route PATCH /users/me Users usersPatchProfile
// @Summary Update some profile fields
// @Tags Users
// @Accept json
// @Produce json
// @Security bearerAuth
// @Param payload body domain.ProfilePatch true "Fields to change"
// @Success 200 {object} domain.User "ok"
// @Router /users/me [patch]
func (h *handlers) patchProfile(r *stdhttp.Request, in domain.ProfilePatch) (any, error) {
	return h.svc.PatchProfile(r.Context(), httpkit.MustUser(r), in)
}

// swagger:route PUT /users/me/avatar Users usersAvatar
// @Summary Upload a profile picture
// @Tags Users
// @Accept multipart/form-data
// @Produce json
// @Security bearerAuth
// @Param avatar formData file true "Image"
// @Success 200 {object} domain.User "ok"
// @Failure 422 {object} ErrorResponse "not an image"
// @Router /users/me/avatar [put]
func (h *handlers) avatar(r *stdhttp.Request, form *httpkit.Form) (any, error) {
	f, ok, err := form.File("avatar")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, perr.WithField(perr.New(perr.ErrorCodeValidation, "avatar is required"), "avatar")
	}
	return h.svc.SetAvatar(r.Context(), httpkit.MustUser(r), f.Filename, f.Data)
}

// swagger:route GET /users/me/preferences Users usersPreferences
// @Summary Display preferences
// @Tags Users
// @Produce json
// @Security bearerAuth
// @Success 200 {object} domain.Preferences "ok"
// @Router /users/me/preferences [get]
func (h *handlers) preferences(r *stdhttp.Request) (any, error) {
	return h.svc.Preferences(r.Context(), httpkit.MustUser(r))
}

// swagger:route PUT /users/me/preferences Users usersSetPreferences
// @Summary Store display preferences
// @Tags Users
// @Accept json
// @Produce json
// @Security bearerAuth
// @Param payload body domain.Preferences true "Preferences"
// @Success 200 {object} domain.Preferences "ok"
// @Router /users/me/preferences [put]
func (h *handlers) setPreferences(r *stdhttp.Request, in domain.Preferences) (any, error) {
	return h.svc.SetPreferences(r.Context(), httpkit.MustUser(r), in)
}

// swagger:route GET /users Users usersList
// @Summary List accounts
// @Description Keyset paginated. q, role and sort narrow the returned page only; follow next and prev for more
// @Tags Users
// @Produce json
// @Security bearerAuth
// @Param size query int false "Page size" default(5)
// @Param order query string false "created_at, name or email"
// @Param dir query string false "asc or desc"
// @Param after query string false "Next token"
// @Param before query string false "Prev token"
// @Param q query string false "Search name and email"
// @Param role query string false "user or admin"
// @Param sort query string false "Sort the page by name, email or created_at"
// @Success 200 {array} domain.User "ok"
// @Failure 403 {object} ErrorResponse "not an admin"
// @Router /users [get]
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

// swagger:route POST /users Users usersCreate
// @Summary Create an account
// @Tags Users
// @Accept json
// @Produce json
// @Security bearerAuth
// @Param payload body domain.CreateInput true "Account"
// @Success 201 {object} domain.User "created"
// @Failure 409 {object} ErrorResponse "email taken"
// @Router /users [post]
func (h *handlers) create(r *stdhttp.Request, in domain.CreateInput) (any, error) {
	u, err := h.svc.Create(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(u), nil
}

// swagger:route PUT /users/{id}/role Users usersSetRole
// @Summary Change a role
// @Description An empty role toggles between user and admin
// @Tags Users
// @Accept json
// @Produce json
// @Security bearerAuth
// @Param id path string true "User id"
// @Param payload body domain.RoleInput true "Role"
// @Success 200 {object} domain.User "ok"
// @Router /users/{id}/role [put]
func (h *handlers) setRole(r *stdhttp.Request, in domain.RoleInput) (any, error) {
	return h.svc.SetRole(r.Context(), httpkit.MustUser(r), httpkit.Param(r, "id"), in.Role)
}

// swagger:route DELETE /users/{id} Users usersDelete
// @Summary Delete an account
// @Tags Users
// @Security bearerAuth
// @Param id path string true "User id"
// @Success 204 "deleted"
// @Router /users/{id} [delete]
func (h *handlers) remove(r *stdhttp.Request) (any, error) {
	if err := h.svc.Delete(r.Context(), httpkit.MustUser(r), httpkit.Param(r, "id")); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}
