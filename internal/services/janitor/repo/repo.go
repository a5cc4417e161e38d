// Package repo looks up blob references in the document store
package repo

import (
	"context"

	"atelier/internal/platform/store/docs"
	artrepo "atelier/internal/services/api/art/repo"
	contentrepo "atelier/internal/services/api/content/repo"
	usersrepo "atelier/internal/services/api/users/repo"
	"atelier/internal/services/janitor/domain"
)

// DefaultRefs are every document field that stores a blob key
var DefaultRefs = []domain.Ref{
	{Collection: artrepo.Collection, Field: "image_path"},
	{Collection: artrepo.Collection, Field: "thumb_path"},
	{Collection: contentrepo.Collection, Field: "photo_path"},
	{Collection: usersrepo.ProfilesCollection, Field: "profile_picture_path"},
}

// Refs checks keys against a docs store
type Refs struct {
	docs docs.Store
	refs []domain.Ref
}

// New returns a RefIndex over refs, or DefaultRefs when none are given
func New(d docs.Store, refs ...domain.Ref) *Refs {
	if d == nil {
		panic("janitor repo requires a docs store")
	}
	if len(refs) == 0 {
		refs = DefaultRefs
	}
	return &Refs{docs: d, refs: refs}
}

// Referenced reports whether any ref field equals key
// a lookup error is returned as is and never reads as unreferenced
func (r *Refs) Referenced(ctx context.Context, key string) (bool, error) {
	for _, ref := range r.refs {
		hits, err := r.docs.Range(ctx, ref.Collection, docs.RangeQuery{
			Limit: 1,
			Where: map[string]string{ref.Field: key},
		})
		if err != nil {
			return false, err
		}
		if len(hits) > 0 {
			return true, nil
		}
	}
	return false, nil
}
