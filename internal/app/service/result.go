package service

import "github.com/chitram/chitram-backend/internal/app/repository"

type EffectStatus string

const (
	EffectApplied EffectStatus = "applied"
	EffectSkipped EffectStatus = "skipped"
	EffectFailed  EffectStatus = "failed"
)

// Names of the best-effort side effects reported in a CascadeResult.
const (
	EffectArtistCreated  = "artist_created"
	EffectPhotoCopied    = "photo_copied"
	EffectOldFileRemoved = "old_file_removed"
	EffectPhotoRemoved   = "photo_removed"
)

// Effect is the outcome of one secondary write.
type Effect struct {
	Name   string       `json:"name"`
	Status EffectStatus `json:"status"`
	Detail string       `json:"detail,omitempty"`
}

// CascadeResult reports the best-effort effects that followed a committed
// primary change. A failed effect never undoes the primary change.
type CascadeResult struct {
	Effects []Effect `json:"effects"`
}

func (r *CascadeResult) applied(name string) {
	r.Effects = append(r.Effects, Effect{Name: name, Status: EffectApplied})
}

func (r *CascadeResult) skipped(name, reason string) {
	r.Effects = append(r.Effects, Effect{Name: name, Status: EffectSkipped, Detail: reason})
}

func (r *CascadeResult) failed(name string, err error) {
	r.Effects = append(r.Effects, Effect{Name: name, Status: EffectFailed, Detail: err.Error()})
}

// Status returns the recorded status of the named effect, or "" when the
// effect was not attempted.
func (r CascadeResult) Status(name string) EffectStatus {
	for _, e := range r.Effects {
		if e.Name == name {
			return e.Status
		}
	}
	return ""
}

// Complete reports whether no effect failed.
func (r CascadeResult) Complete() bool {
	for _, e := range r.Effects {
		if e.Status == EffectFailed {
			return false
		}
	}
	return true
}

// Paginated is one page of a listing.
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

func newPaginated[T any](items []T, total int64, page repository.Page) *Paginated[T] {
	if items == nil {
		items = []T{}
	}
	return &Paginated[T]{
		Items:      items,
		Page:       page.Number,
		PageSize:   page.Size,
		Total:      total,
		TotalPages: page.TotalPages(total),
	}
}
