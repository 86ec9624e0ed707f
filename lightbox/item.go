package lightbox

import (
	"context"
	"time"
)

// Item is one media entry shown by the viewer
type Item struct {
	ID        string
	Thumbnail string
	Display   string
	Title     string
	Counter   int
	Rating    *int // 0-100, nil when unrated
	Size      int64
}

// PageBoundary is implemented by the collaborator that owns pagination.
// RequestPage must not block; the new sequence arrives later via SetItems.
type PageBoundary interface {
	RequestPage(direction int)
}

// PageFunc adapts a function to PageBoundary
type PageFunc func(direction int)

func (f PageFunc) RequestPage(direction int) { f(direction) }

// InputLock pauses global hotkeys while the viewer owns the keyboard
type InputLock interface {
	AcquireInputLock()
	ReleaseInputLock()
}

// FullscreenController leaves fullscreen on behalf of the viewer
type FullscreenController interface {
	ExitFullscreen()
}

// ItemActions performs per-item mutations
type ItemActions interface {
	IncrementCounter(ctx context.Context, id string) (int, error)
	DecrementCounter(ctx context.Context, id string) (int, error)
	ResetCounter(ctx context.Context, id string) (int, error)
	SetRating(ctx context.Context, id string, rating *int) error
}

// Toaster surfaces errors to the user
type Toaster interface {
	Error(err error)
}

// mutationTimeout bounds a single delegated mutation
const mutationTimeout = 10 * time.Second
