package lightbox

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pageRecorder struct {
	requests []int
}

func (p *pageRecorder) RequestPage(direction int) {
	p.requests = append(p.requests, direction)
}

func makeItems(n int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{
			ID:        fmt.Sprintf("item-%d", i),
			Thumbnail: fmt.Sprintf("thumb-%d.jpg", i),
			Display:   fmt.Sprintf("image-%d.jpg", i),
		}
	}
	return items
}

func newTestNavigator(n, index int, boundary PageBoundary) (*Navigator, *Viewport) {
	vp := NewViewport(index, nil)
	nav := NewNavigator(vp, makeItems(n), boundary)
	return nav, vp
}

func TestNavigatorWrapsWithoutBoundary(t *testing.T) {
	for _, n := range []int{2, 3, 7} {
		t.Run(fmt.Sprintf("len=%d", n), func(t *testing.T) {
			start := n / 2
			nav, vp := newTestNavigator(n, start, nil)
			for i := 0; i < n; i++ {
				nav.GoForward(true)
			}
			assert.Equal(t, start, vp.Index())

			for i := 0; i < n; i++ {
				nav.GoBackward(true)
			}
			assert.Equal(t, start, vp.Index())
		})
	}
}

func TestNavigatorEdges(t *testing.T) {
	tests := []struct {
		name      string
		n, index  int
		forward   bool
		wantIndex int
		wantDir   Direction
	}{
		{"next", 5, 1, true, 2, Forward},
		{"previous", 5, 2, false, 1, Backward},
		{"wrap forward", 5, 4, true, 0, Forward},
		{"wrap backward", 5, 0, false, 4, Backward},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nav, vp := newTestNavigator(tt.n, tt.index, nil)
			if tt.forward {
				nav.GoForward(false)
			} else {
				nav.GoBackward(false)
			}
			assert.Equal(t, tt.wantIndex, vp.Index())
			assert.Equal(t, tt.wantDir, vp.State().Direction)
		})
	}
}

func TestNavigatorSingleItemWithoutBoundary(t *testing.T) {
	nav, vp := newTestNavigator(1, 0, nil)
	require.False(t, nav.AllowNavigation())

	before := vp.State()
	nav.GoForward(true)
	nav.GoBackward(true)
	assert.Equal(t, before, vp.State())
}

func TestNavigatorSingleItemWithBoundaryPages(t *testing.T) {
	pages := &pageRecorder{}
	nav, vp := newTestNavigator(1, 0, pages)
	require.True(t, nav.AllowNavigation())

	nav.GoForward(true)
	assert.Equal(t, []int{1}, pages.requests)
	assert.Equal(t, PagePending, vp.Index())
}

func TestNavigatorPendingGuard(t *testing.T) {
	pages := &pageRecorder{}
	nav, vp := newTestNavigator(3, 2, pages)

	nav.GoForward(true)
	require.Equal(t, []int{1}, pages.requests)
	require.True(t, vp.Pending())

	nav.GoForward(true)
	nav.GoBackward(true)
	assert.False(t, nav.JumpTo(0))
	assert.Equal(t, PagePending, vp.Index())
	assert.Equal(t, []int{1}, pages.requests, "no second page request while pending")
}

func TestNavigatorForwardPageResumesAtStart(t *testing.T) {
	pages := &pageRecorder{}
	nav, vp := newTestNavigator(3, 2, pages)

	nav.GoForward(true)
	nav.SetItems(makeItems(5))

	assert.False(t, vp.Pending())
	assert.Equal(t, 0, vp.Index())
	assert.Equal(t, Forward, vp.State().Direction)
}

func TestNavigatorBackwardPageResumesAtEnd(t *testing.T) {
	for _, m := range []int{1, 4, 20} {
		t.Run(fmt.Sprintf("M=%d", m), func(t *testing.T) {
			pages := &pageRecorder{}
			nav, vp := newTestNavigator(3, 0, pages)

			nav.GoBackward(true)
			require.Equal(t, []int{-1}, pages.requests)
			nav.SetItems(makeItems(m))

			assert.Equal(t, m-1, vp.Index())
			assert.Equal(t, Backward, vp.State().Direction)
		})
	}
}

func TestNavigatorEmptyPageKeepsPreviousIndex(t *testing.T) {
	pages := &pageRecorder{}
	nav, vp := newTestNavigator(3, 2, pages)

	nav.GoForward(true)
	nav.SetItems(nil)

	assert.False(t, vp.Pending())
	assert.Equal(t, 2, vp.Index())
	_, ok := nav.Current()
	assert.False(t, ok, "nothing to render on an empty page")

	nav.GoForward(true)
	nav.GoBackward(true)
	assert.Equal(t, 2, vp.Index())
	assert.Len(t, pages.requests, 1)
}

func TestNavigatorJumpTo(t *testing.T) {
	nav, vp := newTestNavigator(5, 2, nil)

	assert.True(t, nav.JumpTo(4))
	assert.Equal(t, 4, vp.Index())
	assert.True(t, nav.JumpTo(1))
	assert.Equal(t, Backward, vp.State().Direction)

	assert.False(t, nav.JumpTo(5))
	assert.False(t, nav.JumpTo(-1))
	assert.Equal(t, 1, vp.Index())
}

func TestNavigatorUserNavigateHook(t *testing.T) {
	nav, _ := newTestNavigator(3, 0, nil)
	calls := 0
	nav.OnUserNavigate(func() { calls++ })

	nav.GoForward(true)
	nav.GoForward(false)
	nav.GoBackward(true)
	assert.Equal(t, 2, calls)
}

func TestNavigatorClampsOnReplacement(t *testing.T) {
	nav, vp := newTestNavigator(10, 8, nil)
	nav.SetItems(makeItems(4))
	assert.Equal(t, 3, vp.Index())
}

func TestViewportZoomResetFollowsPreference(t *testing.T) {
	reset := false
	vp := NewViewport(0, func() bool { return reset })
	nav := NewNavigator(vp, makeItems(4), nil)

	vp.SetZoom(2.5)
	signal := vp.State().ResetPosition
	nav.GoForward(true)
	assert.Equal(t, 2.5, vp.State().Zoom)
	assert.NotEqual(t, signal, vp.State().ResetPosition, "position reset toggles on every item change")

	reset = true
	nav.GoForward(true)
	assert.Equal(t, 1.0, vp.State().Zoom)
}
