package lightbox

// Navigator computes index transitions over the current item sequence
type Navigator struct {
	viewport *Viewport
	items    []Item
	boundary PageBoundary

	// onUserNavigate runs after any user-initiated move
	onUserNavigate func()
}

// NewNavigator creates a Navigator. boundary may be nil, in which case
// navigation loops within the sequence.
func NewNavigator(viewport *Viewport, items []Item, boundary PageBoundary) *Navigator {
	return &Navigator{
		viewport: viewport,
		items:    items,
		boundary: boundary,
	}
}

// OnUserNavigate registers a hook run after each user-initiated move
func (n *Navigator) OnUserNavigate(fn func()) {
	n.onUserNavigate = fn
}

// Items returns the current sequence
func (n *Navigator) Items() []Item {
	return n.items
}

// Len returns the sequence length
func (n *Navigator) Len() int {
	return len(n.items)
}

// AllowNavigation reports whether prev/next can do anything
func (n *Navigator) AllowNavigation() bool {
	return len(n.items) > 1 || n.boundary != nil
}

// Current returns the item at the current index
func (n *Navigator) Current() (Item, bool) {
	idx := n.viewport.Index()
	if idx < 0 || idx >= len(n.items) {
		return Item{}, false
	}
	return n.items[idx], true
}

// GoBackward moves to the previous item, requesting the previous page or
// wrapping to the end when already at the first one.
func (n *Navigator) GoBackward(userInitiated bool) {
	if !n.canNavigate() {
		return
	}

	idx := n.viewport.Index()
	if idx == 0 {
		if n.boundary != nil {
			n.viewport.BeginPageTransition(Backward)
			n.boundary.RequestPage(-1)
		} else {
			n.viewport.Select(len(n.items)-1, Backward)
		}
	} else {
		n.viewport.Select(idx-1, Backward)
	}

	n.userNavigated(userInitiated)
}

// GoForward moves to the next item, requesting the next page or wrapping to
// the start when already at the last one.
func (n *Navigator) GoForward(userInitiated bool) {
	if !n.canNavigate() {
		return
	}

	idx := n.viewport.Index()
	if idx == len(n.items)-1 {
		if n.boundary != nil {
			n.viewport.BeginPageTransition(Forward)
			n.boundary.RequestPage(1)
		} else {
			n.viewport.Select(0, Forward)
		}
	} else {
		n.viewport.Select(idx+1, Forward)
	}

	n.userNavigated(userInitiated)
}

// JumpTo selects index directly without paging
func (n *Navigator) JumpTo(index int) bool {
	if n.viewport.Pending() || index < 0 || index >= len(n.items) {
		return false
	}
	dir := Forward
	if index < n.viewport.Index() {
		dir = Backward
	}
	n.viewport.Select(index, dir)
	return true
}

// SetItems replaces the sequence. A pending page transition resolves here.
func (n *Navigator) SetItems(items []Item) {
	n.items = items
	if n.viewport.Pending() {
		n.viewport.ResolvePage(len(items))
		return
	}
	n.viewport.Clamp(len(items))
}

func (n *Navigator) canNavigate() bool {
	if n.viewport.Pending() || len(n.items) == 0 {
		return false
	}
	if !n.AllowNavigation() {
		return false
	}
	idx := n.viewport.Index()
	return idx >= 0 && idx < len(n.items)
}

func (n *Navigator) userNavigated(userInitiated bool) {
	if userInitiated && n.onUserNavigate != nil {
		n.onUserNavigate()
	}
}
