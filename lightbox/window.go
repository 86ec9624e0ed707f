package lightbox

// WindowFor returns the inclusive range of positions eligible to be mounted
// around index. An empty sequence yields lo > hi.
func WindowFor(index, length int) (lo, hi int) {
	if length <= 0 {
		return 0, -1
	}
	lo = max(0, index-1)
	hi = min(length-1, index+1)
	return lo, hi
}

// InWindow reports whether position i is inside the render window
func InWindow(i, index, length int) bool {
	lo, hi := WindowFor(index, length)
	return i >= lo && i <= hi
}
