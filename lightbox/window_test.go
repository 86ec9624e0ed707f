package lightbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindowFor(t *testing.T) {
	tests := []struct {
		name   string
		index  int
		length int
		lo, hi int
	}{
		{"middle", 5, 10, 4, 6},
		{"first", 0, 10, 0, 1},
		{"last", 9, 10, 8, 9},
		{"single", 0, 1, 0, 0},
		{"pair at end", 1, 2, 0, 1},
		{"empty", 0, 0, 0, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := WindowFor(tt.index, tt.length)
			assert.Equal(t, tt.lo, lo)
			assert.Equal(t, tt.hi, hi)
		})
	}
}

func TestInWindow(t *testing.T) {
	for i := 0; i < 10; i++ {
		want := i >= 4 && i <= 6
		assert.Equal(t, want, InWindow(i, 5, 10), "position %d", i)
	}
}
