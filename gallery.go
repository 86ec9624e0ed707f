package main

import (
	"image"

	"lightview/lightbox"
)

const (
	galleryHeaderHeight = 32
	galleryCellPadding  = 8
)

// Gallery is the thumbnail grid of the current page
type Gallery struct {
	items    []lightbox.Item
	columns  int
	selected int
	firstRow int
}

// NewGallery creates an empty gallery with the given column count
func NewGallery(columns int) *Gallery {
	return &Gallery{columns: max(columns, 1)}
}

// SetPage replaces the grid contents. The selection is clamped.
func (g *Gallery) SetPage(items []lightbox.Item) {
	g.items = items
	g.Select(g.selected)
}

// Items returns the items of the current page
func (g *Gallery) Items() []lightbox.Item {
	return g.items
}

// Len returns the number of cells
func (g *Gallery) Len() int {
	return len(g.items)
}

// Columns returns the grid width in cells
func (g *Gallery) Columns() int {
	return g.columns
}

// Selected returns the selected cell
func (g *Gallery) Selected() int {
	return g.selected
}

// SelectedItem returns the selected item
func (g *Gallery) SelectedItem() (lightbox.Item, bool) {
	if g.selected < 0 || g.selected >= len(g.items) {
		return lightbox.Item{}, false
	}
	return g.items[g.selected], true
}

// Select moves the selection, clamped to the page
func (g *Gallery) Select(index int) {
	if len(g.items) == 0 {
		g.selected = 0
		return
	}
	g.selected = min(max(index, 0), len(g.items)-1)
}

// Move shifts the selection by columns and rows. Horizontal moves flow
// across row ends; vertical moves stop at the first and last row.
func (g *Gallery) Move(dx, dy int) {
	if len(g.items) == 0 {
		return
	}
	target := g.selected + dx
	if dy != 0 {
		next := target + dy*g.columns
		if next < 0 || next >= len(g.items) {
			if dy > 0 && g.rowOf(len(g.items)-1) > g.rowOf(target) {
				next = len(g.items) - 1
			} else {
				next = target
			}
		}
		target = next
	}
	g.Select(target)
}

// UpdateItem replaces one item, e.g. after the lightbox changed its counter
func (g *Gallery) UpdateItem(item lightbox.Item) {
	for i := range g.items {
		if g.items[i].ID == item.ID {
			g.items[i] = item
			return
		}
	}
}

func (g *Gallery) rowOf(index int) int {
	return index / g.columns
}

// Rows returns the number of grid rows
func (g *Gallery) Rows() int {
	return (len(g.items) + g.columns - 1) / g.columns
}

// ScrollTo keeps the selected row inside visibleRows and returns the first
// visible row
func (g *Gallery) ScrollTo(visibleRows int) int {
	visibleRows = max(visibleRows, 1)
	row := g.rowOf(g.selected)
	if row < g.firstRow {
		g.firstRow = row
	} else if row >= g.firstRow+visibleRows {
		g.firstRow = row - visibleRows + 1
	}
	g.firstRow = min(g.firstRow, max(g.Rows()-visibleRows, 0))
	return g.firstRow
}

// gridLayout describes where cells are drawn for a screen size
type gridLayout struct {
	cellSize    int
	columns     int
	visibleRows int
	originX     int
	originY     int
}

func newGridLayout(screenW, screenH, columns int) gridLayout {
	columns = max(columns, 1)
	cell := max(screenW/columns, 16)
	rows := max((screenH-galleryHeaderHeight)/cell, 1)
	return gridLayout{
		cellSize:    cell,
		columns:     columns,
		visibleRows: rows,
		originX:     (screenW - cell*columns) / 2,
		originY:     galleryHeaderHeight,
	}
}

// cellRect returns the screen rectangle of a cell given the first visible row
func (l gridLayout) cellRect(index, firstRow int) image.Rectangle {
	col := index % l.columns
	row := index/l.columns - firstRow
	x := l.originX + col*l.cellSize
	y := l.originY + row*l.cellSize
	return image.Rect(x, y, x+l.cellSize, y+l.cellSize)
}

// cellAt maps a screen point to a cell index, -1 outside the grid
func (l gridLayout) cellAt(x, y, firstRow, count int) int {
	if x < l.originX || y < l.originY {
		return -1
	}
	col := (x - l.originX) / l.cellSize
	row := (y-l.originY)/l.cellSize + firstRow
	if col >= l.columns || row-firstRow >= l.visibleRows {
		return -1
	}
	index := row*l.columns + col
	if index >= count {
		return -1
	}
	return index
}
