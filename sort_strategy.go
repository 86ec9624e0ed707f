package main

import (
	"sort"

	"github.com/maruel/natural"
)

// SortStrategy orders collected images before they are split into pages
type SortStrategy interface {
	// Sort returns a new sorted slice without modifying the original
	Sort(images []ImagePath) []ImagePath
	// Name returns the human-readable name of the strategy
	Name() string
	// ID returns the numeric identifier for config storage
	ID() int
}

func copyPaths(images []ImagePath) []ImagePath {
	result := make([]ImagePath, len(images))
	copy(result, images)
	return result
}

// NaturalSortStrategy implements natural sorting using maruel/natural
type NaturalSortStrategy struct{}

func (s *NaturalSortStrategy) Sort(images []ImagePath) []ImagePath {
	result := copyPaths(images)
	sort.SliceStable(result, func(i, j int) bool {
		return natural.Less(result[i].Path, result[j].Path)
	})
	return result
}

func (s *NaturalSortStrategy) Name() string { return "Natural" }

func (s *NaturalSortStrategy) ID() int { return SortNatural }

// SimpleSortStrategy implements lexicographical sorting
type SimpleSortStrategy struct{}

func (s *SimpleSortStrategy) Sort(images []ImagePath) []ImagePath {
	result := copyPaths(images)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Path < result[j].Path
	})
	return result
}

func (s *SimpleSortStrategy) Name() string { return "Simple" }

func (s *SimpleSortStrategy) ID() int { return SortSimple }

// EntryOrderSortStrategy keeps the order images were collected in
type EntryOrderSortStrategy struct{}

func (s *EntryOrderSortStrategy) Sort(images []ImagePath) []ImagePath {
	return copyPaths(images)
}

func (s *EntryOrderSortStrategy) Name() string { return "Entry Order" }

func (s *EntryOrderSortStrategy) ID() int { return SortEntryOrder }

// GetSortStrategy returns the strategy for a sort method ID, natural by default
func GetSortStrategy(sortMethod int) SortStrategy {
	switch sortMethod {
	case SortSimple:
		return &SimpleSortStrategy{}
	case SortEntryOrder:
		return &EntryOrderSortStrategy{}
	default:
		return &NaturalSortStrategy{}
	}
}

// GetAllSortStrategies returns all available sort strategies
func GetAllSortStrategies() []SortStrategy {
	return []SortStrategy{
		&NaturalSortStrategy{},
		&SimpleSortStrategy{},
		&EntryOrderSortStrategy{},
	}
}

// nextSortMethod returns the sort method after current, wrapping around
func nextSortMethod(current int) int {
	return (current + 1) % len(GetAllSortStrategies())
}
