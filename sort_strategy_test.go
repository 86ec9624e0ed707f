package main

import (
	"reflect"
	"testing"
)

// Collected order: a directory listing followed by the entries of an archive
func getTestImagePaths() []ImagePath {
	return []ImagePath{
		{Path: "test/01.png", Size: 100},
		{Path: "test/08.png", Size: 800},
		{Path: "test/2.png", Size: 200},
		archiveEntry("test/04.zip", "p10.png", 10),
		archiveEntry("test/04.zip", "p9.png", 9),
		{Path: "test/３.png", Size: 300},
	}
}

func TestSortStrategies(t *testing.T) {
	tests := []struct {
		strategy SortStrategy
		name     string
		id       int
		expected []string
	}{
		{
			strategy: &NaturalSortStrategy{},
			name:     "Natural",
			id:       SortNatural,
			expected: []string{"test/01.png", "test/2.png", "test/04.zip:p9.png", "test/04.zip:p10.png", "test/08.png", "test/３.png"},
		},
		{
			strategy: &SimpleSortStrategy{},
			name:     "Simple",
			id:       SortSimple,
			expected: []string{"test/01.png", "test/04.zip:p10.png", "test/04.zip:p9.png", "test/08.png", "test/2.png", "test/３.png"},
		},
		{
			strategy: &EntryOrderSortStrategy{},
			name:     "Entry Order",
			id:       SortEntryOrder,
			expected: pathsToStrings(getTestImagePaths()),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.strategy.Name() != tt.name {
				t.Errorf("Expected name '%s', got '%s'", tt.name, tt.strategy.Name())
			}
			if tt.strategy.ID() != tt.id {
				t.Errorf("Expected ID %d, got %d", tt.id, tt.strategy.ID())
			}

			input := getTestImagePaths()
			result := tt.strategy.Sort(input)
			if got := pathsToStrings(result); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Sort failed\nExpected: %v\nGot:      %v", tt.expected, got)
			}
			if !reflect.DeepEqual(input, getTestImagePaths()) {
				t.Error("Input slice was modified - should be immutable")
			}
		})
	}
}

func TestSortKeepsArchiveMetadata(t *testing.T) {
	result := GetSortStrategy(SortNatural).Sort(getTestImagePaths())
	for _, p := range result {
		if p.Path == "test/04.zip:p9.png" {
			if p.ArchivePath != "test/04.zip" || p.EntryPath != "p9.png" || p.Size != 9 {
				t.Errorf("Archive entry lost its metadata: %+v", p)
			}
			return
		}
	}
	t.Error("Archive entry missing from sorted result")
}

func TestSortIsStable(t *testing.T) {
	identical := []ImagePath{
		{Path: "test/same.png", Size: 1},
		{Path: "test/same.png", Size: 2},
		{Path: "test/same.png", Size: 3},
	}

	for _, strategy := range GetAllSortStrategies() {
		result := strategy.Sort(identical)
		for i, p := range result {
			if p.Size != int64(i+1) {
				t.Errorf("Strategy %s reordered equal paths: %v", strategy.Name(), result)
				break
			}
		}
	}
}

func TestSortEmpty(t *testing.T) {
	for _, strategy := range GetAllSortStrategies() {
		if result := strategy.Sort(nil); len(result) != 0 {
			t.Errorf("Strategy %s: expected empty result, got %v", strategy.Name(), result)
		}
	}
}

func TestGetSortStrategy(t *testing.T) {
	tests := []struct {
		sortMethod   int
		expectedID   int
		expectedName string
	}{
		{SortNatural, SortNatural, "Natural"},
		{SortSimple, SortSimple, "Simple"},
		{SortEntryOrder, SortEntryOrder, "Entry Order"},
		{999, SortNatural, "Natural"}, // Default fallback
	}

	for _, tt := range tests {
		t.Run(tt.expectedName, func(t *testing.T) {
			strategy := GetSortStrategy(tt.sortMethod)
			if strategy.ID() != tt.expectedID {
				t.Errorf("Expected ID %d, got %d", tt.expectedID, strategy.ID())
			}
			if strategy.Name() != tt.expectedName {
				t.Errorf("Expected name '%s', got '%s'", tt.expectedName, strategy.Name())
			}
		})
	}
}

func TestNextSortMethod(t *testing.T) {
	tests := []struct {
		current  int
		expected int
	}{
		{SortNatural, SortSimple},
		{SortSimple, SortEntryOrder},
		{SortEntryOrder, SortNatural},
	}

	for _, tt := range tests {
		if got := nextSortMethod(tt.current); got != tt.expected {
			t.Errorf("nextSortMethod(%d) = %d, want %d", tt.current, got, tt.expected)
		}
	}
}

// pathsToStrings converts an ImagePath slice for easier comparison
func pathsToStrings(paths []ImagePath) []string {
	var result []string
	for _, path := range paths {
		result = append(result, path.Path)
	}
	return result
}
