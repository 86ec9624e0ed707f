package main

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bodgit/sevenzip"
	"github.com/google/uuid"
	"github.com/nwaples/rardecode"

	"lightview/lightbox"
)

// ImagePath locates one image on disk or inside an archive
type ImagePath struct {
	Path        string // Local file path or archive:entry format
	ArchivePath string // Empty for regular files, path to archive for entries
	EntryPath   string // Empty for regular files, path within archive for entries
	Size        int64  // Uncompressed size in bytes, 0 when unknown
}

// Title returns the display name of the image
func (p ImagePath) Title() string {
	if p.EntryPath != "" {
		return filepath.Base(p.ArchivePath) + " / " + p.EntryPath
	}
	return filepath.Base(p.Path)
}

// itemID derives a stable identifier from the image location. Archive
// entries are named <archive>!<entry>.
func itemID(p ImagePath) string {
	name := p.Path
	if p.EntryPath != "" {
		name = p.ArchivePath + "!" + p.EntryPath
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+name)).String()
}

func isArchiveExt(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip", ".rar", ".7z":
		return true
	default:
		return false
	}
}

func isSupportedExt(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".webp", ".bmp", ".gif":
		return true
	default:
		return false
	}
}

func archiveEntry(archivePath, name string, size int64) ImagePath {
	return ImagePath{
		Path:        archivePath + ":" + name,
		ArchivePath: archivePath,
		EntryPath:   name,
		Size:        size,
	}
}

func extractImagesFromZip(archivePath string) ([]ImagePath, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var images []ImagePath
	for _, f := range r.File {
		if !f.FileInfo().IsDir() && isSupportedExt(f.Name) {
			images = append(images, archiveEntry(archivePath, f.Name, int64(f.UncompressedSize64)))
		}
	}
	return images, nil
}

func extractImagesFromRar(archivePath string) ([]ImagePath, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := rardecode.NewReader(f, "")
	if err != nil {
		return nil, err
	}

	var images []ImagePath
	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if !header.IsDir && isSupportedExt(header.Name) {
			images = append(images, archiveEntry(archivePath, header.Name, header.UnPackedSize))
		}
	}
	return images, nil
}

func extractImagesFrom7z(archivePath string) ([]ImagePath, error) {
	r, err := sevenzip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var images []ImagePath
	for _, f := range r.File {
		if !f.FileInfo().IsDir() && isSupportedExt(f.Name) {
			images = append(images, archiveEntry(archivePath, f.Name, int64(f.UncompressedSize)))
		}
	}
	return images, nil
}

func processArchive(archivePath string) ([]ImagePath, error) {
	var (
		images []ImagePath
		err    error
	)

	switch strings.ToLower(filepath.Ext(archivePath)) {
	case ".zip":
		images, err = extractImagesFromZip(archivePath)
	case ".rar":
		images, err = extractImagesFromRar(archivePath)
	case ".7z":
		images, err = extractImagesFrom7z(archivePath)
	default:
		return nil, fmt.Errorf("unsupported archive format: %s", filepath.Ext(archivePath))
	}
	if err != nil {
		return nil, fmt.Errorf("read archive %s: %w", archivePath, err)
	}
	return images, nil
}

// collectFile appends a single file, expanding archives
func collectFile(path string, size int64, sortMethod int, list []ImagePath) []ImagePath {
	switch {
	case isSupportedExt(path):
		return append(list, ImagePath{Path: path, Size: size})
	case isArchiveExt(path):
		images, err := processArchive(path)
		if err != nil {
			log.Printf("Warning: Skipping problematic archive %s: %v", path, err)
			return list
		}
		return append(list, GetSortStrategy(sortMethod).Sort(images)...)
	default:
		return list
	}
}

// collectImages gathers images from files, directories and archives.
// Directory contents are sorted with the configured strategy.
func collectImages(args []string, sortMethod int) ([]ImagePath, error) {
	var list []ImagePath
	for _, p := range args {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			list = collectFile(p, info.Size(), sortMethod, list)
			continue
		}

		var dirImages []ImagePath
		err = filepath.Walk(p, func(path string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if fi.IsDir() {
				return nil
			}
			dirImages = collectFile(path, fi.Size(), sortMethod, dirImages)
			return nil
		})
		if err != nil {
			return nil, err
		}
		list = append(list, GetSortStrategy(sortMethod).Sort(dirImages)...)
	}

	return list, nil
}

// StatsLookup resolves stored engagement data for a page of items
type StatsLookup interface {
	Lookup(ctx context.Context, ids []string) (map[string]ItemStats, error)
}

// pageResult is a fetched page waiting to be applied on the frame loop
type pageResult struct {
	page  int
	items []lightbox.Item
	paths []ImagePath
	err   error
}

const pageLoadTimeout = 5 * time.Second

// PageSource splits the collected images into pages and loads them off the
// frame loop. Results are picked up with Poll.
type PageSource struct {
	paths    []ImagePath
	pageSize int
	stats    StatsLookup

	page    int
	loading bool
	results chan pageResult

	// run executes page fetches; a goroutine by default
	run func(func())
}

// NewPageSource creates a source; pageSize 0 puts everything on one page
func NewPageSource(paths []ImagePath, pageSize int, stats StatsLookup) *PageSource {
	return &PageSource{
		paths:    paths,
		pageSize: pageSize,
		stats:    stats,
		results:  make(chan pageResult, 4),
		run:      func(f func()) { go f() },
	}
}

// PageCount returns the number of pages, at least 1
func (s *PageSource) PageCount() int {
	if s.pageSize <= 0 || len(s.paths) == 0 {
		return 1
	}
	return (len(s.paths) + s.pageSize - 1) / s.pageSize
}

// Page returns the zero-based index of the last requested page
func (s *PageSource) Page() int {
	return s.page
}

// Loading reports whether a fetch is in flight
func (s *PageSource) Loading() bool {
	return s.loading
}

// TotalCount returns the number of collected images
func (s *PageSource) TotalCount() int {
	return len(s.paths)
}

// Header returns a "Page x of y" label, empty without paging
func (s *PageSource) Header() string {
	if s.PageCount() <= 1 {
		return ""
	}
	return fmt.Sprintf("Page %d of %d", s.page+1, s.PageCount())
}

// Boundary returns the lightbox page boundary, nil when everything fits on one page
func (s *PageSource) Boundary() lightbox.PageBoundary {
	if s.PageCount() <= 1 {
		return nil
	}
	return lightbox.PageFunc(s.RequestPage)
}

// RequestPage starts loading the adjacent page; paging wraps around
func (s *PageSource) RequestPage(direction int) {
	count := s.PageCount()
	target := ((s.page+direction)%count + count) % count
	s.Load(target)
}

// Load starts loading a page
func (s *PageSource) Load(page int) {
	if page < 0 || page >= s.PageCount() {
		return
	}
	s.page = page
	s.loading = true
	paths := s.pagePaths(page)
	debugLog("Loading page %d/%d (%d items)", page+1, s.PageCount(), len(paths))

	s.run(func() {
		ctx, cancel := context.WithTimeout(context.Background(), pageLoadTimeout)
		defer cancel()
		items, err := s.buildItems(ctx, paths)
		s.results <- pageResult{page: page, items: items, paths: paths, err: err}
	})
}

// Poll returns a finished page. Results for pages superseded by a later
// request are discarded.
func (s *PageSource) Poll() (pageResult, bool) {
	for {
		select {
		case r := <-s.results:
			if r.page != s.page {
				debugLog("Discarding stale page %d", r.page+1)
				continue
			}
			s.loading = false
			return r, true
		default:
			return pageResult{}, false
		}
	}
}

// SetPaths replaces the collection, e.g. after a sort change, and reloads page 0
func (s *PageSource) SetPaths(paths []ImagePath) {
	s.paths = paths
	s.Load(0)
}

func (s *PageSource) pagePaths(page int) []ImagePath {
	if s.pageSize <= 0 {
		return s.paths
	}
	lo := page * s.pageSize
	hi := min(lo+s.pageSize, len(s.paths))
	if lo >= hi {
		return nil
	}
	return s.paths[lo:hi]
}

func (s *PageSource) buildItems(ctx context.Context, paths []ImagePath) ([]lightbox.Item, error) {
	items := make([]lightbox.Item, len(paths))
	ids := make([]string, len(paths))
	for i, p := range paths {
		ids[i] = itemID(p)
		items[i] = lightbox.Item{
			ID:        ids[i],
			Thumbnail: p.Path,
			Display:   p.Path,
			Title:     p.Title(),
			Size:      p.Size,
		}
	}

	if s.stats == nil {
		return items, nil
	}
	stats, err := s.stats.Lookup(ctx, ids)
	if err != nil {
		// the page is still usable without counters
		return items, fmt.Errorf("load item stats: %w", err)
	}
	for i := range items {
		if st, ok := stats[items[i].ID]; ok {
			items[i].Counter = st.Counter
			items[i].Rating = st.Rating
		}
	}
	return items, nil
}
