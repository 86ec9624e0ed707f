package main

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/bodgit/sevenzip"
	"github.com/hajimehoshi/ebiten/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/nwaples/rardecode"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// NavigationDirection represents the direction of navigation
type NavigationDirection int

const (
	NavigationForward NavigationDirection = iota
	NavigationBackward
	NavigationJump
)

// PreloadRequest asks the worker to warm images around an index of the current page
type PreloadRequest struct {
	Index     int
	Direction NavigationDirection
	Wrap      bool // the lightbox loops within the page
}

// PreloadStats provides statistics about preloading
type PreloadStats struct {
	LoadedCount     int
	FailedCount     int
	ThumbnailCount  int
	LastDirection   NavigationDirection
	PendingThumbs   int
	CachedImages    int
	CachedThumbnail int
}

// PreloadManager loads full images and thumbnails off the frame loop
type PreloadManager struct {
	requestChan  chan PreloadRequest
	thumbChan    chan string
	ctx          context.Context
	cancel       context.CancelFunc
	imageManager *ImageManager
	mu           sync.RWMutex
	stats        PreloadStats
	maxPreload   int
	enabled      bool
}

// NewPreloadManager creates a PreloadManager and starts its worker
func NewPreloadManager(imageManager *ImageManager, maxPreload int) *PreloadManager {
	ctx, cancel := context.WithCancel(context.Background())
	pm := &PreloadManager{
		requestChan:  make(chan PreloadRequest, 100),
		thumbChan:    make(chan string, 512),
		ctx:          ctx,
		cancel:       cancel,
		imageManager: imageManager,
		maxPreload:   maxPreload,
		enabled:      true,
	}

	go pm.worker()

	return pm
}

// SetEnabled enables or disables full image preloading
func (pm *PreloadManager) SetEnabled(enabled bool) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.enabled = enabled
}

// IsEnabled returns whether preloading is enabled
func (pm *PreloadManager) IsEnabled() bool {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.enabled
}

// GetStats returns current preload statistics
func (pm *PreloadManager) GetStats() PreloadStats {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.stats
}

// Stop stops the worker
func (pm *PreloadManager) Stop() {
	pm.cancel()
}

// StartPreload replaces any queued request with one around currentIdx.
// wrap is set when navigation loops within the page instead of paging.
func (pm *PreloadManager) StartPreload(currentIdx int, direction NavigationDirection, wrap bool) {
	if !pm.IsEnabled() {
		return
	}

drain:
	for {
		select {
		case <-pm.requestChan:
		default:
			break drain
		}
	}

	select {
	case pm.requestChan <- PreloadRequest{Index: currentIdx, Direction: direction, Wrap: wrap}:
	default:
		debugLog("Preload request channel full, skipping preload request")
	}
}

// RequestThumbnail queues a thumbnail; false when the queue is full
func (pm *PreloadManager) RequestThumbnail(key string) bool {
	select {
	case pm.thumbChan <- key:
		return true
	default:
		return false
	}
}

func (pm *PreloadManager) worker() {
	for {
		// full images for the lightbox win over grid thumbnails
		select {
		case <-pm.ctx.Done():
			return
		case req := <-pm.requestChan:
			if pm.IsEnabled() {
				pm.processPreloadRequest(req)
			}
			continue
		default:
		}

		select {
		case <-pm.ctx.Done():
			return
		case req := <-pm.requestChan:
			if pm.IsEnabled() {
				pm.processPreloadRequest(req)
			}
		case key := <-pm.thumbChan:
			pm.loadThumbnail(key)
		}
	}
}

func (pm *PreloadManager) processPreloadRequest(req PreloadRequest) {
	pm.mu.Lock()
	pm.stats.LastDirection = req.Direction
	pm.mu.Unlock()

	order := pm.imageManager.pageOrder()
	if len(order) == 0 {
		return
	}

	for _, idx := range calculatePreloadIndices(req.Index, req.Direction, len(order), pm.maxPreload, req.Wrap) {
		select {
		case <-pm.ctx.Done():
			return
		default:
			pm.preloadImage(order[idx])
		}
	}
}

// calculatePreloadIndices returns the page indices to warm, nearest first.
// With wrap the indices run past the page ends the way a looping lightbox
// does; without it they stop at the ends, where the lightbox pages instead.
func calculatePreloadIndices(currentIdx int, direction NavigationDirection, count, maxPreload int, wrap bool) []int {
	if count <= 1 || currentIdx < 0 || currentIdx >= count {
		return nil
	}
	maxPreload = min(maxPreload, count-1)

	// resolve maps an offset index onto the page, -1 when it falls off an edge
	resolve := func(i int) int {
		if wrap {
			return ((i % count) + count) % count
		}
		if i < 0 || i >= count {
			return -1
		}
		return i
	}

	var indices []int
	switch direction {
	case NavigationForward, NavigationBackward:
		step := 1
		if direction == NavigationBackward {
			step = -1
		}
		for i := 1; i <= maxPreload; i++ {
			idx := resolve(currentIdx + step*i)
			if idx < 0 {
				break
			}
			indices = append(indices, idx)
		}
	case NavigationJump:
		seen := map[int]bool{currentIdx: true}
		for i := 1; len(indices) < maxPreload && i <= count; i++ {
			for _, idx := range []int{resolve(currentIdx + i), resolve(currentIdx - i)} {
				if idx >= 0 && !seen[idx] && len(indices) < maxPreload {
					seen[idx] = true
					indices = append(indices, idx)
				}
			}
		}
	}
	return indices
}

func (pm *PreloadManager) preloadImage(key string) {
	if _, ok := pm.imageManager.cache.Get(key); ok {
		return
	}

	imagePath, ok := pm.imageManager.lookup(key)
	if !ok {
		return
	}

	img, err := loadImage(imagePath)
	if err != nil {
		pm.mu.Lock()
		pm.stats.FailedCount++
		pm.mu.Unlock()
		debugLog("Preload failed for %s: %v", key, err)
		img = CreateErrorImage(400, 300, key, err.Error())
	}

	pm.imageManager.cache.Add(key, img)

	pm.mu.Lock()
	pm.stats.LoadedCount++
	pm.mu.Unlock()

	debugLog("Preloaded %s (cache: %d items)", key, pm.imageManager.cache.Len())
}

func (pm *PreloadManager) loadThumbnail(key string) {
	defer pm.imageManager.finishThumbnail(key)

	if _, ok := pm.imageManager.thumbs.Get(key); ok {
		return
	}
	imagePath, ok := pm.imageManager.lookup(key)
	if !ok {
		return
	}

	src, err := decodeImage(imagePath)
	var thumb *ebiten.Image
	if err != nil {
		debugLog("Thumbnail failed for %s: %v", key, err)
		size := pm.imageManager.thumbSize
		thumb = CreateErrorImage(size, size, key, err.Error())
	} else {
		thumb = ebiten.NewImageFromImage(scaleToFit(src, pm.imageManager.thumbSize))
	}
	pm.imageManager.thumbs.Add(key, thumb)

	pm.mu.Lock()
	pm.stats.ThumbnailCount++
	pm.mu.Unlock()
}

// ImageManager caches decoded images and thumbnails keyed by image path
type ImageManager struct {
	mu        sync.RWMutex
	paths     map[string]ImagePath
	order     []string
	pending   map[string]bool
	thumbSize int

	cache          *lru.Cache[string, *ebiten.Image]
	thumbs         *lru.Cache[string, *ebiten.Image]
	preloadManager *PreloadManager
}

func newImageCache(size int) *lru.Cache[string, *ebiten.Image] {
	evict := func(_ string, img *ebiten.Image) {
		if img != nil {
			img.Deallocate()
		}
	}
	cache, err := lru.NewWithEvict[string, *ebiten.Image](size, evict)
	if err != nil {
		log.Printf("Error: Failed to create LRU cache: %v", err)
		cache, _ = lru.NewWithEvict[string, *ebiten.Image](16, evict)
	}
	return cache
}

// NewImageManager creates an ImageManager. The thumbnail cache holds four
// pages worth of grid cells.
func NewImageManager(cacheSize, thumbSize, pageSize, preloadCount int, preloadEnabled bool) *ImageManager {
	thumbCapacity := 256
	if pageSize > 0 {
		thumbCapacity = max(pageSize*4, 64)
	}

	m := &ImageManager{
		paths:     make(map[string]ImagePath),
		pending:   make(map[string]bool),
		thumbSize: thumbSize,
		cache:     newImageCache(cacheSize),
		thumbs:    newImageCache(thumbCapacity),
	}
	m.preloadManager = NewPreloadManager(m, preloadCount)
	m.preloadManager.SetEnabled(preloadEnabled)
	return m
}

// SetPaths registers the images of the current page. Caches are keyed by
// path and survive page changes.
func (m *ImageManager) SetPaths(paths []ImagePath) {
	m.mu.Lock()
	m.order = make([]string, len(paths))
	for i, p := range paths {
		m.paths[p.Path] = p
		m.order[i] = p.Path
	}
	m.mu.Unlock()
	debugLog("SetPaths: %d paths, cache preserved (%d items)", len(paths), m.cache.Len())
}

func (m *ImageManager) lookup(key string) (ImagePath, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.paths[key]
	return p, ok
}

func (m *ImageManager) pageOrder() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.order
}

// Image returns the full image, loading it synchronously on a cache miss
func (m *ImageManager) Image(key string) *ebiten.Image {
	if img, ok := m.cache.Get(key); ok {
		return img
	}

	imagePath, ok := m.lookup(key)
	if !ok {
		return nil
	}

	img, err := loadImage(imagePath)
	if err != nil {
		log.Printf("Error: Failed to load image %s: %v", key, err)
		return CreateErrorImage(400, 300, key, err.Error())
	}
	m.cache.Add(key, img)

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	debugLog("Cache MISS: %s, loaded and cached (cache: %d items, memory: %dMB)",
		key, m.cache.Len(), mem.Alloc/1024/1024)

	return img
}

// CachedImage returns the full image only if it is already loaded
func (m *ImageManager) CachedImage(key string) (*ebiten.Image, bool) {
	return m.cache.Peek(key)
}

// Thumbnail returns the cached thumbnail or nil, queueing it for loading
func (m *ImageManager) Thumbnail(key string) *ebiten.Image {
	if img, ok := m.thumbs.Get(key); ok {
		return img
	}

	m.mu.Lock()
	if m.pending[key] {
		m.mu.Unlock()
		return nil
	}
	m.pending[key] = true
	m.mu.Unlock()

	if !m.preloadManager.RequestThumbnail(key) {
		m.finishThumbnail(key)
	}
	return nil
}

func (m *ImageManager) finishThumbnail(key string) {
	m.mu.Lock()
	delete(m.pending, key)
	m.mu.Unlock()
}

// StartPreload warms images around a page index
func (m *ImageManager) StartPreload(currentIdx int, direction NavigationDirection, wrap bool) {
	m.preloadManager.StartPreload(currentIdx, direction, wrap)
}

// StopPreload stops the background worker
func (m *ImageManager) StopPreload() {
	m.preloadManager.Stop()
}

// GetPreloadStats returns worker and cache statistics
func (m *ImageManager) GetPreloadStats() PreloadStats {
	stats := m.preloadManager.GetStats()
	m.mu.RLock()
	stats.PendingThumbs = len(m.pending)
	m.mu.RUnlock()
	stats.CachedImages = m.cache.Len()
	stats.CachedThumbnail = m.thumbs.Len()
	return stats
}

// scaleToFit shrinks src so its longer side is at most size
func scaleToFit(src image.Image, size int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if size <= 0 || (w <= size && h <= size) {
		return src
	}

	if w >= h {
		h = max(h*size/w, 1)
		w = size
	} else {
		w = max(w*size/h, 1)
		h = size
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// Image decoding

func decodeBytes(data []byte, path string) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

func decodeFromZip(archivePath, entryPath string) (image.Image, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != entryPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, err
		}
		return decodeBytes(data, entryPath)
	}
	return nil, fmt.Errorf("entry %s not found in %s", entryPath, archivePath)
}

func decodeFromRar(archivePath, entryPath string) (image.Image, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := rardecode.NewReader(f, "")
	if err != nil {
		return nil, err
	}

	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if header.Name == entryPath {
			data, err := io.ReadAll(r)
			if err != nil {
				return nil, err
			}
			return decodeBytes(data, entryPath)
		}
	}
	return nil, fmt.Errorf("entry %s not found in %s", entryPath, archivePath)
}

func decodeFrom7z(archivePath, entryPath string) (image.Image, error) {
	r, err := sevenzip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != entryPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, err
		}
		return decodeBytes(data, entryPath)
	}
	return nil, fmt.Errorf("entry %s not found in %s", entryPath, archivePath)
}

// decodeImage reads an image from disk or from inside an archive
func decodeImage(imagePath ImagePath) (image.Image, error) {
	if imagePath.ArchivePath == "" {
		f, err := os.Open(imagePath.Path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		img, _, err := image.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", imagePath.Path, err)
		}
		return img, nil
	}

	switch ext := strings.ToLower(filepath.Ext(imagePath.ArchivePath)); ext {
	case ".zip":
		return decodeFromZip(imagePath.ArchivePath, imagePath.EntryPath)
	case ".rar":
		return decodeFromRar(imagePath.ArchivePath, imagePath.EntryPath)
	case ".7z":
		return decodeFrom7z(imagePath.ArchivePath, imagePath.EntryPath)
	default:
		return nil, fmt.Errorf("unsupported archive format: %s", ext)
	}
}

func loadImage(imagePath ImagePath) (*ebiten.Image, error) {
	img, err := decodeImage(imagePath)
	if err != nil {
		return nil, err
	}
	return ebiten.NewImageFromImage(img), nil
}
