package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/joseph-ayodele/order-wizard/constants"
)

// Cache maps an absolute image path to its extracted text. A hit
// short-circuits re-running OCR when the same image is selected again.
type Cache struct {
	mu      sync.Mutex
	results map[string]string
}

func NewCache() *Cache {
	return &Cache{results: make(map[string]string)}
}

func (c *Cache) Get(path string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	text, ok := c.results[path]
	return text, ok
}

func (c *Cache) Put(path, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[path] = text
}

// Service fronts the extractor with the path-keyed result cache. Safe for
// concurrent callers; extraction for distinct paths may run in parallel.
type Service struct {
	extractor *Extractor
	cache     *Cache
	logger    *slog.Logger
}

func NewService(extractor *Extractor, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{extractor: extractor, cache: NewCache(), logger: logger}
}

// ExtractText OCRs the image and returns text shaped for the order
// parser. Results are cached by absolute path, so stale callbacks can be
// filtered by comparing against the currently selected image.
func (s *Service) ExtractText(ctx context.Context, path string) (string, error) {
	if !constants.IsImagePath(path) {
		return "", fmt.Errorf("unsupported image type: %s", filepath.Ext(path))
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	if text, ok := s.cache.Get(abs); ok {
		s.logger.Debug("ocr cache hit", "path", abs)
		return text, nil
	}

	res, err := s.extractor.Extract(ctx, abs)
	if err != nil {
		return "", err
	}

	s.cache.Put(abs, res.Cleaned)
	return res.Cleaned, nil
}
