package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ProcessedItem records one article that already went through extraction.
type ProcessedItem struct {
	ArticleID   string    `json:"article_id"`
	URL         string    `json:"url"`
	ProcessedAt time.Time `json:"processed_at"`
}

// ProcessedCache tracks article fingerprints that were already extracted,
// in a JSON file, so a re-run skips work the backend already paid for.
type ProcessedCache struct {
	filePath string
	ttlHours int
	items    map[string]ProcessedItem
	mu       sync.RWMutex
}

// NewProcessedCache creates a cache instance backed by filePath.
func NewProcessedCache(filePath string, ttlHours int) *ProcessedCache {
	return &ProcessedCache{
		filePath: filePath,
		ttlHours: ttlHours,
		items:    make(map[string]ProcessedItem),
	}
}

// Load loads the existing cache from file, dropping expired entries.
func (pc *ProcessedCache) Load() error {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if _, err := os.Stat(pc.filePath); os.IsNotExist(err) {
		// First run, start empty.
		return nil
	}

	data, err := os.ReadFile(pc.filePath)
	if err != nil {
		return fmt.Errorf("failed to read cache file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var items []ProcessedItem
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("failed to unmarshal cache: %w", err)
	}

	cutoffTime := time.Now().Add(-time.Duration(pc.ttlHours) * time.Hour)
	for _, item := range items {
		if item.ProcessedAt.After(cutoffTime) {
			pc.items[item.ArticleID] = item
		}
	}
	return nil
}

// Save writes the current cache back to file.
func (pc *ProcessedCache) Save() error {
	pc.mu.RLock()
	items := make([]ProcessedItem, 0, len(pc.items))
	for _, item := range pc.items {
		items = append(items, item)
	}
	pc.mu.RUnlock()

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(pc.filePath), 0755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}
	if err := os.WriteFile(pc.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}

// IsProcessed reports whether an article id was already extracted within
// the TTL window.
func (pc *ProcessedCache) IsProcessed(articleID string) bool {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	item, exists := pc.items[articleID]
	if !exists {
		return false
	}
	cutoffTime := time.Now().Add(-time.Duration(pc.ttlHours) * time.Hour)
	return item.ProcessedAt.After(cutoffTime)
}

// MarkProcessed records an article as extracted.
func (pc *ProcessedCache) MarkProcessed(articleID, url string) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	pc.items[articleID] = ProcessedItem{
		ArticleID:   articleID,
		URL:         url,
		ProcessedAt: time.Now(),
	}
}

// Cleanup removes expired entries from memory.
func (pc *ProcessedCache) Cleanup() {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	cutoffTime := time.Now().Add(-time.Duration(pc.ttlHours) * time.Hour)
	for id, item := range pc.items {
		if item.ProcessedAt.Before(cutoffTime) {
			delete(pc.items, id)
		}
	}
}

// Len returns the number of cached entries.
func (pc *ProcessedCache) Len() int {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return len(pc.items)
}
