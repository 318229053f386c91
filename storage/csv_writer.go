package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"tiktok-scraper/models"
)

// CSVWriter writes raw (unnormalized) post snapshots to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)

	if err := w.Write([]string{
		"post_url", "account", "views", "likes", "comments", "shares", "bookmarks",
		"engagement_rate", "caption", "slide_text", "is_repost", "source", "scraped_at",
	}); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// WriteRaw appends post snapshots to the CSV file.
func (c *CSVWriter) WriteRaw(posts []*models.PostSnapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range posts {
		row := []string{
			p.PostURL,
			p.Account,
			strconv.Itoa(p.Views),
			strconv.Itoa(p.Likes),
			strconv.Itoa(p.Comments),
			strconv.Itoa(p.Shares),
			strconv.Itoa(p.Bookmarks),
			strconv.FormatFloat(p.EngagementRate, 'f', 2, 64),
			p.Caption,
			p.SlideText,
			strconv.FormatBool(p.IsRepost),
			p.Source,
			p.ScrapedAt.Format(time.RFC3339),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
