package ingest

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Document is one policy file loaded from the documents folder.
type Document struct {
	// ID is the file name, used for source traceability in chunk payloads.
	ID   string
	Text string
}

// Chunk is one retrieval unit produced from a document.
type Chunk struct {
	// SourceID names the document the chunk came from.
	SourceID string
	// Position is the chunk's index within its document. SourceID and
	// Position together identify a chunk stably across re-ingestion runs.
	Position int
	Text     string
}

// Loader reads policy documents from a folder.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a Loader.
func NewLoader(logger *slog.Logger) *Loader {
	return &Loader{logger: logger.With("component", "ingest")}
}

// Load reads every .txt and .md file directly inside dir (non-recursive).
// Unreadable files are logged and skipped; a missing folder is an error.
// An existing but empty folder yields an empty slice.
func (l *Loader) Load(dir string) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading documents folder %s: %w", dir, err)
	}

	var docs []Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".txt" && ext != ".md" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			l.logger.Warn("skipping unreadable document", "file", entry.Name(), "error", err)
			continue
		}

		text := markPages(string(data))
		if strings.TrimSpace(text) == "" {
			l.logger.Warn("skipping empty document", "file", entry.Name())
			continue
		}

		docs = append(docs, Document{ID: entry.Name(), Text: text})
	}

	l.logger.Info("documents loaded", "folder", dir, "count", len(docs))
	return docs, nil
}

// markPages prefixes each page of a document with a "--- Page N ---" marker
// so retrieved chunks stay traceable to their page. Pages are delimited by
// form feeds; a document without form feeds is a single page.
func markPages(text string) string {
	pages := strings.Split(text, "\f")

	var b strings.Builder
	for i, page := range pages {
		if strings.TrimSpace(page) == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "--- Page %d ---\n", i+1)
		b.WriteString(page)
	}
	return b.String()
}

// ChunkAll splits every document and assigns stable per-document positions.
func ChunkAll(docs []Document, splitter *Splitter) []Chunk {
	var chunks []Chunk
	for _, doc := range docs {
		for i, text := range splitter.Split(doc.Text) {
			chunks = append(chunks, Chunk{
				SourceID: doc.ID,
				Position: i,
				Text:     text,
			})
		}
	}
	return chunks
}
