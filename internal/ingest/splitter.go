// Package ingest reads policy documents from a folder and splits them into
// retrieval-sized chunks.
package ingest

import (
	"strings"
	"unicode/utf8"
)

// defaultSeparators orders split boundaries from most to least preferred:
// paragraph break, line break, sentence end, word boundary, then hard cut.
var defaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// Splitter breaks text into chunks of at most chunkSize bytes, preferring
// natural boundaries. Adjacent chunks share up to chunkOverlap bytes of
// context when the overlap still fits under chunkSize.
//
// Splitting is pure and deterministic: the same input always produces the
// same chunks, which keeps re-ingestion idempotent.
type Splitter struct {
	chunkSize    int
	chunkOverlap int
}

// NewSplitter creates a splitter. Size and overlap are validated by
// config.Validate before they reach this constructor.
func NewSplitter(chunkSize, chunkOverlap int) *Splitter {
	return &Splitter{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// Split chunks text recursively along defaultSeparators.
// Whitespace-only input yields no chunks.
func (s *Splitter) Split(text string) []string {
	return s.splitWith(text, defaultSeparators)
}

func (s *Splitter) splitWith(text string, seps []string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if len(text) <= s.chunkSize {
		return []string{text}
	}
	if len(seps) == 0 || seps[0] == "" {
		return s.hardCut(text)
	}

	// SplitAfter keeps the separator attached so no characters are lost.
	parts := strings.SplitAfter(text, seps[0])

	var (
		chunks  []string
		current string
		seedLen int // prefix of current carried over from the previous chunk
	)

	emit := func() {
		if strings.TrimSpace(current) != "" {
			chunks = append(chunks, current)
		}
		if s.chunkOverlap > 0 && len(current) > s.chunkOverlap {
			// Rune-boundary adjustment keeps the carried overlap valid UTF-8.
			current = current[runeStart(current, len(current)-s.chunkOverlap):]
		} else {
			current = ""
		}
		seedLen = len(current)
	}

	for _, part := range parts {
		if len(part) > s.chunkSize {
			// Oversized part: flush pending text, then split the part
			// with the next, finer separator.
			if len(current) > seedLen {
				emit()
			}
			current, seedLen = "", 0
			chunks = append(chunks, s.splitWith(part, seps[1:])...)
			continue
		}
		if len(current)+len(part) > s.chunkSize {
			if len(current) > seedLen {
				emit()
			}
			if len(current)+len(part) > s.chunkSize {
				// Even the carried overlap does not fit; drop it.
				current, seedLen = "", 0
			}
		}
		current += part
	}

	if len(current) > seedLen && strings.TrimSpace(current) != "" {
		chunks = append(chunks, current)
	}
	return chunks
}

// hardCut slices text into fixed windows with overlap, used when no
// separator produces pieces small enough. Window edges land on rune
// boundaries so no multi-byte rune is split across chunks.
func (s *Splitter) hardCut(text string) []string {
	step := s.chunkSize - s.chunkOverlap
	if step < 1 {
		step = s.chunkSize
	}

	var chunks []string
	for start := 0; start < len(text); {
		end := start + s.chunkSize
		if end >= len(text) {
			chunks = append(chunks, text[start:])
			break
		}
		for end > start && !utf8.RuneStart(text[end]) {
			end--
		}
		if end == start {
			// A window smaller than one rune still emits that rune whole.
			_, size := utf8.DecodeRuneInString(text[start:])
			end = start + size
		}
		chunks = append(chunks, text[start:end])

		// Never step past end: a boundary adjustment must not skip bytes.
		start = min(runeStart(text, start+step), end)
	}
	return chunks
}

// runeStart advances i to the next rune boundary in s.
func runeStart(s string, i int) int {
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return i
}
