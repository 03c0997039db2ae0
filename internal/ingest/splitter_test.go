package ingest

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitShortText(t *testing.T) {
	s := NewSplitter(500, 50)

	got := s.Split("Returns are accepted within 30 days.")
	if len(got) != 1 {
		t.Fatalf("Split() produced %d chunks, want 1", len(got))
	}
	if got[0] != "Returns are accepted within 30 days." {
		t.Errorf("short text was altered: %q", got[0])
	}
}

func TestSplitEmptyText(t *testing.T) {
	s := NewSplitter(500, 50)

	for _, text := range []string{"", "   ", "\n\n\t"} {
		if got := s.Split(text); len(got) != 0 {
			t.Errorf("Split(%q) = %d chunks, want 0", text, len(got))
		}
	}
}

func TestSplitRespectsChunkSize(t *testing.T) {
	s := NewSplitter(100, 20)

	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("Refunds are issued to the original payment method. ")
	}

	chunks := s.Split(b.String())
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > 100 {
			t.Errorf("chunk %d has %d bytes, exceeds size 100", i, len(c))
		}
		if strings.TrimSpace(c) == "" {
			t.Errorf("chunk %d is blank", i)
		}
	}
}

func TestSplitPrefersParagraphBoundaries(t *testing.T) {
	s := NewSplitter(60, 0)

	text := "First paragraph about shipping.\n\nSecond paragraph about returns."
	chunks := s.Split(text)

	if len(chunks) != 2 {
		t.Fatalf("Split() = %d chunks, want 2: %q", len(chunks), chunks)
	}
	if !strings.Contains(chunks[0], "shipping") {
		t.Errorf("first chunk should hold the first paragraph, got %q", chunks[0])
	}
	if !strings.Contains(chunks[1], "returns") {
		t.Errorf("second chunk should hold the second paragraph, got %q", chunks[1])
	}
}

func TestSplitHardCutOverlap(t *testing.T) {
	s := NewSplitter(10, 4)

	// No separators at all forces fixed windows.
	text := strings.Repeat("a", 25)
	chunks := s.Split(text)

	for i, c := range chunks {
		if len(c) > 10 {
			t.Fatalf("chunk %d has %d bytes, exceeds size 10", i, len(c))
		}
	}
	// Windows advance by size-overlap, so adjacent chunks share 4 bytes.
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	first, second := chunks[0], chunks[1]
	if !strings.HasPrefix(second, first[len(first)-4:]) {
		t.Errorf("chunks do not overlap: %q then %q", first, second)
	}
}

func TestSplitKeepsRunesWhole(t *testing.T) {
	tests := []struct {
		name string
		s    *Splitter
		text string
	}{
		{
			// No separators: fixed windows over 3-byte runes whose edges
			// never align with the 10-byte window.
			name: "hard cut",
			s:    NewSplitter(10, 4),
			text: strings.Repeat("退貨政策", 20),
		},
		{
			// Sentence boundaries: each sentence is 38 bytes, so the
			// 7-byte overlap tail starts mid-rune unless adjusted, and
			// at size 45 the carried tail fits into the next chunk.
			name: "overlap carry",
			s:    NewSplitter(45, 7),
			text: strings.Repeat("退貨須於三十天內提出申請. ", 10),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := tt.s.Split(tt.text)
			if len(chunks) < 2 {
				t.Fatalf("expected multiple chunks, got %d", len(chunks))
			}
			for i, c := range chunks {
				if !utf8.ValidString(c) {
					t.Errorf("chunk %d is not valid UTF-8: %q", i, c)
				}
			}
		})
	}
}

func TestSplitDeterministic(t *testing.T) {
	s := NewSplitter(120, 30)

	text := "Our store ships worldwide.\nOrders placed before noon ship the same day. " +
		"Exchanges require the original receipt and must be initiated within 30 days of delivery. " +
		"Gift cards are non-refundable.\n\nContact support for anything else."

	a := s.Split(text)
	b := s.Split(text)

	if len(a) != len(b) {
		t.Fatalf("runs disagree on chunk count: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

func TestChunkAllPositions(t *testing.T) {
	s := NewSplitter(40, 0)

	docs := []Document{
		{ID: "returns.txt", Text: "Line one about returns.\n\nLine two about refunds.\n\nLine three about exchanges."},
		{ID: "shipping.txt", Text: "Short shipping note."},
	}

	chunks := ChunkAll(docs, s)
	if len(chunks) < 3 {
		t.Fatalf("expected at least 3 chunks, got %d", len(chunks))
	}

	pos := 0
	for _, c := range chunks {
		if c.SourceID == "returns.txt" {
			if c.Position != pos {
				t.Errorf("returns.txt chunk position = %d, want %d", c.Position, pos)
			}
			pos++
		}
	}

	last := chunks[len(chunks)-1]
	if last.SourceID != "shipping.txt" || last.Position != 0 {
		t.Errorf("single-chunk document should sit at position 0, got %+v", last)
	}
}
