package layout

import (
	"testing"

	"github.com/screenager/ocrcore/internal/geometry"
	"github.com/screenager/ocrcore/internal/ocrresult"
)

func wordAt(id, text string, x, y, w, h int) ocrresult.Word {
	rect := geometry.AARectangle{X: x, Y: y, Width: w, Height: h}
	return ocrresult.Word{
		ID:   id,
		Text: text,
		BoundingBox: ocrresult.BoundingBox{
			AARect: rect,
			Polygon: geometry.Polygon{Points: []geometry.Point{
				{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h},
			}},
		},
		Confidence: 1,
	}
}

func TestNeighboringWordsMergeIntoOneLine(t *testing.T) {
	// Same midline, small horizontal gap relative to height — must merge.
	w1 := wordAt("w1", "HELLO", 0, 0, 100, 20)
	w2 := wordAt("w2", "WORLD", 105, 0, 100, 20)

	lines := MergeWords([]ocrresult.Word{w1, w2})
	if len(lines) != 1 {
		t.Fatalf("expected one merged line, got %d", len(lines))
	}
	if lines[0].Text != "HELLO WORLD" {
		t.Fatalf("expected left-to-right merged text, got %q", lines[0].Text)
	}
	if len(lines[0].WordIDs) != 2 {
		t.Fatalf("expected 2 word ids in merged line, got %d", len(lines[0].WordIDs))
	}
}

func TestFarApartWordsStaySeparateLines(t *testing.T) {
	w1 := wordAt("w1", "HELLO", 0, 0, 100, 20)
	w2 := wordAt("w2", "WORLD", 0, 500, 100, 20) // far below, different midline

	lines := MergeWords([]ocrresult.Word{w1, w2})
	if len(lines) != 2 {
		t.Fatalf("expected two separate lines, got %d", len(lines))
	}
}

func TestMergeIsLeftToRightRegardlessOfInputOrder(t *testing.T) {
	w1 := wordAt("w1", "WORLD", 105, 0, 100, 20)
	w2 := wordAt("w2", "HELLO", 0, 0, 100, 20)

	lines := MergeWords([]ocrresult.Word{w1, w2})
	if len(lines) != 1 {
		t.Fatalf("expected one merged line, got %d", len(lines))
	}
	if lines[0].Text != "HELLO WORLD" {
		t.Fatalf("expected HELLO before WORLD regardless of input order, got %q", lines[0].Text)
	}
}

func TestEmptyWordsYieldsNoLines(t *testing.T) {
	if lines := MergeWords(nil); lines != nil {
		t.Fatalf("expected nil lines for no words, got %v", lines)
	}
}
