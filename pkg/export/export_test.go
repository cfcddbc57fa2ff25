package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tangential/tangential/pkg/layout"
	"github.com/tangential/tangential/pkg/model"
	"github.com/tangential/tangential/pkg/treeindex"
)

func strPtr(s string) *string { return &s }

func testSnapshot() Snapshot {
	idx := treeindex.Build([]model.Node{
		{ID: "root", TreeID: "t1", UserContent: "start here"},
		{ID: "a", TreeID: "t1", ParentID: strPtr("root"), UserContent: "branch a"},
		{ID: "b", TreeID: "t1", ParentID: strPtr("root"), UserContent: "branch b"},
	})
	return Snapshot{
		Result: layout.Compute(idx, layout.DefaultConfig(), "a", []string{"root", "a"}),
		Labels: map[string]string{
			"root": "start here",
			"a":    "branch a",
			"b":    "branch b",
		},
	}
}

func TestWriteSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, testSnapshot()); err != nil {
		t.Fatalf("WriteSVG: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "<svg") || !strings.Contains(out, "</svg>") {
		t.Errorf("output is not a complete svg document")
	}
	if !strings.Contains(out, "branch a") {
		t.Errorf("labels missing from output")
	}
	if !strings.Contains(out, colorSelected) {
		t.Errorf("selected node stroke missing")
	}
	if !strings.Contains(out, colorEdgeHighlight) {
		t.Errorf("highlighted edge stroke missing")
	}
}

func TestSaveSVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.svg")
	if err := SaveSVG(path, testSnapshot()); err != nil {
		t.Fatalf("SaveSVG: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Errorf("exported svg is empty")
	}
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.png")
	if err := SavePNG(path, testSnapshot()); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Errorf("exported file is not a png")
	}
}

func TestTruncateLabel(t *testing.T) {
	long := strings.Repeat("x", labelMaxRunes+10)
	got := truncateLabel(long)
	if len([]rune(got)) != labelMaxRunes {
		t.Errorf("truncated length = %d, want %d", len([]rune(got)), labelMaxRunes)
	}
	if got := truncateLabel("short"); got != "short" {
		t.Errorf("short label changed: %q", got)
	}
}
