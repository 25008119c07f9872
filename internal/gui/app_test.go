package gui

import (
	"strings"
	"testing"
	"time"

	"github.com/thiagokokada/gitdag-go/internal/git"
	"github.com/thiagokokada/gitdag-go/internal/layout"
)

func TestNormalizeHeadLabels(t *testing.T) {
	labels := map[string][]string{
		"h1": {"HEAD -> main", "tag: v1.0"},
		"h2": {"HEAD"},
		"h3": {"feature"},
	}
	out := normalizeHeadLabels(labels)
	if got := out["h1"]; len(got) != 2 || got[0] != "main" || got[1] != "tag: v1.0" {
		t.Fatalf("unexpected h1 labels: %v", got)
	}
	if _, ok := out["h2"]; ok {
		t.Fatalf("bare HEAD label must be dropped entirely")
	}
	if got := out["h3"]; len(got) != 1 || got[0] != "feature" {
		t.Fatalf("unexpected h3 labels: %v", got)
	}
}

func TestStatusSummary(t *testing.T) {
	when := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	snapshot := &git.Snapshot{
		Commits: []*git.Commit{
			{Hash: "a", Author: git.Signature{When: when}},
			{Hash: "b", Author: git.Signature{When: when.Add(time.Hour)}},
		},
		Head: git.HeadState{Hash: "b", BranchName: "main"},
	}
	ctrl := &Controller{repo: controllerRepo{path: "/repo/path"}}
	ctrl.data.snapshot = snapshot
	ctrl.data.layout = &layout.Layout{Height: map[string]int{"a": 1, "b": 1}}
	summary := ctrl.statusSummary()
	if !strings.Contains(summary, "2 commits") {
		t.Fatalf("unexpected commit count in summary: %s", summary)
	}
	if !strings.Contains(summary, "main") {
		t.Fatalf("expected branch name in summary: %s", summary)
	}
	if !strings.Contains(summary, "/repo/path") {
		t.Fatalf("expected repo path in summary: %s", summary)
	}
}

func TestStatusSummaryDetached(t *testing.T) {
	ctrl := &Controller{}
	ctrl.data.snapshot = &git.Snapshot{
		Head: git.HeadState{Hash: "abcdef1234567890", Detached: true},
	}
	ctrl.data.layout = &layout.Layout{}
	summary := ctrl.statusSummary()
	if !strings.Contains(summary, "detached abcdef1") {
		t.Fatalf("expected detached short hash in summary: %s", summary)
	}
}

func TestShortLabel(t *testing.T) {
	if got := shortLabel("abcdef1234"); got != "abcdef1" {
		t.Fatalf("want abcdef1, got %q", got)
	}
	if got := shortLabel("abc"); got != "abc" {
		t.Fatalf("short hashes pass through, got %q", got)
	}
}
