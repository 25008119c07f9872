package gui

import "testing"

func TestGraphLabelStyleFor(t *testing.T) {
	head := graphLabelStyleFor(false, "HEAD", "#00cc00")
	if head.fill != "#ffd75e" {
		t.Fatalf("unexpected HEAD fill: %q", head.fill)
	}
	tag := graphLabelStyleFor(true, "tag: v1.0", "#00cc00")
	if tag.fill != "#3a3a3a" {
		t.Fatalf("unexpected tag fill: %q", tag.fill)
	}
	remote := graphLabelStyleFor(false, "origin/main", "#00cc00")
	if remote.out != "#2563eb" {
		t.Fatalf("unexpected remote outline: %q", remote.out)
	}
	branch := graphLabelStyleFor(false, "main", "#00cc00")
	if branch.out != "#00cc00" {
		t.Fatalf("branch label must borrow the node color, got %q", branch.out)
	}
}

func TestContainsPrefix(t *testing.T) {
	labels := []string{"main", "HEAD -> main"}
	if !containsPrefix(labels, "HEAD") {
		t.Fatalf("expected HEAD prefix match")
	}
	if containsPrefix(labels, "tag:") {
		t.Fatalf("unexpected tag match")
	}
	if containsPrefix(labels, "") {
		t.Fatalf("empty prefix must not match")
	}
}
