package gui

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	. "modernc.org/tk9.0"

	"github.com/thiagokokada/gitdag-go/internal/debounce"
	"github.com/thiagokokada/gitdag-go/internal/git"
)

const diffDebounceDelay = 120 * time.Millisecond

const (
	localUnstagedLabel = "Local uncommitted changes, not checked in to index"
	localStagedLabel   = "Local changes checked into index but not committed"
)

func (a *Controller) showCommitDetails(hash string) {
	commit := a.commitByHash(hash)
	if commit == nil {
		a.clearDetailText("Commit not found in the current snapshot.")
		return
	}
	header := git.FormatCommitHeader(commit)
	a.state.diff.shown = "commit:" + hash
	a.setFileSections(nil)
	a.writeDetailText(header+"\nLoading diff...", false)
	a.scheduleDiffLoad(hash)
}

func (a *Controller) commitByHash(hash string) *git.Commit {
	if a.data.snapshot == nil {
		return nil
	}
	return a.data.snapshot.ByHash[hash]
}

// scheduleDiffLoad coalesces rapid selection changes so only the last
// clicked commit actually computes its diff.
func (a *Controller) scheduleDiffLoad(hash string) {
	deb := func() *debounce.Debouncer {
		a.state.diff.mu.Lock()
		defer a.state.diff.mu.Unlock()
		a.state.diff.pendingHash = hash
		if a.state.diff.debouncer == nil {
			a.state.diff.debouncer = debounce.New(diffDebounceDelay, func() {
				a.flushDiffDebounce()
			})
		}
		return a.state.diff.debouncer
	}()
	deb.Trigger()
}

func (a *Controller) flushDiffDebounce() {
	hash := func() string {
		a.state.diff.mu.Lock()
		defer a.state.diff.mu.Unlock()
		pending := a.state.diff.pendingHash
		a.state.diff.pendingHash = ""
		return pending
	}()
	if hash == "" {
		return
	}
	go a.populateDiff(hash)
}

func (a *Controller) populateDiff(hash string) {
	commit := a.commitByHash(hash)
	if commit == nil {
		return
	}
	diff, sections, err := a.svc.CommitDiff(commit)
	if err != nil {
		diff = fmt.Sprintf("Unable to compute diff: %v", err)
	}
	diff, sections = prepareDiffDisplay(diff, sections)
	highlight := len(sections) > 0
	PostEvent(func() {
		if a.state.diff.shown != "commit:"+hash {
			return
		}
		a.writeDetailText(diff, highlight)
		a.setFileSections(sections)
	}, false)
}

func (a *Controller) showLocalChanges(staged bool) {
	a.cancelPendingDiffLoad()
	a.state.selection.Clear()
	header := localUnstagedLabel
	shown := "local:unstaged"
	if staged {
		header = localStagedLabel
		shown = "local:staged"
	}
	a.state.diff.shown = shown
	a.setFileSections(nil)
	a.writeDetailText(header+"\nLoading local changes...", false)
	go func() {
		diff, sections, err := a.svc.WorktreeDiff(staged)
		PostEvent(func() {
			if a.state.diff.shown != shown {
				return
			}
			if err != nil {
				slog.Error("worktree diff", slog.Bool("staged", staged), slog.Any("error", err))
				a.clearDetailText(fmt.Sprintf("%s\nUnable to compute diff: %v", header, err))
				return
			}
			if strings.TrimSpace(diff) == "" {
				a.clearDetailText(header + "\nNo changes.")
				return
			}
			diff, sections = prepareDiffDisplay(diff, sections)
			a.writeDetailText(diff, len(sections) > 0)
			a.setFileSections(sections)
		}, false)
	}()
}

func (a *Controller) cancelPendingDiffLoad() {
	a.state.diff.mu.Lock()
	defer a.state.diff.mu.Unlock()
	if a.state.diff.debouncer != nil {
		a.state.diff.debouncer.Stop()
	}
	a.state.diff.debouncer = nil
	a.state.diff.pendingHash = ""
}

func (a *Controller) clearDetailText(msg string) {
	a.writeDetailText(msg, false)
	a.setFileSections(nil)
}

func (a *Controller) writeDetailText(content string, highlightDiff bool) {
	a.ui.diffDetail.Configure(State(NORMAL))
	a.ui.diffDetail.Delete("1.0", END)
	a.ui.diffDetail.Insert("1.0", content)
	if highlightDiff {
		a.highlightDiffLines(content)
	} else {
		a.ui.diffDetail.TagRemove("diffAdd", "1.0", END)
		a.ui.diffDetail.TagRemove("diffDel", "1.0", END)
		a.ui.diffDetail.TagRemove("diffHeader", "1.0", END)
	}
	if a.cfg.syntaxHighlight && highlightDiff {
		a.applySyntaxHighlight(content)
	} else {
		a.clearSyntaxHighlight()
	}
	a.ui.diffDetail.Configure(State("disabled"))
}

func (a *Controller) highlightDiffLines(content string) {
	a.ui.diffDetail.TagRemove("diffAdd", "1.0", END)
	a.ui.diffDetail.TagRemove("diffDel", "1.0", END)
	a.ui.diffDetail.TagRemove("diffHeader", "1.0", END)
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if len(line) == 0 {
			continue
		}
		tag := diffLineTag(line)
		if tag == "" {
			continue
		}
		lineNo := i + 1
		start := fmt.Sprintf("%d.0", lineNo)
		end := fmt.Sprintf("%d.0", lineNo+1)
		if lineNo == len(lines) {
			end = fmt.Sprintf("%d.end", lineNo)
		}
		a.ui.diffDetail.TagAdd(tag, start, end)
	}
}

func (a *Controller) setFileSections(sections []git.FileSection) {
	// Keep a virtual "Commit" row so users can jump back to the header quickly.
	augmented := make([]git.FileSection, 0, len(sections)+1)
	augmented = append(augmented, git.FileSection{Path: "Commit", Line: 1})
	augmented = append(augmented, sections...)
	a.state.diff.fileSections = augmented
	a.ui.diffFileList.Configure(State("normal"))
	a.ui.diffFileList.Delete(0, END)
	for _, sec := range augmented {
		a.ui.diffFileList.Insert(END, sec.Path)
	}
	a.ui.diffFileList.SelectionClear(0, END)
	a.ui.diffFileList.Activate(0)
	a.syncFileSelectionToDiff()
}

func (a *Controller) onFileSelectionChanged() {
	if a.state.diff.suppressFileSelection {
		return
	}
	if len(a.state.diff.fileSections) == 0 {
		return
	}
	selected := a.ui.diffFileList.Curselection()
	if len(selected) == 0 {
		return
	}
	idx := selected[0]
	if idx < 0 || idx >= len(a.state.diff.fileSections) {
		return
	}
	a.state.diff.skipNextSync = true
	a.scrollDiffToLine(a.state.diff.fileSections[idx].Line)
}

func (a *Controller) scrollDiffToLine(line int) {
	if line <= 0 {
		return
	}
	totalLines := a.textLineCount()
	if totalLines <= 1 {
		a.ui.diffDetail.Yviewmoveto(0)
		return
	}
	fraction := float64(line-1) / float64(totalLines-1)
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	a.ui.diffDetail.Yviewmoveto(fraction)
}

func (a *Controller) textLineCount() int {
	index := a.ui.diffDetail.Index(END)
	parts := strings.SplitN(index, ".", 2)
	if len(parts) == 0 {
		return 0
	}
	lines, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	if lines > 0 {
		lines--
	}
	return lines
}

func (a *Controller) syncFileSelectionToDiff() {
	if len(a.state.diff.fileSections) == 0 {
		return
	}
	if a.state.diff.skipNextSync {
		return
	}
	line := func() int {
		index := a.ui.diffDetail.Index("@0,0")
		parts := strings.SplitN(index, ".", 2)
		if len(parts) == 0 {
			return 0
		}
		line, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0
		}
		return line
	}()
	if line <= 0 {
		return
	}
	a.setFileListSelection(fileSectionIndexForLine(a.state.diff.fileSections, line))
}

func (a *Controller) setFileListSelection(idx int) {
	if idx < 0 || idx >= len(a.state.diff.fileSections) {
		return
	}
	current := a.ui.diffFileList.Curselection()
	if len(current) > 0 && current[0] == idx {
		return
	}
	a.state.diff.suppressFileSelection = true
	a.ui.diffFileList.SelectionClear(0, END)
	a.ui.diffFileList.SelectionSet(idx)
	a.ui.diffFileList.Activate(idx)
	a.ui.diffFileList.See(idx)
	PostEvent(func() {
		a.state.diff.suppressFileSelection = false
	}, false)
}

func (a *Controller) onDiffScrolled() {
	if a.state.diff.skipNextSync {
		a.state.diff.skipNextSync = false
		return
	}
	a.syncFileSelectionToDiff()
}
