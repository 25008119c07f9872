package git

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// Service exposes the repository snapshot and the single mutating
// operation (checkout) on top of a Backend.
type Service struct {
	// mu serializes checkout against the backend; only one mutating
	// operation may run at a time.
	mu sync.Mutex

	backend Backend
}

func Open(repoPath string) (*Service, error) {
	backend, err := openGoGit(repoPath)
	if err != nil {
		return nil, err
	}
	return NewWithBackend(backend), nil
}

// Init creates a repository at dir, records the init marker and returns a
// service bound to the fresh repository.
func Init(dir string) (*Service, error) {
	backend, err := initGoGit(dir)
	if err != nil {
		return nil, err
	}
	if err := WriteInitMarker(backend.RepoPath()); err != nil {
		slog.Warn("write init marker", slog.Any("error", err))
	}
	return NewWithBackend(backend), nil
}

func NewWithBackend(backend Backend) *Service {
	return &Service{backend: backend}
}

func (s *Service) RepoPath() string {
	if s.backend == nil {
		return ""
	}
	return s.backend.RepoPath()
}

// Snapshot is one immutable read of the whole history: every commit across
// all refs in ascending author-time order, the derived child relation and
// the HEAD position. It is taken once per panel session and never mutated.
type Snapshot struct {
	Commits  []*Commit
	ByHash   map[string]*Commit
	Children map[string][]string
	Head     HeadState
}

func (s *Service) Snapshot() (*Snapshot, error) {
	if s.backend == nil || s.backend.RepoPath() == "" {
		return nil, fmt.Errorf("repository root not set")
	}
	commits, err := s.backend.ListCommits()
	if err != nil {
		return nil, err
	}
	// Ascending author time; SliceStable keeps the backend's query order
	// as the tie-break.
	sort.SliceStable(commits, func(i, j int) bool {
		return commits[i].Author.When.Before(commits[j].Author.When)
	})
	byHash := make(map[string]*Commit, len(commits))
	for _, c := range commits {
		byHash[c.Hash] = c
	}
	// Children is the inverse of the parent links. Walking commits in
	// chronological order keeps each child list chronologically ordered.
	children := make(map[string][]string)
	for _, c := range commits {
		for _, parent := range c.ParentHashes {
			if _, ok := byHash[parent]; !ok {
				continue
			}
			children[parent] = append(children[parent], c.Hash)
		}
	}
	head, err := s.backend.Head()
	if err != nil {
		return nil, err
	}
	slog.Debug("snapshot",
		slog.Int("commits", len(commits)),
		slog.String("head", shortHash(head.Hash)),
	)
	return &Snapshot{
		Commits:  commits,
		ByHash:   byHash,
		Children: children,
		Head:     head,
	}, nil
}

func (s *Service) Checkout(hash string) error {
	if s.backend == nil || s.backend.RepoPath() == "" {
		return &CheckoutError{Hash: hash, Reason: "repository root not set"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.Checkout(hash)
}

func (s *Service) Head() (HeadState, error) {
	if s.backend == nil {
		return HeadState{}, fmt.Errorf("repository root not set")
	}
	return s.backend.Head()
}

func (s *Service) LocalChanges() (LocalChanges, error) {
	if s.backend == nil {
		return LocalChanges{}, fmt.Errorf("repository root not set")
	}
	return s.backend.LocalChangesStatus()
}

// BranchLabels maps commit hashes to the short ref names pointing at them.
// The HEAD label always sorts first on its commit.
func (s *Service) BranchLabels() (map[string][]string, error) {
	labels := map[string][]string{}
	if s.backend == nil {
		return labels, nil
	}
	refs, err := s.backend.ListRefs()
	if err != nil {
		return nil, err
	}
	for _, ref := range refs {
		name := ref.Name
		if ref.Kind == RefKindTag {
			name = "tag: " + name
		}
		labels[ref.Hash] = append(labels[ref.Hash], name)
	}
	head, err := s.backend.Head()
	if err != nil {
		return nil, err
	}
	if head.Hash != "" {
		label := "HEAD"
		if head.BranchName != "" {
			label = fmt.Sprintf("HEAD -> %s", head.BranchName)
		}
		labels[head.Hash] = append([]string{label}, labels[head.Hash]...)
	}
	return labels, nil
}

// CommitDiff renders the commit header plus the diff against the first
// parent, with per-file section markers for the viewer.
func (s *Service) CommitDiff(commit *Commit) (string, []FileSection, error) {
	if commit == nil {
		return "", nil, fmt.Errorf("commit not specified")
	}
	header := FormatCommitHeader(commit)
	parent := ""
	if len(commit.ParentHashes) > 0 {
		parent = commit.ParentHashes[0]
	}
	diffText, err := s.backend.CommitDiffText(commit.Hash, parent)
	if err != nil {
		return "", nil, err
	}
	return joinHeaderAndDiff(header, diffText, "No file level changes.")
}

func (s *Service) WorktreeDiff(staged bool) (string, []FileSection, error) {
	if s.backend == nil || s.backend.RepoPath() == "" {
		return "", nil, fmt.Errorf("repository root not set")
	}
	diffText, err := s.backend.WorktreeDiffText(staged)
	if err != nil {
		return "", nil, err
	}
	if strings.TrimSpace(diffText) == "" {
		return "", nil, nil
	}
	return joinHeaderAndDiff(localDiffHeader(staged), diffText, "No changes.")
}

func joinHeaderAndDiff(header, diffText, emptyNote string) (string, []FileSection, error) {
	if strings.TrimSpace(diffText) == "" {
		return header + "\n" + emptyNote, nil, nil
	}
	if !strings.HasSuffix(header, "\n") {
		header += "\n"
	}
	var b strings.Builder
	b.WriteString(header)
	b.WriteString(diffText)
	if !strings.HasSuffix(diffText, "\n") {
		b.WriteByte('\n')
	}
	lineOffset := strings.Count(header, "\n")
	return b.String(), parseGitDiffSections(diffText, lineOffset), nil
}

func localDiffHeader(staged bool) string {
	if staged {
		return "Local changes checked into index but not committed"
	}
	return "Local uncommitted changes, not checked in to index"
}

func FormatCommitHeader(c *Commit) string {
	var b strings.Builder
	fmt.Fprintf(&b, "commit %s\n", c.Hash)
	appendSignatureLine(&b, "Author", c.Author)
	committer := c.Committer
	if committer.Name == "" && committer.Email == "" && committer.When.IsZero() {
		committer = c.Author
	}
	appendSignatureLine(&b, "Committer", committer)
	b.WriteString("\n")
	message := strings.TrimRight(c.Message, "\n")
	if message == "" {
		b.WriteString("    (no commit message)\n")
		return b.String()
	}
	for line := range strings.SplitSeq(message, "\n") {
		if line == "" {
			b.WriteString("\n")
			continue
		}
		fmt.Fprintf(&b, "    %s\n", line)
	}
	return b.String()
}

func appendSignatureLine(b *strings.Builder, label string, sig Signature) {
	fmt.Fprintf(b, "%s: %s <%s>", label, sig.Name, sig.Email)
	if !sig.When.IsZero() {
		fmt.Fprintf(b, "  %s", sig.When.Format("2006-01-02 15:04:05 -0700"))
	}
	b.WriteByte('\n')
}

func formatSummary(c *Commit) string {
	firstLine := strings.SplitN(strings.TrimSpace(c.Message), "\n", 2)[0]
	if len(firstLine) > 80 {
		firstLine = firstLine[:77] + "..."
	}
	timestamp := c.Author.When.Format("2006-01-02 15:04")
	return fmt.Sprintf("%s  %s  %s", shortHash(c.Hash), timestamp, firstLine)
}
