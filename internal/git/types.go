package git

import "time"

type Signature struct {
	Name  string
	Email string
	When  time.Time
}

type Commit struct {
	Hash         string
	ParentHashes []string
	Author       Signature
	Committer    Signature
	Message      string
}

// Summary returns the short-hash, date and first message line used by list
// style displays.
func (c *Commit) Summary() string {
	return formatSummary(c)
}

// HeadState describes the checked out commit. BranchName is empty when HEAD
// is detached.
type HeadState struct {
	Hash       string
	BranchName string
	Detached   bool
}

type RefKind uint8

const (
	RefKindBranch RefKind = iota
	RefKindRemoteBranch
	RefKindTag
)

type Ref struct {
	Hash string
	Kind RefKind
	Name string // short name: main, origin/main, v1
}

type LocalChanges struct {
	HasWorktree bool
	HasStaged   bool
}

// FileSection marks the first line of a per-file chunk inside a rendered
// diff so viewers can jump between files.
type FileSection struct {
	Path string
	Line int
}
