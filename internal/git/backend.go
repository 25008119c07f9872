package git

// Backend abstracts access to repository data.
//
// The default implementation uses go-git, but the interface allows
// alternative implementations (e.g. shelling out to the git executable)
// without changing Service.
type Backend interface {
	RepoPath() string

	// ListCommits returns every commit reachable from any ref, in no
	// particular order.
	ListCommits() ([]*Commit, error)
	Head() (HeadState, error)
	ListRefs() ([]Ref, error)

	// Checkout moves HEAD to the given commit, detached. Either HEAD fully
	// moves or the call fails with *CheckoutError and nothing changes.
	Checkout(hash string) error

	CommitDiffText(commitHash string, parentHash string) (string, error)
	WorktreeDiffText(staged bool) (string, error)
	LocalChangesStatus() (LocalChanges, error)
}
