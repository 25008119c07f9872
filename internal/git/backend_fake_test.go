package git

import "errors"

type fakeBackend struct {
	repoPath string

	listCommitsFunc        func() ([]*Commit, error)
	headFunc               func() (HeadState, error)
	listRefsFunc           func() ([]Ref, error)
	checkoutFunc           func(hash string) error
	commitDiffTextFunc     func(commitHash string, parentHash string) (string, error)
	worktreeDiffTextFunc   func(staged bool) (string, error)
	localChangesStatusFunc func() (LocalChanges, error)

	lastCheckoutHash string
	lastCommitHash   string
	lastParentHash   string
	checkouts        int
}

func (f *fakeBackend) RepoPath() string { return f.repoPath }

func (f *fakeBackend) ListCommits() ([]*Commit, error) {
	if f.listCommitsFunc != nil {
		return f.listCommitsFunc()
	}
	return nil, errors.New("unexpected ListCommits call")
}

func (f *fakeBackend) Head() (HeadState, error) {
	if f.headFunc != nil {
		return f.headFunc()
	}
	return HeadState{}, errors.New("unexpected Head call")
}

func (f *fakeBackend) ListRefs() ([]Ref, error) {
	if f.listRefsFunc != nil {
		return f.listRefsFunc()
	}
	return nil, errors.New("unexpected ListRefs call")
}

func (f *fakeBackend) Checkout(hash string) error {
	f.lastCheckoutHash = hash
	f.checkouts++
	if f.checkoutFunc != nil {
		return f.checkoutFunc(hash)
	}
	return errors.New("unexpected Checkout call")
}

func (f *fakeBackend) CommitDiffText(commitHash string, parentHash string) (string, error) {
	f.lastCommitHash = commitHash
	f.lastParentHash = parentHash
	if f.commitDiffTextFunc != nil {
		return f.commitDiffTextFunc(commitHash, parentHash)
	}
	return "", errors.New("unexpected CommitDiffText call")
}

func (f *fakeBackend) WorktreeDiffText(staged bool) (string, error) {
	if f.worktreeDiffTextFunc != nil {
		return f.worktreeDiffTextFunc(staged)
	}
	return "", errors.New("unexpected WorktreeDiffText call")
}

func (f *fakeBackend) LocalChangesStatus() (LocalChanges, error) {
	if f.localChangesStatusFunc != nil {
		return f.localChangesStatusFunc()
	}
	return LocalChanges{}, errors.New("unexpected LocalChangesStatus call")
}
