package git

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

type gogitBackend struct {
	repo *gitlib.Repository
	path string
}

// openGoGit opens the repository containing repoPath. It fails with
// ErrBackendUnavailable when the path is not inside a git repository.
func openGoGit(repoPath string) (Backend, error) {
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, err
	}
	repo, err := gitlib.PlainOpenWithOptions(abs, &gitlib.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gitlib.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrBackendUnavailable, abs)
		}
		return nil, fmt.Errorf("open repository: %w", err)
	}
	return &gogitBackend{repo: repo, path: abs}, nil
}

// initGoGit creates an empty repository at dir and returns a backend bound
// to it. Used by the BackendUnavailable recovery path.
func initGoGit(dir string) (Backend, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	repo, err := gitlib.PlainInit(abs, false)
	if err != nil {
		return nil, fmt.Errorf("init repository: %w", err)
	}
	return &gogitBackend{repo: repo, path: abs}, nil
}

func (b *gogitBackend) RepoPath() string {
	return b.path
}

func (b *gogitBackend) ListCommits() ([]*Commit, error) {
	iter, err := b.repo.Log(&gitlib.LogOptions{All: true})
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			// Empty repository: no refs yet, so no commits.
			return nil, nil
		}
		return nil, &QueryError{Op: "log", Err: err}
	}
	defer iter.Close()

	var commits []*Commit
	for {
		c, err := iter.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, &QueryError{Op: "log", Err: err}
		}
		commits = append(commits, convertCommit(c))
	}
	return commits, nil
}

func (b *gogitBackend) Head() (HeadState, error) {
	ref, err := b.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return HeadState{}, nil
		}
		return HeadState{}, &QueryError{Op: "head", Err: err}
	}
	state := HeadState{Hash: ref.Hash().String(), Detached: true}
	if ref.Name().IsBranch() {
		state.BranchName = ref.Name().Short()
		state.Detached = false
	}
	return state, nil
}

func (b *gogitBackend) ListRefs() ([]Ref, error) {
	iter, err := b.repo.References()
	if err != nil {
		return nil, &QueryError{Op: "refs", Err: err}
	}
	defer iter.Close()

	var refs []Ref
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		name := ref.Name()
		short := name.Short()
		switch {
		case name.IsBranch():
			refs = append(refs, Ref{Hash: ref.Hash().String(), Kind: RefKindBranch, Name: short})
		case name.IsRemote():
			if strings.HasSuffix(short, "/HEAD") {
				return nil
			}
			refs = append(refs, Ref{Hash: ref.Hash().String(), Kind: RefKindRemoteBranch, Name: short})
		case name.IsTag():
			hash := ref.Hash()
			// Annotated tags point at a tag object; peel to the commit.
			if tag, err := b.repo.TagObject(hash); err == nil {
				if commit, err := tag.Commit(); err == nil {
					hash = commit.Hash
				}
			}
			refs = append(refs, Ref{Hash: hash.String(), Kind: RefKindTag, Name: short})
		}
		return nil
	})
	if err != nil {
		return nil, &QueryError{Op: "refs", Err: err}
	}
	return refs, nil
}

func (b *gogitBackend) Checkout(hash string) error {
	hash = strings.TrimSpace(hash)
	if hash == "" {
		return &CheckoutError{Hash: hash, Reason: "commit not specified"}
	}
	target := plumbing.NewHash(hash)
	if _, err := b.repo.CommitObject(target); err != nil {
		return &CheckoutError{Hash: hash, Reason: fmt.Sprintf("unknown commit: %v", err)}
	}
	wt, err := b.repo.Worktree()
	if err != nil {
		return &CheckoutError{Hash: hash, Reason: err.Error()}
	}
	if err := wt.Checkout(&gitlib.CheckoutOptions{Hash: target}); err != nil {
		return &CheckoutError{Hash: hash, Reason: err.Error()}
	}
	return nil
}

func (b *gogitBackend) CommitDiffText(commitHash string, parentHash string) (string, error) {
	commit, err := b.repo.CommitObject(plumbing.NewHash(commitHash))
	if err != nil {
		return "", fmt.Errorf("resolve commit %s: %w", shortHash(commitHash), err)
	}
	currentTree, err := commit.Tree()
	if err != nil {
		return "", err
	}
	var parentTree *object.Tree
	if parentHash != "" {
		parent, err := b.repo.CommitObject(plumbing.NewHash(parentHash))
		if err != nil {
			return "", fmt.Errorf("resolve parent %s: %w", shortHash(parentHash), err)
		}
		parentTree, err = parent.Tree()
		if err != nil {
			return "", err
		}
	}
	changes, err := object.DiffTree(parentTree, currentTree)
	if err != nil {
		return "", err
	}
	if len(changes) == 0 {
		return "", nil
	}
	patch, err := changes.Patch()
	if err != nil {
		return "", err
	}
	return patch.String(), nil
}

func (b *gogitBackend) LocalChangesStatus() (LocalChanges, error) {
	var res LocalChanges
	wt, err := b.repo.Worktree()
	if err != nil {
		return res, err
	}
	status, err := wt.Status()
	if err != nil {
		return res, err
	}
	for _, st := range status {
		if st.Staging != gitlib.Unmodified && st.Staging != gitlib.Untracked {
			res.HasStaged = true
		}
		if st.Worktree != gitlib.Unmodified && st.Worktree != gitlib.Untracked {
			res.HasWorktree = true
		}
		if res.HasWorktree && res.HasStaged {
			break
		}
	}
	return res, nil
}

func (b *gogitBackend) headTree() (*object.Tree, error) {
	ref, err := b.repo.Head()
	if err != nil {
		return nil, err
	}
	commit, err := b.repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, err
	}
	return commit.Tree()
}

func convertCommit(c *object.Commit) *Commit {
	parents := make([]string, 0, c.NumParents())
	for _, h := range c.ParentHashes {
		parents = append(parents, h.String())
	}
	return &Commit{
		Hash:         c.Hash.String(),
		ParentHashes: parents,
		Author:       Signature{Name: c.Author.Name, Email: c.Author.Email, When: c.Author.When},
		Committer:    Signature{Name: c.Committer.Name, Email: c.Committer.Email, When: c.Committer.When},
		Message:      c.Message,
	}
}
