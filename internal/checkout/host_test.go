package checkout

import (
	"testing"

	"github.com/thiagokokada/gitdag-go/internal/git"
)

type stubBackend struct {
	checkoutErr error
	checkouts   []string
}

func (s *stubBackend) RepoPath() string                    { return "repo" }
func (s *stubBackend) ListCommits() ([]*git.Commit, error) { return nil, nil }
func (s *stubBackend) Head() (git.HeadState, error)        { return git.HeadState{}, nil }
func (s *stubBackend) ListRefs() ([]git.Ref, error)        { return nil, nil }
func (s *stubBackend) Checkout(hash string) error {
	s.checkouts = append(s.checkouts, hash)
	return s.checkoutErr
}
func (s *stubBackend) CommitDiffText(string, string) (string, error) { return "", nil }
func (s *stubBackend) WorktreeDiffText(bool) (string, error)         { return "", nil }
func (s *stubBackend) LocalChangesStatus() (git.LocalChanges, error) {
	return git.LocalChanges{}, nil
}

func decodeResult(t *testing.T, frame []byte) Result {
	t.Helper()
	msg, err := Decode(frame)
	if err != nil {
		t.Fatalf("decode delivered frame: %v", err)
	}
	res, ok := msg.(Result)
	if !ok {
		t.Fatalf("delivered message is %T, want Result", msg)
	}
	return res
}

func TestHost_DeliversSuccess(t *testing.T) {
	backend := &stubBackend{}
	frames := make(chan []byte, 1)
	host := NewHost(git.NewWithBackend(backend), func(frame []byte) { frames <- frame })
	go host.Run()
	defer host.Close()

	if err := host.Send(Request{CommitHash: "abc"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	res := decodeResult(t, <-frames)
	if !res.OK || res.CommitHash != "abc" {
		t.Fatalf("result = %+v", res)
	}
	if len(backend.checkouts) != 1 || backend.checkouts[0] != "abc" {
		t.Fatalf("backend checkouts = %v", backend.checkouts)
	}
}

func TestHost_DeliversFailureReason(t *testing.T) {
	backend := &stubBackend{
		checkoutErr: &git.CheckoutError{Hash: "abc", Reason: "dirty worktree"},
	}
	frames := make(chan []byte, 1)
	host := NewHost(git.NewWithBackend(backend), func(frame []byte) { frames <- frame })
	go host.Run()
	defer host.Close()

	if err := host.Send(Request{CommitHash: "abc"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	res := decodeResult(t, <-frames)
	if res.OK {
		t.Fatalf("expected failure, got %+v", res)
	}
	if res.Reason != "dirty worktree" {
		t.Fatalf("reason = %q", res.Reason)
	}
}
