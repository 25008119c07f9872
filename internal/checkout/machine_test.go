package checkout

import "testing"

func TestMachine_RoundTrip(t *testing.T) {
	var sent []Request
	m := NewMachine("aaa", func(r Request) { sent = append(sent, r) })

	if !m.Request("bbb") {
		t.Fatalf("expected request to be accepted")
	}
	if m.State() != StatePending {
		t.Fatalf("state = %v, want pending", m.State())
	}
	if len(sent) != 1 || sent[0].CommitHash != "bbb" {
		t.Fatalf("outbound requests = %+v", sent)
	}

	patch, ok := m.Resolve(Result{CommitHash: "bbb", OK: true})
	if !ok {
		t.Fatalf("expected success resolution")
	}
	if patch.Old != "aaa" || patch.New != "bbb" {
		t.Fatalf("patch = %+v, want aaa->bbb", patch)
	}
	if m.Head() != "bbb" || m.State() != StateIdle {
		t.Fatalf("head = %q state = %v after success", m.Head(), m.State())
	}
}

func TestMachine_FailureLeavesHeadUntouched(t *testing.T) {
	m := NewMachine("aaa", func(Request) {})
	m.Request("bbb")

	patch, ok := m.Resolve(Result{CommitHash: "bbb", OK: false, Reason: "dirty worktree"})
	if ok {
		t.Fatalf("failure must not produce a patch, got %+v", patch)
	}
	if m.Head() != "aaa" {
		t.Fatalf("head moved on failure: %q", m.Head())
	}
	if m.State() != StateFailed || m.FailureReason() != "dirty worktree" {
		t.Fatalf("state = %v reason = %q", m.State(), m.FailureReason())
	}

	// A new request is refused until the failure is acknowledged.
	if m.Request("ccc") {
		t.Fatalf("request accepted while failure unacknowledged")
	}
	m.Ack()
	if m.State() != StateIdle {
		t.Fatalf("state = %v after ack, want idle", m.State())
	}
	if !m.Request("ccc") {
		t.Fatalf("request refused after ack")
	}
}

func TestMachine_RejectsOverlappingCheckout(t *testing.T) {
	sent := 0
	m := NewMachine("aaa", func(Request) { sent++ })

	if !m.Request("bbb") {
		t.Fatalf("first request refused")
	}
	if m.Request("ccc") {
		t.Fatalf("second request accepted while pending")
	}
	if sent != 1 {
		t.Fatalf("outbound requests = %d, want 1", sent)
	}

	if _, ok := m.Resolve(Result{CommitHash: "bbb", OK: true}); !ok {
		t.Fatalf("resolution failed")
	}
	if !m.Request("ccc") {
		t.Fatalf("request refused after pending resolved")
	}
}

func TestMachine_RefusesNoopAndEmptyTargets(t *testing.T) {
	m := NewMachine("aaa", func(Request) { t.Fatalf("unexpected send") })
	if m.Request("aaa") {
		t.Fatalf("checkout to current head accepted")
	}
	if m.Request("") {
		t.Fatalf("empty hash accepted")
	}
}

func TestMachine_DropsMismatchedAndLateResults(t *testing.T) {
	m := NewMachine("aaa", func(Request) {})
	m.Request("bbb")

	if _, ok := m.Resolve(Result{CommitHash: "zzz", OK: true}); ok {
		t.Fatalf("mismatched result accepted")
	}
	if m.State() != StatePending {
		t.Fatalf("state = %v, mismatched result must not resolve", m.State())
	}

	m.Dispose()
	if _, ok := m.Resolve(Result{CommitHash: "bbb", OK: true}); ok {
		t.Fatalf("result accepted after dispose")
	}
	if m.Head() != "aaa" {
		t.Fatalf("head moved after dispose: %q", m.Head())
	}
	if m.Request("ccc") {
		t.Fatalf("request accepted after dispose")
	}
}

func TestMachine_SetHeadOnlyWhileIdle(t *testing.T) {
	m := NewMachine("aaa", func(Request) {})
	if !m.SetHead("bbb") {
		t.Fatalf("idle SetHead refused")
	}
	if m.Head() != "bbb" {
		t.Fatalf("head = %q, want bbb", m.Head())
	}
	m.Request("ccc")
	if m.SetHead("ddd") {
		t.Fatalf("SetHead accepted while pending")
	}
}
