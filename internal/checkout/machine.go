package checkout

import "log/slog"

type State int

const (
	StateIdle State = iota
	StatePending
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// HeadPatch tells the renderer which two nodes to re-decorate after a
// successful checkout. The layout itself never changes.
type HeadPatch struct {
	Old string
	New string
}

// Machine owns the session HEAD pointer and enforces that at most one
// checkout is in flight. It is not goroutine safe: all methods run on the
// event reactor that also delivers inbound results.
type Machine struct {
	state    State
	head     string
	target   string
	reason   string
	disposed bool

	send func(Request)
}

// NewMachine creates a machine with the initial HEAD position. send is
// invoked for every accepted request, on the caller's goroutine.
func NewMachine(head string, send func(Request)) *Machine {
	return &Machine{state: StateIdle, head: head, send: send}
}

func (m *Machine) State() State { return m.state }

func (m *Machine) Head() string { return m.head }

// FailureReason is set while the machine is in StateFailed.
func (m *Machine) FailureReason() string { return m.reason }

// Request starts a checkout to hash. It reports false when the request is
// refused: a checkout is already pending, a failure awaits acknowledgement,
// hash is already HEAD, or the machine was disposed.
func (m *Machine) Request(hash string) bool {
	if m.disposed || m.state != StateIdle {
		slog.Debug("checkout request refused",
			slog.String("state", m.state.String()),
			slog.Bool("disposed", m.disposed),
		)
		return false
	}
	if hash == "" || hash == m.head {
		return false
	}
	m.state = StatePending
	m.target = hash
	if m.send != nil {
		m.send(Request{CommitHash: hash})
	}
	return true
}

// Resolve consumes a host result. On success it moves HEAD and returns the
// decoration patch for the renderer; on failure it parks in StateFailed
// with no visual or HEAD mutation. Results that arrive after Dispose, or
// that do not match the pending target, are dropped.
func (m *Machine) Resolve(res Result) (HeadPatch, bool) {
	if m.disposed || m.state != StatePending || res.CommitHash != m.target {
		slog.Debug("checkout result dropped",
			slog.String("state", m.state.String()),
			slog.String("hash", res.CommitHash),
		)
		return HeadPatch{}, false
	}
	m.target = ""
	if !res.OK {
		m.state = StateFailed
		m.reason = res.Reason
		return HeadPatch{}, false
	}
	patch := HeadPatch{Old: m.head, New: res.CommitHash}
	m.head = res.CommitHash
	m.state = StateIdle
	return patch, true
}

// Ack dismisses a surfaced failure and returns the machine to idle.
func (m *Machine) Ack() {
	if m.state == StateFailed {
		m.state = StateIdle
		m.reason = ""
	}
}

// SetHead force-moves the head pointer outside the checkout flow, e.g.
// when an external HEAD change is observed. Only valid while idle.
func (m *Machine) SetHead(hash string) bool {
	if m.disposed || m.state != StateIdle || hash == "" {
		return false
	}
	m.head = hash
	return true
}

// Dispose tears the machine down; every later request or result is
// dropped so no patch is ever applied to a torn-down scene.
func (m *Machine) Dispose() {
	m.disposed = true
	m.state = StateIdle
	m.target = ""
}
