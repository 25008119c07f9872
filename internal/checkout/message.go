// Package checkout carries the message protocol and state machine that
// synchronize the rendering surface with the host performing git
// operations.
package checkout

import (
	"encoding/json"
	"fmt"
)

const (
	commandCheckout = "checkout"
	commandResult   = "checkoutResult"
)

// Message is one protocol message. The wire form is JSON with a "command"
// envelope; Decode turns it into a tagged variant exactly once, at the
// boundary, so nothing downstream switches on strings.
type Message interface {
	isMessage()
}

// Request asks the host to check out a commit.
type Request struct {
	CommitHash string
}

func (Request) isMessage() {}

// Result reports the outcome of a Request. Reason is set when OK is false.
type Result struct {
	CommitHash string
	OK         bool
	Reason     string
}

func (Result) isMessage() {}

type envelope struct {
	Command    string `json:"command"`
	CommitHash string `json:"commitHash"`
	OK         *bool  `json:"ok,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

func Encode(msg Message) ([]byte, error) {
	switch m := msg.(type) {
	case Request:
		return json.Marshal(envelope{Command: commandCheckout, CommitHash: m.CommitHash})
	case Result:
		ok := m.OK
		return json.Marshal(envelope{
			Command:    commandResult,
			CommitHash: m.CommitHash,
			OK:         &ok,
			Reason:     m.Reason,
		})
	default:
		return nil, fmt.Errorf("unsupported message type %T", msg)
	}
}

func Decode(data []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	switch env.Command {
	case commandCheckout:
		if env.CommitHash == "" {
			return nil, fmt.Errorf("checkout request without commit hash")
		}
		return Request{CommitHash: env.CommitHash}, nil
	case commandResult:
		if env.OK == nil {
			return nil, fmt.Errorf("checkout result without ok flag")
		}
		return Result{CommitHash: env.CommitHash, OK: *env.OK, Reason: env.Reason}, nil
	default:
		return nil, fmt.Errorf("unknown command %q", env.Command)
	}
}
