package checkout

import (
	"errors"
	"log/slog"

	"github.com/thiagokokada/gitdag-go/internal/git"
)

// Host is the loop that performs checkouts against the backend on behalf
// of the rendering surface. Both directions travel in the encoded wire
// form: Send puts a JSON frame on the inbound channel, Run decodes it at
// the boundary, and results are delivered back as encoded frames for the
// surface to decode on its event reactor.
type Host struct {
	svc     *git.Service
	inbound chan []byte
	deliver func(frame []byte)
}

func NewHost(svc *git.Service, deliver func(frame []byte)) *Host {
	return &Host{
		svc:     svc,
		inbound: make(chan []byte, 1),
		deliver: deliver,
	}
}

// Send hands an encoded request to the host loop. The channel is buffered
// for the single in-flight request the machine allows.
func (h *Host) Send(req Request) error {
	frame, err := Encode(req)
	if err != nil {
		return err
	}
	h.inbound <- frame
	return nil
}

// Close stops the loop once queued requests drain.
func (h *Host) Close() {
	close(h.inbound)
}

// Run serves requests until Close. Call it on its own goroutine.
func (h *Host) Run() {
	for frame := range h.inbound {
		msg, err := Decode(frame)
		if err != nil {
			slog.Error("drop undecodable frame", slog.Any("error", err))
			continue
		}
		req, ok := msg.(Request)
		if !ok {
			slog.Error("drop unexpected inbound message")
			continue
		}
		res := Result{CommitHash: req.CommitHash, OK: true}
		if err := h.svc.Checkout(req.CommitHash); err != nil {
			res.OK = false
			res.Reason = checkoutReason(err)
			slog.Info("checkout failed",
				slog.String("hash", req.CommitHash),
				slog.String("reason", res.Reason),
			)
		} else {
			slog.Debug("checkout done", slog.String("hash", req.CommitHash))
		}
		out, err := Encode(res)
		if err != nil {
			slog.Error("encode result", slog.Any("error", err))
			continue
		}
		h.deliver(out)
	}
}

func checkoutReason(err error) string {
	var cerr *git.CheckoutError
	if errors.As(err, &cerr) {
		return cerr.Reason
	}
	return err.Error()
}
