package codec

import (
	"github.com/carn181/dspadapter/protocol"
)

// Handler bundles the method registry and the pending-request index into the
// resolver the codec consumes, plus []byte convenience entry points. It
// holds no per-message state, so one Handler may serve any number of
// streams; serializing access to a single stream is the caller's job.
type Handler struct {
	Registry *protocol.Registry
	Pending  *protocol.PendingRequests
}

func NewHandler(registry *protocol.Registry) *Handler {
	return &Handler{
		Registry: registry,
		Pending:  protocol.NewPendingRequests(),
	}
}

func (h *Handler) MethodFor(name string) (protocol.Method, bool) {
	if h.Registry == nil {
		return protocol.Method{}, false
	}
	return h.Registry.Lookup(name)
}

func (h *Handler) ResolvePending(id string) (string, bool) {
	if h.Pending == nil {
		return "", false
	}
	return h.Pending.Resolve(id)
}

// DecodeMessage parses one DSP message from data.
func (h *Handler) DecodeMessage(data []byte) (protocol.Message, error) {
	return ReadMessageBytes(data, h)
}

// EncodeMessage serializes msg into its DSP wire shape.
func (h *Handler) EncodeMessage(msg protocol.Message) ([]byte, error) {
	return Marshal(msg)
}
