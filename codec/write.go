package codec

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/carn181/dspadapter/protocol"
)

// Wire shapes for writing. Struct field order is the emission order; some
// strict DSP consumers care about it.

type wireRequest struct {
	Type      string          `json:"type"`
	Seq       int64           `json:"seq"`
	Command   string          `json:"command"`
	Arguments json.RawMessage `json:"arguments"`
}

type wireResponse struct {
	Type       string          `json:"type"`
	Seq        int64           `json:"seq"`
	RequestSeq int64           `json:"request_seq"`
	Command    string          `json:"command"`
	Success    *bool           `json:"success,omitempty"`
	Message    json.RawMessage `json:"message,omitempty"`
	Body       json.RawMessage `json:"body,omitempty"`
}

type wireEvent struct {
	Type    string          `json:"type"`
	Seq     int64           `json:"seq"`
	Command string          `json:"command"`
	Body    json.RawMessage `json:"body"`
}

// seqInt converts an internal string id back to a DSP sequence number.
// Anything but a non-negative base-10 integer is an error: substituting a
// default here would corrupt request/response correlation.
func seqInt(id string) (int64, error) {
	n, err := strconv.ParseUint(id, 10, 63)
	if err != nil {
		return 0, fmt.Errorf("invalid sequence id %q: %w", id, err)
	}
	return int64(n), nil
}

func rawValue(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	if raw, ok := v.(json.RawMessage); ok {
		return raw, nil
	}
	return json.Marshal(v)
}

// explicit null rather than omitting the field
var nullValue = json.RawMessage("null")

// Marshal serializes msg into its exact DSP wire shape. The caller is
// responsible for the message being well formed; ids that do not parse as
// integers abort the write.
func Marshal(msg protocol.Message) ([]byte, error) {
	switch m := msg.(type) {
	case *protocol.RequestMessage:
		seq, err := seqInt(m.ID)
		if err != nil {
			return nil, err
		}
		args, err := rawValue(m.Params)
		if err != nil {
			return nil, err
		}
		return json.Marshal(wireRequest{
			Type:      "request",
			Seq:       seq,
			Command:   m.Method,
			Arguments: args,
		})

	case *protocol.ResponseMessage:
		seq, err := seqInt(m.ResponseID)
		if err != nil {
			return nil, err
		}
		requestSeq, err := seqInt(m.ID)
		if err != nil {
			return nil, err
		}
		resp := wireResponse{
			Type:       "response",
			Seq:        seq,
			RequestSeq: requestSeq,
			Command:    m.Method,
		}
		if m.Error != nil {
			success := false
			resp.Success = &success
			// Explicit null when there is no message text; error data
			// is omitted entirely when absent. See DESIGN.md.
			resp.Message = nullValue
			if m.Error.Message != "" {
				if resp.Message, err = json.Marshal(m.Error.Message); err != nil {
					return nil, err
				}
			}
			data, err := rawValue(m.Error.Data)
			if err != nil {
				return nil, err
			}
			if !isNullRaw(data) {
				resp.Body = data
			}
		} else {
			// success is implied by its absence, never written
			result, err := rawValue(m.Result)
			if err != nil {
				return nil, err
			}
			if result == nil {
				result = nullValue
			}
			resp.Body = result
		}
		return json.Marshal(resp)

	case *protocol.EventMessage:
		var seq int64
		if m.ID != "" {
			var err error
			if seq, err = seqInt(m.ID); err != nil {
				return nil, err
			}
		}
		body, err := rawValue(m.Params)
		if err != nil {
			return nil, err
		}
		return json.Marshal(wireEvent{
			Type:    "event",
			Seq:     seq,
			Command: m.Method,
			Body:    body,
		})
	}
	return nil, fmt.Errorf("unknown message kind %T", msg)
}

// WriteMessage serializes msg to w as one DSP JSON object.
func WriteMessage(w io.Writer, msg protocol.Message) error {
	b, err := Marshal(msg)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
