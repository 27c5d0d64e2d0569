// Package codec converts between DSP wire JSON and the typed messages in
// the protocol package. DSP encodes the same concepts as JSON-RPC with a
// different envelope: integer sequence ids instead of string ids, a single
// "body" field instead of "result"/"error", and the method name under
// "command" or "event" depending on the message kind.
//
// Reading is a single streaming pass over the object. Because key order on
// the wire is not guaranteed, values whose interpretation depends on other
// keys (arguments, body) are buffered raw and re-interpreted after the
// closing brace, once type, method and success are all known.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/carn181/dspadapter/protocol"
)

var ErrMissingType = errors.New("unable to identify the input message: missing \"type\" field")

// ReadMessageBytes decodes one DSP message from data. A nil resolver keeps
// all payloads as raw JSON.
func ReadMessageBytes(data []byte, r protocol.MethodResolver) (protocol.Message, error) {
	return ReadMessage(json.NewDecoder(bytes.NewReader(data)), r)
}

// ReadMessage decodes exactly one DSP message from dec. A top-level JSON
// null yields (nil, nil). Unknown object keys are skipped so newer peers can
// add fields without breaking us.
func ReadMessage(dec *json.Decoder, r protocol.MethodResolver) (protocol.Message, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if tok == nil {
		// Wire value was JSON null
		return nil, nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected message object, got %v", tok)
	}

	var (
		messageType string
		seq         string
		requestSeq  string
		method      string
		errMessage  string
		success     *bool
		params      any
		body        any
	)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}

		switch key {
		case "seq":
			seq, err = rawString(raw)
		case "request_seq":
			// On responses the request_seq is the correlation id
			requestSeq, err = rawString(raw)
		case "type":
			messageType, err = rawString(raw)
		case "success":
			var b bool
			if uerr := json.Unmarshal(raw, &b); uerr != nil {
				return nil, uerr
			}
			success = &b
		case "command", "event":
			method, err = rawString(raw)
		case "message":
			// An explicit null means the same as absence
			errMessage, err = rawString(raw)
		case "arguments":
			// First attempt with whatever method name has been seen so
			// far; corrected after the pass if "command" came later.
			params, err = coerceParams(raw, method, r)
		case "body":
			switch {
			case messageType == "event":
				body, err = coerceParams(raw, method, r)
			case messageType == "response" && success != nil && *success:
				body, err = coerceResult(raw, requestSeq, r)
			default:
				// Not enough context yet, keep the raw JSON
				body = raw
			}
		default:
			// Skip unknown fields
		}
		if err != nil {
			return nil, err
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	id := requestSeq
	if id == "" {
		id = seq
	}
	succeeded := success == nil || *success

	// Deferred second pass: type, method and success are complete now, so
	// values the streaming pass could not type get one more interpretation.
	params, err = reinterpretParams(params, method, r)
	if err != nil {
		return nil, err
	}
	body, err = reinterpretBody(body, messageType, id, method, succeeded, r)
	if err != nil {
		return nil, err
	}

	return buildMessage(messageType, id, method, succeeded, errMessage, params, body)
}

func buildMessage(messageType, id, method string, success bool, errMessage string, params, body any) (protocol.Message, error) {
	switch messageType {
	case "":
		return nil, ErrMissingType
	case "request":
		return &protocol.RequestMessage{ID: id, Method: method, Params: params}, nil
	case "event":
		return &protocol.EventMessage{ID: id, Method: method, Params: body}, nil
	case "response":
		resp := &protocol.ResponseMessage{ID: id, Method: method}
		if !success {
			resp.Error = &protocol.ResponseError{
				Code:    protocol.UnknownErrorCode,
				Message: errMessage,
				Data:    body,
			}
		} else {
			resp.Result = body
		}
		return resp, nil
	}
	return nil, fmt.Errorf("unable to identify the input message: unexpected type %q", messageType)
}
