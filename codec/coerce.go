package codec

import (
	"bytes"
	"encoding/json"
	"reflect"

	"github.com/carn181/dspadapter/protocol"
)

// isNullRaw reports whether raw is absent or the JSON null literal.
func isNullRaw(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func isArrayRaw(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// rawString reads a JSON string, accepting bare numbers too since DSP ids
// are integers on the wire. A JSON null reads as the empty string.
func rawString(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if isNullRaw(trimmed) {
		return "", nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	return string(trimmed), nil
}

// decodeAs converts raw into a value of type t. A nil t means the method is
// untyped and the value stays raw JSON.
func decodeAs(raw json.RawMessage, t reflect.Type) (any, error) {
	if isNullRaw(raw) {
		return nil, nil
	}
	if t == nil {
		return raw, nil
	}
	v := reflect.New(t)
	if err := json.Unmarshal(raw, v.Interface()); err != nil {
		return nil, err
	}
	return v.Elem().Interface(), nil
}

func paramTypes(r protocol.MethodResolver, method string) []reflect.Type {
	if r == nil || method == "" {
		return nil
	}
	m, ok := r.MethodFor(method)
	if !ok {
		return nil
	}
	return m.ParamTypes
}

// coerceParams interprets a request's arguments (or an event's body) against
// the declared parameter types of method. A single declared type converts the
// whole value. Several declared types plus an array value convert
// positionally, padded with nils up to the declared count. When no types
// resolve the raw JSON is kept for a later attempt.
func coerceParams(raw json.RawMessage, method string, r protocol.MethodResolver) (any, error) {
	if isNullRaw(raw) {
		return nil, nil
	}
	types := paramTypes(r, method)
	if len(types) == 1 {
		return decodeAs(raw, types[0])
	}
	if len(types) > 1 && isArrayRaw(raw) {
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			return nil, err
		}
		params := make([]any, 0, max(len(elems), len(types)))
		for i, elem := range elems {
			var t reflect.Type
			if i < len(types) {
				t = types[i]
			}
			v, err := decodeAs(elem, t)
			if err != nil {
				return nil, err
			}
			params = append(params, v)
		}
		for len(params) < len(types) {
			params = append(params, nil)
		}
		return params, nil
	}
	return raw, nil
}

// coerceResult types a success response body by resolving the request's
// method through the pending-request index.
func coerceResult(raw json.RawMessage, id string, r protocol.MethodResolver) (any, error) {
	if isNullRaw(raw) {
		return nil, nil
	}
	var t reflect.Type
	if r != nil && id != "" {
		if method, ok := r.ResolvePending(id); ok {
			if m, ok := r.MethodFor(method); ok {
				t = m.ResultType
			}
		}
	}
	return decodeAs(raw, t)
}

// reinterpretParams retries coercion on a value that is still raw JSON.
// Values already converted to a concrete type are left untouched.
func reinterpretParams(v any, method string, r protocol.MethodResolver) (any, error) {
	raw, ok := v.(json.RawMessage)
	if !ok {
		return v, nil
	}
	return coerceParams(raw, method, r)
}

// reinterpretBody retries interpretation of a buffered body value once the
// message's type, id, method and success flag are all known.
func reinterpretBody(v any, messageType, id, method string, success bool, r protocol.MethodResolver) (any, error) {
	raw, ok := v.(json.RawMessage)
	if !ok {
		return v, nil
	}
	switch {
	case messageType == "event":
		return coerceParams(raw, method, r)
	case messageType == "response" && success:
		return coerceResult(raw, id, r)
	case isNullRaw(raw):
		return nil, nil
	}
	return raw, nil
}
