package protocol

// The Debug Adapter Protocol (DSP) has three message shapes on the wire:
// requests, events and responses. Internally we keep them in JSON-RPC style
// structs so the rest of the stack doesn't care which protocol a peer speaks.
//
// Ids are strings internally even though DSP sends integers; the codec
// converts back on write.

type MessageKind int

const (
	KindRequest = iota
	KindEvent
	KindResponse
)

type Message interface {
	Kind() MessageKind
}

// RequestMessage is a command sent by a peer that expects a response.
// Params is nil, a single typed value, a []any parameter list, or a
// json.RawMessage when the method is unknown.
type RequestMessage struct {
	ID     string
	Method string
	Params any
}

func (m *RequestMessage) Kind() MessageKind { return KindRequest }

// EventMessage is a DSP event, the equivalent of a JSON-RPC notification.
// ID may be empty; the codec writes seq 0 in that case.
type EventMessage struct {
	ID     string
	Method string
	Params any
}

func (m *EventMessage) Kind() MessageKind { return KindEvent }

// ResponseMessage correlates to an earlier request.
// ID is the correlation id (request_seq on the wire). ResponseID is the
// response's own sequence number (seq on the wire). The two are separate
// counters and must never be mixed up.
type ResponseMessage struct {
	ID         string
	ResponseID string
	Method     string
	Result     any
	Error      *ResponseError
}

func (m *ResponseMessage) Kind() MessageKind { return KindResponse }

type ResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

const (
	ParseError                     int = -32700
	InvalidRequest                 int = -32600
	MethodNotFound                 int = -32601
	InvalidParams                  int = -32602
	InternalError                  int = -32603
	JSONRPCReservedErrorRangeStart int = -32099
	ServerErrorStart               int = JSONRPCReservedErrorRangeStart
	ServerNotInitialized           int = -32002
	UnknownErrorCode               int = -32001
	JSONRPCReservedErrorRangeEnd   int = -32000
	ServerErrorEnd                 int = JSONRPCReservedErrorRangeEnd
	RequestCancelled               int = -32800
)
