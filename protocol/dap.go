package protocol

import "reflect"

// A small set of concrete DSP payload types, enough to give the registry
// real coercion targets. The full catalogue of payload shapes lives with the
// application, not here.

const (
	PathFormatPath = "path"
	PathFormatURI  = "uri"
)

type InitializeRequestArguments struct {
	ClientID                     string `json:"clientID,omitempty"`
	ClientName                   string `json:"clientName,omitempty"`
	AdapterID                    string `json:"adapterID"`
	Locale                       string `json:"locale,omitempty"`
	LinesStartAt1                bool   `json:"linesStartAt1,omitempty"`
	ColumnsStartAt1              bool   `json:"columnsStartAt1,omitempty"`
	PathFormat                   string `json:"pathFormat,omitempty"`
	SupportsVariableType         bool   `json:"supportsVariableType,omitempty"`
	SupportsRunInTerminalRequest bool   `json:"supportsRunInTerminalRequest,omitempty"`
	SupportsProgressReporting    bool   `json:"supportsProgressReporting,omitempty"`
	RootURI                      string `json:"rootUri,omitempty"`
}

type Capabilities struct {
	SupportsConfigurationDoneRequest bool `json:"supportsConfigurationDoneRequest,omitempty"`
	SupportsFunctionBreakpoints      bool `json:"supportsFunctionBreakpoints,omitempty"`
	SupportsConditionalBreakpoints   bool `json:"supportsConditionalBreakpoints,omitempty"`
	SupportsEvaluateForHovers        bool `json:"supportsEvaluateForHovers,omitempty"`
	SupportsSetVariable              bool `json:"supportsSetVariable,omitempty"`
	SupportsClipboardContext         bool `json:"supportsClipboardContext,omitempty"`
}

// Contexts an evaluate request may run in.
const (
	EvaluateContextWatch     = "watch"
	EvaluateContextREPL      = "repl"
	EvaluateContextHover     = "hover"
	EvaluateContextClipboard = "clipboard"
)

type EvaluateArguments struct {
	Expression string `json:"expression"`
	FrameID    int    `json:"frameId,omitempty"`
	Context    string `json:"context,omitempty"`
}

type EvaluateResponseBody struct {
	Result             string `json:"result"`
	Type               string `json:"type,omitempty"`
	VariablesReference int    `json:"variablesReference"`
}

type OutputEventBody struct {
	Category string `json:"category,omitempty"`
	Output   string `json:"output"`
}

// DefaultRegistry registers the methods above. Callers with their own
// payload types register them on top.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("initialize", Method{
		ParamTypes: []reflect.Type{reflect.TypeOf(InitializeRequestArguments{})},
		ResultType: reflect.TypeOf(Capabilities{}),
	})
	r.Register("evaluate", Method{
		ParamTypes: []reflect.Type{reflect.TypeOf(EvaluateArguments{})},
		ResultType: reflect.TypeOf(EvaluateResponseBody{}),
	})
	r.Register("output", Method{
		ParamTypes: []reflect.Type{reflect.TypeOf(OutputEventBody{})},
	})
	return r
}
