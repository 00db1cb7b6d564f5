package harness

// TraceEvent is one line of a scenario transcript.
type TraceEvent struct {
	Seq     int64  `json:"seq,omitempty"` // 0 for clock advances and ignored keys
	Input   string `json:"input"`         // "key:Enter", "press:equals", "type:7", "advance:800ms"
	Event   string `json:"event,omitempty"`
	Buffer  string `json:"buffer"`
	Display string `json:"display"`
	Error   string `json:"error,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every expect clause matched.
	Pass bool `json:"pass"`

	// Trace contains one entry per input, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains expectation failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds an expectation failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a transcript entry.
func (r *Result) AddTrace(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}
