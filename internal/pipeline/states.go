package pipeline

// State names one node of the per-request state machine. Ordering and skip
// conditions are data on the outcome, not control flow buried in handlers.
type State string

const (
	StateReceived          State = "received"
	StateChartRequested    State = "chart_requested"
	StateChartFailed       State = "chart_failed"
	StateChartReady        State = "chart_ready"
	StateAnalysisRequested State = "analysis_requested"
	StateAnalysisTimedOut  State = "analysis_timed_out"
	StateAnalysisFailed    State = "analysis_failed"
	StateAnalysisReady     State = "analysis_ready"
	StateNewsRequested     State = "news_requested"
	StateNewsEmpty         State = "news_empty"
	StateNewsReady         State = "news_ready"
	StateCompleted         State = "completed"
)

// MessageKind distinguishes outbound payload types.
type MessageKind string

const (
	MessageText  MessageKind = "text"
	MessagePhoto MessageKind = "photo"
)

// Message is one outbound payload, recorded in send order.
type Message struct {
	Kind     MessageKind
	Text     string
	PhotoURL string
}

// Outcome aggregates the result of one pipeline run.
type Outcome struct {
	Symbol     string
	ChartOK    bool
	AnalysisOK bool
	NewsOK     bool
	States     []State
	Sent       []Message
}

func (o *Outcome) transition(s State) {
	o.States = append(o.States, s)
}

// Terminal reports the final state of the run.
func (o *Outcome) Terminal() State {
	if len(o.States) == 0 {
		return ""
	}
	return o.States[len(o.States)-1]
}
