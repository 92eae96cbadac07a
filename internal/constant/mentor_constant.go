package constant

const (
	// Turn states reported over the stream control channel.
	TurnStateReceived  = "RECEIVED"
	TurnStateAnalyzing = "ANALYZING"
	TurnStateDiagnosed = "DIAGNOSED"
	TurnStatePrompted  = "PROMPTED"
	TurnStateStreaming = "STREAMING"
	TurnStateCommitted = "COMMITTED"
	TurnStateFailed    = "FAILED"
)
