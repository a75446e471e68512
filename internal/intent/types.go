package intent

// Route classifies an instruction as producing new content or transforming
// previously generated content.
type Route string

const (
	RouteCreate    Route = "create"
	RouteTransform Route = "transform"
)

// Signals is the deterministic pattern classification of a raw instruction.
// Only shape-level booleans leave this struct; raw text is never persisted.
type Signals struct {
	ExplicitNewCreate    bool `json:"explicit_new_create"`
	ExplicitTransformRef bool `json:"explicit_transform_ref"`
	AmbiguousTransform   bool `json:"ambiguous_transform"`
	HasActionVerb        bool `json:"has_action_verb"`
	WordCount            int  `json:"word_count"`
	InputLength          int  `json:"input_length"`
}

// Input carries everything the scorer needs. It is assembled once per
// instruction and never stored.
type Input struct {
	Text             string
	HasActiveSource  bool
	HasLastAssistant bool
	Signals          Signals
}

// Result is the scorer's routing hint. Confidence is always within [0,1].
type Result struct {
	Route      Route   `json:"route"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}
