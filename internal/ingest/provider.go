package ingest

// Result holds the outcome of an ingest operation.
type Result struct {
	SessionsReceived int   `json:"sessions_received"`
	SessionsInserted int64 `json:"sessions_inserted"`

	ExercisesSeen int      `json:"exercises_seen"`
	Unclassified  []string `json:"unclassified,omitempty"`

	SetsReceived int   `json:"sets_received"`
	SetsInserted int64 `json:"sets_inserted"`

	Message string `json:"message,omitempty"`
}
