package models

// Trading actions. The judge's verdict always collapses to one of these.
const (
	ActionBuy  = "BUY"
	ActionSell = "SELL"
	ActionHold = "HOLD"
)

// Decision is the terminal output of one pipeline run. Immutable once set.
type Decision struct {
	Symbol     string  `json:"symbol"`
	Action     string  `json:"action"`
	Confidence float64 `json:"confidence"`
	Rationale  string  `json:"rationale"`
	Timestamp  string  `json:"timestamp"`
}

// RetrievedDocument is one ranked knowledge-base hit.
type RetrievedDocument struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
	// SimilarityScore is 1 - cosine distance. It can be negative for weak
	// matches; callers must not assume it lies in [0, 1].
	SimilarityScore float64 `json:"similarity_score"`
	Rank            int     `json:"rank"`
}

// RetrievalResult bundles one knowledge-base lookup.
type RetrievalResult struct {
	Query      string              `json:"query"`
	Documents  []RetrievedDocument `json:"documents"`
	Context    string              `json:"context"`
	NumResults int                 `json:"num_results"`
	AuditPath  string              `json:"audit_path,omitempty"`
}
