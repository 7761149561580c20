package models

import (
	"time"

	"github.com/google/uuid"
)

// TranscriptEntry is one agent turn in a debate or risk discussion.
type TranscriptEntry struct {
	Role  string `json:"role"`
	Round int    `json:"round"`
	Text  string `json:"text"`
}

// PipelineState is the ledger threaded through every stage of one run.
// Each stage only appends to transcripts or sets its own fields once;
// nothing written by an earlier stage is ever overwritten.
type PipelineState struct {
	RunID   string    `json:"run_id"`
	Subject string    `json:"subject"`
	AsOf    string    `json:"as_of"`
	Started time.Time `json:"started"`

	AnalystReports map[string]string `json:"analyst_reports"`
	RAGContext     *RetrievalResult  `json:"rag_context,omitempty"`

	DebateTranscript []TranscriptEntry `json:"debate_transcript"`
	DebateRounds     int               `json:"debate_rounds"`

	ResearchRecommendation string `json:"research_recommendation"`
	ProposedAction         string `json:"proposed_action"`

	RiskTranscript []TranscriptEntry `json:"risk_transcript"`
	RiskRounds     int               `json:"risk_rounds"`

	FinalDecision *Decision `json:"final_decision,omitempty"`
}

func NewPipelineState(subject string, asOf time.Time) *PipelineState {
	return &PipelineState{
		RunID:          uuid.NewString(),
		Subject:        subject,
		AsOf:           asOf.Format("2006-01-02"),
		Started:        time.Now(),
		AnalystReports: make(map[string]string),
	}
}

// AppendDebateTurn records one researcher turn.
func (s *PipelineState) AppendDebateTurn(role string, round int, text string) {
	s.DebateTranscript = append(s.DebateTranscript, TranscriptEntry{Role: role, Round: round, Text: text})
}

// AppendRiskTurn records one risk analyst turn.
func (s *PipelineState) AppendRiskTurn(role string, round int, text string) {
	s.RiskTranscript = append(s.RiskTranscript, TranscriptEntry{Role: role, Round: round, Text: text})
}

// LatestDebateTurnBy returns the most recent transcript entry spoken by role,
// or an empty string if the role has not spoken yet.
func (s *PipelineState) LatestDebateTurnBy(role string) string {
	for i := len(s.DebateTranscript) - 1; i >= 0; i-- {
		if s.DebateTranscript[i].Role == role {
			return s.DebateTranscript[i].Text
		}
	}
	return ""
}
