package model

import "time"

// RunStatus tracks the lifecycle of a perception run.
type RunStatus string

const (
	RunQueued    RunStatus = "queued"
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// Run is a persisted perception run for one brand question.
type Run struct {
	ID        string     `json:"id"`
	Brand     string     `json:"brand"`
	Question  string     `json:"question"`
	Status    RunStatus  `json:"status"`
	Result    *RunResult `json:"result,omitempty"`
	Error     string     `json:"error,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// RunResult is the full normalized output of one perception run.
type RunResult struct {
	Brand       string            `json:"brand"`
	Question    string            `json:"question"`
	Models      []ModelRecord     `json:"models"`
	Aggregate   *AggregatedRating `json:"aggregate,omitempty"`
	TotalTokens int               `json:"total_tokens"`
	ElapsedMs   int64             `json:"elapsed_ms"`
}

// ModelRecord is one provider's normalized contribution to a run.
type ModelRecord struct {
	Provider   string             `json:"provider"`
	TaggedText string             `json:"tagged_text,omitempty"`
	Mentions   []CandidateMention `json:"mentions,omitempty"`
	Rating     *RatingVector      `json:"rating,omitempty"`
	Attempts   int                `json:"attempts"`
	ElapsedMs  int64              `json:"elapsed_ms"`
	Error      string             `json:"error,omitempty"`
}

// Succeeded reports whether the provider produced a usable rating.
func (m ModelRecord) Succeeded() bool {
	return m.Error == "" && m.Rating != nil
}
