package backend

import "time"

// AnalyzeRequest is the payload for a text analysis call.
type AnalyzeRequest struct {
	Text      string `json:"text"`
	SessionID string `json:"session_id,omitempty"`
	UserEmail string `json:"user_email"`
}

// ChartPoint is one labelled value in a chart descriptor.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Chart is an optional chart descriptor attached to an analysis.
type Chart struct {
	Title  string       `json:"title"`
	Points []ChartPoint `json:"points"`
}

// AnalyzeResponse is the shared shape of analyze and upload results. All
// fields beyond Analysis are optional; missing ones mean "keep prior/default".
type AnalyzeResponse struct {
	Analysis     string `json:"analysis"`
	SessionID    string `json:"session_id,omitempty"`
	Agent        string `json:"agent,omitempty"`
	Domain       string `json:"domain,omitempty"`
	PrivacyScore *int   `json:"privacy_score,omitempty"`
	Chart        *Chart `json:"chart,omitempty"`
	Error        string `json:"error,omitempty"`
}

// SessionSummary is one row of the session list.
type SessionSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Domain    string    `json:"domain,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RecordMetadata is the persisted metadata of an assistant message.
type RecordMetadata struct {
	Agent        string `json:"agent,omitempty"`
	PrivacyScore *int   `json:"privacy_score,omitempty"`
	Domain       string `json:"domain,omitempty"`
	Chart        *Chart `json:"chart,omitempty"`
}

// MessageRecord is one persisted message fetched from session history.
type MessageRecord struct {
	ID        string          `json:"id"`
	Role      string          `json:"role"`
	Content   string          `json:"content"`
	Timestamp time.Time       `json:"timestamp"`
	Metadata  *RecordMetadata `json:"metadata,omitempty"`
}

// CreateSessionRequest creates an explicit session record.
type CreateSessionRequest struct {
	Title  string `json:"title"`
	Domain string `json:"domain,omitempty"`
}
