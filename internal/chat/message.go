// Package chat holds the client-side conversation state: the message store,
// the session identity tracker and the request orchestrator that drives
// analysis and upload calls.
package chat

import (
	"time"

	"github.com/google/uuid"

	"nexus-cli/internal/backend"
	"nexus-cli/internal/domain"
)

// Role classifies who a message is from.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// MetadataKind tags the metadata variant so renderers handle each case
// exhaustively instead of probing optional fields.
type MetadataKind int

const (
	MetadataNone  MetadataKind = iota // no metadata (user and system messages)
	MetadataAgent                     // agent name, privacy score, domain
	MetadataChart                     // agent info plus a chart descriptor
)

// AgentInfo describes the responding agent.
type AgentInfo struct {
	Agent        string
	PrivacyScore int
	HasScore     bool
	Domain       domain.Type
}

// ChartPoint is one labelled value of a chart.
type ChartPoint struct {
	Label string
	Value float64
}

// ChartInfo is an optional chart descriptor attached to an assistant message.
type ChartInfo struct {
	Title  string
	Points []ChartPoint
}

// Metadata is the tagged variant carried only by assistant messages.
type Metadata struct {
	Kind  MetadataKind
	Agent AgentInfo // valid for MetadataAgent and MetadataChart
	Chart ChartInfo // valid for MetadataChart
}

// Message is one exchange unit. Messages are never mutated after append;
// corrections arrive as new messages.
type Message struct {
	ID        string
	Role      Role
	Content   string
	Timestamp time.Time
	Meta      Metadata
}

// NewMessage creates a message with a fresh client-side id and timestamp.
func NewMessage(role Role, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// metadataFromResponse builds the tagged variant for an analyze/upload
// response. The prior domain is retained when the response omits one.
func metadataFromResponse(resp *backend.AnalyzeResponse, prior domain.Type) Metadata {
	info := AgentInfo{Agent: resp.Agent, Domain: prior}
	if resp.Domain != "" {
		info.Domain = domain.FromString(resp.Domain)
	}
	if resp.PrivacyScore != nil {
		info.PrivacyScore = *resp.PrivacyScore
		info.HasScore = true
	}
	if resp.Chart != nil {
		return Metadata{
			Kind:  MetadataChart,
			Agent: info,
			Chart: chartFromPayload(resp.Chart),
		}
	}
	return Metadata{Kind: MetadataAgent, Agent: info}
}

func chartFromPayload(c *backend.Chart) ChartInfo {
	points := make([]ChartPoint, 0, len(c.Points))
	for _, p := range c.Points {
		points = append(points, ChartPoint{Label: p.Label, Value: p.Value})
	}
	return ChartInfo{Title: c.Title, Points: points}
}

// messageFromRecord converts a persisted history record.
func messageFromRecord(rec backend.MessageRecord) Message {
	msg := Message{
		ID:        rec.ID,
		Role:      Role(rec.Role),
		Content:   rec.Content,
		Timestamp: rec.Timestamp,
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if rec.Metadata == nil || msg.Role != RoleAssistant {
		return msg
	}
	info := AgentInfo{Agent: rec.Metadata.Agent, Domain: domain.FromString(rec.Metadata.Domain)}
	if rec.Metadata.PrivacyScore != nil {
		info.PrivacyScore = *rec.Metadata.PrivacyScore
		info.HasScore = true
	}
	if rec.Metadata.Chart != nil {
		msg.Meta = Metadata{Kind: MetadataChart, Agent: info, Chart: chartFromPayload(rec.Metadata.Chart)}
	} else {
		msg.Meta = Metadata{Kind: MetadataAgent, Agent: info}
	}
	return msg
}
