package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexus-cli/internal/backend"
	"nexus-cli/internal/domain"
)

func TestMessageFromRecordAssistantMetadata(t *testing.T) {
	score := 75
	rec := backend.MessageRecord{
		ID:        "m-1",
		Role:      "assistant",
		Content:   "Threats are down.",
		Timestamp: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Metadata: &backend.RecordMetadata{
			Agent:        "CyberAgent",
			Domain:       "cyber",
			PrivacyScore: &score,
		},
	}

	msg := messageFromRecord(rec)
	assert.Equal(t, RoleAssistant, msg.Role)
	assert.Equal(t, MetadataAgent, msg.Meta.Kind)
	assert.Equal(t, "CyberAgent", msg.Meta.Agent.Agent)
	assert.Equal(t, domain.Cyber, msg.Meta.Agent.Domain)
	require.True(t, msg.Meta.Agent.HasScore)
	assert.Equal(t, 75, msg.Meta.Agent.PrivacyScore)
}

func TestMessageFromRecordIgnoresMetadataOnUserMessages(t *testing.T) {
	rec := backend.MessageRecord{
		ID:       "m-1",
		Role:     "user",
		Content:  "hi",
		Metadata: &backend.RecordMetadata{Agent: "ShouldNotAppear"},
	}

	msg := messageFromRecord(rec)
	assert.Equal(t, MetadataNone, msg.Meta.Kind)
}

func TestMessageFromRecordMintsMissingID(t *testing.T) {
	msg := messageFromRecord(backend.MessageRecord{Role: "user", Content: "hi"})
	assert.NotEmpty(t, msg.ID)
}

func TestMetadataFromResponseChartVariant(t *testing.T) {
	resp := &backend.AnalyzeResponse{
		Agent:  "FinanceAgent",
		Domain: "finance",
		Chart: &backend.Chart{
			Title:  "Revenue",
			Points: []backend.ChartPoint{{Label: "Q1", Value: 10}},
		},
	}

	meta := metadataFromResponse(resp, domain.General)
	assert.Equal(t, MetadataChart, meta.Kind)
	assert.Equal(t, domain.Finance, meta.Agent.Domain)
	require.Len(t, meta.Chart.Points, 1)
	assert.Equal(t, "Q1", meta.Chart.Points[0].Label)
}

func TestMetadataFromResponseRetainsPriorDomain(t *testing.T) {
	resp := &backend.AnalyzeResponse{Agent: "Agent"}
	meta := metadataFromResponse(resp, domain.Energy)
	assert.Equal(t, domain.Energy, meta.Agent.Domain)
	assert.False(t, meta.Agent.HasScore)
}
