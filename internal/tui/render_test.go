package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"medbot/internal/chat"
	"medbot/internal/models"
)

func testMessage(role chat.Role, content string) chat.Message {
	return chat.Message{
		ID:        "msg-1",
		Role:      role,
		Content:   content,
		Timestamp: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestRenderMessage_NoSourcesSection(t *testing.T) {
	msg := testMessage(chat.RoleAssistant, "Stay hydrated and rest.")

	out := RenderMessage(msg)

	assert.Contains(t, out, "Stay hydrated and rest.")
	assert.NotContains(t, out, "Sources", "empty source list must not render a sources section")
}

func TestRenderMessage_SourcesCountMatches(t *testing.T) {
	score := 0.87
	msg := testMessage(chat.RoleAssistant, "Both passages agree.")
	msg.Sources = []models.SourceDocument{
		{Content: "passage one", Metadata: map[string]interface{}{"filename": "guide.txt"}, RelevanceScore: &score},
		{Content: "passage two", Metadata: map[string]interface{}{"filename": "notes.md"}},
	}

	out := RenderMessage(msg)

	assert.Contains(t, out, "Sources (2):")
	assert.Contains(t, out, "1. guide.txt")
	assert.Contains(t, out, "(0.87)")
	assert.Contains(t, out, "2. notes.md")
}

func TestRenderMessage_MissingFilenameFallsBack(t *testing.T) {
	msg := testMessage(chat.RoleAssistant, "answer")
	msg.Sources = []models.SourceDocument{{Content: "passage"}}

	out := RenderMessage(msg)
	assert.Contains(t, out, "unknown source")
}

func TestRenderMessage_ProcessingTime(t *testing.T) {
	pt := 2.5
	msg := testMessage(chat.RoleAssistant, "answer")
	msg.ProcessingTime = &pt

	out := RenderMessage(msg)
	assert.Contains(t, out, "answered in 2.50s")
}

func TestRenderLog_EmptyPlaceholder(t *testing.T) {
	out := RenderLog(nil, 80)
	assert.Contains(t, out, "No messages yet")
}

func TestRenderMarkup_Bullets(t *testing.T) {
	out := renderMarkup("Symptoms include:\n- fever\n* cough\n  - fatigue")

	assert.Contains(t, out, "• fever")
	assert.Contains(t, out, "• cough")
	assert.Contains(t, out, "  • fatigue")
}

func TestRenderMarkup_UnbalancedMarkerUntouched(t *testing.T) {
	out := renderMarkup("5 * 3 equals 15")
	assert.Equal(t, "5 * 3 equals 15", out)
}

func TestReplacePairs_BalancedPair(t *testing.T) {
	out := replacePairs("take **two** tablets", "**", func(s string) string { return "<" + s + ">" })
	assert.Equal(t, "take <two> tablets", out)
}
