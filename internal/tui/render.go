package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"medbot/internal/chat"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true)
	inputBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	faintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	userLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	botLabelStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	sourceStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	boldStyle      = lipgloss.NewStyle().Bold(true)
	italicStyle    = lipgloss.NewStyle().Italic(true)
)

// RenderLog renders the full conversation log.
func RenderLog(messages []chat.Message, width int) string {
	if len(messages) == 0 {
		return faintStyle.Render("No messages yet. Ask something!")
	}

	parts := make([]string, 0, len(messages))
	for _, msg := range messages {
		parts = append(parts, RenderMessage(msg))
	}
	return strings.Join(parts, "\n\n")
}

// RenderMessage renders a single log entry, including a sources
// section only when the message carries at least one source.
func RenderMessage(msg chat.Message) string {
	var b strings.Builder

	switch msg.Role {
	case chat.RoleUser:
		b.WriteString(userLabelStyle.Render("You"))
	default:
		b.WriteString(botLabelStyle.Render("Medbot"))
	}
	b.WriteString("  ")
	b.WriteString(faintStyle.Render(msg.Timestamp.Format("15:04:05")))
	b.WriteString("\n")
	b.WriteString(renderMarkup(msg.Content))

	if len(msg.Sources) > 0 {
		fmt.Fprintf(&b, "\n%s", sourceStyle.Render(fmt.Sprintf("Sources (%d):", len(msg.Sources))))
		for i, src := range msg.Sources {
			label := fmt.Sprintf("  %d. %s", i+1, sourceName(src.Metadata))
			if src.RelevanceScore != nil {
				label += fmt.Sprintf(" (%.2f)", *src.RelevanceScore)
			}
			b.WriteString("\n" + sourceStyle.Render(label))
		}
	}

	if msg.ProcessingTime != nil {
		fmt.Fprintf(&b, "\n%s", faintStyle.Render(fmt.Sprintf("answered in %.2fs", *msg.ProcessingTime)))
	}

	return b.String()
}

func sourceName(metadata map[string]interface{}) string {
	if metadata != nil {
		if name, ok := metadata["filename"].(string); ok && name != "" {
			return name
		}
	}
	return "unknown source"
}

// renderMarkup applies the lightweight markup assistant answers may
// contain: bullet lists, **bold**, and *italic*. It renders, never
// executes, anything else.
func renderMarkup(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") {
			indent := line[:len(line)-len(trimmed)]
			lines[i] = indent + "• " + renderEmphasis(trimmed[2:])
		} else {
			lines[i] = renderEmphasis(line)
		}
	}
	return strings.Join(lines, "\n")
}

func renderEmphasis(line string) string {
	line = replacePairs(line, "**", func(s string) string { return boldStyle.Render(s) })
	line = replacePairs(line, "*", func(s string) string { return italicStyle.Render(s) })
	return line
}

// replacePairs styles text between balanced marker pairs, leaving
// unbalanced markers untouched.
func replacePairs(line, marker string, style func(string) string) string {
	var b strings.Builder
	for {
		start := strings.Index(line, marker)
		if start < 0 {
			break
		}
		rest := line[start+len(marker):]
		end := strings.Index(rest, marker)
		if end < 0 {
			break
		}
		b.WriteString(line[:start])
		b.WriteString(style(rest[:end]))
		line = rest[end+len(marker):]
	}
	b.WriteString(line)
	return b.String()
}
