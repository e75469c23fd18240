package export

import (
	"fmt"
	"strings"

	"github.com/amirbrooks/doit/internal/board"
)

const telegramMaxChars = 3800

// renderTelegram renders the visible groups as a chat message: one emoji
// checkbox line per task, trimmed to fit a single Telegram message.
func renderTelegram(groups []board.DateGroup) string {
	var b strings.Builder
	b.WriteString("📋 Today main focus\n\n")
	if len(groups) == 0 {
		b.WriteString("No tasks.\n")
		return trimTelegramOutput(b.String())
	}
	for _, g := range groups {
		open := 0
		for _, t := range g.Tasks {
			if !t.Completed {
				open++
			}
		}
		fmt.Fprintf(&b, "📅 %s (%d/%d open)\n", g.Heading, open, len(g.Tasks))
		for _, t := range g.Tasks {
			b.WriteString(telegramTaskLine(t))
		}
		b.WriteString("\n")
	}
	return trimTelegramOutput(b.String())
}

func telegramTaskLine(t board.Task) string {
	check := "⬜"
	if t.Completed {
		check = "✅"
	}
	line := fmt.Sprintf("%s %s %s", check, colorEmoji(t.Color), cleanTaskText(t.Text))
	if cat := strings.TrimSpace(t.Category); cat != "" {
		line += " · " + cat
	}
	if tm := strings.TrimSpace(t.Time); tm != "" {
		line += " · " + tm
	}
	return line + "\n"
}

// colorEmoji picks the colored circle closest in hue to a filter color.
func colorEmoji(color string) string {
	r, g, b, ok := board.RGB(color)
	if !ok {
		return "⚪"
	}
	hi, lo := max(r, g, b), min(r, g, b)
	switch {
	case hi < 60:
		return "⚫"
	case hi-lo < 30:
		return "⚪"
	case r >= g && r >= b:
		if g > b && g >= r*3/5 {
			if g >= r*9/10 {
				return "🟡"
			}
			return "🟠"
		}
		if b > g && b >= r*3/5 {
			return "🟣"
		}
		return "🔴"
	case g >= r && g >= b:
		if r >= g*9/10 {
			return "🟡"
		}
		return "🟢"
	default:
		if r >= b*3/5 {
			return "🟣"
		}
		return "🔵"
	}
}

func cleanTaskText(text string) string {
	text = strings.ReplaceAll(text, "\n", " ")
	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.TrimSpace(text)
	if text == "" {
		return "(untitled)"
	}
	return text
}

func trimTelegramOutput(s string) string {
	s = strings.TrimRight(s, "\n")
	runes := []rune(s)
	if len(runes) <= telegramMaxChars {
		return s
	}
	suffix := "\n… (truncated)"
	limit := telegramMaxChars - len([]rune(suffix))
	return string(runes[:limit]) + suffix
}
