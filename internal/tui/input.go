package tui

import (
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

// maxInputLen is the maximum number of runes allowed in form and note inputs.
const maxInputLen = 5000

// editRune applies a keystroke to text for inline editing.
// Backspace removes one rune, typed or pasted runes are appended, and every
// other key leaves text unchanged. Input is clamped to maxInputLen runes.
func editRune(text string, msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeyBackspace:
		if text == "" {
			return text
		}
		runes := []rune(text)
		return string(runes[:len(runes)-1])
	case tea.KeySpace:
		return appendRunes(text, []rune{' '})
	case tea.KeyRunes:
		return appendRunes(text, msg.Runes)
	}
	return text
}

func appendRunes(text string, add []rune) string {
	room := maxInputLen - utf8.RuneCountInString(text)
	if room <= 0 {
		return text
	}
	if len(add) > room {
		add = add[:room]
	}
	return text + string(add)
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}

// renderInput renders a single-line text field with a block cursor when
// focused. Masked fields show one bullet per rune.
func renderInput(label, value, placeholder string, focused, masked bool, animFrame int) string {
	shown := value
	if masked {
		shown = ""
		for range []rune(value) {
			shown += "•"
		}
	}
	prefix := "  "
	labelStyle := metaStyle
	if focused {
		prefix = inputPromptStyle.Render("> ")
		labelStyle = selectedStyle
	}
	line := prefix + labelStyle.Render(label) + "  "
	if shown == "" && !focused {
		return line + inputPlaceholderStyle.Render(placeholder)
	}
	line += normalStyle.Render(shown)
	if focused && (animFrame/4)%2 == 0 {
		line += accentStyle.Render("█")
	}
	return line
}
