package clipper

import (
	"fmt"
	"strings"
	"unicode"

	"video-cutter/internal/timecode"
)

const maxTitleRunes = 50

// SafeTitle keeps letters, digits, space, '-' and '_', trims trailing
// whitespace and truncates to 50 runes. An empty result becomes "video".
func SafeTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}

	safe := strings.TrimRightFunc(b.String(), unicode.IsSpace)
	if runes := []rune(safe); len(runes) > maxTitleRunes {
		safe = strings.TrimRightFunc(string(runes[:maxTitleRunes]), unicode.IsSpace)
	}
	if safe == "" {
		return "video"
	}
	return safe
}

// Filename returns cut_<title>_<start>s-<end>s.mp4 for the clip.
func Filename(title string, r timecode.Range) string {
	return fmt.Sprintf("cut_%s_%ss-%ss.mp4", SafeTitle(title), timecode.FormatSeconds(r.Start), timecode.FormatSeconds(r.End))
}
