package relay

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxBullets is the most bullet items a summary carries.
const MaxBullets = 5

const bulletGlyph = "•"

var (
	tldrRe       = regexp.MustCompile(`TL;DR:\s*(.*)`)
	keyActionsRe = regexp.MustCompile(`(?i)Key actions:\s*(.*)`)
)

// Clamp trims surrounding whitespace and keeps at most max characters of what
// is left. Characters are counted as code points.
func Clamp(text string, max int) string {
	return truncate(strings.TrimSpace(text), max)
}

func truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}

// ParseSummary pulls the TL;DR line, up to MaxBullets bullet items and the key
// action list out of a model reply. Missing markers produce empty values; it
// never fails.
func ParseSummary(raw string) (tldr string, bullets, keyActions []string) {
	bullets = []string{}
	keyActions = []string{}

	if m := tldrRe.FindStringSubmatch(raw); m != nil {
		tldr = strings.TrimSpace(m[1])
	}

	for _, line := range splitLines(raw) {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, bulletGlyph) {
			continue
		}
		bullets = append(bullets, strings.TrimSpace(strings.TrimLeft(line, bulletGlyph)))
	}
	if len(bullets) > MaxBullets {
		bullets = bullets[:MaxBullets]
	}

	if m := keyActionsRe.FindStringSubmatch(raw); m != nil {
		for _, a := range strings.Split(m[1], ",") {
			if a = strings.TrimSpace(a); a != "" {
				keyActions = append(keyActions, a)
			}
		}
	}
	return tldr, bullets, keyActions
}

func splitLines(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		switch r {
		case '\n', '\r', '\v', '\f', '\u0085', '\u2028', '\u2029':
			return true
		}
		return false
	})
}
