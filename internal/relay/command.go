package relay

import "strings"

// DefaultCommand is used whenever the model reply is empty or unrecognised.
const DefaultCommand = "summarise"

const clickPrefix = "click "

// Commands is the closed vocabulary the extension understands, apart from
// "click <target>".
var Commands = []string{
	"summarise",
	"read summary",
	"extract text",
	"focus mode on",
	"focus mode off",
	"scroll down",
	"scroll up",
}

var commandSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Commands))
	for _, c := range Commands {
		m[c] = struct{}{}
	}
	return m
}()

// NormalizeCommand maps one line of model output onto the command vocabulary.
// It reports false when the line matched nothing and DefaultCommand was used.
// A click target keeps its original casing.
func NormalizeCommand(line string) (string, bool) {
	s := strings.TrimSpace(line)
	s = strings.TrimLeft(s, "-*•> \t")
	s = strings.Trim(s, "\"'`“”‘’")
	s = strings.TrimRight(s, ".!?;:, \t")
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return DefaultCommand, false
	}

	lower := strings.ToLower(s)
	if lower == "summarize" {
		lower = DefaultCommand
	}
	if _, ok := commandSet[lower]; ok {
		return lower, true
	}

	if len(s) > len(clickPrefix) && strings.EqualFold(s[:len(clickPrefix)], clickPrefix) {
		target := strings.Trim(strings.TrimSpace(s[len(clickPrefix):]), "\"'`“”‘’")
		if target != "" {
			return clickPrefix + target, true
		}
	}
	return DefaultCommand, false
}

func firstLine(s string) string {
	for _, line := range splitLines(s) {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
