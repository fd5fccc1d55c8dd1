package docblock

import (
	"strings"
	"unicode"
)

// FenceMarker returns the marker of a fence line (a run of three or more
// backticks or tildes, optionally followed by an info string), or "".
func FenceMarker(line string) string {
	t := strings.TrimSpace(line)
	if len(t) < 3 || (t[0] != '`' && t[0] != '~') {
		return ""
	}
	n := 0
	for n < len(t) && t[n] == t[0] {
		n++
	}
	if n < 3 {
		return ""
	}
	return t[:n]
}

// Heading reports a "#"-run heading followed by a space.
func Heading(line string) (level int, text string, ok bool) {
	t := strings.TrimSpace(line)
	for level < len(t) && t[level] == '#' {
		level++
	}
	if level == 0 || level >= len(t) || t[level] != ' ' {
		return 0, "", false
	}
	return level, strings.TrimSpace(t[level:]), true
}

// ListItem reports a list item. Unordered items start with "-", "*" or "+"
// and a space; ordered items with digits, a dot and a space.
func ListItem(line string) (ordered bool, text string, ok bool) {
	t := strings.TrimSpace(line)
	if len(t) >= 2 && strings.ContainsRune("-*+", rune(t[0])) && t[1] == ' ' {
		return false, strings.TrimSpace(t[2:]), true
	}
	n := 0
	for n < len(t) && t[n] >= '0' && t[n] <= '9' {
		n++
	}
	if n > 0 && n+1 < len(t) && t[n] == '.' && t[n+1] == ' ' {
		return true, strings.TrimSpace(t[n+2:]), true
	}
	return false, "", false
}

// Quote reports a ">" quote line.
func Quote(line string) (text string, ok bool) {
	t := strings.TrimSpace(line)
	if !strings.HasPrefix(t, ">") {
		return "", false
	}
	return strings.TrimSpace(t[1:]), true
}

// IsTag reports whether line opens a tag field.
func IsTag(line, tagStart string) bool {
	if tagStart == "" {
		return false
	}
	t := strings.TrimSpace(line)
	if !strings.HasPrefix(t, tagStart) || len(t) == len(tagStart) {
		return false
	}
	r := rune(t[len(tagStart)])
	return unicode.IsLetter(r)
}

// startsBlock reports lines that never continue a soft-wrapped paragraph.
func startsBlock(line, tagStart string) bool {
	if IsTag(line, tagStart) || FenceMarker(line) != "" {
		return true
	}
	if _, _, ok := Heading(line); ok {
		return true
	}
	if _, _, ok := ListItem(line); ok {
		return true
	}
	_, ok := Quote(line)
	return ok
}

func endsSentence(line string) bool {
	t := strings.TrimRight(line, " \t")
	if t == "" {
		return false
	}
	return strings.ContainsRune(".:!?", rune(t[len(t)-1]))
}

// Coalesce joins hand-wrapped prose into logical lines. A line that is not a
// tag, list item, quote, heading or fence and does not end in terminal
// punctuation absorbs the following lines until a blank line, a block start
// or terminal punctuation. Fenced regions pass through unchanged.
func Coalesce(lines []string, tagStart string) []string {
	out := make([]string, 0, len(lines))
	fence := ""
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if fence != "" {
			out = append(out, line)
			if strings.TrimSpace(line) == fence {
				fence = ""
			}
			continue
		}
		if m := FenceMarker(line); m != "" {
			fence = m
			out = append(out, line)
			continue
		}
		if strings.TrimSpace(line) == "" || startsBlock(line, tagStart) || endsSentence(line) {
			out = append(out, line)
			continue
		}

		merged := strings.TrimRight(line, " \t")
		for i+1 < len(lines) {
			next := strings.TrimSpace(lines[i+1])
			if next == "" || startsBlock(next, tagStart) {
				break
			}
			merged += " " + next
			i++
			if endsSentence(next) {
				break
			}
		}
		out = append(out, merged)
	}
	return out
}
