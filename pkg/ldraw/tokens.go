package ldraw

import "strings"

// MinFields is the number of fields every tokenized line is padded to.
const MinFields = 16

// Line is one tokenized LDraw line.
type Line struct {
	Raw    string
	Fields []string // padded with empty strings to at least MinFields
	count  int
	rests  []string
}

// Tokenize splits a line on whitespace. A token that starts with a double
// quote runs to the closing quote and may contain spaces; inside quotes a
// backslash makes the next quote or backslash literal.
func Tokenize(raw string) Line {
	l := Line{Raw: raw}
	rest := raw
	for {
		rest = strings.TrimLeft(rest, " \t\r\n")
		if rest == "" {
			break
		}
		start := rest
		var tok string
		tok, rest = nextToken(rest)
		l.rests = append(l.rests, start)
		l.Fields = append(l.Fields, tok)
	}
	l.count = len(l.Fields)
	for len(l.Fields) < MinFields {
		l.Fields = append(l.Fields, "")
	}
	return l
}

func nextToken(s string) (string, string) {
	var b strings.Builder
	if s[0] == '"' {
		s = s[1:]
		for len(s) > 0 {
			c := s[0]
			if c == '\\' && len(s) > 1 && (s[1] == '"' || s[1] == '\\') {
				b.WriteByte(s[1])
				s = s[2:]
				continue
			}
			if c == '"' {
				return b.String(), s[1:]
			}
			b.WriteByte(c)
			s = s[1:]
		}
		return b.String(), s
	}
	end := strings.IndexAny(s, " \t")
	if end < 0 {
		return s, ""
	}
	return s[:end], s[end:]
}

// Len returns the number of real (unpadded) fields.
func (l Line) Len() int {
	return l.count
}

// Empty reports whether the line has no fields.
func (l Line) Empty() bool {
	return l.count == 0
}

// Field returns field i, or "" past the end.
func (l Line) Field(i int) string {
	if i < 0 || i >= len(l.Fields) {
		return ""
	}
	return l.Fields[i]
}

// Rest returns the raw, trimmed text of the line starting at field i.
func (l Line) Rest(i int) string {
	if i < 0 || i >= len(l.rests) {
		return ""
	}
	return strings.TrimSpace(l.rests[i])
}

// Join returns fields from i onwards joined by single spaces.
func (l Line) Join(i int) string {
	if i >= l.count {
		return ""
	}
	return strings.Join(l.Fields[i:l.count], " ")
}

// Has reports whether any field equals tok exactly.
func (l Line) Has(tok string) bool {
	for _, f := range l.Fields[:l.count] {
		if f == tok {
			return true
		}
	}
	return false
}

// Shift returns a copy of the line with the first n fields removed.
func (l Line) Shift(n int) Line {
	if n > l.count {
		n = l.count
	}
	s := Line{Raw: l.Raw, count: l.count - n}
	s.Fields = append([]string(nil), l.Fields[n:l.count]...)
	s.rests = append([]string(nil), l.rests[n:]...)
	for len(s.Fields) < MinFields {
		s.Fields = append(s.Fields, "")
	}
	return s
}
