package ldraw

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// SectionKind identifies the type of an MPD section.
type SectionKind int

const (
	SectionMain SectionKind = iota // lines before any FILE marker
	SectionFile                    // 0 FILE <name>
	SectionData                    // 0 !DATA <name>
)

// String returns the MPD marker for the section kind.
func (k SectionKind) String() string {
	switch k {
	case SectionFile:
		return "FILE"
	case SectionData:
		return "!DATA"
	default:
		return "MAIN"
	}
}

// Section is one named block of lines in a multi-part document.
type Section struct {
	Kind  SectionKind
	Name  string
	Lines []string
}

// SplitSections splits lines into MPD sections. A file without markers
// yields a single section named name. A preamble before the first marker is
// kept only when it contains something other than comments.
func SplitSections(name string, lines []string) []Section {
	var sections []Section
	cur := &Section{Kind: SectionMain, Name: name}
	open := true

	flush := func(final bool) {
		if !open || len(cur.Lines) == 0 {
			return
		}
		if cur.Kind == SectionMain && !hasContent(cur.Lines) && !(final && len(sections) == 0) {
			return
		}
		sections = append(sections, *cur)
	}

	for _, raw := range lines {
		f := strings.Fields(raw)
		if len(f) >= 2 && f[0] == "0" {
			switch {
			case f[1] == "FILE" && len(f) > 2:
				flush(false)
				cur = &Section{Kind: SectionFile, Name: strings.Join(f[2:], " ")}
				open = true
			case f[1] == "!DATA" && len(f) > 2:
				flush(false)
				cur = &Section{Kind: SectionData, Name: strings.Join(f[2:], " ")}
				open = true
			case f[1] == "NOFILE":
				flush(false)
				open = false
				continue
			}
		}
		if open {
			cur.Lines = append(cur.Lines, raw)
		}
	}
	flush(true)
	return sections
}

func hasContent(lines []string) bool {
	for _, raw := range lines {
		f := strings.Fields(raw)
		if len(f) > 0 && f[0] != "0" {
			return true
		}
	}
	return false
}

// DecodeData returns the base64 payload of a !DATA section.
func DecodeData(s Section) ([]byte, error) {
	var b strings.Builder
	for _, raw := range s.Lines {
		f := strings.Fields(raw)
		if len(f) > 2 && f[0] == "0" && f[1] == "!:" {
			b.WriteString(f[2])
		}
	}
	data, err := base64.StdEncoding.DecodeString(b.String())
	if err != nil {
		return nil, fmt.Errorf("decoding embedded file %q: %w", s.Name, err)
	}
	return data, nil
}
