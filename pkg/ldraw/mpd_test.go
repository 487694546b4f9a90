package ldraw

import (
	"strings"
	"testing"
)

func TestSplitSections(t *testing.T) {
	tests := []struct {
		name      string
		lines     []string
		wantNames []string
		wantKinds []SectionKind
	}{
		{
			name:      "plain file",
			lines:     []string{"0 Brick", "3 16 0 0 0 1 0 0 0 1 0"},
			wantNames: []string{"brick.dat"},
			wantKinds: []SectionKind{SectionMain},
		},
		{
			name:      "comment only file",
			lines:     []string{"0 Empty"},
			wantNames: []string{"brick.dat"},
			wantKinds: []SectionKind{SectionMain},
		},
		{
			name: "comment preamble dropped",
			lines: []string{
				"0 Author: someone",
				"0 FILE main.ldr",
				"1 16 0 0 0 1 0 0 0 1 0 0 0 1 a.ldr",
				"0 FILE a.ldr",
				"3 16 0 0 0 1 0 0 0 1 0",
			},
			wantNames: []string{"main.ldr", "a.ldr"},
			wantKinds: []SectionKind{SectionFile, SectionFile},
		},
		{
			name: "nofile ends section",
			lines: []string{
				"0 FILE main model.ldr",
				"0 NOFILE",
				"3 16 0 0 0 1 0 0 0 1 0",
				"0 !DATA img.png",
				"0 !: AAAA",
			},
			wantNames: []string{"main model.ldr", "img.png"},
			wantKinds: []SectionKind{SectionFile, SectionData},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSections("brick.dat", tt.lines)
			if len(got) != len(tt.wantNames) {
				t.Fatalf("got %d sections, want %d", len(got), len(tt.wantNames))
			}
			for i, s := range got {
				if s.Name != tt.wantNames[i] || s.Kind != tt.wantKinds[i] {
					t.Errorf("section %d = %s %q, want %s %q", i, s.Kind, s.Name, tt.wantKinds[i], tt.wantNames[i])
				}
			}
		})
	}
}

func TestSplitSections_NoFileDropsTrailingLines(t *testing.T) {
	got := SplitSections("x.mpd", []string{
		"0 FILE main.ldr",
		"0 NOFILE",
		"3 16 0 0 0 1 0 0 0 1 0",
	})
	if len(got) != 1 || len(got[0].Lines) != 1 {
		t.Errorf("sections = %+v", got)
	}
}

func TestDecodeData(t *testing.T) {
	data, err := DecodeData(Section{Kind: SectionData, Name: "a.bin", Lines: []string{
		"0 !DATA a.bin",
		"0 !: aGVs",
		"0 !: bG8=",
	}})
	if err != nil || string(data) != "hello" {
		t.Errorf("DecodeData() = %q, %v", data, err)
	}

	_, err = DecodeData(Section{Name: "bad.bin", Lines: []string{"0 !: %%%"}})
	if err == nil || !strings.Contains(err.Error(), "bad.bin") {
		t.Errorf("expected decode error naming the section, got %v", err)
	}
}
