// Package encoding provides text decoding utilities for LDraw files.
package encoding

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding identifies the detected text encoding of a file.
type Encoding int

const (
	UTF8 Encoding = iota
	UTF16BE
	UTF16LE
	Latin1
)

// String returns a human readable encoding name.
func (e Encoding) String() string {
	switch e {
	case UTF16BE:
		return "utf-16be"
	case UTF16LE:
		return "utf-16le"
	case Latin1:
		return "latin-1"
	default:
		return "utf-8"
	}
}

// Detect inspects the byte order mark at the start of data.
func Detect(data []byte) Encoding {
	switch {
	case len(data) >= 2 && data[0] == 0xFE && data[1] == 0xFF:
		return UTF16BE
	case len(data) >= 2 && data[0] == 0xFF && data[1] == 0xFE:
		return UTF16LE
	default:
		return UTF8
	}
}

// DecodeText converts raw file bytes to a UTF-8 string.
// UTF-16 is selected by its byte order mark. Input that fails to decode
// as the detected encoding is read as Latin-1, which never fails.
func DecodeText(data []byte) (string, Encoding) {
	enc := Detect(data)

	var dec *encoding.Decoder
	switch enc {
	case UTF16BE:
		dec = unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
	case UTF16LE:
		dec = unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
	default:
		data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
		if utf8.Valid(data) {
			return string(data), UTF8
		}
		return latin1(data), Latin1
	}

	result, _, err := transform.Bytes(dec, data)
	if err != nil || !utf8.Valid(result) {
		return latin1(data), Latin1
	}
	return string(result), enc
}

func latin1(data []byte) string {
	result, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		// ISO 8859-1 maps every byte; unreachable in practice.
		return string(data)
	}
	return string(result)
}

// SplitLines splits decoded text into lines, dropping line terminators.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

// NormalizePath normalizes an LDraw reference for case-insensitive lookup.
// LDraw files use backslashes regardless of platform.
func NormalizePath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	return strings.ToLower(path)
}

// ToSlash converts LDraw backslash separators to forward slashes, keeping case.
func ToSlash(path string) string {
	return strings.ReplaceAll(path, "\\", "/")
}
