package application

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Pre-compiled patterns for repairing model output.
var (
	// codeFencePattern matches opening (optionally language-tagged) and closing
	// markdown fences together with the whitespace after them.
	codeFencePattern = regexp.MustCompile("(?i)```(?:json|javascript|js)?\\s*")
	// trailingCommaPattern matches a comma directly before } or ].
	trailingCommaPattern = regexp.MustCompile(`,(\s*[}\]])`)
	// singleQuotedKeyPattern matches 'key': object keys.
	singleQuotedKeyPattern = regexp.MustCompile(`'([^']*)':`)
)

// parseWindow is how many bytes around a parse failure are reported.
const parseWindow = 50

// RepairStep is one pure text transform of the repair pipeline.
type RepairStep func(string) string

// RepairPipeline is the ordered list of transforms applied by Repair.
var RepairPipeline = []RepairStep{
	StripCodeFences,
	ExtractObject,
	RemoveTrailingCommas,
	QuoteSingleQuotedKeys,
	QuoteSingleQuotedValues,
	StripBOM,
}

// Repair turns raw model output into a JSON candidate. The result is not
// guaranteed to parse; pass it to ParseObject.
func Repair(raw string) string {
	text := raw
	for _, step := range RepairPipeline {
		text = step(text)
	}
	return text
}

// StripCodeFences removes markdown code fence markers.
func StripCodeFences(text string) string {
	return codeFencePattern.ReplaceAllString(text, "")
}

// ExtractObject keeps the text from the first '{' to the last '}'. Without
// both braces in that order the text is returned unchanged.
func ExtractObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return text
	}
	return text[start : end+1]
}

// RemoveTrailingCommas drops commas that directly precede } or ].
func RemoveTrailingCommas(text string) string {
	return trailingCommaPattern.ReplaceAllString(text, "$1")
}

// QuoteSingleQuotedKeys rewrites 'key': as "key":.
//
// This is a heuristic, not a quote normalizer: it also fires inside string
// values, and keys containing an apostrophe come out wrong.
func QuoteSingleQuotedKeys(text string) string {
	return singleQuotedKeyPattern.ReplaceAllString(text, `"$1":`)
}

// QuoteSingleQuotedValues rewrites single-quoted strings that start a JSON
// value (after ':', '[', ',' or '{') as double-quoted strings. Text inside
// double-quoted strings is left alone. An apostrophe inside a single-quoted
// value ends it early, the same limitation as QuoteSingleQuotedKeys.
func QuoteSingleQuotedValues(text string) string {
	if !strings.Contains(text, "'") {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	inDouble := false
	escaped := false
	var prev byte // last non-space byte written outside strings

	for i := 0; i < len(text); i++ {
		ch := text[i]
		if inDouble {
			b.WriteByte(ch)
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inDouble = false
				prev = ch
			}
			continue
		}

		switch {
		case ch == '"':
			inDouble = true
			b.WriteByte(ch)
		case ch == '\'' && (prev == ':' || prev == '[' || prev == ',' || prev == '{'):
			end := closingQuote(text, i+1)
			if end == -1 {
				b.WriteString(text[i:])
				return b.String()
			}
			b.WriteByte('"')
			b.WriteString(escapeDoubleQuotes(text[i+1 : end]))
			b.WriteByte('"')
			prev = '"'
			i = end
		default:
			b.WriteByte(ch)
			if ch != ' ' && ch != '\t' && ch != '\n' && ch != '\r' {
				prev = ch
			}
		}
	}
	return b.String()
}

// closingQuote finds the next unescaped single quote at or after from.
func closingQuote(text string, from int) int {
	for i := from; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case '\'':
			return i
		}
	}
	return -1
}

func escapeDoubleQuotes(s string) string {
	s = strings.ReplaceAll(s, `\'`, `'`)
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			b.WriteByte(s[i])
			b.WriteByte(s[i+1])
			i++
			continue
		}
		if s[i] == '"' {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// StripBOM removes leading byte-order marks.
func StripBOM(text string) string {
	return strings.TrimLeft(text, "\ufeff\ufffe")
}

// ParseError reports where a repaired candidate stopped being valid JSON.
type ParseError struct {
	Offset int64
	// Window is the candidate text around Offset, for logs.
	Window string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid JSON at offset %d: %v (near %q)", e.Offset, e.Err, e.Window)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseObject strictly parses candidate, which must hold exactly one JSON
// object. The candidate text is returned as-is so key order and number
// formatting survive.
func ParseObject(candidate string) (json.RawMessage, error) {
	data := []byte(strings.TrimSpace(candidate))

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, newParseError(string(data), err)
	}
	if obj == nil {
		return nil, newParseError(string(data), errors.New("top-level value is null, want object"))
	}
	return json.RawMessage(data), nil
}

func newParseError(text string, err error) *ParseError {
	var offset int64
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		offset = syntaxErr.Offset
	case errors.As(err, &typeErr):
		offset = typeErr.Offset
	}
	return &ParseError{Offset: offset, Window: windowAround(text, offset), Err: err}
}

func windowAround(text string, offset int64) string {
	start := int(offset) - parseWindow
	if start < 0 {
		start = 0
	}
	end := int(offset) + parseWindow
	if end > len(text) {
		end = len(text)
	}
	if start > end {
		start = end
	}
	return text[start:end]
}
