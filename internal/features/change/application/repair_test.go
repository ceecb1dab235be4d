package application

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "json tagged", input: "```json\n{\"a\": 1}\n```", want: "{\"a\": 1}\n"},
		{name: "upper case tag", input: "```JSON\n{}\n```", want: "{}\n"},
		{name: "bare", input: "```\n{}\n```", want: "{}\n"},
		{name: "no fences", input: `{"a": 1}`, want: `{"a": 1}`},
		{name: "prose around fences", input: "Here you go:\n```json\n{}\n```\nDone.", want: "Here you go:\n{}\nDone."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFences(tt.input))
		})
	}
}

func TestExtractObject(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "surrounded by prose", input: `Sure! {"a": {"b": 1}} hope that helps`, want: `{"a": {"b": 1}}`},
		{name: "no braces", input: "no json here", want: "no json here"},
		{name: "only opening brace", input: `{"a": 1`, want: `{"a": 1`},
		{name: "reversed braces", input: "} oops {", want: "} oops {"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractObject(tt.input))
		})
	}
}

func TestRemoveTrailingCommas(t *testing.T) {
	assert.Equal(t, `{"a": [1, 2], "b": 3}`, RemoveTrailingCommas(`{"a": [1, 2,], "b": 3,}`))
	assert.Equal(t, "{\"a\": 1\n}", RemoveTrailingCommas("{\"a\": 1,\n}"))
	assert.Equal(t, `{"a": 1, "b": 2}`, RemoveTrailingCommas(`{"a": 1, "b": 2}`))
}

func TestQuoteSingleQuotedKeys(t *testing.T) {
	assert.Equal(t, `{"a": 1, "b c": 2}`, QuoteSingleQuotedKeys(`{'a': 1, 'b c': 2}`))
	assert.Equal(t, `{"a": 'b'}`, QuoteSingleQuotedKeys(`{'a': 'b'}`))
}

func TestQuoteSingleQuotedKeys_ApostropheLimitation(t *testing.T) {
	// Embedded apostrophes are a known limitation: the result is not the
	// intended key, it only has to be deterministic.
	got := QuoteSingleQuotedKeys(`{'it's': 1}`)
	assert.NotEqual(t, `{"it's": 1}`, got)
}

func TestQuoteSingleQuotedValues(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "object value", input: `{"a": 'b'}`, want: `{"a": "b"}`},
		{name: "array values", input: `{"a": ['x', 'y']}`, want: `{"a": ["x", "y"]}`},
		{name: "embedded double quote", input: `{"a": 'say "hi"'}`, want: `{"a": "say \"hi\""}`},
		{name: "escaped single quote", input: `{"a": 'it\'s'}`, want: `{"a": "it's"}`},
		{name: "apostrophe inside double quotes untouched", input: `{"a": "it's", "b": 'c'}`, want: `{"a": "it's", "b": "c"}`},
		{name: "no quotes", input: `{"a": 1}`, want: `{"a": 1}`},
		{name: "unterminated", input: `{"a": 'oops}`, want: `{"a": 'oops}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QuoteSingleQuotedValues(tt.input))
		})
	}
}

func TestStripBOM(t *testing.T) {
	assert.Equal(t, `{"a": 1}`, StripBOM("\ufeff{\"a\": 1}"))
	assert.Equal(t, `{"a": 1}`, StripBOM("\ufffe\ufeff{\"a\": 1}"))
	assert.Equal(t, "{\"a\": \"\ufeff\"}", StripBOM("{\"a\": \"\ufeff\"}"))
}

func TestRepair_Pipeline(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "fenced with trailing comma", input: "```json\n{\"a\": 1,}\n```", want: `{"a": 1}`},
		{name: "single quoted keys and values", input: `{'a': 'b'}`, want: `{"a": "b"}`},
		{name: "prose and nested trailing commas", input: "Here is the updated config:\n{\"x\": {\"y\": [1, 2,],},}\nLet me know!", want: `{"x": {"y": [1, 2]}}`},
		{name: "bom without braces", input: "\ufeff[1, 2]", want: `[1, 2]`},
		{name: "bom before object", input: "\ufeff{\"a\": true}", want: `{"a": true}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Repair(tt.input))
		})
	}
}

func TestRepairAndParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "fenced trailing comma", input: "```json\n{\"a\": 1,}\n```", want: `{"a": 1}`},
		{name: "single quotes", input: `{'a': 'b'}`, want: `{"a": "b"}`},
		{
			name:  "realistic model reply",
			input: "```json\n{\n  \"workloads\": {\n    \"deployments\": {\n      \"api\": {\"replicas\": 2,},\n    },\n  },\n}\n```",
			want:  `{"workloads": {"deployments": {"api": {"replicas": 2}}}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseObject(Repair(tt.input))
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(doc))
		})
	}
}

func TestParseObject_PreservesText(t *testing.T) {
	doc, err := ParseObject("  {\"z\": 1, \"a\": 12345678901234567890}\n")
	require.NoError(t, err)
	assert.Equal(t, `{"z": 1, "a": 12345678901234567890}`, string(doc))
}

func TestParseObject_Errors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantOffset int64
	}{
		{name: "truncated", input: `{"a": 1`, wantOffset: 7},
		{name: "trailing data", input: `{"a": 1} extra`, wantOffset: 10},
		{name: "array", input: `[1, 2]`, wantOffset: -1},
		{name: "null", input: `null`, wantOffset: 0},
		{name: "prose", input: `I cannot help with that.`, wantOffset: 1},
		{name: "empty", input: ``, wantOffset: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseObject(tt.input)
			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			if tt.wantOffset >= 0 {
				assert.Equal(t, tt.wantOffset, parseErr.Offset)
			}
		})
	}
}

func TestParseObject_Window(t *testing.T) {
	long := `{"padding": "` + strings.Repeat("x", 120) + `", "broken": ,}`
	_, err := ParseObject(long)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.LessOrEqual(t, len(parseErr.Window), 2*parseWindow)
	assert.Contains(t, parseErr.Window, `"broken": ,`)

	var syntaxErr *json.SyntaxError
	assert.ErrorAs(t, err, &syntaxErr)
}
