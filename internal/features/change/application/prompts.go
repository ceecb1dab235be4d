package application

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const resolverPromptTemplate = `You are a configuration assistant. The user wants to modify a configuration.
Available applications are: %s

User request: "%s"

Respond with ONLY the application name (%s).
No explanation, no punctuation, just the application name in lowercase.`

const editPromptTemplate = `You are a JSON editor. Your task is to modify a JSON configuration.

User request: "%s"

Current configuration (JSON):
%s

Instructions:
- If request mentions "memory": modify resources -> memory -> limitMiB and requestMiB fields (use value like 1024 for 1024mb)
- If request mentions "cpu": modify resources -> cpu fields
- If request mentions "env" or "environment": modify the envs array
- Otherwise: keep everything exactly the same
- IMPORTANT: Only change what the user specifically requests
- Do NOT add new fields or env variables unless explicitly requested
- Output valid JSON only, no explanations

Output:`

// buildResolverPrompt asks the model to name one of apps.
func buildResolverPrompt(input string, apps []string) string {
	return fmt.Sprintf(resolverPromptTemplate, strings.Join(apps, ", "), input, joinAlternatives(apps))
}

// buildEditPrompt embeds the request and the values document, indented with
// two spaces and in its source key order.
func buildEditPrompt(input string, values json.RawMessage) (string, error) {
	var indented bytes.Buffer
	if err := json.Indent(&indented, values, "", "  "); err != nil {
		return "", fmt.Errorf("failed to indent values document: %w", err)
	}
	return fmt.Sprintf(editPromptTemplate, input, indented.String()), nil
}

// joinAlternatives renders "a, b, or c".
func joinAlternatives(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " or " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", or " + items[len(items)-1]
	}
}
