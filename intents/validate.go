package intents

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ValidateActionJSON extracts the first JSON object from raw model
// output and validates it against the action vocabulary. All failures
// come back as error values with messages meant for the submitting
// agent; nothing panics on malformed input.
func ValidateActionJSON(text string) (map[string]any, error) {
	candidate, err := extractObject(text)
	if err != nil {
		return nil, err
	}

	var action map[string]any
	decoder := json.NewDecoder(strings.NewReader(candidate))
	if err := decoder.Decode(&action); err != nil {
		return nil, fmt.Errorf("invalid JSON: %v", err)
	}

	rawType, ok := action["action_type"].(string)
	if !ok {
		return nil, fmt.Errorf("missing required field: action_type")
	}

	// matched case-insensitively, but the original casing stays in the
	// returned mapping
	actionType := ActionType(strings.ToLower(rawType))

	if actionType == "transfer" {
		return nil, fmt.Errorf("%q is not a kernel action: invoke a ledger transfer artifact via %s instead", rawType, ActionInvokeArtifact)
	}

	fields, known := requiredFields[actionType]
	if !known {
		return nil, fmt.Errorf("unknown action_type: %q", rawType)
	}

	for _, field := range fields {
		if _, ok := action[field]; !ok {
			return nil, fmt.Errorf("action %s requires field %q", actionType, field)
		}
	}

	if actionType == ActionInvokeArtifact {
		if _, ok := action["args"].([]any); !ok {
			return nil, fmt.Errorf("action %s requires %q to be a list", actionType, "args")
		}
	}

	return action, nil
}

// extractObject locates the JSON object inside free-form model output:
// a fenced code block wins, then the first brace-opened span.
func extractObject(text string) (string, error) {
	for _, fence := range []string{"```json", "```"} {
		begin := strings.Index(text, fence)
		if begin < 0 {
			continue
		}
		rest := text[begin+len(fence):]
		if end := strings.Index(rest, "```"); end >= 0 {
			rest = rest[:end]
		}
		text = rest
		break
	}

	brace := strings.Index(text, "{")
	if brace < 0 {
		return "", fmt.Errorf("no JSON object found")
	}
	return text[brace:], nil
}
