package intents

import (
	"fmt"
	"strings"
)

// ParseIntentFromJSON validates raw model output and builds the typed
// intent for the given caller.
func ParseIntentFromJSON(callerID string, text string) (*Intent, error) {
	action, err := ValidateActionJSON(text)
	if err != nil {
		return nil, err
	}

	kind := ActionType(strings.ToLower(action["action_type"].(string)))
	intent := &Intent{
		Kind:     kind,
		CallerID: callerID,
	}

	switch kind {

	case ActionNoop:

	case ActionReadArtifact:
		intent.ArtifactID = stringField(action, "artifact_id")

	case ActionWriteArtifact:
		intent.ArtifactID = stringField(action, "artifact_id")
		intent.Content = stringField(action, "content")
		if executable, ok := action["executable"].(bool); ok {
			intent.Executable = executable
		}
		if price, ok := action["price"].(float64); ok {
			intent.Price = int64(price)
		}
		policy, err := resourcePolicy(action)
		if err != nil {
			return nil, err
		}
		intent.ResourcePolicy = policy

	case ActionInvokeArtifact:
		intent.ArtifactID = stringField(action, "artifact_id")
		intent.Method = stringField(action, "method")
		intent.Args = action["args"].([]any)

	case ActionSubmitToTask:
		intent.TaskID = stringField(action, "task_id")
		intent.Content = stringField(action, "content")

	case ActionQueryKernel:
		intent.Query = stringField(action, "query")

	}

	return intent, nil
}

// resourcePolicy reads the optional resource_policy field, defaulting to
// caller_pays.
func resourcePolicy(action map[string]any) (ResourcePolicy, error) {
	raw, ok := action["resource_policy"]
	if !ok {
		return PolicyCallerPays, nil
	}
	policy, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("invalid resource_policy %v: must be %q or %q", raw, PolicyCallerPays, PolicyOwnerPays)
	}
	switch ResourcePolicy(policy) {
	case PolicyCallerPays, PolicyOwnerPays:
		return ResourcePolicy(policy), nil
	}
	return "", fmt.Errorf("invalid resource_policy %q: must be %q or %q", policy, PolicyCallerPays, PolicyOwnerPays)
}

func stringField(action map[string]any, field string) string {
	s, _ := action[field].(string)
	return s
}
