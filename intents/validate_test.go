package intents

import (
	"strings"
	"testing"
)

func TestValidateActionJSON(t *testing.T) {
	t.Run("plain object", func(t *testing.T) {
		action, err := ValidateActionJSON(`{"action_type": "noop"}`)
		if err != nil {
			t.Fatal(err)
		}
		if action["action_type"] != "noop" {
			t.Fatalf("got %v", action)
		}
	})

	t.Run("json fence", func(t *testing.T) {
		action, err := ValidateActionJSON("here you go:\n```json\n{\"action_type\": \"read_artifact\", \"artifact_id\": \"a1\"}\n```\nthanks")
		if err != nil {
			t.Fatal(err)
		}
		if action["artifact_id"] != "a1" {
			t.Fatalf("got %v", action)
		}
	})

	t.Run("generic fence", func(t *testing.T) {
		action, err := ValidateActionJSON("```\n{\"action_type\": \"noop\"}\n```")
		if err != nil {
			t.Fatal(err)
		}
		if action["action_type"] != "noop" {
			t.Fatalf("got %v", action)
		}
	})

	t.Run("object in prose", func(t *testing.T) {
		action, err := ValidateActionJSON(`I will now act. {"action_type": "query_kernel", "query": "balances"} Done.`)
		if err != nil {
			t.Fatal(err)
		}
		if action["query"] != "balances" {
			t.Fatalf("got %v", action)
		}
	})

	t.Run("casing preserved", func(t *testing.T) {
		action, err := ValidateActionJSON(`{"action_type": "Read_Artifact", "artifact_id": "a1"}`)
		if err != nil {
			t.Fatal(err)
		}
		if action["action_type"] != "Read_Artifact" {
			t.Fatalf("got %v", action["action_type"])
		}
	})

	for _, c := range []struct {
		name    string
		text    string
		message string
	}{
		{"no object", "I refuse to answer.", "no JSON object"},
		{"broken json", `{"action_type": `, "invalid JSON"},
		{"missing action_type", `{"foo": 1}`, "action_type"},
		{"unknown action", `{"action_type": "explode"}`, `unknown action_type: "explode"`},
		{"missing artifact_id", `{"action_type": "read_artifact"}`, `requires field "artifact_id"`},
		{"missing content", `{"action_type": "write_artifact", "artifact_id": "a"}`, `requires field "content"`},
		{"missing method", `{"action_type": "invoke_artifact", "artifact_id": "a", "args": []}`, `requires field "method"`},
		{"args not a list", `{"action_type": "invoke_artifact", "artifact_id": "a", "method": "run", "args": "x"}`, "to be a list"},
		{"missing task_id", `{"action_type": "submit_to_task", "content": "c"}`, `requires field "task_id"`},
		{"missing query", `{"action_type": "query_kernel"}`, `requires field "query"`},
	} {
		t.Run(c.name, func(t *testing.T) {
			_, err := ValidateActionJSON(c.text)
			if err == nil {
				t.Fatal("should error")
			}
			if !strings.Contains(err.Error(), c.message) {
				t.Fatalf("got %q", err.Error())
			}
		})
	}

	t.Run("transfer steered to invoke_artifact", func(t *testing.T) {
		_, err := ValidateActionJSON(`{"action_type": "transfer", "from": "a", "to": "b", "amount": 10}`)
		if err == nil {
			t.Fatal("should error")
		}
		if !strings.Contains(err.Error(), "invoke_artifact") {
			t.Fatalf("got %q", err.Error())
		}
	})
}

func TestParseIntentFromJSON(t *testing.T) {
	t.Run("write with default policy", func(t *testing.T) {
		intent, err := ParseIntentFromJSON("agent-1", `{"action_type": "write_artifact", "artifact_id": "a1", "content": "def run():\n    return 1", "executable": true, "price": 5}`)
		if err != nil {
			t.Fatal(err)
		}
		if intent.Kind != ActionWriteArtifact {
			t.Fatalf("got %v", intent.Kind)
		}
		if intent.CallerID != "agent-1" {
			t.Fatalf("got %v", intent.CallerID)
		}
		if intent.ArtifactID != "a1" {
			t.Fatalf("got %v", intent.ArtifactID)
		}
		if !intent.Executable {
			t.Fatal()
		}
		if intent.Price != 5 {
			t.Fatalf("got %v", intent.Price)
		}
		if intent.ResourcePolicy != PolicyCallerPays {
			t.Fatalf("got %v", intent.ResourcePolicy)
		}
	})

	t.Run("write with owner_pays", func(t *testing.T) {
		intent, err := ParseIntentFromJSON("agent-1", `{"action_type": "write_artifact", "artifact_id": "a1", "content": "x", "resource_policy": "owner_pays"}`)
		if err != nil {
			t.Fatal(err)
		}
		if intent.ResourcePolicy != PolicyOwnerPays {
			t.Fatalf("got %v", intent.ResourcePolicy)
		}
	})

	t.Run("invalid policy names both legal values", func(t *testing.T) {
		_, err := ParseIntentFromJSON("agent-1", `{"action_type": "write_artifact", "artifact_id": "a1", "content": "x", "resource_policy": "house_pays"}`)
		if err == nil {
			t.Fatal("should error")
		}
		if !strings.Contains(err.Error(), "caller_pays") ||
			!strings.Contains(err.Error(), "owner_pays") {
			t.Fatalf("got %q", err.Error())
		}
	})

	t.Run("invoke", func(t *testing.T) {
		intent, err := ParseIntentFromJSON("agent-2", `{"action_type": "invoke_artifact", "artifact_id": "a1", "method": "run", "args": [1, "x"]}`)
		if err != nil {
			t.Fatal(err)
		}
		if intent.Method != "run" {
			t.Fatalf("got %v", intent.Method)
		}
		if len(intent.Args) != 2 {
			t.Fatalf("got %v", intent.Args)
		}
	})

	t.Run("invalid input propagates", func(t *testing.T) {
		_, err := ParseIntentFromJSON("agent-1", "garbage")
		if err == nil {
			t.Fatal("should error")
		}
	})
}
