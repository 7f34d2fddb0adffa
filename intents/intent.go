package intents

// ActionType enumerates the kernel action vocabulary. "transfer" is
// deliberately absent: scrip moves only through a ledger-transfer
// artifact invoked via invoke_artifact.
type ActionType string

const (
	ActionNoop           ActionType = "noop"
	ActionReadArtifact   ActionType = "read_artifact"
	ActionWriteArtifact  ActionType = "write_artifact"
	ActionInvokeArtifact ActionType = "invoke_artifact"
	ActionSubmitToTask   ActionType = "submit_to_task"
	ActionQueryKernel    ActionType = "query_kernel"
)

// requiredFields is the per-action contract checked by
// ValidateActionJSON. args of invoke_artifact additionally must be a
// sequence.
var requiredFields = map[ActionType][]string{
	ActionNoop:           nil,
	ActionReadArtifact:   {"artifact_id"},
	ActionWriteArtifact:  {"artifact_id", "content"},
	ActionInvokeArtifact: {"artifact_id", "method", "args"},
	ActionSubmitToTask:   {"task_id", "content"},
	ActionQueryKernel:    {"query"},
}

// ResourcePolicy selects who covers the costs of an artifact: the
// invoking caller or the owning principal.
type ResourcePolicy string

const (
	PolicyCallerPays ResourcePolicy = "caller_pays"
	PolicyOwnerPays  ResourcePolicy = "owner_pays"
)

// Intent is a validated, typed action request. Kind selects which of the
// remaining fields are meaningful.
type Intent struct {
	Kind     ActionType
	CallerID string

	ArtifactID     string
	Content        string
	Executable     bool
	Price          int64
	ResourcePolicy ResourcePolicy

	Method string
	Args   []any

	TaskID string
	Query  string
}
