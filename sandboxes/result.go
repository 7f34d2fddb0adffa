package sandboxes

// ExecutionResult is the outcome of one sandboxed execution. Exactly one
// of Result and Error is meaningful, selected by Success.
type ExecutionResult struct {
	Success bool
	Result  any
	Error   string
}

func failure(message string) ExecutionResult {
	return ExecutionResult{
		Error: message,
	}
}

func success(result any) ExecutionResult {
	return ExecutionResult{
		Success: true,
		Result:  result,
	}
}
