package sandboxes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/agorasim/agora/ledgers"
	"github.com/agorasim/agora/logs"
	"github.com/agorasim/agora/syncs"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// EntryFunc is the function every artifact must define.
const EntryFunc = "run"

const sourceName = "artifact.star"

// Executor runs artifact code inside a Starlark interpreter. The
// interpreter is the isolation boundary: there is no filesystem, network,
// process, reflection, or dynamic-eval surface in the language, so the
// only capabilities reachable from artifact code are the values the
// executor predeclares.
type Executor struct {
	timeout time.Duration
	sem     syncs.Semaphore
	logger  logs.Logger
}

func NewExecutor(timeout time.Duration, maxConcurrent int, logger logs.Logger) *Executor {
	return &Executor{
		timeout: timeout,
		sem:     syncs.NewSemaphore(maxConcurrent),
		logger:  logger,
	}
}

var fileOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
	Recursion:       true,
}

// ValidateCode is a cheap pre-check: it parses but never executes.
func (e *Executor) ValidateCode(code string) (bool, string) {
	if strings.TrimSpace(code) == "" {
		return false, "code is empty"
	}
	file, err := fileOptions.Parse(sourceName, code, 0)
	if err != nil {
		return false, fmt.Sprintf("syntax error: %v", err)
	}
	for _, stmt := range file.Stmts {
		if def, ok := stmt.(*syntax.DefStmt); ok && def.Name.Name == EntryFunc {
			return true, ""
		}
	}
	return false, fmt.Sprintf("code must define a %s function", EntryFunc)
}

// Execute runs the entry function with the given positional arguments and
// no wallet context.
func (e *Executor) Execute(ctx context.Context, code string, args []any) ExecutionResult {
	return e.run(ctx, code, args, nil)
}

// ExecuteWithWallet behaves like Execute, plus injects pay and
// get_balance bound to the artifact's own balance. Both names stay
// undefined unless a ledger and an owning artifact id are supplied, so a
// walletless reference fails the same way on either call path.
func (e *Executor) ExecuteWithWallet(ctx context.Context, code string, args []any, artifactID string, ledger *ledgers.Ledger) ExecutionResult {
	var wallet *Wallet
	if ledger != nil && artifactID != "" {
		wallet = &Wallet{
			ArtifactID: artifactID,
			Ledger:     ledger,
		}
	}
	return e.run(ctx, code, args, wallet)
}

func (e *Executor) run(ctx context.Context, code string, args []any, wallet *Wallet) (result ExecutionResult) {
	e.sem.Acquire()
	defer e.sem.Release()

	if ok, message := e.ValidateCode(code); !ok {
		return failure(message)
	}

	predeclared := predeclaredModules()
	if wallet != nil {
		for name, value := range wallet.builtins() {
			predeclared[name] = value
		}
	}

	thread := &starlark.Thread{
		Name: "sandbox",
		Load: loadAllowed,
	}

	var timedOut atomic.Bool
	done := make(chan struct{})
	go func() {
		defer close(done)
		result = e.evaluate(thread, code, args, predeclared)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		thread.Cancel("context canceled")
		<-done
	case <-time.After(e.timeout):
		timedOut.Store(true)
		thread.Cancel("wall clock limit")
		<-done
	}

	if timedOut.Load() {
		result = failure(fmt.Sprintf("execution timed out after %v", e.timeout))
	}
	if !result.Success {
		e.logger.DebugContext(ctx, "execution failed",
			"error", result.Error,
		)
	}
	return result
}

func (e *Executor) evaluate(thread *starlark.Thread, code string, args []any, predeclared starlark.StringDict) (result ExecutionResult) {
	// The evaluation goroutine must not take down the host process.
	defer func() {
		if p := recover(); p != nil {
			result = failure(fmt.Sprintf("sandbox setup failed: %v", p))
		}
	}()

	globals, err := starlark.ExecFileOptions(fileOptions, thread, sourceName, code, predeclared)
	if err != nil {
		return failure(evalMessage(err))
	}

	entry, ok := globals[EntryFunc]
	if !ok {
		return failure(fmt.Sprintf("code must define a %s function", EntryFunc))
	}

	callArgs := make(starlark.Tuple, 0, len(args))
	for _, arg := range args {
		callArgs = append(callArgs, toStarlarkValue(arg))
	}

	value, err := starlark.Call(thread, entry, callArgs, nil)
	if err != nil {
		return failure(evalMessage(err))
	}
	return success(fromStarlarkValue(value))
}

// loadAllowed serves load statements for the allow-listed modules and
// rejects everything else by name.
func loadAllowed(thread *starlark.Thread, module string) (starlark.StringDict, error) {
	allowed := predeclaredModules()
	value, ok := allowed[module]
	if !ok {
		return nil, fmt.Errorf("import of %q is not allowed in the sandbox", module)
	}
	return starlark.StringDict{
		module: value,
	}, nil
}

func evalMessage(err error) string {
	var evalErr *starlark.EvalError
	if errors.As(err, &evalErr) {
		return evalErr.Msg
	}
	return err.Error()
}
