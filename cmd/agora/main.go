package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/agorasim/agora/cmds"
	"github.com/agorasim/agora/kernels"
	"github.com/agorasim/agora/logs"
	"github.com/agorasim/agora/modes"
	"github.com/agorasim/agora/sandboxes"
	"github.com/agorasim/agora/vars"
	"github.com/reusee/dscope"
)

var (
	runFlag    = cmds.Var[string]("run")
	argsFlag   = cmds.Var[string]("args")
	callerFlag = cmds.Var[string]("caller")
	intentFlag = cmds.Var[string]("intent")
	demoFlag   = cmds.Switch("demo")
)

func main() {
	cmds.Execute(os.Args[1:])
	ctx := context.Background()

	scope := dscope.New(
		new(Module),
		modes.ForProduction(),
	)

	scope.Call(func(
		logger logs.Logger,
		kernel *kernels.Kernel,
		executor *sandboxes.Executor,
	) {

		switch {

		case *runFlag != "":
			content, err := os.ReadFile(*runFlag)
			ce(err)
			var args []any
			if *argsFlag != "" {
				ce(json.Unmarshal([]byte(*argsFlag), &args))
			}
			result := executor.Execute(ctx, string(content), args)
			if !result.Success {
				logger.ErrorContext(ctx, "execution failed",
					"file", *runFlag,
					"error", result.Error,
				)
				os.Exit(1)
			}
			printJSON(result.Result)

		case *intentFlag != "":
			caller := vars.FirstNonZero(*callerFlag, "operator")
			kernel.Register(caller)
			res := kernel.HandleRaw(ctx, caller, *intentFlag)
			if !res.OK {
				logger.ErrorContext(ctx, "intent refused",
					"caller", caller,
					"error", res.Error,
				)
				os.Exit(1)
			}
			printJSON(res.Value)

		case *demoFlag:
			runDemo(ctx, kernel)

		default:
			cmds.GlobalExecutor.PrintUsage()
		}

	})
}

// runDemo plays a short scripted economy: alice publishes a priced
// artifact, bob invokes it and submits a task answer, then the balances
// are reported.
func runDemo(ctx context.Context, kernel *kernels.Kernel) {
	kernel.Register("alice")
	kernel.Register("bob")
	for _, step := range []struct {
		caller string
		raw    string
	}{
		{"alice", `{"action_type": "write_artifact", "artifact_id": "adder", "content": "def run(a, b):\n    return a + b", "executable": true, "price": 2}`},
		{"bob", `{"action_type": "invoke_artifact", "artifact_id": "adder", "method": "run", "args": [1, 2]}`},
		{"bob", `{"action_type": "submit_to_task", "task_id": "demo", "content": "the answer is 3"}`},
		{"bob", `{"action_type": "query_kernel", "query": "balances"}`},
	} {
		res := kernel.HandleRaw(ctx, step.caller, step.raw)
		if !res.OK {
			fmt.Printf("%s: refused: %s\n", step.caller, res.Error)
			continue
		}
		fmt.Printf("%s:\n", step.caller)
		printJSON(res.Value)
	}
}

func printJSON(value any) {
	buf, err := json.MarshalIndent(jsonable(value), "", "  ")
	ce(err)
	fmt.Printf("%s\n", buf)
}

// jsonable rewrites sandbox result values into what encoding/json
// accepts, stringifying non-string dict keys.
func jsonable(value any) any {
	switch value := value.(type) {
	case map[any]any:
		ret := make(map[string]any, len(value))
		for k, v := range value {
			ret[fmt.Sprint(k)] = jsonable(v)
		}
		return ret
	case map[string]any:
		ret := make(map[string]any, len(value))
		for k, v := range value {
			ret[k] = jsonable(v)
		}
		return ret
	case []any:
		ret := make([]any, 0, len(value))
		for _, v := range value {
			ret = append(ret, jsonable(v))
		}
		return ret
	}
	return value
}
