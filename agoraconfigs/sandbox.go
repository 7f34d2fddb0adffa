package agoraconfigs

import (
	"time"

	"github.com/agorasim/agora/cmds"
	"github.com/agorasim/agora/configs"
	"github.com/agorasim/agora/vars"
)

// SandboxTimeout is the wall clock budget of one sandboxed execution.
type SandboxTimeout time.Duration

var sandboxTimeoutMsFlag = cmds.Var[int64]("-sandbox-timeout-ms")

func (Module) SandboxTimeout(
	loader configs.Loader,
) SandboxTimeout {
	ms := vars.FirstNonZero(
		*sandboxTimeoutMsFlag,
		configs.First[int64](loader, "sandbox_timeout_ms"),
		5000,
	)
	return SandboxTimeout(time.Duration(ms) * time.Millisecond)
}

// MaxExecutions caps concurrent sandboxed executions.
type MaxExecutions int

var maxExecutionsFlag = cmds.Var[int]("-max-executions")

func (Module) MaxExecutions(
	loader configs.Loader,
) MaxExecutions {
	return MaxExecutions(vars.FirstNonZero(
		*maxExecutionsFlag,
		configs.First[int](loader, "max_executions"),
		4,
	))
}
