package sandboxes

import (
	"time"

	"github.com/agorasim/agora/agoraconfigs"
	"github.com/agorasim/agora/logs"
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
	Configs agoraconfigs.Module
	Logs    logs.Module
}

func (Module) Executor(
	timeout agoraconfigs.SandboxTimeout,
	maxExecutions agoraconfigs.MaxExecutions,
	logger logs.Logger,
) *Executor {
	return NewExecutor(
		time.Duration(timeout),
		int(maxExecutions),
		logger,
	)
}
