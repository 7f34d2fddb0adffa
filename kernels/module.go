package kernels

import (
	"github.com/agorasim/agora/agoraconfigs"
	"github.com/agorasim/agora/artifacts"
	"github.com/agorasim/agora/ledgers"
	"github.com/agorasim/agora/logs"
	"github.com/agorasim/agora/oracles"
	"github.com/agorasim/agora/sandboxes"
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
	Artifacts artifacts.Module
	Configs   agoraconfigs.Module
	Ledgers   ledgers.Module
	Logs      logs.Module
	Oracles   oracles.Module
	Sandboxes sandboxes.Module
}

func (Module) Kernel(
	ledger *ledgers.Ledger,
	store *artifacts.Store,
	executor *sandboxes.Executor,
	oracle *oracles.Oracle,
	logger logs.Logger,
	newSpan logs.NewSpan,
	startingScrip agoraconfigs.StartingScrip,
	computeQuota agoraconfigs.ComputeQuota,
	actionCost agoraconfigs.ActionCost,
	thinkRateIn agoraconfigs.ThinkRateInput,
	thinkRateOut agoraconfigs.ThinkRateOutput,
) *Kernel {
	return &Kernel{
		ledger:        ledger,
		store:         store,
		executor:      executor,
		oracle:        oracle,
		logger:        logger,
		newSpan:       newSpan,
		startingScrip: int64(startingScrip),
		computeQuota:  int64(computeQuota),
		actionCost:    int64(actionCost),
		thinkRateIn:   float64(thinkRateIn),
		thinkRateOut:  float64(thinkRateOut),
	}
}
