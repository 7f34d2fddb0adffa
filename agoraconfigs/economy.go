package agoraconfigs

import (
	"github.com/agorasim/agora/cmds"
	"github.com/agorasim/agora/configs"
	"github.com/agorasim/agora/vars"
)

// StartingScrip is the scrip balance granted to a newly created
// principal.
type StartingScrip int64

var startingScripFlag = cmds.Var[int64]("-starting-scrip")

func (Module) StartingScrip(
	loader configs.Loader,
) StartingScrip {
	return StartingScrip(vars.FirstNonZero(
		*startingScripFlag,
		configs.First[int64](loader, "starting_scrip"),
		100,
	))
}

// ComputeQuota is the compute balance a principal is refilled to at each
// tick.
type ComputeQuota int64

var computeQuotaFlag = cmds.Var[int64]("-compute-quota")

func (Module) ComputeQuota(
	loader configs.Loader,
) ComputeQuota {
	return ComputeQuota(vars.FirstNonZero(
		*computeQuotaFlag,
		configs.First[int64](loader, "compute_quota"),
		1000,
	))
}

// ThinkRateInput and ThinkRateOutput are the compute cost per 1000 input
// and output tokens of one inference round.
type ThinkRateInput float64

type ThinkRateOutput float64

func (Module) ThinkRateInput(
	loader configs.Loader,
) ThinkRateInput {
	return ThinkRateInput(vars.FirstNonZero(
		configs.First[float64](loader, "think_rate_input"),
		1.0,
	))
}

func (Module) ThinkRateOutput(
	loader configs.Loader,
) ThinkRateOutput {
	return ThinkRateOutput(vars.FirstNonZero(
		configs.First[float64](loader, "think_rate_output"),
		2.0,
	))
}

// ActionCost is the scrip charged for handling one intent.
type ActionCost int64

var actionCostFlag = cmds.Var[int64]("-action-cost")

func (Module) ActionCost(
	loader configs.Loader,
) ActionCost {
	return ActionCost(vars.FirstNonZero(
		*actionCostFlag,
		configs.First[int64](loader, "action_cost"),
		1,
	))
}
