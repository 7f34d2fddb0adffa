package oracles

import (
	"github.com/agorasim/agora/logs"
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
	Logs logs.Module
}

func (Module) Oracle(
	scorer Scorer,
	logger logs.Logger,
) *Oracle {
	return NewOracle(scorer, logger)
}
