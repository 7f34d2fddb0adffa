package agoraconfigs

import (
	"github.com/agorasim/agora/logs"
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
	Logs logs.Module
}
