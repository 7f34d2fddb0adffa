package ledgers

import (
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
}

func (Module) Ledger() *Ledger {
	return NewLedger()
}
