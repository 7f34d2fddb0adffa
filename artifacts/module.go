package artifacts

import (
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
}

func (Module) Store() *Store {
	return NewStore()
}
