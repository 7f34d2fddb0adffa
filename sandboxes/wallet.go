package sandboxes

import (
	"fmt"

	"github.com/agorasim/agora/ledgers"
	"go.starlark.net/starlark"
)

// Wallet scopes the pay and get_balance capabilities to one artifact's
// own ledger balance. The capabilities are host functions injected into
// the sandbox by value; artifact code cannot reach the ledger any other
// way, so it can never debit a balance other than its own.
type Wallet struct {
	ArtifactID string
	Ledger     *ledgers.Ledger
}

func (w *Wallet) builtins() starlark.StringDict {
	pay := starlark.NewBuiltin("pay", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var recipient string
		var amount int64
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &recipient, &amount); err != nil {
			return nil, err
		}
		if amount <= 0 {
			return nil, fmt.Errorf("pay: amount must be positive, got %d", amount)
		}
		balance := w.Ledger.GetScrip(w.ArtifactID)
		if balance < amount {
			return nil, fmt.Errorf("pay: insufficient balance: have %d, need %d", balance, amount)
		}
		// a zero credit creates the recipient if absent
		w.Ledger.CreditScrip(recipient, 0)
		if !w.Ledger.TransferScrip(w.ArtifactID, recipient, amount) {
			return nil, fmt.Errorf("pay: transfer of %d to %s failed", amount, recipient)
		}
		return starlark.None, nil
	})

	getBalance := starlark.NewBuiltin("get_balance", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
			return nil, err
		}
		return starlark.MakeInt64(w.Ledger.GetScrip(w.ArtifactID)), nil
	})

	return starlark.StringDict{
		"pay":         pay,
		"get_balance": getBalance,
	}
}
