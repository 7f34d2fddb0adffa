package ledgers

import (
	"maps"
	"math"
	"sync"
)

// Ledger holds scrip and compute balances for all principals.
// All methods take the ledger mutex: cross-principal transfers need a
// globally consistent view, so per-principal locking is not enough.
type Ledger struct {
	mu      sync.Mutex
	scrip   map[string]int64
	compute map[string]int64
}

func NewLedger() *Ledger {
	return &Ledger{
		scrip:   make(map[string]int64),
		compute: make(map[string]int64),
	}
}

// CreatePrincipal initializes a principal, overwriting any existing
// balances under the same id.
func (l *Ledger) CreatePrincipal(id string, startingScrip int64, startingCompute int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.scrip[id] = startingScrip
	l.compute[id] = startingCompute
}

// GetScrip returns 0 for unknown principals.
func (l *Ledger) GetScrip(id string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.scrip[id]
}

// GetCompute returns 0 for unknown principals.
func (l *Ledger) GetCompute(id string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.compute[id]
}

// TransferScrip moves amount from one principal to another. It fails,
// leaving both balances unchanged, unless amount is positive, the sender
// can cover it, and the recipient already exists.
func (l *Ledger) TransferScrip(from, to string, amount int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if amount <= 0 {
		return false
	}
	if l.scrip[from] < amount {
		return false
	}
	if _, ok := l.scrip[to]; !ok {
		return false
	}
	l.scrip[from] -= amount
	l.scrip[to] += amount
	return true
}

// DeductScrip burns amount from a principal, used for action costs.
// Same atomicity contract as TransferScrip, with no recipient.
func (l *Ledger) DeductScrip(id string, amount int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if amount <= 0 {
		return false
	}
	if l.scrip[id] < amount {
		return false
	}
	l.scrip[id] -= amount
	return true
}

// DeductThinkingCost charges compute for an inference round. The cost is
// ceil(inputTokens/1000 * rateInput + outputTokens/1000 * rateOutput).
// On insufficient compute the computed cost is still returned with false,
// and the balance is left untouched, so callers can report the shortfall
// without recomputing.
func (l *Ledger) DeductThinkingCost(id string, inputTokens, outputTokens int64, rateInput, rateOutput float64) (bool, int64) {
	cost := ThinkingCost(inputTokens, outputTokens, rateInput, rateOutput)
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.compute[id] < cost {
		return false, cost
	}
	l.compute[id] -= cost
	return true, cost
}

func ThinkingCost(inputTokens, outputTokens int64, rateInput, rateOutput float64) int64 {
	cost := float64(inputTokens)/1000*rateInput +
		float64(outputTokens)/1000*rateOutput
	return int64(math.Ceil(cost))
}

// ResetCompute sets compute to exactly quota. This is a periodic refill,
// not a delta, so it may lower the balance as well as raise it.
func (l *Ledger) ResetCompute(id string, quota int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.compute[id] = quota
}

// CreditScrip mints amount into a principal, creating it if absent.
// The only operation allowed to conjure scrip from nothing; restricted to
// the minting authority at the orchestration layer.
func (l *Ledger) CreditScrip(id string, amount int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.scrip[id] += amount
}

func (l *Ledger) CanAffordScrip(id string, amount int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.scrip[id] >= amount
}

func (l *Ledger) CanSpendCompute(id string, amount int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.compute[id] >= amount
}

type Balances struct {
	Scrip   int64
	Compute int64
}

func (l *Ledger) GetAllBalances() map[string]Balances {
	l.mu.Lock()
	defer l.mu.Unlock()
	ret := make(map[string]Balances, len(l.scrip))
	for id, scrip := range l.scrip {
		ret[id] = Balances{
			Scrip:   scrip,
			Compute: l.compute[id],
		}
	}
	return ret
}

func (l *Ledger) GetAllScrip() map[string]int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return maps.Clone(l.scrip)
}

func (l *Ledger) GetAllCompute() map[string]int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return maps.Clone(l.compute)
}
