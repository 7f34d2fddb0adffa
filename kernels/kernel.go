package kernels

import (
	"context"
	"fmt"

	"github.com/agorasim/agora/artifacts"
	"github.com/agorasim/agora/intents"
	"github.com/agorasim/agora/ledgers"
	"github.com/agorasim/agora/logs"
	"github.com/agorasim/agora/oracles"
	"github.com/agorasim/agora/sandboxes"
	"github.com/samber/lo"
)

// Kernel executes one validated intent at a time against the ledger,
// the artifact store, the sandbox, and the originality oracle. The tick
// driver deciding which principal acts next lives outside.
type Kernel struct {
	ledger   *ledgers.Ledger
	store    *artifacts.Store
	executor *sandboxes.Executor
	oracle   *oracles.Oracle
	logger   logs.Logger
	newSpan  logs.NewSpan

	startingScrip int64
	computeQuota  int64
	actionCost    int64
	thinkRateIn   float64
	thinkRateOut  float64
}

// Result is the kernel's answer to one intent.
type Result struct {
	OK    bool
	Value any
	Error string
}

func refuse(format string, args ...any) Result {
	return Result{
		Error: fmt.Sprintf(format, args...),
	}
}

func accept(value any) Result {
	return Result{
		OK:    true,
		Value: value,
	}
}

// Ledger exposes the underlying ledger to the orchestration layer, for
// minting and reporting.
func (k *Kernel) Ledger() *ledgers.Ledger {
	return k.ledger
}

// Register creates a principal with the configured starting balances.
func (k *Kernel) Register(id string) {
	k.ledger.CreatePrincipal(id, k.startingScrip, k.computeQuota)
}

// RefillCompute resets a principal's compute to the configured quota,
// called once per tick by the driver.
func (k *Kernel) RefillCompute(id string) {
	k.ledger.ResetCompute(id, k.computeQuota)
}

// ChargeThinking deducts the compute cost of one inference round. On
// refusal the needed cost and the available balance are reported.
func (k *Kernel) ChargeThinking(ctx context.Context, id string, inputTokens, outputTokens int64) (bool, int64) {
	ok, cost := k.ledger.DeductThinkingCost(id, inputTokens, outputTokens, k.thinkRateIn, k.thinkRateOut)
	if !ok {
		k.logger.InfoContext(ctx, "thinking cost refused",
			"principal", id,
			"needed", cost,
			"had", k.ledger.GetCompute(id),
		)
	}
	return ok, cost
}

// HandleRaw validates raw model output and handles the resulting
// intent.
func (k *Kernel) HandleRaw(ctx context.Context, callerID string, text string) Result {
	intent, err := intents.ParseIntentFromJSON(callerID, text)
	if err != nil {
		return refuse("%v", err)
	}
	return k.HandleIntent(ctx, intent)
}

// HandleIntent charges the action cost and dispatches. Failures come
// back in the Result; nothing escapes as a panic.
func (k *Kernel) HandleIntent(ctx context.Context, intent *intents.Intent) Result {
	ctx, _ = k.newSpan(ctx, "")
	k.logger.InfoContext(ctx, "intent",
		"kind", intent.Kind,
		"caller", intent.CallerID,
	)

	if intent.Kind != intents.ActionNoop && k.actionCost > 0 {
		payer := k.costPayer(intent)
		if !k.ledger.DeductScrip(payer, k.actionCost) {
			return refuse("insufficient scrip for action cost: %s needs %d, has %d",
				payer, k.actionCost, k.ledger.GetScrip(payer))
		}
	}

	switch intent.Kind {

	case intents.ActionNoop:
		return accept(nil)

	case intents.ActionReadArtifact:
		artifact, ok := k.store.Get(intent.ArtifactID)
		if !ok {
			return refuse("artifact %s does not exist", intent.ArtifactID)
		}
		return accept(map[string]any{
			"id":         artifact.ID,
			"owner":      artifact.Owner,
			"content":    artifact.Content,
			"executable": artifact.Executable,
			"price":      artifact.Price,
		})

	case intents.ActionWriteArtifact:
		stored := k.store.Put(artifacts.Artifact{
			ID:             intent.ArtifactID,
			Owner:          intent.CallerID,
			Content:        intent.Content,
			Executable:     intent.Executable,
			Price:          intent.Price,
			ResourcePolicy: intent.ResourcePolicy,
		})
		return accept(stored.ID)

	case intents.ActionInvokeArtifact:
		return k.invoke(ctx, intent)

	case intents.ActionSubmitToTask:
		score := k.oracle.ScoreArtifact(ctx, intent.TaskID, "submission", intent.Content)
		if !score.Success {
			return refuse("scoring failed: %s", score.Reason)
		}
		if score.Score > 0 {
			k.ledger.CreditScrip(intent.CallerID, score.Score)
		}
		return accept(map[string]any{
			"score":  score.Score,
			"reason": score.Reason,
		})

	case intents.ActionQueryKernel:
		return k.query(intent.Query)

	}

	return refuse("unhandled action: %s", intent.Kind)
}

// costPayer applies the artifact's resource policy: for owner_pays
// invocations the owning principal covers the action cost.
func (k *Kernel) costPayer(intent *intents.Intent) string {
	if intent.Kind != intents.ActionInvokeArtifact {
		return intent.CallerID
	}
	artifact, ok := k.store.Get(intent.ArtifactID)
	if !ok {
		return intent.CallerID
	}
	if artifact.ResourcePolicy == intents.PolicyOwnerPays {
		return artifact.Owner
	}
	return intent.CallerID
}

func (k *Kernel) invoke(ctx context.Context, intent *intents.Intent) Result {
	artifact, ok := k.store.Get(intent.ArtifactID)
	if !ok {
		return refuse("artifact %s does not exist", intent.ArtifactID)
	}
	if !artifact.Executable {
		return refuse("artifact %s is not executable", artifact.ID)
	}
	if intent.Method != sandboxes.EntryFunc {
		return refuse("unknown method %q: artifacts expose %q only", intent.Method, sandboxes.EntryFunc)
	}

	if artifact.Price > 0 {
		if !k.ledger.TransferScrip(intent.CallerID, artifact.Owner, artifact.Price) {
			return refuse("cannot pay price %d to %s", artifact.Price, artifact.Owner)
		}
	}

	// the artifact principal must exist for its wallet to receive and
	// spend scrip; a zero credit creates it
	k.ledger.CreditScrip(artifact.ID, 0)

	result := k.executor.ExecuteWithWallet(ctx, artifact.Content, intent.Args, artifact.ID, k.ledger)
	if !result.Success {
		return refuse("%s", result.Error)
	}
	return accept(result.Result)
}

func (k *Kernel) query(query string) Result {
	switch query {
	case "balances":
		return accept(k.ledger.GetAllBalances())
	case "scrip":
		return accept(k.ledger.GetAllScrip())
	case "compute":
		return accept(k.ledger.GetAllCompute())
	case "artifacts":
		return accept(lo.Keys(k.store.All()))
	}
	return refuse("unknown query %q", query)
}

// TransferScrip is the legacy direct transfer path, kept alongside the
// intent vocabulary that rejects "transfer" as an action. The minting
// authority at the orchestration layer still calls it.
func (k *Kernel) TransferScrip(from, to string, amount int64) bool {
	k.logger.Warn("legacy transfer path",
		"from", from,
		"to", to,
		"amount", amount,
	)
	return k.ledger.TransferScrip(from, to, amount)
}
