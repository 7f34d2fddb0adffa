package sandboxes

import (
	"context"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/agorasim/agora/ledgers"
)

func testExecutor(timeout time.Duration) *Executor {
	return NewExecutor(
		timeout,
		2,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func TestValidateCode(t *testing.T) {
	executor := testExecutor(time.Second)

	for _, c := range []struct {
		name    string
		code    string
		ok      bool
		message string
	}{
		{"empty", "", false, "code is empty"},
		{"blank", "   \n\t", false, "code is empty"},
		{"syntax error", "def run(:\n", false, "syntax error"},
		{"no entry", "def helper():\n    return 1\n", false, "must define a run function"},
		{"ok", "def run():\n    return 1\n", true, ""},
		{"ok with args", "def run(a, b):\n    return a + b\n", true, ""},
	} {
		t.Run(c.name, func(t *testing.T) {
			ok, message := executor.ValidateCode(c.code)
			if ok != c.ok {
				t.Fatalf("got %v %q", ok, message)
			}
			if c.message != "" && !strings.Contains(message, c.message) {
				t.Fatalf("got %q", message)
			}
		})
	}
}

func TestExecuteReturnValues(t *testing.T) {
	executor := testExecutor(time.Second)
	ctx := context.Background()

	t.Run("no return yields nil", func(t *testing.T) {
		res := executor.Execute(ctx, "def run():\n    pass\n", nil)
		if !res.Success {
			t.Fatalf("got %q", res.Error)
		}
		if res.Result != nil {
			t.Fatalf("got %v", res.Result)
		}
	})

	t.Run("scalar", func(t *testing.T) {
		res := executor.Execute(ctx, "def run():\n    return 40 + 2\n", nil)
		if !res.Success {
			t.Fatalf("got %q", res.Error)
		}
		if res.Result != int64(42) {
			t.Fatalf("got %#v", res.Result)
		}
	})

	t.Run("nested structure round-trips", func(t *testing.T) {
		res := executor.Execute(ctx, `
def run():
    return {
        "name": "artifact",
        "scores": [1, 2, 3],
        "meta": {"ok": True, "ratio": 0.5},
    }
`, nil)
		if !res.Success {
			t.Fatalf("got %q", res.Error)
		}
		expected := map[any]any{
			"name":   "artifact",
			"scores": []any{int64(1), int64(2), int64(3)},
			"meta": map[any]any{
				"ok":    true,
				"ratio": 0.5,
			},
		}
		if !reflect.DeepEqual(res.Result, expected) {
			t.Fatalf("got %#v", res.Result)
		}
	})

	t.Run("arguments", func(t *testing.T) {
		res := executor.Execute(ctx, "def run(a, b):\n    return a * b\n", []any{6, 7})
		if !res.Success {
			t.Fatalf("got %q", res.Error)
		}
		if res.Result != int64(42) {
			t.Fatalf("got %#v", res.Result)
		}
	})

	t.Run("structured arguments", func(t *testing.T) {
		res := executor.Execute(ctx,
			"def run(m):\n    return m[\"xs\"][1]\n",
			[]any{map[string]any{"xs": []any{10, 20}}},
		)
		if !res.Success {
			t.Fatalf("got %q", res.Error)
		}
		if res.Result != int64(20) {
			t.Fatalf("got %#v", res.Result)
		}
	})
}

func TestExecuteFaults(t *testing.T) {
	executor := testExecutor(time.Second)
	ctx := context.Background()

	t.Run("argument count mismatch", func(t *testing.T) {
		res := executor.Execute(ctx, "def run(a, b):\n    return a\n", []any{1})
		if res.Success {
			t.Fatal("should fail")
		}
		if !strings.Contains(res.Error, "run") {
			t.Fatalf("got %q", res.Error)
		}
	})

	t.Run("division by zero", func(t *testing.T) {
		res := executor.Execute(ctx, "def run():\n    return 1 // 0\n", nil)
		if res.Success {
			t.Fatal("should fail")
		}
		if !strings.Contains(res.Error, "zero") {
			t.Fatalf("got %q", res.Error)
		}
	})

	t.Run("type error", func(t *testing.T) {
		res := executor.Execute(ctx, "def run():\n    return 1 + \"a\"\n", nil)
		if res.Success {
			t.Fatal("should fail")
		}
	})

	t.Run("explicit fail", func(t *testing.T) {
		res := executor.Execute(ctx, "def run():\n    fail(\"boom\")\n", nil)
		if res.Success {
			t.Fatal("should fail")
		}
		if !strings.Contains(res.Error, "boom") {
			t.Fatalf("got %q", res.Error)
		}
	})
}

func TestSandboxDenial(t *testing.T) {
	executor := testExecutor(time.Second)
	ctx := context.Background()

	t.Run("load of os-control module", func(t *testing.T) {
		res := executor.Execute(ctx, `
load("os", "system")

def run():
    return system("rm -rf /")
`, nil)
		if res.Success {
			t.Fatal("should fail")
		}
		if !strings.Contains(res.Error, "not allowed") {
			t.Fatalf("got %q", res.Error)
		}
	})

	// these names do not exist in the sandbox at all; the resolver
	// rejects them before anything runs
	for _, name := range []string{
		"os.system(\"id\")",
		"open(\"/etc/passwd\")",
		"eval(\"1+1\")",
		"exec(\"x = 1\")",
		"compile(\"x\", \"f\", \"eval\")",
		"__import__(\"os\")",
		"globals()",
		"getattr(run, \"__globals__\")",
	} {
		t.Run(name, func(t *testing.T) {
			res := executor.Execute(ctx, "def run():\n    return "+name+"\n", nil)
			if res.Success {
				t.Fatal("should fail")
			}
			if !strings.Contains(res.Error, "undefined") {
				t.Fatalf("got %q", res.Error)
			}
		})
	}

	t.Run("no type hierarchy walking", func(t *testing.T) {
		res := executor.Execute(ctx, "def run():\n    return (1).__class__\n", nil)
		if res.Success {
			t.Fatal("should fail")
		}
	})
}

func TestSandboxAllowList(t *testing.T) {
	executor := testExecutor(time.Second)
	ctx := context.Background()

	t.Run("math", func(t *testing.T) {
		res := executor.Execute(ctx, "def run():\n    return math.sqrt(16.0)\n", nil)
		if !res.Success {
			t.Fatalf("got %q", res.Error)
		}
		if res.Result != 4.0 {
			t.Fatalf("got %#v", res.Result)
		}
	})

	t.Run("json", func(t *testing.T) {
		res := executor.Execute(ctx, `
def run():
    return json.decode(json.encode({"a": 1}))
`, nil)
		if !res.Success {
			t.Fatalf("got %q", res.Error)
		}
		expected := map[any]any{"a": int64(1)}
		if !reflect.DeepEqual(res.Result, expected) {
			t.Fatalf("got %#v", res.Result)
		}
	})

	t.Run("seeded random is deterministic", func(t *testing.T) {
		code := `
def run():
    random.seed(42)
    return [random.randint(0, 100) for _ in range(5)]
`
		first := executor.Execute(ctx, code, nil)
		second := executor.Execute(ctx, code, nil)
		if !first.Success || !second.Success {
			t.Fatalf("got %q %q", first.Error, second.Error)
		}
		if !reflect.DeepEqual(first.Result, second.Result) {
			t.Fatalf("got %#v vs %#v", first.Result, second.Result)
		}
	})

	t.Run("explicit load of allowed module", func(t *testing.T) {
		res := executor.Execute(ctx, `
load("math", "math")

def run():
    return math.floor(2.9)
`, nil)
		if !res.Success {
			t.Fatalf("got %q", res.Error)
		}
		if res.Result != int64(2) {
			t.Fatalf("got %#v", res.Result)
		}
	})

	t.Run("builtin helpers", func(t *testing.T) {
		res := executor.Execute(ctx, `
def run():
    xs = [3, 1, 2]
    xs.append(4)
    return [len(xs), sorted(xs), " ".join(["a", "b"]).upper()]
`, nil)
		if !res.Success {
			t.Fatalf("got %q", res.Error)
		}
		expected := []any{
			int64(4),
			[]any{int64(1), int64(2), int64(3), int64(4)},
			"A B",
		}
		if !reflect.DeepEqual(res.Result, expected) {
			t.Fatalf("got %#v", res.Result)
		}
	})
}

func TestTimeout(t *testing.T) {
	executor := testExecutor(100 * time.Millisecond)
	ctx := context.Background()

	begin := time.Now()
	res := executor.Execute(ctx, `
def run():
    while True:
        pass
`, nil)
	elapsed := time.Since(begin)

	if res.Success {
		t.Fatal("should fail")
	}
	if !strings.Contains(res.Error, "timed out") {
		t.Fatalf("got %q", res.Error)
	}
	if elapsed > 5*time.Second {
		t.Fatalf("took %v", elapsed)
	}

	// a plain runtime fault does not report as a timeout
	res = executor.Execute(ctx, "def run():\n    return 1 // 0\n", nil)
	if res.Success || strings.Contains(res.Error, "timed out") {
		t.Fatalf("got %v %q", res.Success, res.Error)
	}
}

func TestExecuteWithWallet(t *testing.T) {
	executor := testExecutor(time.Second)
	ctx := context.Background()

	newLedger := func() *ledgers.Ledger {
		ledger := ledgers.NewLedger()
		ledger.CreatePrincipal("c", 100, 0)
		ledger.CreatePrincipal("rich", 100000, 0)
		return ledger
	}

	t.Run("pay debits own balance only", func(t *testing.T) {
		ledger := newLedger()
		res := executor.ExecuteWithWallet(ctx, `
def run(recipient):
    pay(recipient, 50)
    return get_balance()
`, []any{"alice"}, "c", ledger)
		if !res.Success {
			t.Fatalf("got %q", res.Error)
		}
		if res.Result != int64(50) {
			t.Fatalf("got %#v", res.Result)
		}
		if n := ledger.GetScrip("c"); n != 50 {
			t.Fatalf("got %v", n)
		}
		if n := ledger.GetScrip("alice"); n != 50 {
			t.Fatalf("got %v", n)
		}
		if n := ledger.GetScrip("rich"); n != 100000 {
			t.Fatalf("got %v", n)
		}
	})

	t.Run("sequential pays compose", func(t *testing.T) {
		ledger := newLedger()
		res := executor.ExecuteWithWallet(ctx, `
def run():
    pay("a", 30)
    pay("b", 30)
    pay("c2", 30)
    return get_balance()
`, nil, "c", ledger)
		if !res.Success {
			t.Fatalf("got %q", res.Error)
		}
		if res.Result != int64(10) {
			t.Fatalf("got %#v", res.Result)
		}
	})

	t.Run("over-limit pay fails without mutation", func(t *testing.T) {
		ledger := newLedger()
		res := executor.ExecuteWithWallet(ctx, `
def run():
    pay("alice", 500)
`, nil, "c", ledger)
		if res.Success {
			t.Fatal("should fail")
		}
		if !strings.Contains(res.Error, "insufficient balance") {
			t.Fatalf("got %q", res.Error)
		}
		if n := ledger.GetScrip("c"); n != 100 {
			t.Fatalf("got %v", n)
		}
		if n := ledger.GetScrip("alice"); n != 0 {
			t.Fatalf("got %v", n)
		}
	})

	t.Run("non-positive amounts rejected", func(t *testing.T) {
		ledger := newLedger()
		for _, amount := range []string{"0", "-5"} {
			res := executor.ExecuteWithWallet(ctx,
				"def run():\n    pay(\"alice\", "+amount+")\n",
				nil, "c", ledger)
			if res.Success {
				t.Fatal("should fail")
			}
			if !strings.Contains(res.Error, "must be positive") {
				t.Fatalf("got %q", res.Error)
			}
		}
		if n := ledger.GetScrip("c"); n != 100 {
			t.Fatalf("got %v", n)
		}
	})

	t.Run("pay creates absent recipients", func(t *testing.T) {
		ledger := newLedger()
		res := executor.ExecuteWithWallet(ctx, `
def run():
    pay("newcomer", 10)
    return get_balance()
`, nil, "c", ledger)
		if !res.Success {
			t.Fatalf("got %q", res.Error)
		}
		if n := ledger.GetScrip("newcomer"); n != 10 {
			t.Fatalf("got %v", n)
		}
	})

	t.Run("rich target is untouchable", func(t *testing.T) {
		ledger := newLedger()
		// whatever the code does, only c's balance can shrink
		res := executor.ExecuteWithWallet(ctx, `
def run():
    pay("rich", 100)
    return get_balance()
`, nil, "c", ledger)
		if !res.Success {
			t.Fatalf("got %q", res.Error)
		}
		if n := ledger.GetScrip("rich"); n != 100100 {
			t.Fatalf("got %v", n)
		}
		if n := ledger.GetScrip("c"); n != 0 {
			t.Fatalf("got %v", n)
		}
	})

	t.Run("undefined without wallet context", func(t *testing.T) {
		code := "def run():\n    return pay(\"a\", 1)\n"

		plain := executor.Execute(ctx, code, nil)
		if plain.Success {
			t.Fatal("should fail")
		}
		if !strings.Contains(plain.Error, "undefined: pay") {
			t.Fatalf("got %q", plain.Error)
		}

		// same failure shape with a wallet-less ExecuteWithWallet
		detached := executor.ExecuteWithWallet(ctx, code, nil, "", nil)
		if detached.Success {
			t.Fatal("should fail")
		}
		if detached.Error != plain.Error {
			t.Fatalf("got %q vs %q", detached.Error, plain.Error)
		}
	})
}
