// cmd/jpamb-analyzer is the CLI front end for the abstract-
// interpretation core. Ancestor: sentra's cmd/sentra/main.go — a flat
// os.Args switch over a handful of subcommands, no flag-parsing
// library, errors reported with log.Fatalf. Configuration loading and
// general-purpose command-line parsing are out of scope per spec.md
// §1; this file is the minimal glue a harness needs to drive the core
// and is deliberately not a general framework.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/Edvold/jpamb-analyzer/internal/bytecode"
	"github.com/Edvold/jpamb-analyzer/internal/domain"
	"github.com/Edvold/jpamb-analyzer/internal/engine"
	"github.com/Edvold/jpamb-analyzer/internal/liveserver"
	"github.com/Edvold/jpamb-analyzer/internal/policy"
	"github.com/Edvold/jpamb-analyzer/internal/report"
	"github.com/Edvold/jpamb-analyzer/internal/sign"
	"github.com/Edvold/jpamb-analyzer/internal/taint"
)

const version = "0.1.0"

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		showUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "--help", "-h", "help":
		showUsage()
	case "--version", "-v", "version":
		fmt.Println(version)
	case "info":
		showInfo()
	case "run":
		if err := runCommand(args[1:], nil); err != nil {
			log.Fatalf("jpamb-analyzer: %v", err)
		}
	case "watch":
		if err := watchCommand(args[1:]); err != nil {
			log.Fatalf("jpamb-analyzer: %v", err)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", args[0])
		showUsage()
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println(`jpamb-analyzer - abstract-interpretation static analyzer

Usage:
  jpamb-analyzer info
  jpamb-analyzer run --mode=sign|taint --fixture=path.json [--budget=N] [--db-engine=E --db-dsn=DSN]
  jpamb-analyzer watch --mode=sign|taint --fixture=path.json --addr=:8089

Commands:
  info     print the analyzer's identity banner
  run      analyze one method fixture and print the report
  watch    like run, but also streams worklist progress over a websocket`)
}

// showInfo prints the fixed five-line banner the original jpamb
// tooling's "info" sub-command used (SPEC_FULL.md §4): name, version,
// author, capability tags, and whether the harness needs to supply
// system info. This repo's analyzer only ever reports sign/taint
// analysis capability tags; "needs system info" is always false since
// the core makes no host-environment assumptions (spec.md §5).
func showInfo() {
	fmt.Println("jpamb-analyzer")
	fmt.Println(version)
	fmt.Println("unknown")
	fmt.Println("sign,taint")
	fmt.Println("false")
}

// config is the CLI's own flag struct, built once per invocation
// (SPEC_FULL.md §2 "Configuration") rather than read from package
// globals — the same shape as sentra's commands.BuildCommand(args
// []string) building one local options struct.
type config struct {
	mode     string
	fixture  string
	budget   int
	dbEngine string
	dbDSN    string
	addr     string
}

func parseFlags(args []string) (config, error) {
	cfg := config{mode: "sign", addr: ":8089"}
	for _, a := range args {
		switch {
		case hasPrefix(a, "--mode="):
			cfg.mode = a[len("--mode="):]
		case hasPrefix(a, "--fixture="):
			cfg.fixture = a[len("--fixture="):]
		case hasPrefix(a, "--budget="):
			n, err := parseInt(a[len("--budget="):])
			if err != nil {
				return cfg, fmt.Errorf("--budget: %w", err)
			}
			cfg.budget = n
		case hasPrefix(a, "--db-engine="):
			cfg.dbEngine = a[len("--db-engine="):]
		case hasPrefix(a, "--db-dsn="):
			cfg.dbDSN = a[len("--db-dsn="):]
		case hasPrefix(a, "--addr="):
			cfg.addr = a[len("--addr="):]
		default:
			return cfg, fmt.Errorf("unrecognized flag %q", a)
		}
	}
	if cfg.fixture == "" {
		return cfg, fmt.Errorf("--fixture is required")
	}
	if cfg.mode != "sign" && cfg.mode != "taint" {
		return cfg, engine.ModeError(cfg.mode)
	}
	return cfg, nil
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

func parseInt(s string) (int, error) {
	var n int
	_, err := fmt.Sscanf(s, "%d", &n)
	return n, err
}

func buildPolicy(cfg config) (policy.Policy, error) {
	base := policy.Default()
	if cfg.dbEngine == "" {
		return base, nil
	}
	store, err := policy.Open(cfg.dbEngine, cfg.dbDSN)
	if err != nil {
		return base, fmt.Errorf("policy store: %w", err)
	}
	defer store.Close()
	return store.LoadInto(base)
}

// runCommand loads the fixture, runs the engine to a fixed point, and
// writes the report to stdout. onRound, when non-nil, is threaded
// straight into engine.Run for the watch command.
func runCommand(args []string, onRound func(engine.Progress)) error {
	cfg, err := parseFlags(args)
	if err != nil {
		return err
	}

	method, ops, inputs, err := loadFixture(cfg.fixture)
	if err != nil {
		return err
	}
	loader := bytecode.NewLoader(bytecode.InMemory(map[bytecode.MethodID][]bytecode.Opcode{method: ops}))
	runCfg := engine.NewConfig(cfg.mode, cfg.budget)

	logger := log.New(os.Stderr, "", log.LstdFlags)

	switch cfg.mode {
	case "sign":
		res, err := engine.Run[sign.Set](domain.Sign{}, loader, method, inputs, runCfg, onRound)
		if err != nil {
			return err
		}
		logger.Printf("run %s: %d rounds, %d points", res.RunID, res.Rounds, len(res.Seen))
		return report.Write(os.Stdout, domain.Sign{}, res.Seen, res.BudgetExhausted)

	case "taint":
		pol, err := buildPolicy(cfg)
		if err != nil {
			return err
		}
		d := domain.Taint{Policy: pol}
		res, err := engine.Run[taint.Value](d, loader, method, inputs, runCfg, onRound)
		if err != nil {
			return err
		}
		logger.Printf("run %s: %d rounds, %d points", res.RunID, res.Rounds, len(res.Seen))
		return report.Write(os.Stdout, d, res.Seen, res.BudgetExhausted)

	default:
		return engine.ModeError(cfg.mode)
	}
}

// watchCommand runs the same analysis as run but also serves a
// websocket endpoint streaming each round's progress, adapted from
// sentra's WatchCommand (cmd/sentra/commands/build.go) which re-runs a
// build on file-change events; here there is a single run, and what is
// streamed is worklist progress rather than rebuild triggers.
func watchCommand(args []string) error {
	cfg, err := parseFlags(args)
	if err != nil {
		return err
	}

	srv := liveserver.New()
	mux := http.NewServeMux()
	mux.Handle("/progress", srv.Handler())
	httpSrv := &http.Server{Addr: cfg.addr, Handler: mux}

	go func() {
		log.Printf("jpamb-analyzer: watch run %s listening on %s/progress", uuid.New(), cfg.addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("jpamb-analyzer: watch server: %v", err)
		}
	}()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		httpSrv.Shutdown(ctx)
	}()

	return runCommand(args, srv.OnRound)
}
