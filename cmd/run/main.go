package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/script-bridge/bridge"
	"github.com/wippyai/script-bridge/jsenv"
)

func main() {
	var (
		expr        = flag.String("e", "", "Expression to evaluate")
		file        = flag.String("file", "", "Path to a script file to evaluate")
		initFiles   = flag.String("init", "", "Init scripts run before readiness (comma-separated paths)")
		timeout     = flag.Duration("timeout", 10*time.Second, "Per-evaluation deadline")
		verbose     = flag.Bool("v", false, "Verbose logging")
		interactive = flag.Bool("i", false, "Interactive REPL")
	)
	flag.Parse()

	if *verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer log.Sync()
		bridge.SetLogger(log)
		jsenv.SetLogger(log)
	}

	if !*interactive && *expr == "" && *file == "" {
		fmt.Fprintln(os.Stderr, "Usage: run -e <expr> [-init a.js,b.js] [-timeout 10s]")
		fmt.Fprintln(os.Stderr, "       run -file <script.js>")
		fmt.Fprintln(os.Stderr, "       run -i  (interactive REPL)")
		os.Exit(1)
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(*initFiles, *timeout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*expr, *file, *initFiles, *timeout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(expr, file, initFiles string, timeout time.Duration) error {
	script := expr
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		script = string(data)
	}

	b, env, err := newBridge(initFiles, timeout)
	if err != nil {
		return err
	}
	defer env.Close()
	defer b.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	v, err := b.Evaluate(ctx, script)
	if err != nil {
		return err
	}
	fmt.Printf("%v\n", v)
	return nil
}

// newBridge wires a fresh environment and bridge, loading any init scripts.
func newBridge(initFiles string, timeout time.Duration) (*bridge.Bridge, *jsenv.Env, error) {
	envCfg := jsenv.DefaultConfig()
	if initFiles != "" {
		for _, path := range strings.Split(initFiles, ",") {
			path = strings.TrimSpace(path)
			if path == "" {
				continue
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, nil, fmt.Errorf("read init script: %w", err)
			}
			envCfg.InitScripts = append(envCfg.InitScripts, jsenv.Script{
				Name:   path,
				Source: string(data),
			})
		}
	}

	cfg := bridge.DefaultConfig()
	cfg.EvalTimeout = timeout
	cfg.BlockingTimeout = timeout

	env := jsenv.New(envCfg)
	b := bridge.New(env, cfg)
	env.Start()
	return b, env, nil
}
