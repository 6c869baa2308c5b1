// cmd/cantus/main.go
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"cantus/internal/cantuserr"
	"cantus/internal/evaluator"
)

const version = "0.1.0"

// Command aliases, in the same spirit as the teacher's commandAliases
// map (cmd/sentra/main.go) — short forms for the two operations this
// driver exposes.
var commandAliases = map[string]string{
	"r": "run",
	"e": "eval",
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		showUsage()
		return
	}

	cmd := args[0]
	if alias, ok := commandAliases[cmd]; ok {
		cmd = alias
	}

	switch cmd {
	case "--help", "-h", "help":
		showUsage()
	case "--version", "-v", "version":
		fmt.Printf("cantus %s\n", version)
	case "run":
		runFile(args[1:])
	case "eval":
		evalExpr(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "cantus: unknown command %q\n", args[0])
		showUsage()
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println(`cantus - an interactive arithmetic and scripting language

Usage:
  cantus run <file> [-loop-limit N] [-precision N]
  cantus eval <expr> [-precision N]
  cantus help
  cantus version`)
}

// parseTuningFlags reads the -loop-limit/-precision flags spec.md §1.1
// names, hand-rolled against os.Args the way the teacher's main.go
// dispatches every flag itself rather than importing a flag framework.
func parseTuningFlags(args []string) (positional []string, loopLimit int, precision int) {
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-loop-limit":
			if i+1 < len(args) {
				loopLimit, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "-precision":
			if i+1 < len(args) {
				precision, _ = strconv.Atoi(args[i+1])
				i++
			}
		default:
			positional = append(positional, args[i])
		}
	}
	return positional, loopLimit, precision
}

func runFile(args []string) {
	positional, loopLimit, _ := parseTuningFlags(args)
	if len(positional) == 0 {
		fmt.Fprintln(os.Stderr, "cantus run: no filename provided")
		os.Exit(1)
	}
	filename := positional[0]

	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cantus: could not read %q: %v\n", filename, err)
		os.Exit(1)
	}

	ev := evaluator.New(evaluator.Options{LoopLimit: loopLimit})
	ev.AddModuleSearchPath(dirOf(filename))

	if _, err := ev.Eval(string(source), evaluator.EvalOptions{}); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func evalExpr(args []string) {
	positional, _, _ := parseTuningFlags(args)
	if len(positional) == 0 {
		fmt.Fprintln(os.Stderr, "cantus eval: no expression provided")
		os.Exit(1)
	}
	expr := strings.Join(positional, " ")

	ev := evaluator.New(evaluator.Options{})
	result, err := ev.EvalExprRaw(expr, false)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	fmt.Println(result.Display())
}

func dirOf(filename string) string {
	i := strings.LastIndexByte(filename, '/')
	if i < 0 {
		return "."
	}
	return filename[:i]
}

// printError renders err for a terminal, decorated with ANSI color only
// when stderr is actually a tty (mirrors the teacher's own
// terminal-aware color handling, gated by mattn/go-isatty rather than
// always decorating).
func printError(err error) {
	ce, _ := cantuserr.As(err)
	msg := err.Error()
	if ce != nil {
		msg = ce.Error()
	}
	if isatty.IsTerminal(os.Stderr.Fd()) {
		fmt.Fprintf(os.Stderr, "\x1b[31m%s\x1b[0m\n", msg)
	} else {
		fmt.Fprintf(os.Stderr, "%s\n", msg)
	}
}
