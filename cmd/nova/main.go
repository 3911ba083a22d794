package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"golang.org/x/sync/errgroup"

	nova "github.com/xirelogy/go-nova"
	"github.com/xirelogy/go-nova/internal/lexer"
	"github.com/xirelogy/go-nova/internal/parser"
)

const cliToolVersion = "nova 0.1.0-dev"

const (
	ansiRed   = "\x1b[31m"
	ansiReset = "\x1b[0m"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return 1
	}

	switch args[0] {
	case "--help", "-h", "help":
		printUsage(stdout)
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(stdout, cliToolVersion)
		return 0
	case "run":
		return runScript(args[1:], stdout, stderr)
	case "check":
		return runCheck(args[1:], stdout, stderr)
	case "tokens":
		return runTokens(args[1:], stdout, stderr)
	case "disasm":
		return runDisasm(args[1:], stdout, stderr)
	case "llvm":
		return runLLVM(args[1:], stdout, stderr)
	default:
		return runScript(args, stdout, stderr)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `usage: nova <command> [arguments]

commands:
  run [-config file] <script>   run a script (default command)
  check <script>...             parse scripts and report syntax errors
  tokens <script>               print the token stream of a script
  disasm <expression>           compile an arithmetic expression and list its bytecode
  llvm [-name fn] <expression>  lower an arithmetic expression to LLVM IR`)
}

type console struct {
	w     io.Writer
	color bool
}

func newConsole(w io.Writer, mode string) *console {
	c := &console{w: w}
	switch mode {
	case "always":
		c.color = true
	case "never":
	default:
		if f, ok := w.(*os.File); ok {
			c.color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
	}
	return c
}

func (c *console) errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if c.color {
		msg = ansiRed + msg + ansiReset
	}
	fmt.Fprintln(c.w, msg)
}

func (c *console) reportError(err error) {
	c.errorf("error: %v", err)
	var rerr *nova.RuntimeError
	if errors.As(err, &rerr) {
		fmt.Fprint(c.w, rerr.Trace())
	}
}

func loadConfig(fs billy.Filesystem, path string) (nova.Config, error) {
	if path == "" {
		return nova.DefaultConfig(), nil
	}
	return nova.LoadConfigFile(fs, path)
}

func newLogger(w io.Writer, cfg nova.Config) *slog.Logger {
	level, err := cfg.SlogLevel()
	if err != nil {
		level = slog.LevelWarn
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With("run", uuid.NewString())
}

func runScript(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("run", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "YAML configuration file")
	if err := flags.Parse(args); err != nil {
		return 2
	}
	if flags.NArg() != 1 {
		fmt.Fprintln(stderr, "nova run requires exactly one script")
		return 2
	}

	fs := osfs.New(".")
	cfg, err := loadConfig(fs, *configPath)
	if err != nil {
		newConsole(stderr, "auto").reportError(err)
		return 1
	}
	con := newConsole(stderr, cfg.Color)

	in := nova.NewInterpreter()
	in.SetFilesystem(fs)
	if err := in.ApplyConfig(cfg); err != nil {
		con.reportError(err)
		return 1
	}
	in.SetOutput(stdout)
	logger := newLogger(stderr, cfg)
	in.SetLogger(logger)

	script := flags.Arg(0)
	logger.Debug("running script", "path", script)
	res, err := in.RunFile(script)
	if err != nil {
		con.reportError(err)
		return 1
	}
	if res.Exited {
		return res.ExitCode
	}
	return 0
}

// runCheck parses every script concurrently and reports all syntax errors.
func runCheck(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "nova check requires at least one script")
		return 2
	}
	fs := osfs.New(".")
	con := newConsole(stderr, "auto")

	results := make([]error, len(args))
	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(8)
	for i, path := range args {
		g.Go(func() error {
			data, err := util.ReadFile(fs, path)
			if err != nil {
				results[i] = err
				return nil
			}
			_, results[i] = parser.Parse(path, string(data))
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for i, err := range results {
		if err != nil {
			failed++
			con.errorf("%s: %v", args[i], err)
			continue
		}
		fmt.Fprintf(stdout, "%s: ok\n", args[i])
	}
	if failed > 0 {
		return 1
	}
	return 0
}

func runTokens(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "nova tokens requires exactly one script")
		return 2
	}
	data, err := util.ReadFile(osfs.New("."), args[0])
	if err != nil {
		newConsole(stderr, "auto").reportError(err)
		return 1
	}
	toks, err := lexer.Scan(args[0], string(data))
	for _, tok := range toks {
		fmt.Fprintf(stdout, "%d:%d\t%s\t%q\n", tok.Pos.Line, tok.Pos.Column, tok.Type, tok.Literal)
	}
	if err != nil {
		newConsole(stderr, "auto").reportError(err)
		return 1
	}
	return 0
}

func runDisasm(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "nova disasm requires an expression")
		return 2
	}
	chunk, err := nova.CompileExpression("expr", strings.Join(args, " "))
	if err != nil {
		newConsole(stderr, "auto").reportError(err)
		return 1
	}
	if err := chunk.Disassemble(stdout); err != nil {
		newConsole(stderr, "auto").reportError(err)
		return 1
	}
	v, err := chunk.Run(nova.DefaultConfig(), nil)
	if err != nil {
		newConsole(stderr, "auto").reportError(err)
		return 1
	}
	fmt.Fprintf(stdout, "result: %s\n", v.Text())
	return 0
}

func runLLVM(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("llvm", flag.ContinueOnError)
	flags.SetOutput(stderr)
	name := flags.String("name", "expr", "name of the emitted function")
	if err := flags.Parse(args); err != nil {
		return 2
	}
	if flags.NArg() == 0 {
		fmt.Fprintln(stderr, "nova llvm requires an expression")
		return 2
	}
	chunk, err := nova.CompileExpression("expr", strings.Join(flags.Args(), " "))
	if err != nil {
		newConsole(stderr, "auto").reportError(err)
		return 1
	}
	ir, err := chunk.EmitLLVM(*name)
	if err != nil {
		newConsole(stderr, "auto").reportError(err)
		return 1
	}
	fmt.Fprint(stdout, ir)
	return 0
}
