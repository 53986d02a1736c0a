// Command flc compiles formula language expressions.
//
// Every expression is compiled and printed with its datatype and the
// generated Go source. Compilation messages go to stderr; the exit code
// is 1 if any expression failed.
//
// Usage:
//
//	flc [-locale de] [-env env.yaml] [-eval] [-boxed] expr...
//	flc -batch expressions.txt
//	flc -env env.yaml -stream values.yaml expr
//
// With -eval each expression is evaluated against the values of the
// environment file. -stream evaluates a single expression against every
// YAML document of a values file. -batch reads one expression per line
// and compiles them concurrently.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"github.com/faktorips/fl"
	"github.com/faktorips/fl/pkg/compiler"
	"github.com/faktorips/fl/pkg/evaluator"
	"github.com/faktorips/fl/pkg/types"
)

type config struct {
	locale  string
	env     string
	eval    bool
	boxed   bool
	batch   string
	stream  string
	timeout time.Duration
	verbose bool
	color   bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg := config{color: isTerminal(stderr)}
	fs := flag.NewFlagSet("flc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.locale, "locale", "en", "language of compilation messages (en, de)")
	fs.StringVar(&cfg.env, "env", "", "YAML file declaring variables, enums and values")
	fs.BoolVar(&cfg.eval, "eval", false, "evaluate expressions against the environment values")
	fs.BoolVar(&cfg.boxed, "boxed", false, "convert primitive results to their boxed datatype")
	fs.StringVar(&cfg.batch, "batch", "", "file with one expression per line")
	fs.StringVar(&cfg.stream, "stream", "", "YAML file with one values document per evaluation")
	fs.DurationVar(&cfg.timeout, "timeout", 10*time.Second, "evaluation timeout")
	fs.BoolVar(&cfg.verbose, "v", false, "log compiler states")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	exprs := fs.Args()
	if cfg.batch != "" {
		lines, err := readLines(cfg.batch)
		if err != nil {
			fmt.Fprintln(stderr, "flc:", err)
			return 2
		}
		exprs = append(exprs, lines...)
	}
	if len(exprs) == 0 {
		fs.Usage()
		return 2
	}

	var env *environment
	if cfg.env != "" {
		var err error
		if env, err = loadEnv(cfg.env); err != nil {
			fmt.Fprintln(stderr, "flc:", err)
			return 2
		}
	}

	tag, err := language.Parse(cfg.locale)
	if err != nil {
		fmt.Fprintln(stderr, "flc:", err)
		return 2
	}
	level := slog.LevelWarn
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	opts := []compiler.Option{
		compiler.WithLocale(tag),
		compiler.WithLogger(logger),
		compiler.WithEnsureResultIsObject(cfg.boxed),
	}
	c := fl.New(append(opts, env.options()...)...)
	ev := evaluator.New(evaluator.WithTimeout(cfg.timeout), evaluator.WithLogger(logger))

	if cfg.stream != "" {
		if len(exprs) != 1 {
			fmt.Fprintln(stderr, "flc: -stream needs exactly one expression")
			return 2
		}
		return stream(c, ev, env, exprs[0], cfg, stdout, stderr)
	}

	results := compileAll(c, exprs)
	failed := false
	for i, res := range results {
		if !report(stdout, stderr, exprs[i], res, cfg.color) {
			failed = true
			continue
		}
		if cfg.eval {
			var values evaluator.MapEnv
			if env != nil {
				values = env.values
			}
			v, err := ev.Eval(context.Background(), res, values)
			if err != nil {
				fmt.Fprintf(stderr, "%s: %v\n", paint(cfg.color, red, "evaluation failed"), err)
				failed = true
				continue
			}
			fmt.Fprintf(stdout, "= %v\n", display(v))
		}
	}
	if failed {
		return 1
	}
	return 0
}

// compileAll compiles exprs concurrently, keeping their order.
func compileAll(c *compiler.Compiler, exprs []string) []*types.CompilationResult {
	results := make([]*types.CompilationResult, len(exprs))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, expr := range exprs {
		i, expr := i, expr
		g.Go(func() error {
			results[i] = c.Compile(expr)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func stream(c *compiler.Compiler, ev *evaluator.Evaluator, env *environment, expr string, cfg config, stdout, stderr io.Writer) int {
	if env == nil {
		fmt.Fprintln(stderr, "flc: -stream needs -env to declare the variables")
		return 2
	}
	res := c.Compile(expr)
	if !report(stdout, stderr, expr, res, cfg.color) {
		return 1
	}
	f, err := os.Open(cfg.stream)
	if err != nil {
		fmt.Fprintln(stderr, "flc:", err)
		return 2
	}
	defer f.Close()

	ch, err := ev.EvalStream(context.Background(), res, env.identifiers, f)
	if err != nil {
		fmt.Fprintln(stderr, "flc:", err)
		return 1
	}
	code := 0
	for r := range ch {
		if r.Err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", paint(cfg.color, red, "evaluation failed"), r.Err)
			code = 1
			continue
		}
		fmt.Fprintf(stdout, "= %v\n", display(r.Value))
	}
	return code
}

// report prints a compilation result and reports whether it succeeded.
func report(stdout, stderr io.Writer, expr string, res *types.CompilationResult, color bool) bool {
	for _, m := range res.Messages().All() {
		label := m.Severity.String()
		if m.Severity == types.SeverityError {
			label = paint(color, red, label)
		} else {
			label = paint(color, yellow, label)
		}
		fmt.Fprintf(stderr, "%s: %s[%s] at %d: %s\n", expr, label, m.Code, m.Position, m.Text)
	}
	if res.Failed() {
		return false
	}
	fmt.Fprintf(stdout, "%s\t%s\t%s\n", expr, res.Datatype().Name(), res.Code().Source())
	return true
}

func display(v any) any {
	if v == nil {
		return "null"
	}
	return v
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, errors.New(path + ": no expressions")
	}
	return lines, nil
}

const (
	red    = "\x1b[31m"
	yellow = "\x1b[33m"
	reset  = "\x1b[0m"
)

func paint(enabled bool, color, s string) string {
	if !enabled {
		return s
	}
	return color + s + reset
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
