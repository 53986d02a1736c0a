// Package evaluator runs compiled formula expressions.
//
// Every successful CompilationResult carries an executable form next to
// its generated Go source. The evaluator executes it against an
// environment that supplies the values of the referenced variables.
//
// # Example
//
//	res := c.Compile("premium * rate")
//	ev := evaluator.New(evaluator.WithTimeout(time.Second))
//	v, err := ev.Eval(ctx, res, evaluator.MapEnv{
//	    "premium": values.MoneyOf("10.00EUR"),
//	    "rate":    values.DecimalOf("0.5"),
//	})
//
// # Concurrency
//
// An Evaluator is safe for concurrent use. EvalMany evaluates one result
// against many environments in parallel.
//
//	results, err := ev.EvalMany(ctx, res, envs)
package evaluator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/faktorips/fl/pkg/types"
)

// ErrNotExecutable is returned for failed results and results without an
// executable form.
var ErrNotExecutable = errors.New("expression is not executable")

// Evaluator evaluates compiled expressions.
type Evaluator struct {
	opts   EvalOptions
	logger *slog.Logger
}

// EvalOptions configures evaluator behavior.
type EvalOptions struct {
	// Timeout bounds a single evaluation. Zero disables it.
	Timeout time.Duration
	// Concurrency limits the goroutines used by EvalMany.
	// Defaults to GOMAXPROCS.
	Concurrency int
	// Logger for structured logging.
	Logger *slog.Logger
}

// EvalOption configures evaluation behavior.
type EvalOption func(*EvalOptions)

// New creates a new Evaluator with default options.
func New(opts ...EvalOption) *Evaluator {
	options := EvalOptions{
		Timeout:     30 * time.Second,
		Concurrency: runtime.GOMAXPROCS(0),
	}

	for _, opt := range opts {
		opt(&options)
	}

	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	if options.Concurrency <= 0 {
		options.Concurrency = 1
	}

	return &Evaluator{
		opts:   options,
		logger: options.Logger,
	}
}

// WithTimeout sets the evaluation timeout.
func WithTimeout(timeout time.Duration) EvalOption {
	return func(opts *EvalOptions) {
		opts.Timeout = timeout
	}
}

// WithConcurrency sets the number of parallel evaluations of EvalMany.
func WithConcurrency(n int) EvalOption {
	return func(opts *EvalOptions) {
		opts.Concurrency = n
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) EvalOption {
	return func(opts *EvalOptions) {
		opts.Logger = logger
	}
}

// Eval executes res against env. The result is a runtime value of the
// package values, or nil for null.
func (e *Evaluator) Eval(ctx context.Context, res *types.CompilationResult, env types.Env) (v any, err error) {
	if res == nil || res.Failed() || res.Code() == nil || res.Code().Exec() == nil {
		if res != nil && res.Failed() {
			return nil, fmt.Errorf("%w: %w", ErrNotExecutable, res.Messages().Err())
		}
		return nil, ErrNotExecutable
	}

	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			v, err = nil, fmt.Errorf("evaluation panicked: %v", r)
		}
	}()

	v, err = res.Code().Exec()(ctx, env)
	if err != nil {
		e.logger.Debug("evaluation failed", "source", res.Code().Source(), "error", err)
		return nil, err
	}
	e.logger.Debug("evaluated", "source", res.Code().Source(), "datatype", res.Datatype().Name())
	return v, nil
}

// EvalMany evaluates res against every environment. Results keep the
// order of envs; the first error cancels the remaining evaluations.
func (e *Evaluator) EvalMany(ctx context.Context, res *types.CompilationResult, envs []types.Env) ([]any, error) {
	out := make([]any, len(envs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Concurrency)
	for i, env := range envs {
		i, env := i, env
		g.Go(func() error {
			v, err := e.Eval(ctx, res, env)
			if err != nil {
				return fmt.Errorf("environment %d: %w", i, err)
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
