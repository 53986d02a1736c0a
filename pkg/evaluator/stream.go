package evaluator

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/faktorips/fl/pkg/types"
)

// StreamResult holds the output of a single streaming evaluation step.
type StreamResult struct {
	// Value is the evaluated result for one environment document, or nil when Err is set.
	Value any
	// Err is non-nil when binding or evaluating a single document failed.
	Err error
}

// EvalStream reads a sequence of YAML documents from r, each a mapping of
// variable names to values, binds them with schema and evaluates res
// against each one, sending results on the returned channel.
//
// The channel is closed when all input has been consumed or the context is
// cancelled. A decode error is sent as a StreamResult with a non-nil Err
// and then the channel is closed. Per-document binding and evaluation
// errors are sent individually and the stream continues.
//
// It is the caller's responsibility to drain the channel or cancel the
// context to avoid goroutine leaks.
func (e *Evaluator) EvalStream(ctx context.Context, res *types.CompilationResult, schema Schema, r io.Reader) (<-chan StreamResult, error) {
	if res == nil || res.Failed() {
		return nil, ErrNotExecutable
	}

	ch := make(chan StreamResult, 16)

	go func() {
		defer close(ch)

		dec := yaml.NewDecoder(r)
		for doc := 0; ; doc++ {
			select {
			case <-ctx.Done():
				ch <- StreamResult{Err: ctx.Err()}
				return
			default:
			}

			var raw map[string]any
			if err := dec.Decode(&raw); err != nil {
				if errors.Is(err, io.EOF) {
					return
				}
				ch <- StreamResult{Err: fmt.Errorf("document %d: %w", doc, err)}
				return
			}

			env, err := Bind(raw, schema)
			if err != nil {
				ch <- StreamResult{Err: fmt.Errorf("document %d: %w", doc, err)}
				continue
			}
			v, err := e.Eval(ctx, res, env)
			select {
			case ch <- StreamResult{Value: v, Err: err}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}
