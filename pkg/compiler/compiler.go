// Package compiler turns formula expressions into typed, executable
// compilation results.
//
// A Compiler is configured once with function resolvers, operations,
// conversions and an identifier resolver, and can then compile any number
// of expressions. Compile never panics and never returns an error:
// every failure is reported as a message inside a failed
// *types.CompilationResult.
//
// # Example
//
//	c := compiler.New(
//	    compiler.WithFunctionResolver(extexcel.Namespace()),
//	    compiler.WithIdentifierResolver(compiler.NewTableResolver().
//	        Variable("premium", types.Money)),
//	)
//	res := c.Compile("ROUND(premium * 1.19; 2)")
//	if res.Failed() {
//	    log.Fatal(res.Messages())
//	}
//
// # Concurrency
//
// Compile may be called from multiple goroutines at once. The configuration
// methods (AddFunctionResolver, RegisterBinary, SetLocale, ...) must not be
// called while a compilation is in progress.
//
// Resolvers implementing Versioned may change after registration, even
// concurrently with Compile: the compiler compares their versions on every
// call and recollects functions and drops cached results when one moved.
// Changes to other resolvers take effect after Refresh.
package compiler

import (
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"

	"golang.org/x/text/language"

	"github.com/faktorips/fl/pkg/builtin"
	"github.com/faktorips/fl/pkg/cache"
	"github.com/faktorips/fl/pkg/functions"
	"github.com/faktorips/fl/pkg/operations"
	"github.com/faktorips/fl/pkg/types"
)

// Compiler compiles formula expressions.
type Compiler struct {
	opts   Options
	logger *slog.Logger
	cache  *cache.Cache // non-nil when caching is enabled

	mu    sync.Mutex // serializes snapshot rebuilds
	snap  atomic.Pointer[snapshot]
	epoch atomic.Uint64
}

// Versioned is implemented by resolvers whose contents can change after
// they were handed to a Compiler. Version must return a different value
// after every change.
type Versioned interface {
	Version() uint64
}

// snapshot is the derived state of one configuration.
type snapshot struct {
	epoch     uint64
	versions  []uint64
	functions []functions.FlFunction
	ambiguous []functions.FlFunction
}

// Options configures a Compiler.
type Options struct {
	// Locale selects the language of message texts. Defaults to English.
	Locale language.Tag
	// Logger for structured logging. Defaults to slog.Default().
	Logger *slog.Logger
	// Resolvers are searched for functions in registration order.
	Resolvers []functions.Resolver
	// Operations holds the binary and unary operations.
	// Defaults to builtin.Operations().
	Operations *operations.Table
	// Conversions holds the implicit conversions.
	// Defaults to builtin.Conversions().
	Conversions *operations.ConversionTable
	// Identifiers resolves identifiers. Without one, every identifier
	// is undefined.
	Identifiers IdentifierResolver
	// EnsureResultIsObject converts a primitive result to its boxed datatype.
	EnsureResultIsObject bool
	// CacheSize enables result caching when greater than zero.
	CacheSize int
	// MaxDepth limits the nesting depth of parsed expressions.
	MaxDepth int
}

// Option configures a Compiler.
type Option func(*Options)

// New creates a Compiler. Unless overridden, it uses the builtin
// operations and conversions and no functions.
func New(opts ...Option) *Compiler {
	options := Options{
		Locale:   language.English,
		MaxDepth: 100,
	}
	for _, opt := range opts {
		opt(&options)
	}

	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	if options.Operations == nil {
		options.Operations = builtin.Operations()
	}
	if options.Conversions == nil {
		options.Conversions = builtin.Conversions()
	}

	c := &Compiler{
		opts:   options,
		logger: options.Logger,
	}
	if options.CacheSize > 0 {
		c.cache = cache.New(options.CacheSize)
	}
	c.changed()
	return c
}

// WithLocale sets the locale of message texts.
func WithLocale(tag language.Tag) Option {
	return func(opts *Options) {
		opts.Locale = tag
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// WithFunctionResolver appends function resolvers.
func WithFunctionResolver(resolvers ...functions.Resolver) Option {
	return func(opts *Options) {
		opts.Resolvers = append(opts.Resolvers, resolvers...)
	}
}

// WithOperations replaces the operation table.
func WithOperations(t *operations.Table) Option {
	return func(opts *Options) {
		opts.Operations = t
	}
}

// WithConversions replaces the conversion table.
func WithConversions(t *operations.ConversionTable) Option {
	return func(opts *Options) {
		opts.Conversions = t
	}
}

// WithIdentifierResolver sets the identifier resolver.
func WithIdentifierResolver(r IdentifierResolver) Option {
	return func(opts *Options) {
		opts.Identifiers = r
	}
}

// WithEnsureResultIsObject enables or disables boxing of primitive results.
func WithEnsureResultIsObject(enabled bool) Option {
	return func(opts *Options) {
		opts.EnsureResultIsObject = enabled
	}
}

// WithCaching enables an LRU cache of compilation results holding up to
// size entries. The cache is cleared whenever the configuration changes.
func WithCaching(size int) Option {
	return func(opts *Options) {
		opts.CacheSize = size
	}
}

// WithMaxDepth sets the maximum nesting depth of parsed expressions.
func WithMaxDepth(depth int) Option {
	return func(opts *Options) {
		opts.MaxDepth = depth
	}
}

// Locale returns the locale of message texts.
func (c *Compiler) Locale() language.Tag {
	return c.opts.Locale
}

// SetLocale changes the locale of message texts.
func (c *Compiler) SetLocale(tag language.Tag) {
	c.opts.Locale = tag
	c.changed()
}

// AddFunctionResolver appends a function resolver. Later additions to a
// Versioned resolver such as functions.Namespace are picked up by the next
// Compile; for other resolvers call Refresh.
func (c *Compiler) AddFunctionResolver(r functions.Resolver) {
	c.opts.Resolvers = append(c.opts.Resolvers, r)
	c.changed()
}

// RemoveFunctionResolver removes a previously added function resolver.
func (c *Compiler) RemoveFunctionResolver(r functions.Resolver) {
	c.opts.Resolvers = slices.DeleteFunc(c.opts.Resolvers, func(x functions.Resolver) bool {
		return x == r
	})
	c.changed()
}

// FunctionResolvers returns the registered function resolvers.
func (c *Compiler) FunctionResolvers() []functions.Resolver {
	return slices.Clone(c.opts.Resolvers)
}

// SetIdentifierResolver replaces the identifier resolver.
func (c *Compiler) SetIdentifierResolver(r IdentifierResolver) {
	c.opts.Identifiers = r
	c.changed()
}

// IdentifierResolver returns the identifier resolver, or nil.
func (c *Compiler) IdentifierResolver() IdentifierResolver {
	return c.opts.Identifiers
}

// SetEnsureResultIsObject enables or disables boxing of primitive results.
func (c *Compiler) SetEnsureResultIsObject(enabled bool) {
	c.opts.EnsureResultIsObject = enabled
	c.changed()
}

// RegisterBinary adds binary operations.
func (c *Compiler) RegisterBinary(ops ...operations.BinaryOperation) {
	c.opts.Operations.AddBinary(ops...)
	c.changed()
}

// RegisterUnary adds unary operations.
func (c *Compiler) RegisterUnary(ops ...operations.UnaryOperation) {
	c.opts.Operations.AddUnary(ops...)
	c.changed()
}

// RegisterConversion adds or replaces the implicit conversion from -> to.
func (c *Compiler) RegisterConversion(from, to *types.Datatype, gen operations.ConversionGenerator) {
	c.opts.Conversions.Register(from, to, gen)
	c.changed()
}

// Conversions returns the conversion table, which also serves as the
// argument converter of functions.
func (c *Compiler) Conversions() *operations.ConversionTable {
	return c.opts.Conversions
}

// Functions returns the functions of all resolvers in search order.
func (c *Compiler) Functions() []functions.FlFunction {
	return slices.Clone(c.current().functions)
}

// AmbiguousFunctions returns the registered functions that conflict with
// another registered function of the same name.
func (c *Compiler) AmbiguousFunctions() []functions.FlFunction {
	return slices.Clone(c.current().ambiguous)
}

// Cache returns the result cache, or nil if caching is disabled.
func (c *Compiler) Cache() *cache.Cache {
	return c.cache
}

// Refresh recollects the functions of all resolvers and drops cached
// results. It is needed after changing a resolver that does not implement
// Versioned.
func (c *Compiler) Refresh() {
	c.changed()
}

// changed refreshes derived state after a configuration change.
func (c *Compiler) changed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rebuild(c.versions())
}

// current returns the snapshot of the configuration, rebuilding it when a
// Versioned resolver has changed since it was taken.
func (c *Compiler) current() *snapshot {
	s := c.snap.Load()
	if slices.Equal(s.versions, c.versions()) {
		return s
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	versions := c.versions()
	if s = c.snap.Load(); slices.Equal(s.versions, versions) {
		return s
	}
	c.logger.Debug("resolver changed, refreshing")
	return c.rebuild(versions)
}

// rebuild must be called with c.mu held.
func (c *Compiler) rebuild(versions []uint64) *snapshot {
	fns := functions.Collect(c.opts.Resolvers...)
	s := &snapshot{
		epoch:     c.epoch.Add(1),
		versions:  versions,
		functions: fns,
		ambiguous: functions.Ambiguous(fns),
	}
	if len(s.ambiguous) > 0 {
		c.logger.Debug("ambiguous functions registered", "count", len(s.ambiguous))
	}
	c.snap.Store(s)
	if c.cache != nil {
		c.cache.Clear()
	}
	return s
}

// versions lists the versions of all Versioned resolvers, the identifier
// resolver last. Unversioned resolvers count as version 0.
func (c *Compiler) versions() []uint64 {
	out := make([]uint64, 0, len(c.opts.Resolvers)+1)
	for _, r := range c.opts.Resolvers {
		out = append(out, versionOf(r))
	}
	return append(out, versionOf(c.opts.Identifiers))
}

func versionOf(r any) uint64 {
	if v, ok := r.(Versioned); ok {
		return v.Version()
	}
	return 0
}

// cacheKey scopes cached results to the snapshot they were compiled
// against, so a compilation that straddles a rebuild never serves stale
// results.
func cacheKey(s *snapshot, expr string) string {
	return strconv.FormatUint(s.epoch, 10) + "\x00" + expr
}
