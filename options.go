package csgcore

// Option configures a Config during creation.
// Use functional options to customize evaluation behavior.
//
// Example:
//
//	cfg := csgcore.NewConfig(
//		csgcore.WithParallel(true),
//		csgcore.WithFragments(0, 2, 12),
//	)
type Option func(*Config)

// Config holds the evaluator options listed in the Configuration table:
// cache budgets, curve discretization parameters, parallel mode, the
// CSG-normalizer term limit, and the lazy-union root behavior.
type Config struct {
	// KernelCacheBytes is the kernel-cache byte budget.
	KernelCacheBytes int64
	// GeometryCacheBytes is the geometry-cache byte budget.
	GeometryCacheBytes int64

	// Fa is the minimum angle per fragment, in degrees.
	Fa float64
	// Fs is the minimum fragment length.
	Fs float64
	// Fn is a forced fragment count (0 disables the override).
	Fn int

	// Parallel enables parallel postfix traversal.
	Parallel bool

	// TermLimit caps the CSG-normalizer product count before falling
	// back to an un-normalized (correct, suboptimal) grouping. Zero
	// means unlimited.
	TermLimit int

	// LazyUnion is the lazy-union root setting. It is stored and
	// round-tripped through ConfigFile, but the evaluator does not read
	// it: the root is always evaluated as a union of its children.
	LazyUnion bool
}

const (
	// defaultKernelCacheBytes is 100 MiB, the default kernel-cache budget.
	defaultKernelCacheBytes = 100 * 1024 * 1024
	// defaultGeometryCacheBytes is the default geometry-cache budget.
	defaultGeometryCacheBytes = 100 * 1024 * 1024

	defaultFa = 12.0
	defaultFs = 2.0
	defaultFn = 0
)

// DefaultConfig returns the default evaluator configuration.
func DefaultConfig() Config {
	return Config{
		KernelCacheBytes:   defaultKernelCacheBytes,
		GeometryCacheBytes: defaultGeometryCacheBytes,
		Fa:                 defaultFa,
		Fs:                 defaultFs,
		Fn:                 defaultFn,
		Parallel:           false,
		TermLimit:          0,
		LazyUnion:          false,
	}
}

// NewConfig builds a Config starting from the defaults and applying opts
// in order.
func NewConfig(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithCacheSizeBytes sets the kernel-cache byte budget.
func WithCacheSizeBytes(n int64) Option {
	return func(c *Config) { c.KernelCacheBytes = n }
}

// WithGeometryCacheSizeBytes sets the geometry-cache byte budget.
func WithGeometryCacheSizeBytes(n int64) Option {
	return func(c *Config) { c.GeometryCacheBytes = n }
}

// WithFragments sets the fa/fs/fn curve-discretization parameters.
// fn takes precedence over fa/fs when non-zero.
func WithFragments(fa, fs float64, fn int) Option {
	return func(c *Config) { c.Fa, c.Fs, c.Fn = fa, fs, fn }
}

// WithParallel enables or disables parallel postfix traversal.
func WithParallel(enabled bool) Option {
	return func(c *Config) { c.Parallel = enabled }
}

// WithTermLimit sets the CSG-normalizer product-count cap.
func WithTermLimit(n int) Option {
	return func(c *Config) { c.TermLimit = n }
}

// WithLazyUnion sets whether the root node defaults to List (true) or
// Group (false).
func WithLazyUnion(lazy bool) Option {
	return func(c *Config) { c.LazyUnion = lazy }
}
