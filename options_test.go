package csgcore

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.KernelCacheBytes != defaultKernelCacheBytes {
		t.Errorf("KernelCacheBytes = %d, want %d", cfg.KernelCacheBytes, defaultKernelCacheBytes)
	}
	if cfg.Parallel {
		t.Error("Parallel should default to false")
	}
	if cfg.TermLimit != 0 {
		t.Errorf("TermLimit = %d, want 0 (unlimited)", cfg.TermLimit)
	}
}

func TestNewConfigAppliesOptions(t *testing.T) {
	cfg := NewConfig(
		WithParallel(true),
		WithFragments(5, 1, 16),
		WithTermLimit(1000),
		WithLazyUnion(true),
		WithCacheSizeBytes(64),
		WithGeometryCacheSizeBytes(128),
	)

	if !cfg.Parallel {
		t.Error("WithParallel(true) not applied")
	}
	if cfg.Fa != 5 || cfg.Fs != 1 || cfg.Fn != 16 {
		t.Errorf("WithFragments not applied: fa=%v fs=%v fn=%v", cfg.Fa, cfg.Fs, cfg.Fn)
	}
	if cfg.TermLimit != 1000 {
		t.Errorf("WithTermLimit not applied: %d", cfg.TermLimit)
	}
	if !cfg.LazyUnion {
		t.Error("WithLazyUnion(true) not applied")
	}
	if cfg.KernelCacheBytes != 64 {
		t.Errorf("WithCacheSizeBytes not applied: %d", cfg.KernelCacheBytes)
	}
	if cfg.GeometryCacheBytes != 128 {
		t.Errorf("WithGeometryCacheSizeBytes not applied: %d", cfg.GeometryCacheBytes)
	}
}

func TestNewConfigNoOptionsMatchesDefault(t *testing.T) {
	if NewConfig() != DefaultConfig() {
		t.Error("NewConfig() with no options should equal DefaultConfig()")
	}
}
