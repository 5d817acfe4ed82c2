package csgcore

import (
	"sync"
	"sync/atomic"

	"github.com/openscad-go/csgcore/internal/parallel"
)

// parallelWalker coordinates a parallel postfix traversal. Prefix calls
// and the coordination recursion itself run on ordinary goroutines
// (cheap: they only wait on children), while every postfix call — the
// CPU-bound work — is dispatched through a worker pool sized to
// hardware concurrency. This split keeps the pool itself simple and
// deadlock-free: a pool worker never blocks waiting on other queued
// work, it only executes one visitor call and returns.
type parallelWalker struct {
	pool    *parallel.WorkerPool
	aborted atomic.Bool
}

// WalkParallel traverses n like Walk, but dispatches each node's
// postfix visit to a worker pool only after every descendant's postfix
// has completed (the ordering guarantee from the Concurrency model).
// workers <= 0 uses hardware concurrency. Cancellation is cooperative:
// once any visit returns AbortTraversal, in-flight postfix dispatches
// still run to completion but their results are discarded and
// WalkParallel returns AbortTraversal promptly.
func WalkParallel(n *Node, state State, v Visitor, workers int) TraversalResult {
	pool := parallel.NewWorkerPool(workers)
	defer pool.Close()

	pw := &parallelWalker{pool: pool}
	return pw.walk(n, state, v)
}

func (pw *parallelWalker) walk(n *Node, state State, v Visitor) TraversalResult {
	if n == nil {
		return ContinueTraversal
	}
	if pw.aborted.Load() {
		return AbortTraversal
	}

	prefixState := state
	prefixState.Phase = PhasePrefix
	switch v.Visit(prefixState, n) {
	case AbortTraversal:
		pw.aborted.Store(true)
		return AbortTraversal
	case PruneTraversal:
		return ContinueTraversal
	}

	results := make([]TraversalResult, len(n.Children))
	var wg sync.WaitGroup
	wg.Add(len(n.Children))
	for i, c := range n.Children {
		childState := state.childState(n, i)
		go func(i int, c *Node, st State) {
			defer wg.Done()
			results[i] = pw.walk(c, st, v)
		}(i, c, childState)
	}
	wg.Wait()

	for _, r := range results {
		if r == AbortTraversal {
			pw.aborted.Store(true)
			return AbortTraversal
		}
	}
	if pw.aborted.Load() {
		return AbortTraversal
	}

	return pw.dispatchPostfix(state, n, v)
}

// dispatchPostfix submits the node's postfix visit to the worker pool
// and blocks the calling (coordination) goroutine until it completes.
func (pw *parallelWalker) dispatchPostfix(state State, n *Node, v Visitor) TraversalResult {
	done := make(chan TraversalResult, 1)
	pw.pool.Submit(func() {
		postfixState := state
		postfixState.Phase = PhasePostfix
		done <- v.Visit(postfixState, n)
	})
	result := <-done
	if result == AbortTraversal {
		pw.aborted.Store(true)
	}
	return result
}
