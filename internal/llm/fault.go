package llm

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/driftcheck/engine/pkg/types"
)

// FaultConfig defines the fault injection parameters for a FaultInjector.
type FaultConfig struct {
	ErrorRate     float64          // Probability [0,1] of returning InjectErr
	InjectErr     *types.ErrorInfo // Error returned on an error roll; defaults to a transport error
	LatencyJitter time.Duration    // Random additional latency [0, LatencyJitter)
	TimeoutAfter  time.Duration    // If > 0, returns a timeout error after this duration
}

// FaultInjector wraps a Provider and injects configurable faults, used to
// exercise failure isolation and retry behavior in tests.
type FaultInjector struct {
	inner  Provider
	config FaultConfig
	rng    *rand.Rand
	mu     sync.Mutex
}

// NewFaultInjector creates a FaultInjector with a time-based seed.
func NewFaultInjector(inner Provider, config FaultConfig) *FaultInjector {
	return NewFaultInjectorWithSeed(inner, config, time.Now().UnixNano())
}

// NewFaultInjectorWithSeed creates a FaultInjector with a deterministic seed.
func NewFaultInjectorWithSeed(inner Provider, config FaultConfig, seed int64) *FaultInjector {
	if config.InjectErr == nil {
		config.InjectErr = &types.ErrorInfo{Kind: types.ErrKindTransport, Message: "injected fault"}
	}
	return &FaultInjector{
		inner:  inner,
		config: config,
		rng:    rand.New(rand.NewSource(seed)), //nolint:gosec
	}
}

func (f *FaultInjector) Name() string         { return "fault:" + f.inner.Name() }
func (f *FaultInjector) DefaultModel() string { return f.inner.DefaultModel() }

// Complete injects faults according to FaultConfig before delegating to the
// inner provider.
func (f *FaultInjector) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	f.mu.Lock()
	errorRoll := f.rng.Float64()
	var jitter time.Duration
	if f.config.LatencyJitter > 0 {
		jitter = time.Duration(f.rng.Int63n(int64(f.config.LatencyJitter)))
	}
	f.mu.Unlock()

	if f.config.ErrorRate > 0 && errorRoll < f.config.ErrorRate {
		return nil, f.config.InjectErr
	}

	if f.config.TimeoutAfter > 0 {
		select {
		case <-time.After(f.config.TimeoutAfter):
			return nil, &types.ErrorInfo{Kind: types.ErrKindTimeout, Message: "injected timeout"}
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if jitter > 0 {
		time.Sleep(jitter)
	}

	return f.inner.Complete(ctx, req)
}
