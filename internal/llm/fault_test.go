package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/driftcheck/engine/pkg/types"
)

func TestFaultInjectorErrorRate(t *testing.T) {
	inner := NewMockProvider([]*CompletionResponse{{Content: "ok"}}, nil)

	full := NewFaultInjectorWithSeed(inner, FaultConfig{ErrorRate: 1.0}, 42)
	_, err := full.Complete(context.Background(), userReq("x"))
	var info *types.ErrorInfo
	if !errors.As(err, &info) || info.Kind != types.ErrKindTransport {
		t.Errorf("err = %v, want default injected transport error", err)
	}
	if got := inner.GetCallCount(); got != 0 {
		t.Errorf("inner calls = %d, want 0 at error rate 1.0", got)
	}

	none := NewFaultInjectorWithSeed(inner, FaultConfig{ErrorRate: 0}, 42)
	if _, err := none.Complete(context.Background(), userReq("x")); err != nil {
		t.Errorf("err = %v, want success at error rate 0", err)
	}
}

func TestFaultInjectorCustomError(t *testing.T) {
	inner := NewMockProvider(nil, nil)
	boom := &types.ErrorInfo{Kind: types.ErrKindService, Status: 503, Message: "overloaded"}
	fi := NewFaultInjectorWithSeed(inner, FaultConfig{ErrorRate: 1.0, InjectErr: boom}, 1)

	_, err := fi.Complete(context.Background(), userReq("x"))
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want the configured 503", err)
	}
}

func TestFaultInjectorTimeout(t *testing.T) {
	inner := NewMockProvider(nil, nil)
	fi := NewFaultInjectorWithSeed(inner, FaultConfig{TimeoutAfter: 10 * time.Millisecond}, 1)

	_, err := fi.Complete(context.Background(), userReq("x"))
	var info *types.ErrorInfo
	if !errors.As(err, &info) || info.Kind != types.ErrKindTimeout {
		t.Errorf("err = %v, want injected timeout", err)
	}

	// Context cancellation wins over the injected timeout.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := fi.Complete(ctx, userReq("x")); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
