package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/driftcheck/engine/pkg/types"
)

func TestMockProviderCycling(t *testing.T) {
	mock := NewMockProvider([]*CompletionResponse{
		{Content: "first"},
		{Content: "second"},
	}, nil)

	want := []string{"first", "second", "first"}
	for i, w := range want {
		resp, err := mock.Complete(context.Background(), userReq("x"))
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if resp.Content != w {
			t.Errorf("call %d: Content = %q, want %q", i, resp.Content, w)
		}
	}
}

func TestMockProviderReplayExhaustion(t *testing.T) {
	mock := NewReplayProvider([]*CompletionResponse{{Content: "only"}})

	if _, err := mock.Complete(context.Background(), userReq("x")); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := mock.Complete(context.Background(), userReq("x")); err == nil {
		t.Fatal("expected error after responses exhausted")
	}
}

func TestMockProviderErrorsByIndex(t *testing.T) {
	boom := &types.ErrorInfo{Kind: types.ErrKindTransport, Message: "boom"}
	mock := NewMockProvider([]*CompletionResponse{{Content: "ok"}}, []error{boom, nil})

	if _, err := mock.Complete(context.Background(), userReq("x")); !errors.Is(err, boom) {
		t.Errorf("first call err = %v, want injected transport error", err)
	}
	if _, err := mock.Complete(context.Background(), userReq("x")); err != nil {
		t.Errorf("second call err = %v, want success", err)
	}
}

func TestMockProviderErrFunc(t *testing.T) {
	mock := NewMockProvider([]*CompletionResponse{{Content: "ok"}}, nil)
	mock.ErrFunc = func(req *CompletionRequest) error {
		if strings.Contains(req.Messages[0].Content, "fail-me") {
			return &types.ErrorInfo{Kind: types.ErrKindService, Status: 500, Message: "selective"}
		}
		return nil
	}

	if _, err := mock.Complete(context.Background(), userReq("fine")); err != nil {
		t.Errorf("unmatched request err = %v, want success", err)
	}
	_, err := mock.Complete(context.Background(), userReq("please fail-me now"))
	var info *types.ErrorInfo
	if !errors.As(err, &info) || info.Status != 500 {
		t.Errorf("matched request err = %v, want 500 service error", err)
	}
}

func TestMockProviderHistoryCapture(t *testing.T) {
	mock := NewMockProvider(nil, nil)

	mock.Complete(context.Background(), userReq("one"))
	mock.Complete(context.Background(), userReq("two"))

	hist := mock.GetRequestHistory()
	if len(hist) != 2 {
		t.Fatalf("history length = %d, want 2", len(hist))
	}
	if hist[1].Messages[0].Content != "two" {
		t.Errorf("history[1] content = %q, want %q", hist[1].Messages[0].Content, "two")
	}
	if mock.GetCallCount() != 2 {
		t.Errorf("call count = %d, want 2", mock.GetCallCount())
	}
}

func TestEchoProvider(t *testing.T) {
	echo := NewEchoProvider("fwd")
	resp, err := echo.Complete(context.Background(), userReq("payload"))
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != "fwd:payload" {
		t.Errorf("Content = %q, want %q", resp.Content, "fwd:payload")
	}
}
