package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"teamwelly_backend/internal/config"
)

func newStreamTestAIService(baseURL string) *AIService {
	return NewAIService(config.AIConfig{
		BaseURL: baseURL,
		APIKey:  "test-key",
		Model:   "test-model",
	})
}

func sseDelta(content string) string {
	return fmt.Sprintf("data: {\"choices\":[{\"delta\":{\"content\":%q}}]}\n\n", content)
}

func TestChatStreamDeliversChunks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, sseDelta("Hello "))
		fmt.Fprint(w, sseDelta("Welly"))
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	svc := newStreamTestAIService(server.URL)
	chunks, errs := svc.ChatStream(context.Background(), "", nil, "hi")

	var full strings.Builder
	for chunk := range chunks {
		full.WriteString(chunk)
	}
	if err := <-errs; err != nil {
		t.Fatalf("unexpected stream error: %v", err)
	}
	if got := full.String(); got != "Hello Welly" {
		t.Errorf("expected 'Hello Welly', got %q", got)
	}
}

func TestChatStreamStopsOnContextCancel(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer close(release)
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for i := 0; ; i++ {
			if _, err := fmt.Fprint(w, sseDelta(fmt.Sprintf("chunk-%d ", i))); err != nil {
				return
			}
			flusher.Flush()
			select {
			case <-r.Context().Done():
				return
			case <-time.After(10 * time.Millisecond):
			}
		}
	}))
	defer server.Close()

	svc := newStreamTestAIService(server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	chunks, errs := svc.ChatStream(ctx, "", nil, "hi")

	// 先消费一段，确认流已经跑起来再断开
	select {
	case <-chunks:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for first chunk")
	}
	cancel()

	// 断开后输出通道必须关闭，后台 goroutine 不能卡在发送上
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-chunks:
			if !ok {
				if err := <-errs; err != nil {
					t.Errorf("cancel should not surface an error, got %v", err)
				}
				select {
				case <-release:
				case <-time.After(2 * time.Second):
					t.Error("upstream handler did not observe the disconnect")
				}
				return
			}
		case <-deadline:
			t.Fatal("chunk channel not closed after cancel")
		}
	}
}
