package notifier

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}

func TestStartPollingDispatchesCommands(t *testing.T) {
	var mu sync.Mutex
	var sent []string
	gotCmd := make(chan string, 1)

	var polls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "getUpdates"):
			if atomic.AddInt32(&polls, 1) == 1 {
				fmt.Fprint(w, `{"ok":true,"result":[{"update_id":7,"message":{"text":" /status "}}]}`)
				return
			}
			fmt.Fprint(w, `{"ok":true,"result":[]}`)
		case strings.Contains(r.URL.Path, "sendMessage"):
			body, _ := io.ReadAll(r.Body)
			mu.Lock()
			sent = append(sent, string(body))
			mu.Unlock()
			fmt.Fprint(w, `{"ok":true}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	old := apiBase
	apiBase = srv.URL
	defer func() { apiBase = old }()

	n := &TelegramNotifier{
		BotToken: "test-token",
		ChatID:   "42",
		Client:   srv.Client(),
		logger:   zap.NewNop(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		n.StartPolling(ctx, func(cmd string) string {
			select {
			case gotCmd <- cmd:
			default:
			}
			return "pong"
		})
	}()

	select {
	case cmd := <-gotCmd:
		assert.Equal(t, "/status", cmd, "command text is trimmed before dispatch")
	case <-time.After(5 * time.Second):
		t.Fatal("command never dispatched")
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(sent) == 1
	}, 5*time.Second, 10*time.Millisecond, "handler reply should be sent back")

	mu.Lock()
	assert.Contains(t, sent[0], "pong")
	assert.Contains(t, sent[0], `"chat_id":"42"`)
	mu.Unlock()

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("polling did not stop after cancel")
	}
}

func TestStartPollingIgnoresEmptyMessages(t *testing.T) {
	var polls int32
	var sends int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "getUpdates"):
			if atomic.AddInt32(&polls, 1) == 1 {
				fmt.Fprint(w, `{"ok":true,"result":[{"update_id":1},{"update_id":2,"message":{"text":""}}]}`)
				return
			}
			fmt.Fprint(w, `{"ok":true,"result":[]}`)
		case strings.Contains(r.URL.Path, "sendMessage"):
			atomic.AddInt32(&sends, 1)
			fmt.Fprint(w, `{"ok":true}`)
		}
	}))
	defer srv.Close()

	old := apiBase
	apiBase = srv.URL
	defer func() { apiBase = old }()

	n := &TelegramNotifier{BotToken: "t", ChatID: "1", Client: srv.Client(), logger: zap.NewNop()}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	var calls int32
	go func() {
		defer close(done)
		n.StartPolling(ctx, func(string) string {
			atomic.AddInt32(&calls, 1)
			return ""
		})
	}()

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&polls) >= 2
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	<-done

	assert.Zero(t, atomic.LoadInt32(&calls), "updates without text must not reach the handler")
	assert.Zero(t, atomic.LoadInt32(&sends))
}

func TestSendWithRetryGivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	old := apiBase
	apiBase = srv.URL
	defer func() { apiBase = old }()

	n := &TelegramNotifier{BotToken: "t", ChatID: "1", Client: srv.Client(), logger: zap.NewNop()}

	err := n.SendWithRetry(context.Background(), "hello", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retries exhausted")
}

func TestSendWithRetryStopsOnCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	old := apiBase
	apiBase = srv.URL
	defer func() { apiBase = old }()

	n := &TelegramNotifier{BotToken: "t", ChatID: "1", Client: srv.Client(), logger: zap.NewNop()}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := n.SendWithRetry(ctx, "hello", 5)
	assert.ErrorIs(t, err, context.Canceled)
}
