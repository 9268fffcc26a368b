package ml

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/Jaysinh146/Riskify/pkg/logger"
)

func newInferenceServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestRemoteClassifier_Classify(t *testing.T) {
	var gotAuth atomic.Value
	srv := newInferenceServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))

		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req["inputs"] == "" {
			t.Error("request missing inputs field")
		}

		json.NewEncoder(w).Encode([][]SentimentResult{{
			{Label: "NEGATIVE", Score: 0.92},
			{Label: "POSITIVE", Score: 0.08},
		}})
	})

	clf := NewRemoteClassifier(srv.URL, "test-key", logger.Nop())
	res, err := clf.Classify(context.Background(), "we will attack tonight")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if res.Label != "NEGATIVE" {
		t.Errorf("label = %q, want NEGATIVE", res.Label)
	}
	if res.Score != 0.92 {
		t.Errorf("score = %v, want 0.92", res.Score)
	}
	if auth, _ := gotAuth.Load().(string); auth != "Bearer test-key" {
		t.Errorf("Authorization = %q, want bearer token", auth)
	}
}

func TestRemoteClassifier_NoAuthHeaderWithoutKey(t *testing.T) {
	var gotAuth atomic.Value
	srv := newInferenceServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode([][]SentimentResult{{{Label: "POSITIVE", Score: 0.9}}})
	})

	clf := NewRemoteClassifier(srv.URL, "", logger.Nop())
	if _, err := clf.Classify(context.Background(), "hello"); err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if auth, _ := gotAuth.Load().(string); auth != "" {
		t.Errorf("Authorization = %q, want empty", auth)
	}
}

func TestRemoteClassifier_InitWarmsEndpoint(t *testing.T) {
	var calls atomic.Int64
	srv := newInferenceServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		json.NewEncoder(w).Encode([][]SentimentResult{{{Label: "POSITIVE", Score: 0.99}}})
	})

	clf := NewRemoteClassifier(srv.URL, "", logger.Nop())
	if clf.Ready() {
		t.Error("ready before Init")
	}
	if err := clf.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if !clf.Ready() {
		t.Error("not ready after Init")
	}

	// A second Init is a no-op.
	if err := clf.Init(context.Background()); err != nil {
		t.Fatalf("second Init: %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("warmup calls = %d, want 1", got)
	}
}

func TestRemoteClassifier_ServerError(t *testing.T) {
	srv := newInferenceServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	})

	clf := NewRemoteClassifier(srv.URL, "", logger.Nop())
	if _, err := clf.Classify(context.Background(), "hello"); err == nil {
		t.Error("want error on 503 response")
	}
	if err := clf.Init(context.Background()); err == nil {
		t.Error("want Init error when warmup fails")
	}
	if clf.Ready() {
		t.Error("must not be ready after failed warmup")
	}
}

func TestRemoteClassifier_MalformedResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "oops"},
		{"empty array", "[]"},
		{"empty candidates", "[[]]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newInferenceServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})
			clf := NewRemoteClassifier(srv.URL, "", logger.Nop())
			if _, err := clf.Classify(context.Background(), "hello"); err == nil {
				t.Error("want error")
			}
		})
	}
}

func TestRemoteClassifier_ScoreClamped(t *testing.T) {
	srv := newInferenceServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([][]SentimentResult{{{Label: "NEGATIVE", Score: 1.7}}})
	})

	clf := NewRemoteClassifier(srv.URL, "", logger.Nop())
	res, err := clf.Classify(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if res.Score != 1.0 {
		t.Errorf("score = %v, want clamped to 1.0", res.Score)
	}
}
