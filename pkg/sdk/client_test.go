package matchdex

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func ndjsonHandler(t *testing.T, lines []string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/search" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/x-ndjson")
		for _, line := range lines {
			_, _ = w.Write([]byte(line + "\n"))
		}
	}
}

func TestSearch_IteratesHitsAndMetadata(t *testing.T) {
	srv := httptest.NewServer(ndjsonHandler(t, []string{
		`{"type":"hit","record_id":"rec-1","record":{"title":"Deep Learning Engineer","skills":["python","pytorch"]},"vector_score":1,"lexical_score":1,"combined_score":1}`,
		`{"type":"hit","record_id":"rec-2","record":{"title":"ML Engineer"},"vector_score":0.5,"lexical_score":0,"combined_score":0.3}`,
		`{"type":"metadata","search_id":"s-123","considered":2,"passed":2,"vector_weight":0.6,"lexical_weight":0.4,"floor":0,"degraded":false}`,
	}))
	defer srv.Close()

	client := New(srv.URL)
	stream, err := client.Search(context.Background(), SearchRequest{QueryText: "deep learning"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	defer stream.Close()

	var ids []string
	for stream.Next() {
		ids = append(ids, stream.Hit().RecordID)
	}
	if err := stream.Err(); err != nil {
		t.Fatalf("stream error: %v", err)
	}

	if len(ids) != 2 || ids[0] != "rec-1" || ids[1] != "rec-2" {
		t.Errorf("unexpected ids: %v", ids)
	}

	meta := stream.Metadata()
	if meta.SearchID != "s-123" {
		t.Errorf("expected search id s-123, got %q", meta.SearchID)
	}
	if meta.Considered != 2 || meta.Passed != 2 {
		t.Errorf("unexpected counts: %+v", meta)
	}
	if meta.VectorWeight != 0.6 || meta.LexicalWeight != 0.4 {
		t.Errorf("unexpected weights: %+v", meta)
	}
}

func TestSearch_EmptyResultStillCarriesMetadata(t *testing.T) {
	srv := httptest.NewServer(ndjsonHandler(t, []string{
		`{"type":"metadata","search_id":"s-1","considered":1,"passed":0,"vector_weight":0.6,"lexical_weight":0.4,"floor":0.5,"degraded":false}`,
	}))
	defer srv.Close()

	hits, meta, err := New(srv.URL).SearchAll(context.Background(), SearchRequest{QueryText: "nobody"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("expected no hits, got %d", len(hits))
	}
	if meta.Considered != 1 || meta.Passed != 0 {
		t.Errorf("unexpected counts: %+v", meta)
	}
}

func TestSearch_DegradedMetadata(t *testing.T) {
	srv := httptest.NewServer(ndjsonHandler(t, []string{
		`{"type":"hit","record_id":"rec-1","record":{},"vector_score":0,"lexical_score":1,"combined_score":0.4}`,
		`{"type":"metadata","search_id":"s-1","considered":1,"passed":1,"vector_weight":0.6,"lexical_weight":0.4,"floor":0,"degraded":true,"degraded_reason":"embedding_unavailable"}`,
	}))
	defer srv.Close()

	_, meta, err := New(srv.URL).SearchAll(context.Background(), SearchRequest{QueryText: "deep learning"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !meta.Degraded || meta.DegradedReason != "embedding_unavailable" {
		t.Errorf("expected degraded metadata, got %+v", meta)
	}
}

func TestSearch_TruncatedStreamIsError(t *testing.T) {
	srv := httptest.NewServer(ndjsonHandler(t, []string{
		`{"type":"hit","record_id":"rec-1","record":{},"vector_score":1,"lexical_score":1,"combined_score":1}`,
	}))
	defer srv.Close()

	_, _, err := New(srv.URL).SearchAll(context.Background(), SearchRequest{QueryText: "deep learning"})
	if err == nil {
		t.Fatal("expected error for stream without terminal metadata")
	}
}

func TestSearch_APIErrorDecoded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"code":    "invalid_query",
			"message": "query text is required",
		})
	}))
	defer srv.Close()

	_, err := New(srv.URL).Search(context.Background(), SearchRequest{})
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Code != "invalid_query" {
		t.Errorf("unexpected error: %+v", apiErr)
	}
}

func TestSearch_SendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("expected bearer token, got %q", got)
		}
		_, _ = w.Write([]byte(`{"type":"metadata","search_id":"s","considered":0,"passed":0,"vector_weight":0.5,"lexical_weight":0.5,"floor":0,"degraded":false}` + "\n"))
	}))
	defer srv.Close()

	client := New(srv.URL, WithAPIKey("secret"))
	if _, _, err := client.SearchAll(context.Background(), SearchRequest{QueryText: "x"}); err != nil {
		t.Fatalf("search: %v", err)
	}
}

func TestHealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	if err := New(srv.URL).Healthy(context.Background()); err != nil {
		t.Fatalf("healthy: %v", err)
	}
}

func TestHealthy_Degraded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"degraded"}`))
	}))
	defer srv.Close()

	if err := New(srv.URL).Healthy(context.Background()); err == nil {
		t.Fatal("expected error for degraded service")
	}
}
