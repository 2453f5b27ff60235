package rollbar

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPSender_Send(t *testing.T) {
	var gotToken, gotContentType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get(accessTokenHeader)
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"err":0,"result":{"uuid":"abc"}}`))
	}))
	defer srv.Close()

	s := newHTTPSender(srv.URL, time.Second, 1)
	p := EncodedPayload{Format: FormatJSON, Data: []byte(`{"level":"info"}`)}

	resp := s.Send(context.Background(), p, testToken)
	if !resp.Success() {
		t.Fatalf("Send() = %+v, want success", resp)
	}
	if gotToken != testToken {
		t.Errorf("token header = %q, want %q", gotToken, testToken)
	}
	if gotContentType != "application/json" {
		t.Errorf("content type = %q", gotContentType)
	}
	if string(gotBody) != `{"level":"info"}` {
		t.Errorf("body = %s", gotBody)
	}
	result, _ := resp.Body["result"].(map[string]any)
	if result["uuid"] != "abc" {
		t.Errorf("decoded body result = %#v", resp.Body)
	}
}

func TestHTTPSender_APIErrorSurfacedAsResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"err":1,"message":"invalid format"}`))
	}))
	defer srv.Close()

	s := newHTTPSender(srv.URL, time.Second, 1)
	resp := s.Send(context.Background(), EncodedPayload{Format: FormatJSON, Data: []byte(`{}`)}, testToken)
	if !resp.APIError() {
		t.Fatalf("Send() = %+v, want API error", resp)
	}
	if resp.Status != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", resp.Status)
	}
	if resp.Info != "invalid format" {
		t.Errorf("info = %q, want the API-supplied message", resp.Info)
	}
}

func TestHTTPSender_NetworkFailureIsZeroStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening anymore

	s := newHTTPSender(srv.URL, 100*time.Millisecond, 1)
	resp := s.Send(context.Background(), EncodedPayload{Format: FormatJSON, Data: []byte(`{}`)}, testToken)
	if !resp.Rejected() {
		t.Errorf("Send() against a dead endpoint = %+v, want status 0", resp)
	}
	if resp.Info == "" {
		t.Error("rejection should carry a reason")
	}
}

func TestHTTPSender_SendBatch(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := newHTTPSender(srv.URL, time.Second, 1)
	batch := []EncodedPayload{
		{Format: FormatJSON, Data: []byte(`{"n":1}`)},
		{Format: FormatJSON, Data: []byte(`{"n":2}`)},
	}
	resp := s.SendBatch(context.Background(), batch, testToken)
	if !resp.Success() {
		t.Fatalf("SendBatch() = %+v, want success", resp)
	}

	var items []map[string]any
	if err := json.Unmarshal(gotBody, &items); err != nil {
		t.Fatalf("batch body is not a JSON array: %v", err)
	}
	if len(items) != 2 || items[0]["n"] != float64(1) || items[1]["n"] != float64(2) {
		t.Errorf("batch body = %s", gotBody)
	}
}

func TestHTTPSender_Wait(t *testing.T) {
	s := newHTTPSender("http://127.0.0.1:0", time.Second, 1)
	if err := s.Wait(context.Background()); err != nil {
		t.Errorf("Wait() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Wait(ctx); err == nil {
		t.Error("Wait() with a cancelled context should return its error")
	}
}
