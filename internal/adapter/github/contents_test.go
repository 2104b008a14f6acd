package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"gitlab.com/cfmirror.net/internal/config"
	"gitlab.com/cfmirror.net/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(msg string, args ...interface{})  {}
func (nopLogger) Error(msg string, args ...interface{}) {}
func (nopLogger) Debug(msg string, args ...interface{}) {}
func (nopLogger) Warn(msg string, args ...interface{})  {}

func newTestSink(apiBase string) *Sink {
	return NewSink(
		&config.GithubConfig{APIBaseURL: apiBase},
		&config.SyncCfg{WriteRetryAttempts: 3, WriteRetryBaseDelay: time.Millisecond},
		"token",
		nopLogger{},
	)
}

func writeRequest() *domain.FileWriteRequest {
	return &domain.FileWriteRequest{
		RepositoryFullName: "tourist/solutions",
		Path:               "1500/A - Sum/solution.cpp",
		CommitMessage:      "Add Sum [A] from Codeforces",
		Content:            "int main() { return 0; }",
	}
}

func TestUpsertFileCreatesWhenMissing(t *testing.T) {
	var putBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			if err := json.NewDecoder(r.Body).Decode(&putBody); err != nil {
				t.Fatalf("bad PUT body: %v", err)
			}
			w.WriteHeader(http.StatusCreated)
		}
	}))
	defer server.Close()

	sink := newTestSink(server.URL)
	if !sink.UpsertFile(context.Background(), writeRequest()) {
		t.Fatal("upsert should succeed")
	}

	if _, hasSHA := putBody["sha"]; hasSHA {
		t.Error("create must not carry a revision token")
	}
	decoded, err := base64.StdEncoding.DecodeString(putBody["content"])
	if err != nil || string(decoded) != "int main() { return 0; }" {
		t.Errorf("content round-trip failed: %q, %v", decoded, err)
	}
	if putBody["message"] != "Add Sum [A] from Codeforces" {
		t.Errorf("commit message = %q", putBody["message"])
	}
}

func TestUpsertFileUpdatesWithRevision(t *testing.T) {
	var putBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			fmt.Fprint(w, `{"sha":"abc123"}`)
		case http.MethodPut:
			json.NewDecoder(r.Body).Decode(&putBody)
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer server.Close()

	sink := newTestSink(server.URL)
	if !sink.UpsertFile(context.Background(), writeRequest()) {
		t.Fatal("upsert should succeed")
	}
	if putBody["sha"] != "abc123" {
		t.Errorf("update must carry the current revision, got %q", putBody["sha"])
	}
}

func TestUpsertFileRevisionCheckHardFailure(t *testing.T) {
	var putCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			atomic.AddInt32(&putCalls, 1)
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	sink := newTestSink(server.URL)
	if sink.UpsertFile(context.Background(), writeRequest()) {
		t.Fatal("upsert should fail when the revision check errors")
	}
	if atomic.LoadInt32(&putCalls) != 0 {
		t.Error("no write may be attempted after a failed revision check")
	}
}

func TestUpsertFileWithRetryEventuallySucceeds(t *testing.T) {
	var putAttempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/repos/tourist/solutions":
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
		case r.Method == http.MethodPut:
			if atomic.AddInt32(&putAttempts, 1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.WriteHeader(http.StatusCreated)
		}
	}))
	defer server.Close()

	sink := newTestSink(server.URL)
	if !sink.UpsertFileWithRetry(context.Background(), writeRequest()) {
		t.Fatal("retry should eventually succeed")
	}
	if got := atomic.LoadInt32(&putAttempts); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestUpsertFileWithRetryGivesUp(t *testing.T) {
	var putAttempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/repos/tourist/solutions":
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
		case r.Method == http.MethodPut:
			atomic.AddInt32(&putAttempts, 1)
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer server.Close()

	sink := newTestSink(server.URL)
	if sink.UpsertFileWithRetry(context.Background(), writeRequest()) {
		t.Fatal("retry should give up after the attempt budget")
	}
	if got := atomic.LoadInt32(&putAttempts); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestUpsertFileWithRetryMissingRepoShortCircuits(t *testing.T) {
	var contentCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/repos/tourist/solutions" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		atomic.AddInt32(&contentCalls, 1)
	}))
	defer server.Close()

	sink := newTestSink(server.URL)
	if sink.UpsertFileWithRetry(context.Background(), writeRequest()) {
		t.Fatal("missing repository must fail the write")
	}
	if atomic.LoadInt32(&contentCalls) != 0 {
		t.Error("a missing repository must short-circuit every attempt")
	}
}

func TestRepositoryExists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/repos/tourist/solutions" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	sink := newTestSink(server.URL)

	exists, err := sink.RepositoryExists(context.Background(), "tourist/solutions")
	if err != nil || !exists {
		t.Errorf("expected existing repo, got %v, %v", exists, err)
	}

	exists, err = sink.RepositoryExists(context.Background(), "tourist/gone")
	if err != nil || exists {
		t.Errorf("expected missing repo, got %v, %v", exists, err)
	}
}

func TestAuthenticatedUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("Authorization") == "" {
			t.Error("request is not authenticated")
		}
		fmt.Fprint(w, `{"login":"tourist"}`)
	}))
	defer server.Close()

	sink := newTestSink(server.URL)
	login, err := sink.AuthenticatedUser(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if login != "tourist" {
		t.Errorf("login = %q", login)
	}
}

func TestCreateRepository(t *testing.T) {
	var body map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/user/repos" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	sink := newTestSink(server.URL)
	if err := sink.CreateRepository(context.Background(), "solutions", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body["name"] != "solutions" || body["private"] != true {
		t.Errorf("payload = %v", body)
	}
}
