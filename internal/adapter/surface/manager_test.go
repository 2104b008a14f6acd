package surface

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gitlab.com/cfmirror.net/internal/domain"
	"gitlab.com/cfmirror.net/internal/static/errs"
)

type nopLogger struct{}

func (nopLogger) Info(msg string, args ...interface{})  {}
func (nopLogger) Error(msg string, args ...interface{}) {}
func (nopLogger) Debug(msg string, args ...interface{}) {}
func (nopLogger) Warn(msg string, args ...interface{})  {}

const submissionPage = `<html><body>
<pre id="program-source-text">#include &lt;cstdio&gt;
int main() { puts("hi"); }</pre>
</body></html>`

const problemPage = `<html><body>
<div class="problem-statement"><p>Add <script type="math/tex">a+b</script></p></div>
<div class="pagination">1 2 3</div>
</body></html>`

func newTestManager() *Manager {
	return NewManager(nopLogger{}, 2*time.Second, 2*time.Second)
}

func TestExtractSubmissionCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(submissionPage))
	}))
	defer server.Close()

	m := newTestManager()
	code, err := m.Extract(context.Background(), server.URL, domain.ExtractionSubmissionCode)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(code, "#include <cstdio>") {
		t.Errorf("code = %q", code)
	}
	if m.OpenSurfaces() != 0 {
		t.Errorf("surface leaked, %d still open", m.OpenSurfaces())
	}
}

func TestExtractProblemStatement(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(problemPage))
	}))
	defer server.Close()

	m := newTestManager()
	html, err := m.Extract(context.Background(), server.URL, domain.ExtractionProblemStatement)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, `<script type="math/tex">a+b</script>`) {
		t.Errorf("math script missing from statement: %q", html)
	}
	if strings.Contains(html, "pagination") {
		t.Errorf("statement not trimmed: %q", html)
	}
}

func TestExtractTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	m := NewManager(nopLogger{}, 30*time.Millisecond, 2*time.Second)
	_, err := m.Extract(context.Background(), server.URL, domain.ExtractionSubmissionCode)
	if !errors.Is(err, errs.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if m.OpenSurfaces() != 0 {
		t.Errorf("timed-out surface leaked, %d still open", m.OpenSurfaces())
	}
}

func TestExtractContextCancellation(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	m := newTestManager()
	_, err := m.Extract(ctx, server.URL, domain.ExtractionSubmissionCode)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if m.OpenSurfaces() != 0 {
		t.Errorf("cancelled surface leaked, %d still open", m.OpenSurfaces())
	}
}

func TestExtractUnknownKind(t *testing.T) {
	m := newTestManager()
	_, err := m.Extract(context.Background(), "http://unused", domain.ExtractionKind("BOGUS"))
	if !errors.Is(err, errs.ErrSurfaceCreation) {
		t.Fatalf("expected ErrSurfaceCreation, got %v", err)
	}
}

func TestExtractorErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><div>no code</div></body></html>"))
	}))
	defer server.Close()

	m := newTestManager()
	_, err := m.Extract(context.Background(), server.URL, domain.ExtractionSubmissionCode)
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestExtractAccessDenied(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	m := newTestManager()
	_, err := m.Extract(context.Background(), server.URL, domain.ExtractionSubmissionCode)
	if !errors.Is(err, errs.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
}

func TestLateResultIsDropped(t *testing.T) {
	m := newTestManager()

	handle := &domain.SurfaceHandle{}
	m.close(handle)

	// A result for an unknown surface must be a silent no-op
	m.dispatch(&domain.ExtractionResult{Kind: domain.ExtractionSubmissionCode})

	if m.OpenSurfaces() != 0 {
		t.Errorf("%d surfaces open", m.OpenSurfaces())
	}
}
