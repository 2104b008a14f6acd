// Package surface manages ephemeral hidden browsing surfaces. A surface is an
// off-screen page load used solely to let the page extractor run against a
// URL; it is created per fetch call, correlated back to the caller by its
// generated page id, and always closed by a single idempotent cleanup.
package surface

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"gitlab.com/cfmirror.net/internal/core/ports/primary"
	"gitlab.com/cfmirror.net/internal/core/ports/secondary"
	"gitlab.com/cfmirror.net/internal/domain"
	"gitlab.com/cfmirror.net/internal/extractor"
	"gitlab.com/cfmirror.net/internal/static/errs"
)

var _ secondary.SurfaceBrowser = (*Manager)(nil)

// Extractor is the page-extraction contract a surface delegates DOM work to
type Extractor func(html string) (string, error)

// defaultExtractors routes each extraction kind to its pure extractor
var defaultExtractors = map[domain.ExtractionKind]Extractor{
	domain.ExtractionSubmissionCode:   extractor.SubmissionCode,
	domain.ExtractionProblemStatement: extractor.ProblemStatement,
}

// Manager creates surfaces and correlates their asynchronous extraction
// results back to waiting callers
type Manager struct {
	client     *http.Client
	logger     primary.Logger
	extractors map[domain.ExtractionKind]Extractor
	timeouts   map[domain.ExtractionKind]time.Duration

	mu      sync.Mutex
	pending map[uuid.UUID]chan *domain.ExtractionResult
}

// NewManager creates a surface manager. codeTimeout and statementTimeout
// bound how long a caller waits for the extractor's result message.
func NewManager(logger primary.Logger, codeTimeout, statementTimeout time.Duration) *Manager {
	return &Manager{
		client:     &http.Client{Timeout: statementTimeout},
		logger:     logger,
		extractors: defaultExtractors,
		timeouts: map[domain.ExtractionKind]time.Duration{
			domain.ExtractionSubmissionCode:   codeTimeout,
			domain.ExtractionProblemStatement: statementTimeout,
		},
		pending: make(map[uuid.UUID]chan *domain.ExtractionResult),
	}
}

// Extract opens exactly one hidden surface on the URL, runs the extractor for
// the kind, and returns its result. The surface is closed on success,
// extractor failure, or timeout, whichever comes first.
func (m *Manager) Extract(ctx context.Context, url string, kind domain.ExtractionKind) (string, error) {
	handle, resultCh, err := m.open(url, kind)
	if err != nil {
		return "", err
	}

	var once sync.Once
	cleanup := func() {
		once.Do(func() { m.close(handle) })
	}
	defer cleanup()

	timeout := m.timeouts[kind]
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case result := <-resultCh:
		cleanup()
		if result.Err != nil {
			return "", result.Err
		}
		return result.Data, nil
	case <-timer.C:
		cleanup()
		m.logger.Warn("Surface timed out", "url", url, "kind", kind, "timeout", timeout)
		return "", errs.ErrTimeout
	case <-ctx.Done():
		cleanup()
		return "", ctx.Err()
	}
}

// open creates the surface and starts the off-screen page load. The result
// channel is buffered so a late extraction never blocks after a timeout.
func (m *Manager) open(url string, kind domain.ExtractionKind) (*domain.SurfaceHandle, chan *domain.ExtractionResult, error) {
	ext, ok := m.extractors[kind]
	if !ok {
		return nil, nil, errs.ErrSurfaceCreation
	}

	handle := &domain.SurfaceHandle{PageID: uuid.New()}
	resultCh := make(chan *domain.ExtractionResult, 1)

	m.mu.Lock()
	m.pending[handle.PageID] = resultCh
	m.mu.Unlock()

	m.logger.Debug("Surface opened", "pageId", handle.PageID, "url", url, "kind", kind)

	go m.load(handle, url, kind, ext)

	return handle, resultCh, nil
}

// load renders the page and posts the extractor's result, correlated by the
// originating surface's page id
func (m *Manager) load(handle *domain.SurfaceHandle, url string, kind domain.ExtractionKind, ext Extractor) {
	result := &domain.ExtractionResult{
		PageID:    handle.PageID,
		Kind:      kind,
		URL:       url,
		Timestamp: time.Now().Unix(),
	}

	html, err := m.render(url)
	if err != nil {
		result.Err = err
	} else {
		result.Data, result.Err = ext(html)
	}

	m.dispatch(result)
}

func (m *Manager) render(url string) (string, error) {
	resp, err := m.client.Get(url)
	if err != nil {
		return "", errs.ErrSurfaceCreation
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		return "", errs.ErrAccessDenied
	}
	if resp.StatusCode != http.StatusOK {
		return "", errs.ErrNotFound
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errs.ErrSurfaceCreation
	}
	return string(body), nil
}

// dispatch routes a result message to the waiter registered for its page id.
// Results for already-closed surfaces are dropped.
func (m *Manager) dispatch(result *domain.ExtractionResult) {
	m.mu.Lock()
	resultCh, ok := m.pending[result.PageID]
	m.mu.Unlock()

	if !ok {
		m.logger.Debug("Dropping result for closed surface", "pageId", result.PageID)
		return
	}

	select {
	case resultCh <- result:
	default:
	}
}

// close tears the surface down. Safe to invoke twice.
func (m *Manager) close(handle *domain.SurfaceHandle) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.pending[handle.PageID]; !ok {
		return
	}
	delete(m.pending, handle.PageID)
	m.logger.Debug("Surface closed", "pageId", handle.PageID)
}

// OpenSurfaces reports how many surfaces are currently pending
func (m *Manager) OpenSurfaces() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}
