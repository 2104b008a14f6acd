package extractor

import (
	"errors"
	"strings"
	"testing"

	"gitlab.com/cfmirror.net/internal/static/errs"
)

func TestSubmissionCodeFromSourceText(t *testing.T) {
	html := `<html><body><pre id="program-source-text" class="prettyprint">#include &lt;iostream&gt;
int main() { return 0; }</pre></body></html>`

	code, err := SubmissionCode(html)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(code, "#include <iostream>") {
		t.Errorf("entities were not unescaped, got: %q", code)
	}
	if !strings.Contains(code, "int main()") {
		t.Errorf("code body missing, got: %q", code)
	}
}

func TestSubmissionCodePrettyprintFallback(t *testing.T) {
	html := `<pre class="prettyprint lang-cpp">print(&quot;hello&quot;)</pre>`

	code, err := SubmissionCode(html)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != `print("hello")` {
		t.Errorf("got %q", code)
	}
}

func TestSubmissionCodeAnyPreFallback(t *testing.T) {
	html := `<pre>ok</pre><pre>for i in range(100): print(i * i)</pre>`

	code, err := SubmissionCode(html)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The short decorative block is skipped, the substantial one wins
	if !strings.Contains(code, "for i in range") {
		t.Errorf("got %q", code)
	}
}

func TestSubmissionCodeNotFound(t *testing.T) {
	_, err := SubmissionCode(`<html><body><div>no code here</div></body></html>`)
	if !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSubmissionCodeAccessDenied(t *testing.T) {
	_, err := SubmissionCode(`<div class="access-denied">You are not allowed to view this page</div>`)
	if !errors.Is(err, errs.ErrAccessDenied) {
		t.Errorf("expected ErrAccessDenied, got %v", err)
	}
}

func TestSubmissionCodeAccessDeniedText(t *testing.T) {
	_, err := SubmissionCode(`<html><body><h1>Access denied</h1></body></html>`)
	if !errors.Is(err, errs.ErrAccessDenied) {
		t.Errorf("expected ErrAccessDenied, got %v", err)
	}
}

func TestProblemStatementExtraction(t *testing.T) {
	html := `<html><body><div class="problem-statement"><div class="header">A. Sum</div>
<p>Add <script type="math/tex">a+b</script></p></div>
<div class="pagination">pages</div></body></html>`

	statement, err := ProblemStatement(html)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(statement, "A. Sum") {
		t.Errorf("header missing: %q", statement)
	}
	// Math script tags must survive extraction so the formatter can use them
	if !strings.Contains(statement, `<script type="math/tex">a+b</script>`) {
		t.Errorf("math script was stripped: %q", statement)
	}
	if strings.Contains(statement, "pagination") {
		t.Errorf("trailing siblings were not trimmed: %q", statement)
	}
}

func TestProblemStatementNotFound(t *testing.T) {
	_, err := ProblemStatement(`<html><body><div class="content">nothing</div></body></html>`)
	if !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestProblemStatementAccessDenied(t *testing.T) {
	_, err := ProblemStatement(`<div class="forbidden">nope</div>`)
	if !errors.Is(err, errs.ErrAccessDenied) {
		t.Errorf("expected ErrAccessDenied, got %v", err)
	}
}
