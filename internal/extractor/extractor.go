// Package extractor pulls submission source text and problem statement HTML
// out of rendered platform pages. Functions here are pure over the page HTML;
// fetching and lifecycle belong to the surface manager.
package extractor

import (
	"regexp"
	"strings"

	"gitlab.com/cfmirror.net/internal/static/errs"
)

var (
	reSourceText = regexp.MustCompile(`(?is)<pre[^>]*id=["']program-source-text["'][^>]*>(.*?)</pre>`)
	rePrettyPre  = regexp.MustCompile(`(?is)<pre[^>]*class=["'][^"']*prettyprint[^"']*["'][^>]*>(.*?)</pre>`)
	reAnyPre     = regexp.MustCompile(`(?is)<pre[^>]*>(.*?)</pre>`)
	reStatement  = regexp.MustCompile(`(?is)<div[^>]*class=["'][^"']*problem-statement[^"']*["'][^>]*>(.*)`)
	reDenied     = regexp.MustCompile(`(?i)class=["'][^"']*(access-denied|forbidden|denied)[^"']*["']`)
	reTag        = regexp.MustCompile(`<[^>]*>`)
)

// minimumCodeLength filters out decorative pre blocks in the fallback scan
const minimumCodeLength = 20

// SubmissionCode extracts the program source from a submission page.
// Returns ErrAccessDenied when the page is a permission wall and ErrNotFound
// when no code element is present.
func SubmissionCode(html string) (string, error) {
	if denied(html) {
		return "", errs.ErrAccessDenied
	}

	if m := reSourceText.FindStringSubmatch(html); m != nil {
		return unescapeCode(m[1]), nil
	}
	if m := rePrettyPre.FindStringSubmatch(html); m != nil {
		return unescapeCode(m[1]), nil
	}

	// Fallback: any pre element with substantial content
	for _, m := range reAnyPre.FindAllStringSubmatch(html, -1) {
		code := unescapeCode(m[1])
		if len(code) >= minimumCodeLength {
			return code, nil
		}
	}

	return "", errs.ErrNotFound
}

// ProblemStatement extracts the statement block from a problem page. The
// returned HTML is raw; formatting is the Content Formatter's job.
func ProblemStatement(html string) (string, error) {
	if denied(html) {
		return "", errs.ErrAccessDenied
	}

	if m := reStatement.FindStringSubmatch(html); m != nil {
		return trimAfterStatement(m[1]), nil
	}

	return "", errs.ErrNotFound
}

func denied(html string) bool {
	if reDenied.MatchString(html) {
		return true
	}
	text := strings.ToLower(reTag.ReplaceAllString(html, " "))
	return strings.Contains(text, "access denied")
}

// trimAfterStatement cuts the match off at the statement's sibling footer if
// one is present; regex extraction cannot balance divs, so keep the tail
// bounded instead.
func trimAfterStatement(rest string) string {
	// Math script tags inside the statement must survive; only structural
	// siblings are safe cut points.
	for _, marker := range []string{`<div class="pagination`, `<div class="footer`, `<div class="roundbox sidebox`} {
		if idx := strings.Index(rest, marker); idx >= 0 {
			rest = rest[:idx]
		}
	}
	return `<div class="problem-statement">` + rest
}

func unescapeCode(code string) string {
	code = reTag.ReplaceAllString(code, "")
	code = strings.ReplaceAll(code, "&lt;", "<")
	code = strings.ReplaceAll(code, "&gt;", ">")
	code = strings.ReplaceAll(code, "&quot;", `"`)
	code = strings.ReplaceAll(code, "&#39;", "'")
	code = strings.ReplaceAll(code, "&amp;", "&")
	return strings.TrimRight(strings.TrimPrefix(code, "\n"), " \t\n")
}
