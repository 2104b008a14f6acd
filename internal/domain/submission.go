package domain

import (
	"fmt"
	"strings"
	"time"
)

// Verdict represents the judged outcome of a submission
type Verdict string

const (
	VerdictAccepted            Verdict = "OK"
	VerdictWrongAnswer         Verdict = "WRONG_ANSWER"
	VerdictTimeLimitExceeded   Verdict = "TIME_LIMIT_EXCEEDED"
	VerdictMemoryLimitExceeded Verdict = "MEMORY_LIMIT_EXCEEDED"
	VerdictRuntimeError        Verdict = "RUNTIME_ERROR"
	VerdictCompilationError    Verdict = "COMPILATION_ERROR"
	VerdictTesting             Verdict = "TESTING"
)

// Submission represents one judged submission observed on the platform.
// Immutable once observed.
type Submission struct {
	ContestID    int64
	SubmissionID int64
	ProblemIndex string
	ProblemName  string
	Verdict      Verdict
	Language     string
	CreatedAt    time.Time
}

// Accepted reports whether the submission was judged fully correct
func (s *Submission) Accepted() bool {
	return s.Verdict == VerdictAccepted
}

// Folder returns the destination folder for the submission's files, e.g. "1500/A - Sum"
func (s *Submission) Folder() string {
	return fmt.Sprintf("%d/%s - %s", s.ContestID, s.ProblemIndex, s.ProblemName)
}

// CodePath returns the destination path of the solution file
func (s *Submission) CodePath() string {
	return fmt.Sprintf("%s/solution.%s", s.Folder(), ExtensionForLanguage(s.Language))
}

// ReadmePath returns the destination path of the problem statement file
func (s *Submission) ReadmePath() string {
	return s.Folder() + "/README.md"
}

// ProblemURL returns the canonical problem page URL
func (s *Submission) ProblemURL() string {
	return fmt.Sprintf("https://codeforces.com/contest/%d/problem/%s", s.ContestID, s.ProblemIndex)
}

// SubmissionURL returns the canonical submission page URL
func (s *Submission) SubmissionURL() string {
	return fmt.Sprintf("https://codeforces.com/contest/%d/submission/%d", s.ContestID, s.SubmissionID)
}

// languageExtensions maps language-name substrings to file extensions.
// Evaluated in order, first match wins. "C++" must stay ahead of "C".
var languageExtensions = []struct {
	Pattern   string
	Extension string
}{
	{"C++", "cpp"},
	{"C", "c"},
	{"Python", "py"},
	{"Java", "java"},
	{"JavaScript", "js"},
	{"Ruby", "rb"},
	{"Rust", "rs"},
}

// DefaultExtension is used when no language pattern matches
const DefaultExtension = "txt"

// ExtensionForLanguage resolves a file extension by first-substring-match
// against the fixed language table
func ExtensionForLanguage(language string) string {
	for _, entry := range languageExtensions {
		if strings.Contains(language, entry.Pattern) {
			return entry.Extension
		}
	}
	return DefaultExtension
}
