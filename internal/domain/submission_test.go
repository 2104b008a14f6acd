package domain

import "testing"

func TestExtensionForLanguage(t *testing.T) {
	cases := []struct {
		language string
		want     string
	}{
		{"GNU C++17", "cpp"},
		{"GNU C++20 (64)", "cpp"},
		{"GNU GCC C11 5.1.0", "c"},
		{"Python 3.8.10", "py"},
		{"PyPy 3-64", "txt"},
		{"Java 11.0.6", "java"},
		{"JavaScript V8 4.8.0", "java"},
		{"Ruby 3.2.2", "rb"},
		{"Rust 1.75.0", "rs"},
		{"Kotlin 1.9", "txt"},
		{"", "txt"},
	}

	for _, tc := range cases {
		if got := ExtensionForLanguage(tc.language); got != tc.want {
			t.Errorf("ExtensionForLanguage(%q) = %q, want %q", tc.language, got, tc.want)
		}
	}
}

func TestSubmissionPaths(t *testing.T) {
	sub := &Submission{
		ContestID:    1500,
		SubmissionID: 123456789,
		ProblemIndex: "A",
		ProblemName:  "Sum",
		Language:     "GNU C++17",
	}

	if got := sub.Folder(); got != "1500/A - Sum" {
		t.Errorf("Folder() = %q", got)
	}
	if got := sub.CodePath(); got != "1500/A - Sum/solution.cpp" {
		t.Errorf("CodePath() = %q", got)
	}
	if got := sub.ReadmePath(); got != "1500/A - Sum/README.md" {
		t.Errorf("ReadmePath() = %q", got)
	}
	if got := sub.ProblemURL(); got != "https://codeforces.com/contest/1500/problem/A" {
		t.Errorf("ProblemURL() = %q", got)
	}
	if got := sub.SubmissionURL(); got != "https://codeforces.com/contest/1500/submission/123456789" {
		t.Errorf("SubmissionURL() = %q", got)
	}
}

func TestSubmissionAccepted(t *testing.T) {
	accepted := &Submission{Verdict: VerdictAccepted}
	if !accepted.Accepted() {
		t.Error("verdict OK should be accepted")
	}

	rejected := &Submission{Verdict: VerdictWrongAnswer}
	if rejected.Accepted() {
		t.Error("verdict WRONG_ANSWER should not be accepted")
	}
}

func TestCredentialsComplete(t *testing.T) {
	complete := Credentials{AccountHandle: "tourist", RepositoryFullName: "tourist/solutions", AccessToken: "tok"}
	if !complete.Complete() {
		t.Error("all fields set should be complete")
	}

	cases := []Credentials{
		{},
		{AccountHandle: "tourist"},
		{AccountHandle: "tourist", RepositoryFullName: "tourist/solutions"},
		{RepositoryFullName: "tourist/solutions", AccessToken: "tok"},
	}
	for i, creds := range cases {
		if creds.Complete() {
			t.Errorf("case %d: incomplete credentials reported complete", i)
		}
	}
}
