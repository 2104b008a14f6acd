package domain

// FileWriteRequest describes one create-or-update write against the linked
// repository. KnownRevision is resolved immediately before the write; a stale
// token would amplify into rejected writes.
type FileWriteRequest struct {
	RepositoryFullName string
	Path               string
	CommitMessage      string
	Content            string
}
