package domain

// AccountInfo holds the platform profile of the watched account
type AccountInfo struct {
	Handle    string
	Rating    string
	MaxRating string
	Rank      string
	Avatar    string
}

// Credentials is the read-only input of a sync cycle. A cycle treats any
// absent field as "not configured" and no-ops rather than erroring.
type Credentials struct {
	AccountHandle      string
	RepositoryFullName string
	AccessToken        string
}

// Complete reports whether every field required for a sync cycle is present
func (c Credentials) Complete() bool {
	return c.AccountHandle != "" && c.RepositoryFullName != "" && c.AccessToken != ""
}
