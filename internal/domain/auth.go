package domain

// AuthPayload carries the identity encoded in a command API bearer token
type AuthPayload struct {
	Subject    string   `json:"sub"`
	Permission []string `json:"permission"`
}
