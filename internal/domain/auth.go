package domain

// AuthPayload is the caller identity extracted from a bearer token
type AuthPayload struct {
	Subject string   `json:"sub"`
	Roles   []string `json:"roles"`
}

type AuthContextKey struct{}
