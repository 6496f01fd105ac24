package spotifyauth

// TokenResponse is the token endpoint response, decoded once into a static
// shape so malformed bodies fail at the boundary rather than at first field
// access.
type TokenResponse struct {
	// AccessToken is the opaque bearer credential.
	AccessToken string `json:"access_token"`

	// TokenType is "Bearer".
	TokenType string `json:"token_type"`

	// ExpiresIn is the declared lifetime in seconds at issuance.
	ExpiresIn int `json:"expires_in"`

	// Scope is the space-delimited list of granted scopes, when present.
	Scope string `json:"scope,omitempty"`

	// RefreshToken is only present for authorization_code exchanges and for
	// refresh_token grants where the provider chose to re-issue one.
	RefreshToken string `json:"refresh_token,omitempty"`
}
