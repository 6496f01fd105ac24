package domain

import "time"

// UserAuthRecord is a user's durable authorization record, keyed by the
// pseudonymous user hash so raw usernames are never stored.
//
// The record moves through three phases: State is set while an authorization
// attempt is in flight, Code is checkpointed once the callback arrives, and
// both are cleared when the code exchange succeeds and the token fields are
// filled in. At most one State value is outstanding per user; a concurrent
// second attempt overwrites it and implicitly invalidates the first.
type UserAuthRecord struct {
	ID       string
	UserHash string

	// State holds the combined anti-forgery state for an in-flight
	// authorization attempt, empty otherwise.
	State string

	// Code holds the transient authorization code between callback and a
	// successful exchange. It survives a failed exchange so the exchange step
	// alone can be retried.
	Code string

	AccessToken  string
	RefreshToken string
	TokenType    string
	Scope        string
	Expiry       time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Authorized reports whether the record holds a completed token grant.
func (r UserAuthRecord) Authorized() bool {
	return r.RefreshToken != "" && r.State == "" && r.Code == ""
}
