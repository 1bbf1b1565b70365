// Package auth resolves the per-request warehouse credential.
//
// Databricks Apps places the end user's short-lived OAuth token in the
// X-Forwarded-Access-Token header (on-behalf-of identity). When the header is
// absent the request falls back to the developer PAT from the environment.
package auth

import "net/http"

// ForwardedTokenHeader is set by the Databricks Apps proxy in front of us.
const ForwardedTokenHeader = "X-Forwarded-Access-Token"

// Mode tells which kind of credential a request resolved to.
type Mode string

const (
	// ModeApp means the request carries a forwarded user token.
	ModeApp Mode = "app"
	// ModeLocal means the request falls back to the developer PAT.
	ModeLocal Mode = "local"
)

// Credential is the resolved authentication for a single request.
// It is never cached across requests: OBO tokens are short-lived and
// user-specific.
type Credential struct {
	Mode  Mode
	Token string
}

// Resolve picks the credential for one request. A forwarded token always wins,
// regardless of whether a local PAT is configured. The returned token may be
// empty in local mode; callers must check HasToken before any network call.
func Resolve(r *http.Request, localToken string) Credential {
	if obo := r.Header.Get(ForwardedTokenHeader); obo != "" {
		return Credential{Mode: ModeApp, Token: obo}
	}
	return Credential{Mode: ModeLocal, Token: localToken}
}

// HasToken reports whether a usable token was resolved.
func (c Credential) HasToken() bool {
	return c.Token != ""
}
