package auth

import (
	"net/http/httptest"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		headerTok  string
		localTok   string
		wantMode   Mode
		wantToken  string
		wantUsable bool
	}{
		{
			name:       "forwarded token wins even with local PAT configured",
			headerTok:  "obo-token",
			localTok:   "local-pat",
			wantMode:   ModeApp,
			wantToken:  "obo-token",
			wantUsable: true,
		},
		{
			name:       "forwarded token without local PAT",
			headerTok:  "obo-token",
			wantMode:   ModeApp,
			wantToken:  "obo-token",
			wantUsable: true,
		},
		{
			name:       "no header falls back to local PAT",
			localTok:   "local-pat",
			wantMode:   ModeLocal,
			wantToken:  "local-pat",
			wantUsable: true,
		},
		{
			name:       "no header and no PAT resolves but is unusable",
			wantMode:   ModeLocal,
			wantToken:  "",
			wantUsable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/emails", nil)
			if tt.headerTok != "" {
				r.Header.Set(ForwardedTokenHeader, tt.headerTok)
			}

			cred := Resolve(r, tt.localTok)
			if cred.Mode != tt.wantMode {
				t.Errorf("mode = %s, want %s", cred.Mode, tt.wantMode)
			}
			if cred.Token != tt.wantToken {
				t.Errorf("token = %q, want %q", cred.Token, tt.wantToken)
			}
			if cred.HasToken() != tt.wantUsable {
				t.Errorf("HasToken() = %v, want %v", cred.HasToken(), tt.wantUsable)
			}
		})
	}
}
