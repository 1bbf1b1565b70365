package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCurrentUserPrimary(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != scimMePath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"userName":"alice@example.com","active":true}`))
	}))
	defer srv.Close()

	user, err := NewClient(srv.URL).CurrentUser(context.Background(), "obo-token")
	if err != nil {
		t.Fatalf("CurrentUser() error: %v", err)
	}
	if gotAuth != "Bearer obo-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if user["userName"] != "alice@example.com" {
		t.Errorf("userName = %v", user["userName"])
	}
}

func TestCurrentUserFallsBack(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path == scimMePath {
			http.Error(w, "scim disabled", http.StatusNotImplemented)
			return
		}
		w.Write([]byte(`{"userName":"bob@example.com"}`))
	}))
	defer srv.Close()

	user, err := NewClient(srv.URL).CurrentUser(context.Background(), "obo-token")
	if err != nil {
		t.Fatalf("CurrentUser() error: %v", err)
	}
	if len(paths) != 2 || paths[0] != scimMePath || paths[1] != currentUserPath {
		t.Errorf("paths = %v, want primary then fallback", paths)
	}
	if user["userName"] != "bob@example.com" {
		t.Errorf("userName = %v", user["userName"])
	}
}

func TestCurrentUserBothFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL).CurrentUser(context.Background(), "obo-token"); err == nil {
		t.Fatal("want error when both endpoints refuse")
	}
}

func TestCurrentUserNonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	user, err := NewClient(srv.URL).CurrentUser(context.Background(), "obo-token")
	if err != nil {
		t.Fatalf("CurrentUser() error: %v", err)
	}
	if user["status"] != 200 || user["text"] != "not json at all" {
		t.Errorf("got %v, want raw status/text echo", user)
	}
}
