package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAdminAPI is an in-memory stand-in for the Supabase admin users API.
type fakeAdminAPI struct {
	mu      sync.Mutex
	users   []AdminUser
	created int
}

func (f *fakeAdminAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.Header.Get("apikey") != "service-key" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/auth/v1/admin/users":
		json.NewEncoder(w).Encode(listUsersResponse{Users: f.users})
	case r.Method == http.MethodPost && r.URL.Path == "/auth/v1/admin/users":
		var req CreateUserRequest
		json.NewDecoder(r.Body).Decode(&req)
		f.created++
		u := AdminUser{ID: "id-" + req.Email, Email: req.Email, Role: "authenticated"}
		f.users = append(f.users, u)
		json.NewEncoder(w).Encode(u)
	case r.Method == http.MethodDelete:
		for i, u := range f.users {
			if "/auth/v1/admin/users/"+u.ID == r.URL.Path {
				f.users = append(f.users[:i], f.users[i+1:]...)
				w.WriteHeader(http.StatusOK)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestAdminClient_EnsureUserIsIdempotent(t *testing.T) {
	api := &fakeAdminAPI{}
	srv := httptest.NewServer(api)
	defer srv.Close()

	client := NewAdminClient(srv.URL, "service-key")
	ctx := context.Background()

	first, err := client.EnsureUser(ctx, "demo@rove.test", "password")
	require.NoError(t, err)
	second, err := client.EnsureUser(ctx, "demo@rove.test", "password")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, api.created)
}

func TestAdminClient_DeleteUserByEmail(t *testing.T) {
	api := &fakeAdminAPI{users: []AdminUser{{ID: "u1", Email: "demo@rove.test"}}}
	srv := httptest.NewServer(api)
	defer srv.Close()

	client := NewAdminClient(srv.URL, "service-key")
	ctx := context.Background()

	require.NoError(t, client.DeleteUserByEmail(ctx, "demo@rove.test"))
	_, err := client.FindUserIDByEmail(ctx, "demo@rove.test")
	assert.ErrorIs(t, err, ErrUserNotFound)

	// Deleting a missing user is not an error
	assert.NoError(t, client.DeleteUserByEmail(ctx, "demo@rove.test"))
}

func TestAdminClient_BadKey(t *testing.T) {
	srv := httptest.NewServer(&fakeAdminAPI{})
	defer srv.Close()

	_, err := NewAdminClient(srv.URL, "wrong").FindUserIDByEmail(context.Background(), "x@y.z")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserNotFound)
}
