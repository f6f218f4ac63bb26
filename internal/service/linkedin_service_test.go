package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alumnet/alumni-backend/internal/config"
	"github.com/alumnet/alumni-backend/internal/model"
	"github.com/alumnet/alumni-backend/internal/testutil"
)

func fakeLinkedIn(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/v2/accessToken", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("code") != "good-code" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "li-token", "token_type": "Bearer", "expires_in": 3600})
	})
	mux.HandleFunc("/v2/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer li-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(LinkedInProfile{
			Sub:     "li-abc123",
			Name:    "Omar F.",
			Picture: "https://media.licdn.com/omar.jpg",
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newLinkedInFixture(t *testing.T) (*LinkedInService, *AccountService, *model.Account) {
	t.Helper()
	srv := fakeLinkedIn(t)
	rdb, _ := newRedis(t)
	accounts := NewAccountService(testutil.NewAccounts(), testHasher, testLog)

	a, err := accounts.Register(context.Background(), alumniReg("omar@example.com"))
	require.NoError(t, err)

	cfg := config.LinkedInConfig{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost/api/v1/auth/linkedin/callback",
		AuthURL:      srv.URL + "/oauth/v2/authorization",
		TokenURL:     srv.URL + "/oauth/v2/accessToken",
		APIURL:       srv.URL,
	}
	return NewLinkedInService(cfg, rdb, accounts, testLog), accounts, a
}

func stateOf(t *testing.T, authURL string) string {
	t.Helper()
	u, err := url.Parse(authURL)
	require.NoError(t, err)
	state := u.Query().Get("state")
	require.NotEmpty(t, state)
	return state
}

func TestLinkedInService_LinksProfile(t *testing.T) {
	svc, _, account := newLinkedInFixture(t)
	ctx := context.Background()

	authURL, err := svc.AuthURL(ctx, account.ID)
	require.NoError(t, err)
	state := stateOf(t, authURL)

	linked, err := svc.Callback(ctx, state, "good-code")
	require.NoError(t, err)
	require.NotNil(t, linked.LinkedinID)
	assert.Equal(t, "li-abc123", *linked.LinkedinID)
	require.NotNil(t, linked.ProfilePicture)
	assert.Equal(t, "https://media.licdn.com/omar.jpg", *linked.ProfilePicture)
	assert.Equal(t, "Omar Farooq", linked.Name)

	_, err = svc.Callback(ctx, state, "good-code")
	assert.ErrorIs(t, err, ErrOAuthState)
}

func TestLinkedInService_KeepsExistingProfile(t *testing.T) {
	svc, accounts, account := newLinkedInFixture(t)
	ctx := context.Background()

	_, err := accounts.UpdateProfile(ctx, account.ID, model.ProfileUpdate{ProfilePicture: strPtr("/uploads/avatar_1.png")})
	require.NoError(t, err)

	authURL, err := svc.AuthURL(ctx, account.ID)
	require.NoError(t, err)
	linked, err := svc.Callback(ctx, stateOf(t, authURL), "good-code")
	require.NoError(t, err)

	assert.Equal(t, "Omar Farooq", linked.Name)
	require.NotNil(t, linked.ProfilePicture)
	assert.Equal(t, "/uploads/avatar_1.png", *linked.ProfilePicture)
	require.NotNil(t, linked.LinkedinID)
	assert.Equal(t, "li-abc123", *linked.LinkedinID)
}

func TestLinkedInService_CallbackFailures(t *testing.T) {
	svc, _, account := newLinkedInFixture(t)
	ctx := context.Background()

	_, err := svc.Callback(ctx, "unknown-state", "good-code")
	assert.ErrorIs(t, err, ErrOAuthState)

	authURL, err := svc.AuthURL(ctx, account.ID)
	require.NoError(t, err)
	_, err = svc.Callback(ctx, stateOf(t, authURL), "bad-code")
	assert.ErrorIs(t, err, ErrLinkedInUpstream)
}

func TestLinkedInService_Disabled(t *testing.T) {
	rdb, _ := newRedis(t)
	svc := NewLinkedInService(config.LinkedInConfig{}, rdb, NewAccountService(testutil.NewAccounts(), testHasher, testLog), testLog)

	_, err := svc.AuthURL(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrLinkedInDisabled)
	_, err = svc.Callback(context.Background(), "s", "c")
	assert.ErrorIs(t, err, ErrLinkedInDisabled)
}
