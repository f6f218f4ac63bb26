package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/alumnet/alumni-backend/internal/config"
	"github.com/alumnet/alumni-backend/internal/model"
)

// OAuthStateTTL bounds how long a LinkedIn authorization may take.
const OAuthStateTTL = 10 * time.Minute

var (
	ErrLinkedInDisabled = errors.New("linkedin integration is not configured")
	ErrOAuthState       = errors.New("oauth state is missing or expired")
	ErrLinkedInUpstream = errors.New("linkedin request failed")
)

// LinkedInProfile is the subset of the OpenID userinfo document we merge.
type LinkedInProfile struct {
	Sub     string `json:"sub"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	Email   string `json:"email"`
}

// LinkedInService links an account to its LinkedIn identity.
type LinkedInService struct {
	oauth    *oauth2.Config
	api      *resty.Client
	rdb      *redis.Client
	accounts *AccountService
	enabled  bool
	log      zerolog.Logger
}

// NewLinkedInService creates a new LinkedInService.
func NewLinkedInService(cfg config.LinkedInConfig, rdb *redis.Client, accounts *AccountService, log zerolog.Logger) *LinkedInService {
	return &LinkedInService{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		api: resty.New().
			SetBaseURL(strings.TrimRight(cfg.APIURL, "/")).
			SetTimeout(10 * time.Second).
			SetHeader("Accept", "application/json"),
		rdb:      rdb,
		accounts: accounts,
		enabled:  cfg.Enabled(),
		log:      log.With().Str("component", "linkedin_service").Logger(),
	}
}

// AuthURL starts an authorization for accountID and returns the LinkedIn
// consent URL. The state is single-use.
func (s *LinkedInService) AuthURL(ctx context.Context, accountID uuid.UUID) (string, error) {
	if !s.enabled {
		return "", ErrLinkedInDisabled
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	state := hex.EncodeToString(buf)

	if err := s.rdb.Set(ctx, config.CacheKey.OAuthStateKey(state), accountID.String(), OAuthStateTTL).Err(); err != nil {
		return "", fmt.Errorf("store state: %w", err)
	}
	return s.oauth.AuthCodeURL(state), nil
}

// Callback completes an authorization: it consumes state, exchanges code
// for a token, fetches the member profile and merges it into the account.
func (s *LinkedInService) Callback(ctx context.Context, state, code string) (*model.Account, error) {
	if !s.enabled {
		return nil, ErrLinkedInDisabled
	}
	if state == "" || code == "" {
		return nil, ErrOAuthState
	}

	owner, err := s.rdb.GetDel(ctx, config.CacheKey.OAuthStateKey(state)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrOAuthState
		}
		return nil, fmt.Errorf("load state: %w", err)
	}
	accountID, err := uuid.Parse(owner)
	if err != nil {
		return nil, ErrOAuthState
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		s.log.Warn().Err(err).Str("account_id", owner).Msg("LinkedIn code exchange failed")
		return nil, ErrLinkedInUpstream
	}

	var profile LinkedInProfile
	resp, err := s.api.R().
		SetContext(ctx).
		SetAuthToken(token.AccessToken).
		SetResult(&profile).
		Get("/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLinkedInUpstream, err)
	}
	if resp.IsError() {
		s.log.Warn().Int("status", resp.StatusCode()).Str("account_id", owner).Msg("LinkedIn userinfo rejected")
		return nil, ErrLinkedInUpstream
	}
	if profile.Sub == "" {
		return nil, ErrLinkedInUpstream
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	// The account name is always set at registration and is never
	// overwritten. Only the id and a missing picture are merged.
	upd := model.ProfileUpdate{LinkedinID: &profile.Sub}
	if account.ProfilePicture == nil && strings.HasPrefix(profile.Picture, "https://") {
		upd.ProfilePicture = &profile.Picture
	}

	updated, err := s.accounts.UpdateProfile(ctx, accountID, upd)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("account_id", owner).Msg("LinkedIn profile linked")
	return updated, nil
}
