package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const defaultUserAPIURL = "https://api.github.com/user"

// Profile is the subset of the provider account we keep.
type Profile struct {
	ID        string
	Login     string
	AvatarURL string
}

type Provider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*Profile, error)
}

// ProviderError is a failure the provider reported, with the HTTP status the
// callback should answer with.
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string {
	return e.Message
}

type GitHubConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AuthURL      string
	TokenURL     string
	UserAPIURL   string
	Scopes       []string
}

type GitHubProvider struct {
	oauth      *oauth2.Config
	userAPIURL string
}

func NewGitHubProvider(cfg GitHubConfig) *GitHubProvider {
	endpoint := github.Endpoint
	if cfg.AuthURL != "" {
		endpoint.AuthURL = cfg.AuthURL
	}
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}
	endpoint.AuthStyle = oauth2.AuthStyleInParams

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{"read:user"}
	}

	userAPIURL := cfg.UserAPIURL
	if userAPIURL == "" {
		userAPIURL = defaultUserAPIURL
	}

	return &GitHubProvider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       scopes,
		},
		userAPIURL: userAPIURL,
	}
}

func (p *GitHubProvider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

// Exchange trades the authorization code for a token and loads the account
// behind it.
func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*Profile, error) {
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			msg := retrieveErr.ErrorDescription
			if msg == "" {
				msg = retrieveErr.ErrorCode
			}
			if msg == "" {
				msg = "Auth failed"
			}
			return nil, &ProviderError{Status: http.StatusBadRequest, Message: msg}
		}
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userAPIURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "svgshare")

	resp, err := p.oauth.Client(ctx, token).Do(req)
	if err != nil {
		return nil, &ProviderError{Status: http.StatusInternalServerError, Message: "Failed to fetch user info"}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ProviderError{Status: http.StatusInternalServerError, Message: "Failed to fetch user info"}
	}

	var account struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	if account.ID == 0 || account.Login == "" {
		return nil, fmt.Errorf("user info is missing id or login")
	}

	return &Profile{
		ID:        strconv.FormatInt(account.ID, 10),
		Login:     account.Login,
		AvatarURL: account.AvatarURL,
	}, nil
}
