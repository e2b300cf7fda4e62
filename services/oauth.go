package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"

	"github.com/mddforum/mdd-api/apperror"
	"github.com/mddforum/mdd-api/config"
	"github.com/mddforum/mdd-api/models"
	"github.com/mddforum/mdd-api/repository"
	"github.com/mddforum/mdd-api/utils"
)

const (
	ProviderGitHub = "github"
	ProviderGoogle = "google"

	oauthStateTTL     = 10 * time.Minute
	maxUsernameLength = 50
)

// OAuthProfile is the identity returned by a provider.
type OAuthProfile struct {
	ID       string
	Username string
	Email    string
	// EmailVerified is true only when the provider vouches for Email.
	EmailVerified bool
}

// OAuthProvider couples an oauth2 config with the endpoint that describes the signed-in user.
type OAuthProvider struct {
	Name       string
	Config     *oauth2.Config
	ProfileURL string
	// EmailsURL lists verified addresses when the profile hides the email (GitHub).
	EmailsURL string
}

// NewOAuthProviders builds the providers that have client credentials configured.
func NewOAuthProviders(cfg config.AppConfig) []*OAuthProvider {
	var providers []*OAuthProvider
	base := strings.TrimRight(cfg.OAuthRedirectBase, "/")
	if cfg.GitHubClientID != "" && cfg.GitHubClientSecret != "" {
		providers = append(providers, &OAuthProvider{
			Name: ProviderGitHub,
			Config: &oauth2.Config{
				ClientID:     cfg.GitHubClientID,
				ClientSecret: cfg.GitHubClientSecret,
				RedirectURL:  fmt.Sprintf("%s/api/auth/oauth/github/callback", base),
				Scopes:       []string{"read:user", "user:email"},
				Endpoint:     github.Endpoint,
			},
			ProfileURL: "https://api.github.com/user",
			EmailsURL:  "https://api.github.com/user/emails",
		})
	}
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		providers = append(providers, &OAuthProvider{
			Name: ProviderGoogle,
			Config: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				RedirectURL:  fmt.Sprintf("%s/api/auth/oauth/google/callback", base),
				Scopes:       []string{"openid", "profile", "email"},
				Endpoint:     google.Endpoint,
			},
			ProfileURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		})
	}
	return providers
}

func (s *AuthService) provider(name string) (*OAuthProvider, error) {
	p, ok := s.oauth[strings.ToLower(name)]
	if !ok {
		return nil, apperror.Validation("provider", fmt.Sprintf("OAuth provider %q is not configured", name))
	}
	return p, nil
}

// OAuthLoginURL returns the provider authorization URL and the single-use state bound to it.
func (s *AuthService) OAuthLoginURL(providerName string) (string, string, error) {
	p, err := s.provider(providerName)
	if err != nil {
		return "", "", err
	}
	state := uuid.NewString()
	utils.SaveState(state, oauthStateTTL)
	return p.Config.AuthCodeURL(state, oauth2.AccessTypeOffline), state, nil
}

// OAuthCallback exchanges code, loads the provider profile and returns a token for the linked account.
func (s *AuthService) OAuthCallback(ctx context.Context, providerName, code, state string) (string, error) {
	p, err := s.provider(providerName)
	if err != nil {
		return "", err
	}
	if code == "" || state == "" {
		return "", apperror.Validation("code", "Missing code or state")
	}
	if !utils.ConsumeState(state) {
		return "", apperror.Validation("state", "Invalid or expired state")
	}

	token, err := p.Config.Exchange(ctx, code)
	if err != nil {
		utils.Logger.Warn("oauth code exchange failed", zap.String("provider", p.Name), zap.Error(err))
		return "", apperror.Validation("code", "Failed to exchange code")
	}

	profile, err := p.fetchProfile(ctx, p.Config.Client(ctx, token))
	if err != nil {
		return "", apperror.Internal(err)
	}

	user, err := s.findOrCreateOAuthUser(ctx, p.Name, profile)
	if err != nil {
		return "", err
	}
	return s.issue(user.Email)
}

func (p *OAuthProvider) fetchProfile(ctx context.Context, client *http.Client) (*OAuthProfile, error) {
	switch p.Name {
	case ProviderGitHub:
		var payload struct {
			ID    int64  `json:"id"`
			Login string `json:"login"`
			Email string `json:"email"`
		}
		if err := getJSON(ctx, client, p.ProfileURL, &payload); err != nil {
			return nil, err
		}
		// The public profile email carries no verification flag; only the emails endpoint does.
		profile := &OAuthProfile{ID: fmt.Sprintf("%d", payload.ID), Username: payload.Login, Email: payload.Email}
		if p.EmailsURL != "" {
			email, err := fetchGitHubEmail(ctx, client, p.EmailsURL)
			if err != nil {
				return nil, err
			}
			if email != "" {
				profile.Email = email
				profile.EmailVerified = true
			}
		}
		return profile, nil
	case ProviderGoogle:
		var payload struct {
			ID            string `json:"id"`
			Email         string `json:"email"`
			VerifiedEmail bool   `json:"verified_email"`
			Name          string `json:"name"`
		}
		if err := getJSON(ctx, client, p.ProfileURL, &payload); err != nil {
			return nil, err
		}
		username := payload.Name
		if i := strings.Index(payload.Email, "@"); username == "" && i > 0 {
			username = payload.Email[:i]
		}
		return &OAuthProfile{ID: payload.ID, Username: username, Email: payload.Email, EmailVerified: payload.VerifiedEmail}, nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", p.Name)
	}
}

// fetchGitHubEmail returns the primary verified address, else any verified one, else "".
func fetchGitHubEmail(ctx context.Context, client *http.Client, url string) (string, error) {
	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := getJSON(ctx, client, url, &emails); err != nil {
		return "", err
	}
	fallback := ""
	for _, e := range emails {
		if !e.Verified {
			continue
		}
		if e.Primary {
			return e.Email, nil
		}
		if fallback == "" {
			fallback = e.Email
		}
	}
	return fallback, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// findOrCreateOAuthUser links by (provider, provider id) first, then by verified email, and creates the account last.
func (s *AuthService) findOrCreateOAuthUser(ctx context.Context, provider string, profile *OAuthProfile) (*models.User, error) {
	if profile.ID == "" {
		return nil, apperror.Validation("provider", "Provider returned no account id")
	}
	user, err := s.users.FindByProvider(ctx, provider, profile.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.Internal(err)
	}

	email := strings.TrimSpace(profile.Email)
	if email == "" {
		return nil, apperror.Validation("email", "Provider account has no email address")
	}
	if !profile.EmailVerified {
		return nil, apperror.Validation("email", "Provider account has no verified email address")
	}

	user, err = s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if user.Provider == "" {
			user.Provider = provider
			user.ProviderID = profile.ID
			if err := s.users.Save(ctx, user); err != nil {
				return nil, apperror.Internal(err)
			}
		}
		return user, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, apperror.Internal(err)
	}

	username, err := s.uniqueUsername(ctx, profile.Username, provider, profile.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	user = &models.User{Email: email, Username: username, Provider: provider, ProviderID: profile.ID}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict(apperror.CodeUserAlreadyExists, "A user with this email or username already exists")
		}
		return nil, apperror.Internal(err)
	}
	utils.Logger.Info("oauth user created", zap.String("provider", provider), zap.Uint("user_id", user.ID))
	return user, nil
}

func sanitizeUsername(input string) string {
	input = strings.ToLower(strings.TrimSpace(input))
	var b strings.Builder
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '_' || r == '-' || r == '.':
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), "_")
	if len(out) > maxUsernameLength-5 {
		out = out[:maxUsernameLength-5]
	}
	return out
}

func (s *AuthService) uniqueUsername(ctx context.Context, base, provider, id string) (string, error) {
	base = sanitizeUsername(base)
	if len(base) < 3 {
		base = sanitizeUsername(provider + "_" + id)
	}
	candidate := base
	for suffix := 1; ; suffix++ {
		taken, err := s.users.UsernameTaken(ctx, candidate, 0)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s_%d", base, suffix)
	}
}
