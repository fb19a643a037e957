package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"github.com/gistbin/accounts/pkg/domain"
)

// ProviderGitHub is the provider name recorded on identities resolved
// through this gateway.
const ProviderGitHub = "github"

const githubAPIBaseURL = "https://api.github.com"

// GitHubConfig holds GitHub OAuth application settings.
type GitHubConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// GitHubService drives the GitHub authorization-code flow and maps the
// provider's view of the user onto the identity assertion the linking
// service consumes. The handshake output — identity pair, profile
// snapshot and provider token — is the only thing the core sees.
type GitHubService struct {
	config     *oauth2.Config
	apiBaseURL string
	httpClient *http.Client
}

// NewGitHubService creates a new GitHub gateway service.
func NewGitHubService(cfg GitHubConfig) *GitHubService {
	return &GitHubService{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
		apiBaseURL: githubAPIBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// AuthURL returns the provider authorization URL for the given CSRF
// state.
func (s *GitHubService) AuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// githubUser is the subset of the GitHub /user response this service
// consumes.
type githubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
	Bio       string `json:"bio"`
	Blog      string `json:"blog"`
}

// Exchange trades an authorization code for the resolved identity
// assertion: the external identity pair, the profile snapshot, and the
// provider access token carried inside the snapshot.
func (s *GitHubService) Exchange(ctx context.Context, code string) (domain.ExternalIdentity, domain.ProfileSnapshot, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)

	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return domain.ExternalIdentity{}, domain.ProfileSnapshot{}, fmt.Errorf("exchange code: %w", err)
	}

	ghUser, err := s.fetchUser(ctx, token)
	if err != nil {
		return domain.ExternalIdentity{}, domain.ProfileSnapshot{}, err
	}
	if ghUser.ID == 0 || ghUser.Login == "" {
		return domain.ExternalIdentity{}, domain.ProfileSnapshot{}, fmt.Errorf("github returned an incomplete user")
	}

	identity := domain.ExternalIdentity{
		Provider:   ProviderGitHub,
		ProviderID: strconv.FormatInt(ghUser.ID, 10),
	}
	snapshot := domain.ProfileSnapshot{
		Username:      ghUser.Login,
		DisplayName:   optional(ghUser.Name),
		Email:         optional(ghUser.Email),
		AvatarURL:     optional(ghUser.AvatarURL),
		Description:   optional(ghUser.Bio),
		Website:       optional(ghUser.Blog),
		ProviderToken: optional(token.AccessToken),
	}
	return identity, snapshot, nil
}

func (s *GitHubService) fetchUser(ctx context.Context, token *oauth2.Token) (*githubUser, error) {
	client := s.config.Client(ctx, token)

	resp, err := client.Get(s.apiBaseURL + "/user")
	if err != nil {
		return nil, fmt.Errorf("fetch github user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github /user returned status %d", resp.StatusCode)
	}

	var ghUser githubUser
	if err := json.NewDecoder(resp.Body).Decode(&ghUser); err != nil {
		return nil, fmt.Errorf("decode github user: %w", err)
	}
	return &ghUser, nil
}

// optional maps GitHub's empty-string absence onto a nil field.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
