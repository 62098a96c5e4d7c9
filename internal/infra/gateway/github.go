package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultAPIBase   = "https://api.github.com"
	defaultMinStars  = 100
	acceptGithubJSON = "application/vnd.github+json"
)

// GithubGateway performs the one-shot eligibility check behind the automated
// approval path. Repository handles need admin access and a minimum star
// count; organization handles need an admin membership.
type GithubGateway struct {
	client   *http.Client
	cache    *cache.Cache
	apiBase  string
	minStars int
}

func NewGithubGateway(minStars int) *GithubGateway {
	if minStars <= 0 {
		minStars = defaultMinStars
	}
	return &GithubGateway{
		client:   &http.Client{Timeout: defaultTimeout},
		cache:    cache.New(10*time.Minute, 15*time.Minute),
		apiBase:  defaultAPIBase,
		minStars: minStars,
	}
}

type repoInfo struct {
	FullName        string `json:"full_name"`
	StargazersCount int    `json:"stargazers_count"`
	Permissions     struct {
		Admin bool `json:"admin"`
	} `json:"permissions"`
}

type orgMembership struct {
	State string `json:"state"`
	Role  string `json:"role"`
}

// VerifyClaim checks that the token's owner may claim the handle. The
// returned error message is shown to the user as-is.
func (g *GithubGateway) VerifyClaim(ctx context.Context, handle string, token string) error {
	if strings.Contains(handle, "/") {
		return g.verifyRepository(ctx, handle, token)
	}
	return g.verifyOrganization(ctx, handle, token)
}

func (g *GithubGateway) verifyRepository(ctx context.Context, handle string, token string) error {
	var repo repoInfo
	if cached, found := g.cache.Get("repo:" + token + ":" + handle); found {
		repo = cached.(repoInfo)
	} else {
		err := g.get(ctx, "/repos/"+handle, token, &repo)
		if err != nil {
			return fmt.Errorf("we could not verify the GitHub repository %s: %v", handle, err)
		}
		g.cache.Set("repo:"+token+":"+handle, repo, cache.DefaultExpiration)
	}

	if !repo.Permissions.Admin {
		return fmt.Errorf("you must be an admin of the repository %s to claim this collective", handle)
	}
	if repo.StargazersCount < g.minStars {
		return fmt.Errorf("the repository %s needs at least %d stars to qualify for automated approval", handle, g.minStars)
	}
	return nil
}

func (g *GithubGateway) verifyOrganization(ctx context.Context, org string, token string) error {
	var membership orgMembership
	err := g.get(ctx, "/user/memberships/orgs/"+org, token, &membership)
	if err != nil {
		return fmt.Errorf("we could not verify your membership in the GitHub organization %s: %v", org, err)
	}

	if membership.State != "active" || membership.Role != "admin" {
		return fmt.Errorf("you must be an active admin of the GitHub organization %s to claim this collective", org)
	}
	return nil
}

func (g *GithubGateway) get(ctx context.Context, path string, token string, response any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.apiBase+path, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", acceptGithubJSON)
	req.Header.Set("Authorization", "token "+token)

	resp, err := g.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to perform request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	err = json.NewDecoder(resp.Body).Decode(response)
	if err != nil {
		return errors.Wrap(err, "failed to decode response")
	}

	return nil
}
