package shared

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/airbusgeo/emit-ingester/service"
	"github.com/airbusgeo/emit-ingester/service/log"
	"github.com/araddon/dateparse"
	"golang.org/x/oauth2"
)

// EarthdataTokenEndpoint returns the current user token, creating one if needed
const EarthdataTokenEndpoint = "https://urs.earthdata.nasa.gov/api/users/find_or_create_token"

// ErrMissingCredentials is returned when neither a token nor a username is configured
var ErrMissingCredentials = errors.New("missing Earthdata credentials")

type earthdataTokenSource struct {
	httpClient *http.Client
	endpoint   string
	username   string
	password   string
}

// NewEarthdataTokenSource returns a token source authenticating on the Earthdata Login service.
// A non-empty token is used as is.
func NewEarthdataTokenSource(client *http.Client, endpoint, username, password, token string) (oauth2.TokenSource, error) {
	if token != "" {
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}), nil
	}
	if username == "" || password == "" {
		return nil, service.MakeFatal(ErrMissingCredentials)
	}
	if client == nil {
		client = &http.Client{Timeout: time.Minute}
	}
	if endpoint == "" {
		endpoint = EarthdataTokenEndpoint
	}
	return oauth2.ReuseTokenSource(nil, &earthdataTokenSource{
		httpClient: client,
		endpoint:   endpoint,
		username:   username,
		password:   password,
	}), nil
}

type tokenResponse struct {
	AccessToken    string `json:"access_token"`
	TokenType      string `json:"token_type"`
	ExpirationDate string `json:"expiration_date"`
}

// Token implements oauth2.TokenSource
func (t *earthdataTokenSource) Token() (*oauth2.Token, error) {
	req, err := http.NewRequest(http.MethodPost, t.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create http request: %w", err)
	}
	req.SetBasicAuth(t.username, t.password)
	req.Header.Set("Accept", "application/json")

	r, err := t.httpClient.Do(req)
	if err != nil {
		return nil, service.MakeTemporary(fmt.Errorf("failed to retrieve token: %w", err))
	}
	defer r.Body.Close()

	switch r.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, service.MakeFatal(fmt.Errorf("earthdata authentication unauthorized (user %s)", t.username))
	case http.StatusForbidden:
		return nil, service.MakeFatal(fmt.Errorf("earthdata authentication forbidden (user %s)", t.username))
	default:
		return nil, fmt.Errorf("earthdata authentication: %s", r.Status)
	}

	resp := tokenResponse{}
	if err := json.NewDecoder(r.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("retrieved token is empty")
	}
	token := &oauth2.Token{AccessToken: resp.AccessToken, TokenType: resp.TokenType}
	if token.TokenType == "" {
		token.TokenType = "Bearer"
	}
	if resp.ExpirationDate != "" {
		if expiry, err := dateparse.ParseIn(resp.ExpirationDate, time.UTC); err == nil {
			token.Expiry = expiry
		}
	}
	return token, nil
}

// Login checks the credentials, retrieving a first token. Failures are fatal.
func Login(ctx context.Context, ts oauth2.TokenSource) error {
	token, err := ts.Token()
	if err != nil {
		if service.Fatal(err) {
			return fmt.Errorf("Login: %w", err)
		}
		return service.MakeFatal(fmt.Errorf("Login: %w", err))
	}
	if !token.Expiry.IsZero() {
		log.Logger(ctx).Sugar().Debugf("earthdata token valid until %s", token.Expiry.Format(time.DateOnly))
	}
	return nil
}

// EarthdataHosts are the domains allowed to receive the Earthdata token
var EarthdataHosts = []string{"earthdata.nasa.gov", "earthdatacloud.nasa.gov"}

// NewHTTPClient returns a client sending the bearer token to the authorized hosts only
// (EarthdataHosts and their subdomains if none is given). Redirections to other hosts,
// such as signed object-storage urls, are sent without Authorization header.
func NewHTTPClient(ctx context.Context, ts oauth2.TokenSource, authorizedHosts ...string) *http.Client {
	if len(authorizedHosts) == 0 {
		authorizedHosts = EarthdataHosts
	}
	base := http.DefaultTransport
	if c, ok := ctx.Value(oauth2.HTTPClient).(*http.Client); ok && c.Transport != nil {
		base = c.Transport
	}
	client := &http.Client{
		Transport: &hostTokenTransport{
			auth:  &oauth2.Transport{Source: ts, Base: base},
			base:  base,
			hosts: authorizedHosts,
		},
	}
	if jar, err := cookiejar.New(nil); err == nil {
		client.Jar = jar
	}
	return client
}

// hostTokenTransport adds the token to the requests of the authorized hosts
type hostTokenTransport struct {
	auth  http.RoundTripper
	base  http.RoundTripper
	hosts []string
}

// RoundTrip implements http.RoundTripper
func (t *hostTokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if authorizedHost(req.URL.Hostname(), t.hosts) {
		return t.auth.RoundTrip(req)
	}
	if req.Header.Get("Authorization") != "" {
		req = req.Clone(req.Context())
		req.Header.Del("Authorization")
	}
	return t.base.RoundTrip(req)
}

func authorizedHost(host string, hosts []string) bool {
	host = strings.ToLower(host)
	for _, h := range hosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}
