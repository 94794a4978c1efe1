package shared

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/airbusgeo/emit-ingester/service"
)

func newURSServer(t *testing.T) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		user, pswd, ok := r.BasicAuth()
		if !ok || user != "emit" || pswd != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"access_token":"tok3n","token_type":"Bearer","expiration_date":"10/31/2026"}`))
	}))
}

func TestEarthdataTokenSource(t *testing.T) {
	srv := newURSServer(t)
	defer srv.Close()

	ts, err := NewEarthdataTokenSource(srv.Client(), srv.URL, "emit", "secret", "")
	if err != nil {
		t.Fatal(err)
	}
	token, err := ts.Token()
	if err != nil {
		t.Fatal(err)
	}
	if token.AccessToken != "tok3n" || token.Expiry.Year() != 2026 {
		t.Errorf("unexpected token %+v", token)
	}
	if err := Login(context.Background(), ts); err != nil {
		t.Errorf("Login: %v", err)
	}
}

func TestEarthdataTokenSourceUnauthorized(t *testing.T) {
	srv := newURSServer(t)
	defer srv.Close()

	ts, err := NewEarthdataTokenSource(srv.Client(), srv.URL, "emit", "wrong", "")
	if err != nil {
		t.Fatal(err)
	}
	if err := Login(context.Background(), ts); err == nil || !service.Fatal(err) {
		t.Errorf("expected a fatal error, got %v", err)
	}
}

func TestEarthdataTokenSourceMissingCredentials(t *testing.T) {
	_, err := NewEarthdataTokenSource(nil, "", "", "", "")
	if !errors.Is(err, ErrMissingCredentials) || !service.Fatal(err) {
		t.Errorf("expected a fatal ErrMissingCredentials, got %v", err)
	}
}

func TestHTTPClientSendsToken(t *testing.T) {
	var auths []string
	data := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auths = append(auths, r.Header.Get("Authorization"))
		if r.URL.Path == "/redirect" {
			http.Redirect(w, r, "/file.nc", http.StatusFound)
			return
		}
		w.Write([]byte("data"))
	}))
	defer data.Close()

	ts, _ := NewEarthdataTokenSource(nil, "", "", "", "static")
	client := NewHTTPClient(context.Background(), ts, "127.0.0.1")
	resp, err := client.Get(data.URL + "/redirect")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if len(auths) != 2 || auths[0] != "Bearer static" || auths[1] != "Bearer static" {
		t.Errorf("unexpected authorization headers %v", auths)
	}
}

func TestHTTPClientRedirectToForeignHost(t *testing.T) {
	var foreignAuth []string
	foreign := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		foreignAuth = append(foreignAuth, r.Header.Get("Authorization"))
		w.Write([]byte("data"))
	}))
	defer foreign.Close()
	foreignURL, err := url.Parse(foreign.URL)
	if err != nil {
		t.Fatal(err)
	}
	foreignURL.Host = "localhost:" + foreignURL.Port()

	var originAuth string
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		originAuth = r.Header.Get("Authorization")
		http.Redirect(w, r, foreignURL.String()+"/signed.nc?X-Amz-Signature=abc", http.StatusTemporaryRedirect)
	}))
	defer origin.Close()

	ts, _ := NewEarthdataTokenSource(nil, "", "", "", "static")
	client := NewHTTPClient(context.Background(), ts, "127.0.0.1")
	resp, err := client.Get(origin.URL + "/file.nc")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if originAuth != "Bearer static" {
		t.Errorf("origin: expected the token, got %q", originAuth)
	}
	if len(foreignAuth) != 1 || foreignAuth[0] != "" {
		t.Errorf("redirect target must not receive the token, got %v", foreignAuth)
	}
}

func TestAuthorizedHost(t *testing.T) {
	for host, expected := range map[string]bool{
		"urs.earthdata.nasa.gov":                       true,
		"cmr.earthdata.nasa.gov":                       true,
		"data.lpdaac.earthdatacloud.nasa.gov":          true,
		"EARTHDATA.NASA.GOV":                           true,
		"notearthdata.nasa.gov":                        false,
		"earthdata.nasa.gov.evil.com":                  false,
		"lp-prod-protected.s3.us-west-2.amazonaws.com": false,
	} {
		if authorizedHost(host, EarthdataHosts) != expected {
			t.Errorf("%s: expected %v", host, expected)
		}
	}
}
