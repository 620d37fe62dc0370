// Package steam talks to Steam's OpenID provider and Web API.
package steam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	DefaultOpenIDURL = "https://steamcommunity.com/openid/login"
	DefaultAPIURL    = "https://api.steampowered.com"
)

var (
	// ErrInvalidIdentity is returned for claimed ids that are not Steam profile ids.
	ErrInvalidIdentity = errors.New("invalid steam identity")

	claimedIDPattern = regexp.MustCompile(`^https?://steamcommunity\.com/openid/id/(\d+)$`)
)

// Client is a small Steam client. The zero value is not usable; use New.
type Client struct {
	HTTP      *http.Client
	APIKey    string
	OpenIDURL string
	APIURL    string
}

func New(apiKey string, timeout time.Duration) *Client {
	return &Client{
		HTTP:      &http.Client{Timeout: timeout},
		APIKey:    apiKey,
		OpenIDURL: DefaultOpenIDURL,
		APIURL:    DefaultAPIURL,
	}
}

// LoginURL builds the OpenID checkid_setup redirect. Steam sends the user back
// to publicURL + "/authorize".
func (c *Client) LoginURL(publicURL string) string {
	publicURL = strings.TrimRight(publicURL, "/")
	params := url.Values{
		"openid.ns":         {"http://specs.openid.net/auth/2.0"},
		"openid.identity":   {"http://specs.openid.net/auth/2.0/identifier_select"},
		"openid.claimed_id": {"http://specs.openid.net/auth/2.0/identifier_select"},
		"openid.mode":       {"checkid_setup"},
		"openid.return_to":  {publicURL + "/authorize"},
		"openid.realm":      {publicURL},
	}
	return c.OpenIDURL + "?" + params.Encode()
}

// Verify asks Steam whether the signed response in params is genuine.
func (c *Client) Verify(ctx context.Context, params url.Values) (bool, error) {
	if params.Get("openid.sig") == "" || params.Get("openid.signed") == "" {
		return false, nil
	}

	form := url.Values{}
	for k, v := range params {
		form[k] = v
	}
	form.Set("openid.mode", "check_authentication")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.OpenIDURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := c.do(req)
	if err != nil {
		return false, fmt.Errorf("check_authentication: %w", err)
	}
	return strings.Contains(string(body), "is_valid:true"), nil
}

// SteamIDFromClaimedID extracts the 64-bit Steam id from an OpenID identity URL.
func SteamIDFromClaimedID(identity string) (string, error) {
	m := claimedIDPattern.FindStringSubmatch(strings.TrimSpace(identity))
	if m == nil {
		return "", ErrInvalidIdentity
	}
	return m[1], nil
}

// Player is the subset of a Steam profile we keep.
type Player struct {
	SteamID     string `json:"steamid"`
	PersonaName string `json:"personaname"`
}

// PlayerSummary loads the public profile of steamID.
func (c *Client) PlayerSummary(ctx context.Context, steamID string) (*Player, error) {
	q := url.Values{"key": {c.APIKey}, "steamids": {steamID}}
	var resp struct {
		Response struct {
			Players []Player `json:"players"`
		} `json:"response"`
	}
	if err := c.getJSON(ctx, "/ISteamUser/GetPlayerSummaries/v0002/?"+q.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("player summary %s: %w", steamID, err)
	}
	if len(resp.Response.Players) == 0 {
		return nil, fmt.Errorf("player summary %s: no such player", steamID)
	}
	return &resp.Response.Players[0], nil
}

// App is one entry of the Steam app list.
type App struct {
	AppID int64  `json:"appid"`
	Name  string `json:"name"`
}

// AppList downloads the full Steam app list.
func (c *Client) AppList(ctx context.Context) ([]App, error) {
	var resp struct {
		AppList struct {
			Apps []App `json:"apps"`
		} `json:"applist"`
	}
	if err := c.getJSON(ctx, "/ISteamApps/GetAppList/v0002/?format=json", &resp); err != nil {
		return nil, fmt.Errorf("app list: %w", err)
	}
	return resp.AppList.Apps, nil
}

func (c *Client) getJSON(ctx context.Context, path string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(c.APIURL, "/")+path, nil)
	if err != nil {
		return err
	}
	body, err := c.do(req)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, dest)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return body, nil
}
