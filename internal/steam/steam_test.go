package steam

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"inputvote/backend/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New("test-key", 5*time.Second)
	c.OpenIDURL = srv.URL + "/openid/login"
	c.APIURL = srv.URL
	return c
}

func TestLoginURL(t *testing.T) {
	c := New("", time.Second)
	raw := c.LoginURL("https://vote.example.com/")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "steamcommunity.com", u.Host)
	q := u.Query()
	assert.Equal(t, "checkid_setup", q.Get("openid.mode"))
	assert.Equal(t, "https://vote.example.com/authorize", q.Get("openid.return_to"))
	assert.Equal(t, "https://vote.example.com", q.Get("openid.realm"))
}

func TestSteamIDFromClaimedID(t *testing.T) {
	id, err := SteamIDFromClaimedID("https://steamcommunity.com/openid/id/76561197960287930")
	require.NoError(t, err)
	assert.Equal(t, "76561197960287930", id)

	for _, bad := range []string{
		"",
		"https://steamcommunity.com/openid/id/",
		"https://evil.example.com/openid/id/123",
		"https://steamcommunity.com/openid/id/123/extra",
	} {
		_, err := SteamIDFromClaimedID(bad)
		assert.ErrorIs(t, err, ErrInvalidIdentity, bad)
	}
}

func TestVerify(t *testing.T) {
	modes := make(chan string, 2)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		modes <- r.PostForm.Get("openid.mode")
		if r.PostForm.Get("openid.sig") == "good" {
			w.Write([]byte("ns:http://specs.openid.net/auth/2.0\nis_valid:true\n"))
			return
		}
		w.Write([]byte("ns:http://specs.openid.net/auth/2.0\nis_valid:false\n"))
	})

	params := url.Values{
		"openid.mode":   {"id_res"},
		"openid.signed": {"signed,op_endpoint"},
		"openid.sig":    {"good"},
	}
	ok, err := c.Verify(context.Background(), params)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "check_authentication", <-modes)
	assert.Equal(t, "id_res", params.Get("openid.mode"), "caller params are not modified")

	params.Set("openid.sig", "forged")
	ok, err = c.Verify(context.Background(), params)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyUnsignedSkipsRequest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("unsigned response must not be sent to Steam")
	})

	ok, err := c.Verify(context.Background(), url.Values{"openid.mode": {"id_res"}})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPlayerSummary(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ISteamUser/GetPlayerSummaries/v0002/", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Write([]byte(`{"response":{"players":[{"steamid":"1","personaname":"gaben"}]}}`))
	})

	p, err := c.PlayerSummary(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "gaben", p.PersonaName)
}

func TestPlayerSummaryEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":{"players":[]}}`))
	})

	_, err := c.PlayerSummary(context.Background(), "1")
	assert.Error(t, err)
}

func TestCatalogSource(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ISteamApps/GetAppList/v0002/", r.URL.Path)
		w.Write([]byte(`{"applist":{"apps":[{"appid":570,"name":"Dota 2"},{"appid":440,"name":"Team Fortress 2"}]}}`))
	})

	apps, err := CatalogSource{Client: c}.Apps(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []catalog.App{{ID: 570, Name: "Dota 2"}, {ID: 440, Name: "Team Fortress 2"}}, apps)
}

func TestNon2xxIsError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.AppList(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
