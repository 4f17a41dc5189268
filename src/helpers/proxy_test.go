package helpers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProxyManagerFiltersInvalid(t *testing.T) {
	pm := NewProxyManager([]string{"10.0.0.1:8080", "ftp://10.0.0.2:21", "", "https://10.0.0.3:443"}, "")

	require.True(t, pm.HasProxies())
	current, err := pm.GetCurrentProxy()
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.1:8080", current)

	pm.RotateProxy()
	current, _ = pm.GetCurrentProxy()
	assert.Equal(t, "https://10.0.0.3:443", current)

	pm.RotateProxy()
	current, _ = pm.GetCurrentProxy()
	assert.Equal(t, "http://10.0.0.1:8080", current)
}

func TestPinnedUserAgent(t *testing.T) {
	pm := NewProxyManager(nil, "dashboard-test/1.0")
	assert.Equal(t, "dashboard-test/1.0", pm.GetUserAgent())
	assert.False(t, pm.HasProxies())
}

func TestRefreshProxiesParsesTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><table>
<tr><th>IP Address</th><th>Port</th></tr>
<tr><td>1.2.3.4</td><td>8080</td><td>US</td></tr>
<tr><td>5.6.7.8</td><td>3128</td><td>DE</td></tr>
<tr><td>not-an-ip</td><td>80</td></tr>
</table></body></html>`))
	}))
	defer srv.Close()

	pm := NewProxyManager(nil, "")
	pm.SetListURL(srv.URL)

	n, err := pm.RefreshProxies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	current, _ := pm.GetCurrentProxy()
	assert.Contains(t, []string{"http://1.2.3.4:8080", "http://5.6.7.8:3128"}, current)
}

func TestRefreshProxiesEmptyPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>nothing</p></body></html>`))
	}))
	defer srv.Close()

	pm := NewProxyManager(nil, "")
	pm.SetListURL(srv.URL)

	_, err := pm.RefreshProxies(context.Background())
	assert.Error(t, err)
}
