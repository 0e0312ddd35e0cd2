package clientip_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/shopfront/pkg/clientip"
)

func TestResolverGetIP(t *testing.T) {
	t.Parallel()

	res, err := clientip.New("10.0.0.0/8", "::1")
	require.NoError(t, err)

	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{
			name:       "remote addr",
			remoteAddr: "192.0.2.10:5555",
			want:       "192.0.2.10",
		},
		{
			name:       "untrusted peer cannot spoof",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.1", "CF-Connecting-IP": "203.0.113.5"},
			remoteAddr: "192.0.2.10:5555",
			want:       "192.0.2.10",
		},
		{
			name:       "cloudflare wins behind proxy",
			headers:    map[string]string{"CF-Connecting-IP": "203.0.113.5", "X-Forwarded-For": "198.51.100.1"},
			remoteAddr: "10.0.0.1:80",
			want:       "203.0.113.5",
		},
		{
			name:       "rightmost untrusted hop",
			headers:    map[string]string{"X-Forwarded-For": "1.2.3.4, 198.51.100.1, 10.0.0.2, 10.0.0.3"},
			remoteAddr: "10.0.0.1:80",
			want:       "198.51.100.1",
		},
		{
			name:       "garbage hop stops the walk",
			headers:    map[string]string{"X-Forwarded-For": "garbage", "X-Real-IP": "198.51.100.7"},
			remoteAddr: "10.0.0.1:80",
			want:       "198.51.100.7",
		},
		{
			name:       "unspecified rejected",
			headers:    map[string]string{"X-Real-IP": "0.0.0.0"},
			remoteAddr: "10.0.0.1:80",
			want:       "10.0.0.1",
		},
		{
			name:       "ipv6 proxy",
			headers:    map[string]string{"X-Real-IP": "2001:db8::1"},
			remoteAddr: "[::1]:80",
			want:       "2001:db8::1",
		},
		{
			name:       "raw remote addr fallback",
			remoteAddr: "pipe",
			want:       "pipe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, res.GetIP(r))
		})
	}
}

func TestGetIPIgnoresHeaders(t *testing.T) {
	t.Parallel()

	for _, xff := range []string{"198.51.100.1", "198.51.100.2", "198.51.100.3"} {
		r := httptest.NewRequest("POST", "/login", nil)
		r.RemoteAddr = "192.0.2.10:5555"
		r.Header.Set("X-Forwarded-For", xff)
		assert.Equal(t, "192.0.2.10", clientip.GetIP(r))
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := clientip.NewFromConfig(clientip.Config{TrustedProxies: []string{"10.0.0.0/8", " 127.0.0.1 ", ""}})
	assert.NoError(t, err)

	for _, bad := range []string{"10.0.0.0/99", "proxy.internal"} {
		_, err := clientip.New(bad)
		assert.Error(t, err, bad)
	}
}
