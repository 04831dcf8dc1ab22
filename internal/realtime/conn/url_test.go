package conn

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveURL_Precedence(t *testing.T) {
	tests := []struct {
		name string
		cfg  URLConfig
		want string
	}{
		{
			name: "explicit override wins",
			cfg: URLConfig{
				Override: "wss://push.hoster.example/realtime",
				APIBase:  "https://api.hoster.example",
				Origin:   "https://admin.hoster.example",
			},
			want: "wss://push.hoster.example/realtime",
		},
		{
			name: "api base upgraded to wss with fixed path",
			cfg: URLConfig{
				APIBase: "https://api.hoster.example",
				Origin:  "https://admin.hoster.example",
			},
			want: "wss://api.hoster.example/realtime",
		},
		{
			name: "plain http api base becomes ws",
			cfg:  URLConfig{APIBase: "http://api.hoster.example:8080"},
			want: "ws://api.hoster.example:8080/realtime",
		},
		{
			name: "api base path and query are discarded",
			cfg:  URLConfig{APIBase: "https://api.hoster.example/v2?trace=1"},
			want: "wss://api.hoster.example/realtime",
		},
		{
			name: "same origin fallback",
			cfg:  URLConfig{Origin: "https://admin.hoster.example"},
			want: "wss://admin.hoster.example/realtime",
		},
		{
			name: "development port substitution on same origin",
			cfg: URLConfig{
				Origin:      "http://localhost:3000",
				DevPort:     "8081",
				Development: true,
			},
			want: "ws://localhost:8081/realtime",
		},
		{
			name: "port substitution only applies in development",
			cfg: URLConfig{
				Origin:  "https://admin.hoster.example:3000",
				DevPort: "8081",
			},
			want: "wss://admin.hoster.example:3000/realtime",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveURL(tt.cfg)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestResolveURL_Errors(t *testing.T) {
	_, err := ResolveURL(URLConfig{})
	require.Error(t, err)

	_, err = ResolveURL(URLConfig{APIBase: "ftp://api.hoster.example"})
	require.Error(t, err)
}

func TestBackoff_CappedExponential(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "500ms"},
		{1, "1s"},
		{2, "2s"},
		{3, "4s"},
		{4, "8s"},
		{5, "10s"},
		{6, "10s"},
		{40, "10s"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, Backoff(tt.n).String(), "n=%d", tt.n)
	}
}
