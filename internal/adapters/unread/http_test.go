package unread

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClient_UnreadCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, CountPath, r.URL.Path)
		require.Equal(t, "Bearer session-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"unreadCount": 7}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "session-token")
	count, err := c.UnreadCount(context.Background())
	require.NoError(t, err)
	require.Equal(t, 7, count)
}

func TestClient_UnreadCountErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"unreadCount":`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := NewClient(srv.URL, "")
			_, err := c.UnreadCount(context.Background())
			require.Error(t, err)
		})
	}
}

func TestClient_UnreadCountUnreachable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "")
	_, err := c.UnreadCount(context.Background())
	require.Error(t, err)
}
