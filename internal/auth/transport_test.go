package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTransport(t *testing.T) {
	for in, want := range map[string]Transport{"header": HeaderOnly, "cookie": CookieOnly, "both": HeaderThenCookie} {
		got, err := ParseTransport(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseTransport("query")
	assert.Error(t, err)
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name      string
		transport Transport
		header    string
		cookie    string
		want      string
		cause     error
	}{
		{name: "header bearer", transport: HeaderOnly, header: "Bearer abc", want: "abc"},
		{name: "header ignores cookie", transport: HeaderOnly, cookie: "abc", cause: ErrTokenMissing},
		{name: "header wrong scheme", transport: HeaderOnly, header: "Basic abc", cause: ErrTokenMalformed},
		{name: "header empty bearer", transport: HeaderOnly, header: "Bearer ", cause: ErrTokenMalformed},
		{name: "cookie", transport: CookieOnly, cookie: "abc", want: "abc"},
		{name: "cookie ignores header", transport: CookieOnly, header: "Bearer abc", cause: ErrTokenMissing},
		{name: "both prefers header", transport: HeaderThenCookie, header: "Bearer from-header", cookie: "from-cookie", want: "from-header"},
		{name: "both falls back to cookie", transport: HeaderThenCookie, cookie: "from-cookie", want: "from-cookie"},
		{name: "both bad header not rescued", transport: HeaderThenCookie, header: "Token x", cookie: "from-cookie", cause: ErrTokenMalformed},
		{name: "both nothing", transport: HeaderThenCookie, cause: ErrTokenMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: CookieName, Value: tt.cookie})
			}

			got, err := tt.transport.Extract(req)
			if tt.cause != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.cause), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	HeaderThenCookie.SetCookie(rec, "abc", time.Hour, true)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, CookieName, c.Name)
	assert.Equal(t, "abc", c.Value)
	assert.Equal(t, 3600, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)

	rec = httptest.NewRecorder()
	HeaderOnly.SetCookie(rec, "abc", time.Hour, false)
	assert.Empty(t, rec.Result().Cookies())
}
