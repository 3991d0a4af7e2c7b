package csrf

import (
	"net/http"
	"testing"
	"time"

	"github.com/dmitrijs2005/todoauth/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuard() *Guard {
	return NewGuard([]byte("csrf-secret"), time.Hour, true)
}

func TestIssuePair(t *testing.T) {
	g := newGuard()

	client, server, err := g.IssuePair()
	require.NoError(t, err)
	assert.Len(t, client, tokenBytes*2)
	assert.NotEmpty(t, server)
	assert.NotContains(t, server, client, "cookie half must not be the bare token")

	client2, server2, err := g.IssuePair()
	require.NoError(t, err)
	assert.NotEqual(t, client, client2)
	assert.NotEqual(t, server, server2)
}

func TestValidate(t *testing.T) {
	g := newGuard()
	client, server, err := g.IssuePair()
	require.NoError(t, err)

	otherClient, otherServer, err := g.IssuePair()
	require.NoError(t, err)

	foreignClient, foreignServer, err := NewGuard([]byte("other-secret"), time.Hour, true).IssuePair()
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		cookie  string
		wantErr error
	}{
		{name: "matching pair", header: client, cookie: server},
		{name: "missing header", header: "", cookie: server, wantErr: common.ErrCsrfMissing},
		{name: "missing cookie", header: client, cookie: "", wantErr: common.ErrCsrfMissing},
		{name: "both missing", wantErr: common.ErrCsrfMissing},
		{name: "header from another pair", header: otherClient, cookie: server, wantErr: common.ErrCsrfInvalid},
		{name: "cookie from another pair", header: client, cookie: otherServer, wantErr: common.ErrCsrfInvalid},
		{name: "header tampered", header: client[:len(client)-1] + "x", cookie: server, wantErr: common.ErrCsrfInvalid},
		{name: "cookie tampered", header: client, cookie: server[:len(server)-2] + "AA", wantErr: common.ErrCsrfInvalid},
		{name: "cookie is plain token", header: client, cookie: client, wantErr: common.ErrCsrfInvalid},
		{name: "pair signed by another secret", header: foreignClient, cookie: foreignServer, wantErr: common.ErrCsrfInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.Validate(tt.header, tt.cookie)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidate_ExpiredPair(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for the pair to age")
	}

	g := NewGuard([]byte("csrf-secret"), time.Second, true)
	client, server, err := g.IssuePair()
	require.NoError(t, err)

	time.Sleep(2100 * time.Millisecond)

	require.ErrorIs(t, g.Validate(client, server), common.ErrCsrfInvalid)
}

func TestCookieAndClear(t *testing.T) {
	g := newGuard()

	c := g.Cookie("signed")
	assert.Equal(t, common.CSRFCookieName, c.Name)
	assert.Equal(t, "signed", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 3600, c.MaxAge)
	assert.True(t, c.Secure)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteNoneMode, c.SameSite)

	cl := g.Clear()
	assert.Equal(t, common.CSRFCookieName, cl.Name)
	assert.Empty(t, cl.Value)
	assert.Less(t, cl.MaxAge, 0)
}
