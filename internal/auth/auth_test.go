package auth

import (
	"bytes"
	"net/http/httptest"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/fairyhunter13/inventory-service/internal/config"
	"github.com/fairyhunter13/inventory-service/internal/obs"
)

func TestHeaderProvider(t *testing.T) {
	c := qt.New(t)

	r := httptest.NewRequest("GET", "/", nil)
	_, ok := HeaderProvider{}.CurrentUser(r)
	c.Assert(ok, qt.IsFalse)

	r.Header.Set(HeaderUserID, "  ")
	_, ok = HeaderProvider{}.CurrentUser(r)
	c.Assert(ok, qt.IsFalse)

	r.Header.Set(HeaderUserID, "u-1")
	r.Header.Set(HeaderUserEmail, "a@example.com")
	p, ok := HeaderProvider{}.CurrentUser(r)
	c.Assert(ok, qt.IsTrue)
	c.Assert(p, qt.DeepEquals, Principal{ID: "u-1", Email: "a@example.com"})
}

func TestParseTokens(t *testing.T) {
	tests := []struct {
		name    string
		raw    string
		want    map[string]Principal
		wantErr string
	}{
		{name: "empty", raw: "", want: map[string]Principal{}},
		{
			name: "id and email",
			raw: "tok1=u-1:a@example.com, tok2=u-2",
			want: map[string]Principal{
				"tok1": {ID: "u-1", Email: "a@example.com"},
				"tok2": {ID: "u-2"},
			},
		},
		{name: "missing equals", raw: "tok1", wantErr: `invalid token entry "tok1".*`},
		{name: "missing id", raw: "tok1=:a@b", wantErr: `invalid token entry "tok1=:a@b": missing user id`},
		{name: "duplicate", raw: "t=a,t=b", wantErr: `duplicate token for user "b"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			got, err := ParseTokens(tt.raw)
			if tt.wantErr != "" {
				c.Assert(err, qt.ErrorMatches, tt.wantErr)
				return
			}
			c.Assert(err, qt.IsNil)
			c.Assert(got, qt.DeepEquals, tt.want)
		})
	}
}

func TestTokenProvider(t *testing.T) {
	c := qt.New(t)
	p := NewTokenProvider(map[string]Principal{"secret": {ID: "u-1"}})

	cases := []struct {
		header string
		ok     bool
	}{
		{"", false},
		{"secret", false},
		{"Basic secret", false},
		{"Bearer wrong", false},
		{"Bearer ", false},
		{"Bearer secret", true},
		{"bearer secret", true},
	}
	for _, tc := range cases {
		r := httptest.NewRequest("GET", "/", nil)
		if tc.header != "" {
			r.Header.Set("Authorization", tc.header)
		}
		got, ok := p.CurrentUser(r)
		c.Assert(ok, qt.Equals, tc.ok, qt.Commentf("header %q", tc.header))
		if ok {
			c.Assert(got.ID, qt.Equals, "u-1")
		}
	}
}

func TestNewProvider(t *testing.T) {
	c := qt.New(t)

	p, err := NewProvider(config.Config{AuthMode: config.AuthModeHeader})
	c.Assert(err, qt.IsNil)
	c.Assert(p, qt.Equals, Provider(HeaderProvider{}))

	p, err = NewProvider(config.Config{AuthMode: config.AuthModeToken, AuthTokens: "t=u"})
	c.Assert(err, qt.IsNil)
	_, isToken := p.(*TokenProvider)
	c.Assert(isToken, qt.IsTrue)

	_, err = NewProvider(config.Config{AuthMode: config.AuthModeToken})
	c.Assert(err, qt.ErrorMatches, `auth mode "token" needs at least one token`)

	_, err = NewProvider(config.Config{AuthMode: "ldap"})
	c.Assert(err, qt.ErrorMatches, `unknown auth mode "ldap"`)
}

func TestNewProvider_WarnsInHeaderMode(t *testing.T) {
	c := qt.New(t)
	var buf bytes.Buffer
	prev := obs.Logger
	obs.Logger = obs.NewLogger(&buf, "info", "json")
	t.Cleanup(func() { obs.Logger = prev })

	_, err := NewProvider(config.Config{AuthMode: config.AuthModeToken, AuthTokens: "t=u"})
	c.Assert(err, qt.IsNil)
	c.Assert(buf.String(), qt.Equals, "")

	_, err = NewProvider(config.Config{AuthMode: config.AuthModeHeader})
	c.Assert(err, qt.IsNil)
	c.Assert(buf.String(), qt.Contains, `"level":"WARN"`)
	c.Assert(buf.String(), qt.Contains, `"msg":"auth_header_mode"`)
	c.Assert(buf.String(), qt.Contains, `"header":"X-User-Id"`)
}
