package authcore

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTransformEnv(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "single word", in: "MONOCLOUD_AUTH_ISSUER", want: "issuer"},
		{name: "snake to camel", in: "MONOCLOUD_AUTH_CLIENT_ID", want: "clientId"},
		{name: "nested key", in: "MONOCLOUD_AUTH_ROUTES__SIGN_IN", want: "routes.signIn"},
		{name: "nested single word", in: "MONOCLOUD_AUTH_ROUTES__CALLBACK", want: "routes.callback"},
		{name: "multi word", in: "MONOCLOUD_AUTH_REFRESH_USER_INFO", want: "refreshUserInfo"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := transformEnv(tt.in); got != tt.want {
				t.Errorf("transformEnv(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) { //nolint:paralleltest // mutates the environment
	t.Setenv("MONOCLOUD_AUTH_ISSUER", "https://tenant.monocloud.com")
	t.Setenv("MONOCLOUD_AUTH_CLIENT_ID", "client-1")
	t.Setenv("MONOCLOUD_AUTH_CLIENT_SECRET", "secret")
	t.Setenv("MONOCLOUD_AUTH_APP_URL", "https://app.example.com/")
	t.Setenv("MONOCLOUD_AUTH_COOKIE_SECRET", "cookie-secret")
	t.Setenv("MONOCLOUD_AUTH_ROUTES__SIGN_IN", "/auth/login")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() = %v", err)
	}

	if cfg.Issuer != "https://tenant.monocloud.com" {
		t.Errorf("Issuer = %q", cfg.Issuer)
	}
	if cfg.ClientID != "client-1" {
		t.Errorf("ClientID = %q", cfg.ClientID)
	}
	if cfg.AppURL != "https://app.example.com" {
		t.Errorf("AppURL = %q, want trailing slash trimmed", cfg.AppURL)
	}
	if cfg.Routes.SignIn != "/auth/login" {
		t.Errorf("Routes.SignIn = %q, want the environment override", cfg.Routes.SignIn)
	}
	if cfg.Routes.Callback != "/api/auth/callback" {
		t.Errorf("Routes.Callback = %q, want the default", cfg.Routes.Callback)
	}
	if cfg.CookieName != "session" {
		t.Errorf("CookieName = %q, want the default", cfg.CookieName)
	}
	if cfg.GroupsClaim != "groups" {
		t.Errorf("GroupsClaim = %q, want the default", cfg.GroupsClaim)
	}
	if want := []string{"openid", "profile", "email"}; !cmp.Equal(want, cfg.Scopes) {
		t.Errorf("Scopes = %v, want %v", cfg.Scopes, want)
	}
}

func TestLoadConfigMissingRequired(t *testing.T) { //nolint:paralleltest // mutates the environment
	t.Setenv("MONOCLOUD_AUTH_ISSUER", "https://tenant.monocloud.com")

	_, err := LoadConfig()
	if err == nil {
		t.Fatal("LoadConfig() expected error for missing required keys")
	}
	for _, key := range []string{"clientId", "clientSecret", "appUrl", "cookieSecret"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error %q does not name missing key %q", err.Error(), key)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := Config{
		Issuer:       "https://tenant.monocloud.com",
		ClientID:     "client-1",
		ClientSecret: "secret",
		AppURL:       "https://app.example.com",
		CookieSecret: "cookie-secret",
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing issuer", mutate: func(c *Config) { c.Issuer = "" }, wantErr: true},
		{name: "missing client id", mutate: func(c *Config) { c.ClientID = " " }, wantErr: true},
		{name: "missing cookie secret", mutate: func(c *Config) { c.CookieSecret = "" }, wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid
			tt.mutate(&cfg)

			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
