package authcore

import (
	"os"
	"strings"
	"unicode"

	"github.com/go-playground/errors/v5"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ConfigFile is the optional configuration file looked up in the working
// directory. Environment variables override its values.
const ConfigFile = "monocloud.yaml"

const envPrefix = "MONOCLOUD_AUTH_"

// Config is the environment-style configuration surface of the auth core.
type Config struct {
	Issuer       string
	ClientID     string
	ClientSecret string

	// AppURL is the externally visible base URL of the application. Relative
	// request URLs and return URLs are resolved against it.
	AppURL string

	// CookieSecret keys the session and state cookie encryption.
	CookieSecret string

	Scopes      []string
	GroupsClaim string

	// RefreshUserInfo re-fetches user claims from the provider's userinfo
	// endpoint on every user-info request.
	RefreshUserInfo bool

	CookieName string
	Routes     Routes
}

// LoadConfig loads configuration in order of increasing precedence:
// built-in defaults, monocloud.yaml (when present), then environment
// variables with the MONOCLOUD_AUTH_ prefix.
//
// Environment variable transformation:
//   - MONOCLOUD_AUTH_CLIENT_ID        -> clientId
//   - MONOCLOUD_AUTH_ROUTES__SIGN_IN  -> routes.signIn
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]any{
		"scopes":          "openid profile email",
		"groupsClaim":     "groups",
		"refreshUserInfo": false,
		"cookieName":      "session",
		"routes.signIn":   "/api/auth/signin",
		"routes.callback": "/api/auth/callback",
		"routes.userInfo": "/api/auth/userinfo",
		"routes.signOut":  "/api/auth/signout",
	}
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, errors.Wrap(err, "koanf.Load()")
	}

	if _, err := os.Stat(ConfigFile); err == nil {
		if err := k.Load(file.Provider(ConfigFile), yaml.Parser()); err != nil {
			return nil, errors.Wrap(err, "koanf.Load()")
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", transformEnv), nil); err != nil {
		return nil, errors.Wrap(err, "koanf.Load()")
	}

	cfg := &Config{
		Issuer:          k.String("issuer"),
		ClientID:        k.String("clientId"),
		ClientSecret:    k.String("clientSecret"),
		AppURL:          strings.TrimSuffix(k.String("appUrl"), "/"),
		CookieSecret:    k.String("cookieSecret"),
		Scopes:          strings.Fields(k.String("scopes")),
		GroupsClaim:     k.String("groupsClaim"),
		RefreshUserInfo: k.Bool("refreshUserInfo"),
		CookieName:      k.String("cookieName"),
		Routes: Routes{
			SignIn:   k.String("routes.signIn"),
			Callback: k.String("routes.callback"),
			UserInfo: k.String("routes.userInfo"),
			SignOut:  k.String("routes.signOut"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate reports the configuration keys required to operate.
func (c *Config) Validate() error {
	var missing []string
	for _, kv := range []struct{ key, val string }{
		{"issuer", c.Issuer},
		{"clientId", c.ClientID},
		{"clientSecret", c.ClientSecret},
		{"appUrl", c.AppURL},
		{"cookieSecret", c.CookieSecret},
	} {
		if strings.TrimSpace(kv.val) == "" {
			missing = append(missing, kv.key)
		}
	}
	if len(missing) > 0 {
		return errors.Newf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	return nil
}

// transformEnv maps MONOCLOUD_AUTH_FOO_BAR__BAZ to fooBar.baz.
func transformEnv(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	segments := strings.Split(s, "__")
	for i, segment := range segments {
		parts := strings.Split(segment, "_")
		for j := 1; j < len(parts); j++ {
			parts[j] = capitalize(parts[j])
		}
		segments[i] = strings.Join(parts, "")
	}

	return strings.Join(segments, ".")
}

func capitalize(s string) string {
	if s == "" {
		return ""
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])

	return string(r)
}
