package authcore

import (
	"crypto/sha256"
	"net/http"
	"time"

	"github.com/go-playground/errors/v5"
	"github.com/gorilla/securecookie"
)

const (
	stateCookieName = "monocloud.state"
	stateCookieLife = 10 * time.Minute
	sessionLife     = 24 * time.Hour
)

// skKey is a type for storing values in the state cookie
type skKey string

const (
	skState        skKey = "state"
	skPkceVerifier skKey = "pkceVerifier"
	skReturnURL    skKey = "returnUrl"
)

// cookieCodec encrypts the session and sign-in state cookies. Both keys are
// derived from the configured cookie secret, so rotating the secret
// invalidates every outstanding cookie at once.
type cookieCodec struct {
	secureCookie *securecookie.SecureCookie
	cookieName   string
}

func newCookieCodec(secret, cookieName string) *cookieCodec {
	hashKey := sha256.Sum256([]byte(secret + "#hash"))
	blockKey := sha256.Sum256([]byte(secret + "#block"))

	sc := securecookie.New(hashKey[:], blockKey[:])
	sc.SetSerializer(securecookie.JSONEncoder{})
	sc.MaxAge(int(sessionLife.Seconds()))

	return &cookieCodec{secureCookie: sc, cookieName: cookieName}
}

func (c *cookieCodec) readSession(req CookieReader) (*Session, error) {
	raw, err := req.Cookie(c.cookieName)
	if err != nil {
		return nil, errors.Wrap(err, "CookieReader.Cookie()")
	}
	if raw == "" {
		return nil, nil
	}

	session := &Session{}
	if err := c.secureCookie.Decode(c.cookieName, raw, session); err != nil {
		// An undecodable cookie is treated as no session rather than an
		// error so a stale or foreign cookie never locks a user out.
		return nil, nil
	}

	return session, nil
}

func (c *cookieCodec) writeSession(res CookieWriter, session *Session) error {
	encoded, err := c.secureCookie.Encode(c.cookieName, session)
	if err != nil {
		return errors.Wrap(err, "securecookie.Encode()")
	}

	if err := res.SetCookie(&http.Cookie{
		Name:     c.cookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(sessionLife.Seconds()),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}); err != nil {
		return errors.Wrap(err, "CookieWriter.SetCookie()")
	}

	return nil
}

func (c *cookieCodec) clearSession(res CookieWriter) error {
	if err := res.SetCookie(&http.Cookie{
		Name:     c.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}); err != nil {
		return errors.Wrap(err, "CookieWriter.SetCookie()")
	}

	return nil
}

func (c *cookieCodec) readState(req CookieReader) (map[skKey]string, bool) {
	raw, err := req.Cookie(stateCookieName)
	if err != nil || raw == "" {
		return nil, false
	}

	cval := make(map[skKey]string)
	if err := c.secureCookie.Decode(stateCookieName, raw, &cval); err != nil {
		return nil, false
	}

	return cval, true
}

func (c *cookieCodec) writeState(res CookieWriter, cval map[skKey]string) error {
	encoded, err := c.secureCookie.Encode(stateCookieName, cval)
	if err != nil {
		return errors.Wrap(err, "securecookie.Encode()")
	}

	if err := res.SetCookie(&http.Cookie{
		Name:     stateCookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(stateCookieLife.Seconds()),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}); err != nil {
		return errors.Wrap(err, "CookieWriter.SetCookie()")
	}

	return nil
}

func (c *cookieCodec) clearState(res CookieWriter) error {
	if err := res.SetCookie(&http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}); err != nil {
		return errors.Wrap(err, "CookieWriter.SetCookie()")
	}

	return nil
}
