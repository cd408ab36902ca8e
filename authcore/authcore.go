// Package authcore implements the framework-agnostic authentication core:
// OIDC sign-in, callback, user-info and sign-out operations plus cookie-based
// session management, all expressed over an abstract request/response
// contract so any routing convention can drive it.
package authcore

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/cccteam/httpio"
	"github.com/cccteam/logger"
	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/go-playground/errors/v5"
	"github.com/gofrs/uuid"
	"golang.org/x/oauth2"
)

var _ Provider = &Client{}

// Client is the production Provider. The OIDC protocol itself is delegated
// to go-oidc and x/oauth2; this type owns the session cookie lifecycle and
// the parameter plumbing around those libraries.
type Client struct {
	cfg        *Config
	provider   oidcProvider
	oauth      oauthConfig
	verifier   tokenVerifier
	codec      *cookieCodec
	appURL     *url.URL
	endSession string
}

// New discovers the issuer's endpoints and returns a ready Client. A nil cfg
// loads configuration from the environment via LoadConfig.
func New(ctx context.Context, cfg *Config) (*Client, error) {
	if cfg == nil {
		var err error
		if cfg, err = LoadConfig(); err != nil {
			return nil, err
		}
	} else if err := cfg.Validate(); err != nil {
		return nil, err
	}

	appURL, err := url.Parse(cfg.AppURL)
	if err != nil {
		return nil, errors.Wrap(err, "url.Parse()")
	}

	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, errors.Wrap(err, "oidc.NewProvider()")
	}

	var discovery struct {
		EndSessionEndpoint string `json:"end_session_endpoint"`
	}
	if err := provider.Claims(&discovery); err != nil {
		logger.Ctx(ctx).Infof("issuer metadata has no end_session_endpoint: %v", err)
	}

	return &Client{
		cfg:      cfg,
		provider: provider,
		oauth: &oAuth2{
			config: oauth2.Config{
				ClientID:     cfg.ClientID,
				ClientSecret: cfg.ClientSecret,
				RedirectURL:  cfg.AppURL + EnsureLeadingSlash(cfg.Routes.Callback),
				Endpoint:     provider.Endpoint(),
				Scopes:       cfg.Scopes,
			},
		},
		verifier:   provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		codec:      newCookieCodec(cfg.CookieSecret, cfg.CookieName),
		appURL:     appURL,
		endSession: discovery.EndSessionEndpoint,
	}, nil
}

// Options implements Provider.
func (c *Client) Options() Options {
	return Options{
		Routes:      c.cfg.Routes,
		AppURL:      c.cfg.AppURL,
		GroupsClaim: c.cfg.GroupsClaim,
	}
}

// SignIn implements Provider. Query parameters take precedence over opts.
func (c *Client) SignIn(ctx context.Context, req Request, res Response, opts *SignInOptions) error {
	if opts == nil {
		opts = &SignInOptions{}
	}

	returnURL := c.sanitizeReturnURL(firstNonEmpty(req.Query("return_url"), opts.ReturnURL))

	// PKCE protects the code exchange, the random state the callback.
	pkceVerifier := oauth2.GenerateVerifier()
	state, err := uuid.NewV4()
	if err != nil {
		return errors.Wrap(err, "uuid.NewV4()")
	}

	if err := c.codec.writeState(res, map[skKey]string{
		skState:        state.String(),
		skPkceVerifier: pkceVerifier,
		skReturnURL:    returnURL,
	}); err != nil {
		return errors.Wrap(err, "cookieCodec.writeState()")
	}

	authOpts := []oauth2.AuthCodeOption{oauth2.S256ChallengeOption(pkceVerifier)}
	if req.Query("register") == "true" || opts.Register {
		authOpts = append(authOpts, oauth2.SetAuthURLParam("prompt", "create"))
	}
	if hint := firstNonEmpty(req.Query("login_hint"), opts.LoginHint); hint != "" {
		authOpts = append(authOpts, oauth2.SetAuthURLParam("login_hint", hint))
	}
	if auth := firstNonEmpty(req.Query("authenticator"), req.Query("authenticator_hint"), opts.Authenticator); auth != "" {
		authOpts = append(authOpts, oauth2.SetAuthURLParam("authenticator_hint", auth))
	}

	res.SetNoCache()
	res.Redirect(c.oauth.AuthCodeURL(state.String(), authOpts...), http.StatusFound)

	return nil
}

// Callback implements Provider. Code and state are accepted from the query
// string or, for form_post responses, the request body.
func (c *Client) Callback(ctx context.Context, req Request, res Response, _ *CallbackOptions) error {
	cval, ok := c.codec.readState(req)
	if !ok {
		return httpio.NewForbiddenMessage("missing sign-in state cookie")
	}
	if err := c.codec.clearState(res); err != nil {
		return errors.Wrap(err, "cookieCodec.clearState()")
	}

	code, state, cbErr, cbErrDesc := callbackParams(req)
	if cbErr != "" {
		return httpio.NewForbiddenMessage(strings.TrimSpace(cbErr + ": " + cbErrDesc))
	}
	if state != cval[skState] {
		return httpio.NewForbiddenMessage("invalid 'state' parameter value")
	}

	token, err := c.oauth.Exchange(ctx, code, oauth2.VerifierOption(cval[skPkceVerifier]))
	if err != nil {
		return httpio.NewInternalServerErrorMessageWithError(err, "failed to exchange token")
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return httpio.NewInternalServerErrorMessage("no id_token in token response")
	}

	idToken, err := c.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return httpio.NewInternalServerErrorMessageWithError(err, "failed to verify ID token")
	}

	claims := Claims{}
	if err := idToken.Claims(&claims); err != nil {
		return httpio.NewInternalServerErrorMessageWithError(err, "failed to parse ID token claims")
	}

	session := &Session{
		User:         userClaims(claims),
		IDToken:      rawIDToken,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}
	if !token.Expiry.IsZero() {
		session.ExpiresAt = token.Expiry.Unix()
	}

	if err := c.codec.writeSession(res, session); err != nil {
		return errors.Wrap(err, "cookieCodec.writeSession()")
	}

	returnURL := cval[skReturnURL]
	if strings.TrimSpace(returnURL) == "" {
		returnURL = "/"
	}

	res.Redirect(c.resolveURL(returnURL), http.StatusFound)

	return nil
}

// UserInfo implements Provider.
func (c *Client) UserInfo(ctx context.Context, req Request, res Response, opts *UserInfoOptions) error {
	session, err := c.GetSession(ctx, req, res)
	if err != nil {
		return errors.Wrap(err, "Client.GetSession()")
	}
	if session == nil {
		res.NoContent()

		return nil
	}

	if c.cfg.RefreshUserInfo || (opts != nil && opts.Refresh) {
		info, err := c.provider.UserInfo(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: session.AccessToken}))
		if err != nil {
			return httpio.NewInternalServerErrorMessageWithError(err, "failed to fetch user info")
		}

		fresh := Claims{}
		if err := info.Claims(&fresh); err != nil {
			return httpio.NewInternalServerErrorMessageWithError(err, "failed to parse user info claims")
		}
		for k, v := range fresh {
			session.User[k] = v
		}

		if err := c.codec.writeSession(res, session); err != nil {
			return errors.Wrap(err, "cookieCodec.writeSession()")
		}
	}

	res.SetNoCache()
	if err := res.SendJSON(session.User, http.StatusOK); err != nil {
		return errors.Wrap(err, "Response.SendJSON()")
	}

	return nil
}

// SignOut implements Provider. The post_logout_url query parameter, absolute
// or relative, takes precedence over opts.
func (c *Client) SignOut(ctx context.Context, req Request, res Response, opts *SignOutOptions) error {
	session, err := c.codec.readSession(req)
	if err != nil {
		return errors.Wrap(err, "cookieCodec.readSession()")
	}
	if err := c.codec.clearSession(res); err != nil {
		return errors.Wrap(err, "cookieCodec.clearSession()")
	}

	var postLogout string
	if opts != nil {
		postLogout = opts.PostLogoutURL
	}
	postLogout = firstNonEmpty(req.Query("post_logout_url"), postLogout)
	if postLogout == "" {
		postLogout = c.cfg.AppURL
	} else if !IsAbsoluteURL(postLogout) {
		postLogout = c.resolveURL(postLogout)
	}

	if c.endSession == "" {
		res.Redirect(postLogout, http.StatusFound)

		return nil
	}

	endSession, err := url.Parse(c.endSession)
	if err != nil {
		return errors.Wrap(err, "url.Parse()")
	}
	q := endSession.Query()
	q.Set("post_logout_redirect_uri", postLogout)
	if session != nil && session.IDToken != "" {
		q.Set("id_token_hint", session.IDToken)
	} else {
		q.Set("client_id", c.oauth.ClientID())
	}
	endSession.RawQuery = q.Encode()

	res.Redirect(endSession.String(), http.StatusFound)

	return nil
}

// GetSession implements Provider. An expired session with a refresh token is
// refreshed transparently; the rewritten session cookie flows through res.
func (c *Client) GetSession(ctx context.Context, req CookieReader, res CookieWriter) (*Session, error) {
	session, err := c.codec.readSession(req)
	if err != nil {
		return nil, errors.Wrap(err, "cookieCodec.readSession()")
	}
	if session == nil {
		return nil, nil
	}

	if session.Expired() {
		if session.RefreshToken == "" {
			return nil, nil
		}
		if err := c.refresh(ctx, res, session); err != nil {
			logger.Ctx(ctx).Infof("session refresh failed, treating as unauthenticated: %v", err)

			return nil, nil
		}
	}

	return session, nil
}

// GetTokens implements Provider.
func (c *Client) GetTokens(ctx context.Context, req CookieReader, res CookieWriter, opts *TokenOptions) (*Tokens, error) {
	session, err := c.GetSession(ctx, req, res)
	if err != nil {
		return nil, errors.Wrap(err, "Client.GetSession()")
	}
	if session == nil {
		return &Tokens{}, nil
	}

	if opts != nil && opts.ForceRefresh && session.RefreshToken != "" {
		if err := c.refresh(ctx, res, session); err != nil {
			return nil, errors.Wrap(err, "Client.refresh()")
		}
	}

	return &Tokens{
		AccessToken:  session.AccessToken,
		IDToken:      session.IDToken,
		RefreshToken: session.RefreshToken,
		ExpiresAt:    session.ExpiresAt,
	}, nil
}

// IsAuthenticated implements Provider.
func (c *Client) IsAuthenticated(ctx context.Context, req CookieReader, res CookieWriter) (bool, error) {
	session, err := c.GetSession(ctx, req, res)
	if err != nil {
		return false, errors.Wrap(err, "Client.GetSession()")
	}

	return session != nil, nil
}

// refresh exchanges the session's refresh token for fresh token material and
// rewrites the session cookie.
func (c *Client) refresh(ctx context.Context, res CookieWriter, session *Session) error {
	token, err := c.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: session.RefreshToken}).Token()
	if err != nil {
		return errors.Wrap(err, "oauth2.TokenSource()")
	}

	session.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		session.RefreshToken = token.RefreshToken
	}
	if rawIDToken, ok := token.Extra("id_token").(string); ok && rawIDToken != "" {
		session.IDToken = rawIDToken
	}
	if !token.Expiry.IsZero() {
		session.ExpiresAt = token.Expiry.Unix()
	}

	if err := c.codec.writeSession(res, session); err != nil {
		return errors.Wrap(err, "cookieCodec.writeSession()")
	}

	return nil
}

// sanitizeReturnURL keeps return URLs on the application's own origin.
// Anything absolute pointing elsewhere collapses to "/".
func (c *Client) sanitizeReturnURL(returnURL string) string {
	if strings.TrimSpace(returnURL) == "" {
		return "/"
	}
	if !IsAbsoluteURL(returnURL) {
		return EnsureLeadingSlash(returnURL)
	}

	u, err := url.Parse(returnURL)
	if err != nil || u.Scheme != c.appURL.Scheme || u.Host != c.appURL.Host {
		return "/"
	}

	return returnURL
}

// resolveURL resolves a possibly relative URL against the application URL.
func (c *Client) resolveURL(raw string) string {
	if IsAbsoluteURL(raw) {
		return raw
	}

	u, err := url.Parse(EnsureLeadingSlash(raw))
	if err != nil {
		return c.cfg.AppURL
	}

	return c.appURL.ResolveReference(u).String()
}

// callbackParams extracts the authorization response parameters from the
// query string or, for POST form_post responses, the form body.
func callbackParams(req Request) (code, state, cbErr, cbErrDesc string) {
	code = req.Query("code")
	state = req.Query("state")
	cbErr = req.Query("error")
	cbErrDesc = req.Query("error_description")

	if req.Method() != http.MethodPost {
		return code, state, cbErr, cbErrDesc
	}

	body, err := req.Body()
	if err != nil {
		return code, state, cbErr, cbErrDesc
	}
	form, err := url.ParseQuery(string(body))
	if err != nil {
		return code, state, cbErr, cbErrDesc
	}

	code = firstNonEmpty(form.Get("code"), code)
	state = firstNonEmpty(form.Get("state"), state)
	cbErr = firstNonEmpty(form.Get("error"), cbErr)
	cbErrDesc = firstNonEmpty(form.Get("error_description"), cbErrDesc)

	return code, state, cbErr, cbErrDesc
}

// protocolClaims are ID token claims that describe the token itself rather
// than the user; they never surface in the session's user claims.
var protocolClaims = map[string]struct{}{
	"iss": {}, "aud": {}, "exp": {}, "iat": {}, "nbf": {},
	"nonce": {}, "at_hash": {}, "c_hash": {}, "azp": {}, "auth_time": {},
}

func userClaims(claims Claims) Claims {
	user := Claims{}
	for k, v := range claims {
		if _, ok := protocolClaims[k]; ok {
			continue
		}
		user[k] = v
	}

	return user
}

// EnsureLeadingSlash normalizes a route path to begin with a slash.
func EnsureLeadingSlash(path string) string {
	if strings.HasPrefix(path, "/") {
		return path
	}

	return "/" + path
}

// IsAbsoluteURL reports whether raw carries an explicit scheme.
func IsAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)

	return err == nil && u.IsAbs()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}

	return ""
}

type oAuth2 struct {
	config oauth2.Config
}

func (o *oAuth2) AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string {
	return o.config.AuthCodeURL(state, opts...)
}

func (o *oAuth2) Exchange(ctx context.Context, code string, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error) {
	token, err := o.config.Exchange(ctx, code, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "oauth2.Config.Exchange()")
	}

	return token, nil
}

func (o *oAuth2) TokenSource(ctx context.Context, t *oauth2.Token) oauth2.TokenSource {
	return o.config.TokenSource(ctx, t)
}

func (o *oAuth2) ClientID() string {
	return o.config.ClientID
}
