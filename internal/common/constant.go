package common

// CSRFCookieName is the cookie that carries the signed anti-forgery token.
const CSRFCookieName = "csrf_token"

// CSRFHeaderName is the request header clients must echo the anti-forgery
// token in on state-changing requests.
const CSRFHeaderName = "X-CSRF-Token"

// AuthHeaderName carries the session or delegated access token as a
// Bearer credential.
const AuthHeaderName = "Authorization"

// SessionCookieName is the cookie alternative for carrying the session
// access token in browser clients.
const SessionCookieName = "access_token"
