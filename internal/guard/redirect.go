package guard

import "net/url"

// LoginRedirectPath builds the login path carrying the destination the user
// was headed to, so a successful login can return them there.
func LoginRedirectPath(dest string) string {
	if dest == "" || dest == "/" {
		return StepLogin.Path()
	}
	return StepLogin.Path() + "?redirect=" + url.QueryEscape(dest)
}

// RedirectPath resolves a denied decision into a navigation target. dest is
// the path originally requested; a login redirect carries it along.
func (d Decision) RedirectPath(dest string) string {
	if d.Allowed {
		return ""
	}
	if d.RedirectTo == StepLogin {
		return LoginRedirectPath(dest)
	}
	return d.RedirectTo.Path()
}
