package httpapi

import (
	"net/http"
	"net/url"
)

// requestNavigator adapts one HTTP request to the workflow Navigator: query
// parameters come from the request URL, and the navigation target a workflow
// picks is recorded for the handler to turn into a redirect or response field.
type requestNavigator struct {
	query  url.Values
	target string
}

func newNavigator(r *http.Request) *requestNavigator {
	return &requestNavigator{query: r.URL.Query()}
}

func (n *requestNavigator) Goto(path string) {
	n.target = path
}

func (n *requestNavigator) Query(name string) string {
	return n.query.Get(name)
}
