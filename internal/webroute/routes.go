// Package webroute holds the single-page client's route table and its
// navigation guard, so the server can answer deep links the same way the
// client router does.
package webroute

import "strings"

// Meta flags a route.
type Meta struct {
	// Guest routes are only for signed-out users (the login page).
	Guest bool `json:"guest,omitempty"`
	// RequiresAuth is informational; the guard does not enforce it.
	RequiresAuth bool `json:"requiresAuth,omitempty"`
}

// Route maps a URL pattern to a client view. Pattern segments starting with
// ':' are parameters.
type Route struct {
	Path  string `json:"path"`
	Name  string `json:"name"`
	View  string `json:"view"`
	Meta  Meta   `json:"meta"`
	Props bool   `json:"props,omitempty"`
	// Lazy views are loaded on first navigation.
	Lazy bool `json:"lazy,omitempty"`
}

// Match is a resolved navigation target.
type Match struct {
	Route  Route
	Path   string
	Params map[string]string
}

// Table is an ordered, read-only list of routes. The first match wins.
type Table struct {
	routes []Route
}

// DefaultRoutes returns the client's route table.
func DefaultRoutes() *Table {
	return NewTable([]Route{
		{Path: "/", Name: "home", View: "HomeView"},
		{Path: "/login", Name: "login", View: "LoginView", Meta: Meta{Guest: true}},
		{Path: "/userdetailview", Name: "userdetailview", View: "UserDetailView"},
		{Path: "/about", Name: "about", View: "AboutView", Meta: Meta{RequiresAuth: true}, Lazy: true},
		{Path: "/order", Name: "order", View: "OrderView"},
		{Path: "/goods/:id", Name: "goodsDetails", View: "GoodsDetails", Props: true},
	})
}

// NewTable copies routes into a table.
func NewTable(routes []Route) *Table {
	cp := make([]Route, len(routes))
	copy(cp, routes)
	return &Table{routes: cp}
}

// Routes returns a copy of the table.
func (t *Table) Routes() []Route {
	cp := make([]Route, len(t.routes))
	copy(cp, t.routes)
	return cp
}

// ByName finds a route by name.
func (t *Table) ByName(name string) (Route, bool) {
	for _, r := range t.routes {
		if r.Name == name {
			return r, true
		}
	}
	return Route{}, false
}

// Match resolves a request path. A single trailing slash is ignored, as the
// client router does.
func (t *Table) Match(path string) (*Match, bool) {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		path = "/"
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}

	got := splitPath(path)
	for _, r := range t.routes {
		if params, ok := matchSegments(splitPath(r.Path), got); ok {
			return &Match{Route: r, Path: path, Params: params}, true
		}
	}
	return nil, false
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func matchSegments(pattern, path []string) (map[string]string, bool) {
	if len(pattern) != len(path) {
		return nil, false
	}
	params := map[string]string{}
	for i, seg := range pattern {
		if strings.HasPrefix(seg, ":") {
			if path[i] == "" {
				return nil, false
			}
			params[seg[1:]] = path[i]
			continue
		}
		if !strings.EqualFold(seg, path[i]) {
			return nil, false
		}
	}
	return params, true
}
