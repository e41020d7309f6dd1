package webroute

// Decision is the guard's verdict for a navigation.
type Decision struct {
	// Redirect is empty when navigation proceeds.
	Redirect string
}

// Proceed reports whether navigation continues to the requested route.
func (d Decision) Proceed() bool { return d.Redirect == "" }

// Next lets navigation continue.
func Next() Decision { return Decision{} }

// RedirectTo sends navigation elsewhere.
func RedirectTo(path string) Decision { return Decision{Redirect: path} }

// HomePath is where signed-in users are sent from guest-only routes.
const HomePath = "/"

// BeforeEach is the navigation guard: a signed-in user asking for a
// guest-only route goes home; everything else proceeds.
func BeforeEach(to Route, isLoggedIn bool) Decision {
	if to.Meta.Guest && isLoggedIn {
		return RedirectTo(HomePath)
	}
	return Next()
}
