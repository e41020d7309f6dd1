package webroute

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRoutesMatch(t *testing.T) {
	table := DefaultRoutes()

	testCases := []struct {
		path     string
		wantName string
		wantOK   bool
		params   map[string]string
	}{
		{"/", "home", true, map[string]string{}},
		{"", "home", true, map[string]string{}},
		{"/login", "login", true, map[string]string{}},
		{"/login/", "login", true, map[string]string{}},
		{"/login?redirect=/order", "login", true, map[string]string{}},
		{"/userdetailview", "userdetailview", true, map[string]string{}},
		{"/about", "about", true, map[string]string{}},
		{"/order", "order", true, map[string]string{}},
		{"/goods/42", "goodsDetails", true, map[string]string{"id": "42"}},
		{"/goods", "", false, nil},
		{"/goods/42/extra", "", false, nil},
		{"/nope", "", false, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			m, ok := table.Match(tc.path)
			require.Equal(t, tc.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tc.wantName, m.Route.Name)
			assert.Equal(t, tc.params, m.Params)
		})
	}
}

func TestRouteMeta(t *testing.T) {
	table := DefaultRoutes()

	login, ok := table.ByName("login")
	require.True(t, ok)
	assert.True(t, login.Meta.Guest)

	about, ok := table.ByName("about")
	require.True(t, ok)
	assert.True(t, about.Meta.RequiresAuth)

	goods, ok := table.ByName("goodsDetails")
	require.True(t, ok)
	assert.True(t, goods.Props)

	routes := table.Routes()
	routes[0].Name = "mutated"
	home, _ := table.ByName("home")
	assert.Equal(t, "/", home.Path, "the table is not mutable through Routes()")
}

func TestBeforeEach(t *testing.T) {
	table := DefaultRoutes()

	for _, r := range table.Routes() {
		t.Run(r.Name, func(t *testing.T) {
			loggedOut := BeforeEach(r, false)
			assert.True(t, loggedOut.Proceed(), "signed-out navigation always proceeds")

			loggedIn := BeforeEach(r, true)
			if r.Meta.Guest {
				assert.Equal(t, "/", loggedIn.Redirect)
			} else {
				assert.True(t, loggedIn.Proceed())
			}
		})
	}

	about, _ := table.ByName("about")
	assert.True(t, BeforeEach(about, false).Proceed(), "requiresAuth is not enforced by the guard")
}
