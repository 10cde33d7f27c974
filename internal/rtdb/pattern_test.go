package rtdb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompileAndMatch(t *testing.T) {
	p, err := Compile("/users/{uid}/notifications/{nid}")
	require.NoError(t, err)
	require.Equal(t, "/users/{uid}/notifications/{nid}", p.String())
	require.Equal(t, []string{"uid", "nid"}, p.Params())

	params, ok := p.Match("/users/u1/notifications/n1")
	require.True(t, ok)
	require.Equal(t, map[string]string{"uid": "u1", "nid": "n1"}, params)

	params, ok = p.Match("users/u1/notifications/-NxAbC/")
	require.True(t, ok)
	require.Equal(t, "-NxAbC", params["nid"])
}

func TestMatchRejectsOtherRefs(t *testing.T) {
	p := MustCompile("users/{uid}/notifications/{nid}")

	for _, ref := range []string{
		"",
		"/users/u1",
		"/users/u1/notifications",
		"/users/u1/orders/n1",
		"/users/u1/notifications/n1/extra",
		"/users//notifications/n1",
	} {
		_, ok := p.Match(ref)
		require.False(t, ok, ref)
	}

	var nilPattern *Pattern
	_, ok := nilPattern.Match("/users/u1/notifications/n1")
	require.False(t, ok)
}

func TestCompileRejectsInvalidTemplates(t *testing.T) {
	for _, tmpl := range []string{
		"",
		"/",
		"/users//{uid}",
		"/users/{}",
		"/users/{uid}/items/{uid}",
		"/users/u{uid}",
		"/users/{path=**}",
	} {
		_, err := Compile(tmpl)
		require.Error(t, err, tmpl)
	}

	require.Panics(t, func() { MustCompile("") })
}
