package scrollstate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pageRegistry() *Registry {
	reg := NewRegistry()
	reg.Register("hero", 0)
	reg.Register("about", 500)
	reg.Register("projects", 1200)
	return reg
}

func TestResolveFixtures(t *testing.T) {
	reg := pageRegistry()
	r := Resolver{Bias: DefaultBias}

	cases := []struct {
		scrollY float64
		want    string
	}{
		{0, "hero"},
		{399, "hero"},
		{400, "about"},
		{420, "about"},
		{450, "about"},
		{1099, "about"},
		{1150, "projects"},
		{5000, "projects"},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("scrollY=%v", tc.scrollY), func(t *testing.T) {
			got, ok := r.Resolve(reg.All(), tc.scrollY)
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolveFallsBackToFirstSection(t *testing.T) {
	reg := NewRegistry()
	reg.Register("intro", 300)
	reg.Register("outro", 900)

	got, ok := Resolver{Bias: DefaultBias}.Resolve(reg.All(), 0)
	require.True(t, ok)
	assert.Equal(t, "intro", got)
}

func TestResolveTieFavoursLaterSection(t *testing.T) {
	reg := NewRegistry()
	reg.Register("a", 0)
	reg.Register("b", 200)
	reg.Register("c", 200)

	got := Resolver{Bias: DefaultBias}.MustResolve(reg, 150)
	assert.Equal(t, "c", got)
}

func TestResolveDeterministicAndMember(t *testing.T) {
	reg := pageRegistry()
	r := Resolver{Bias: DefaultBias}
	members := map[string]bool{"hero": true, "about": true, "projects": true}

	for y := 0.0; y <= 2000; y += 37 {
		first := r.MustResolve(reg, y)
		assert.Equal(t, first, r.MustResolve(reg, y))
		assert.True(t, members[first], "resolved %q is not registered", first)
	}
}

func TestResolveEmpty(t *testing.T) {
	_, ok := Resolver{Bias: DefaultBias}.Resolve(nil, 10)
	assert.False(t, ok)
	assert.PanicsWithValue(t, ErrEmptyRegistry, func() {
		Resolver{}.MustResolve(NewRegistry(), 0)
	})
}
