package scrollstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(sections []Section) []string {
	out := make([]string, len(sections))
	for i, s := range sections {
		out[i] = s.ID
	}
	return out
}

func TestRegistryOrdersByOffset(t *testing.T) {
	reg := NewRegistry()
	reg.Register("contact", 3000)
	reg.Register("hero", 0)
	reg.Register("about", 500)

	assert.Equal(t, []string{"hero", "about", "contact"}, ids(reg.All()))
	assert.Equal(t, 3, reg.Len())
}

func TestRegistryTiesKeepRegistrationOrder(t *testing.T) {
	reg := NewRegistry()
	reg.Register("b", 100)
	reg.Register("a", 100)
	reg.Register("c", 100)

	assert.Equal(t, []string{"b", "a", "c"}, ids(reg.All()))
}

func TestRegistryUpsertOverwritesOffset(t *testing.T) {
	reg := NewRegistry()
	reg.Register("x", 100)
	reg.Register("y", 100)
	reg.Register("x", 100)

	assert.Equal(t, 2, reg.Len())
	assert.Equal(t, []string{"x", "y"}, ids(reg.All()), "re-registering keeps the original order")

	reg.Register("x", 800)
	off, ok := reg.Offset("x")
	require.True(t, ok)
	assert.Equal(t, 800.0, off)
	assert.Equal(t, []string{"y", "x"}, ids(reg.All()))
}

func TestRegistryRefreshRereadsLayout(t *testing.T) {
	offset := 500.0
	layout := LayoutFunc(func() []Section {
		return []Section{{ID: "hero", OffsetTop: 0}, {ID: "about", OffsetTop: offset}}
	})
	reg := NewRegistry()
	reg.Refresh(layout)

	off, _ := reg.Offset("about")
	assert.Equal(t, 500.0, off)

	offset = 740
	reg.Refresh(layout)
	off, _ = reg.Offset("about")
	assert.Equal(t, 740.0, off)

	first, ok := reg.First()
	require.True(t, ok)
	assert.Equal(t, "hero", first.ID)
}

func TestRegistryEmpty(t *testing.T) {
	reg := NewRegistry()
	_, ok := reg.First()
	assert.False(t, ok)
	_, ok = reg.Offset("missing")
	assert.False(t, ok)
	assert.Empty(t, reg.All())
	reg.Refresh(nil)
	assert.Zero(t, reg.Len())
}
