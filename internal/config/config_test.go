package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/folio/internal/contact"
	"github.com/Zachkp/folio/internal/scrollstate"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.True(t, cfg.Server.Metrics)
	assert.Equal(t, 100.0, cfg.Scroll.Bias)
	assert.Equal(t, 50.0, cfg.Scroll.NavThreshold)
	assert.Equal(t, "about", cfg.Scroll.BackToTopAnchor)
	assert.Equal(t, 0.1, cfg.Scroll.RevealThreshold)
	assert.Equal(t, 30*time.Minute, cfg.Views.IdleTTL)
	assert.Equal(t, 2*time.Second, cfg.Contact.Delay)
	assert.Equal(t, 720*time.Hour, cfg.Ledger.Retention)
	assert.Empty(t, cfg.Content.Path)
}

func TestParseFlagsAndEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SCROLL_BIAS", "80")

	cfg, err := Parse([]string{"--scroll-nav-threshold=20", "--views-idle-ttl=5m", "--no-server-metrics", "-v"})
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 80.0, cfg.Scroll.Bias)
	assert.Equal(t, 20.0, cfg.Scroll.NavThreshold)
	assert.Equal(t, 5*time.Minute, cfg.Views.IdleTTL)
	assert.False(t, cfg.Server.Metrics)
	assert.True(t, cfg.Log.Verbose)
}

func TestValidate(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	cfg.Scroll.Bias = -1
	cfg.Scroll.RevealThreshold = 2
	cfg.Views.SweepInterval = 0
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scroll bias")
	assert.Contains(t, err.Error(), "reveal threshold")
	assert.Contains(t, err.Error(), "sweep interval")
}

func TestScrollConfig(t *testing.T) {
	cfg, err := Parse([]string{"--scroll-back-to-top-anchor=projects"})
	require.NoError(t, err)

	sc := cfg.ScrollConfig()
	require.NotNil(t, sc.Bias)
	assert.Equal(t, 100.0, *sc.Bias)
	require.Len(t, sc.Thresholds, 2)
	assert.Equal(t, "projects", sc.Thresholds[0].Anchor)
	assert.Equal(t, 50.0, sc.Thresholds[1].Offset)
}

func TestSubmitterSelection(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	_, simulated := cfg.Submitter().(contact.Simulated)
	assert.True(t, simulated)

	cfg.Contact.SMTPUser = "site@example.com"
	cfg.Contact.SMTPPass = "secret"
	cfg.Contact.To = "me@example.com"
	_, mailer := cfg.Submitter().(*contact.Mailer)
	assert.True(t, mailer)
}

func TestScrollConfigKeepsZeroBias(t *testing.T) {
	cfg, err := Parse([]string{"--scroll-bias=0"})
	require.NoError(t, err)

	sc := cfg.ScrollConfig()
	require.NotNil(t, sc.Bias)
	assert.Zero(t, *sc.Bias)

	reg := scrollstate.NewRegistry()
	reg.Register("hero", 0)
	reg.Register("about", 500)
	c, err := scrollstate.New(reg, sc, scrollstate.Hooks{})
	require.NoError(t, err)
	c.Handle(scrollstate.ScrollEvent{Y: 450})
	assert.Equal(t, "hero", c.Snapshot().Active)
}
