package main

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Zachkp/folio/internal/config"
	"github.com/Zachkp/folio/internal/scrollstate"
)

const siteYAML = `
owner:
  name: Test Owner
  initials: TO
nav:
  - {name: Home, section: hero}
  - {name: About, section: about}
about: Hello **there**.
layout:
  - {id: hero, offset_top: 0}
  - {id: about, offset_top: 500}
  - {id: projects, offset_top: 1200}
`

func TestRunServesAndShutsDown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte(siteYAML), 0o644))

	cfg, err := config.Parse([]string{
		"--server-mode=test",
		"--content-path=" + path,
		"--ledger-stats",
		"--views-sweep-interval=1h",
	})
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	base := "http://" + ln.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg, zap.NewNop(), ln) }()

	resp, err := http.Get(base + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(base + "/")
	require.NoError(t, err)
	page, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(page), "Test Owner")
	id := viewID(t, string(page))

	resp, err = http.Post(base+"/views/"+id+"/scroll", "application/json", strings.NewReader(`{"scrollY": 420}`))
	require.NoError(t, err)
	var st scrollstate.State
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	_ = resp.Body.Close()
	assert.Equal(t, "about", st.Active)
	assert.True(t, st.Flags["nav_scrolled"])

	resp, err = http.Get(base + "/metrics")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestNewLogger(t *testing.T) {
	l, err := newLogger(config.Log{Verbose: true})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.DebugLevel))

	l, err = newLogger(config.Log{})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zap.DebugLevel))
}

func viewID(t *testing.T, page string) string {
	t.Helper()
	const marker = `data-view="`
	i := strings.Index(page, marker)
	require.GreaterOrEqual(t, i, 0)
	rest := page[i+len(marker):]
	return rest[:strings.IndexByte(rest, '"')]
}
