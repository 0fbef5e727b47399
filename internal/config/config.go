// Package config defines the command line and environment configuration.
//
// Every option can be given as a flag or an environment variable; a .env
// file in the working directory is loaded before parsing.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/alecthomas/kong"

	"github.com/Zachkp/folio/internal/contact"
	"github.com/Zachkp/folio/internal/scrollstate"
)

type Server struct {
	Port    string `help:"Port to listen on." env:"PORT" default:"8080"`
	Mode    string `help:"Gin mode (debug, release, test)." env:"GIN_MODE" default:"release" enum:"debug,release,test"`
	Static  string `help:"Directory served under /static." env:"STATIC_DIR" default:"./static"`
	Images  string `help:"Directory served under /images." env:"IMAGES_DIR" default:"./images"`
	Metrics bool   `help:"Expose Prometheus metrics on /metrics." env:"METRICS_ENABLED" default:"true" negatable:""`
}

type Content struct {
	Path  string `help:"Site content YAML file. Empty uses the built-in site." env:"CONTENT_PATH"`
	Watch bool   `help:"Reload the content file when it changes." env:"CONTENT_WATCH"`
}

type Scroll struct {
	Bias            float64 `help:"Lookahead past a section top before it counts as active." env:"SCROLL_BIAS" default:"100"`
	NavThreshold    float64 `help:"Scroll offset after which the nav bar switches style." env:"NAV_THRESHOLD" default:"50"`
	BackToTopAnchor string  `help:"Section the back-to-top control appears after." env:"BACK_TO_TOP_ANCHOR" default:"about"`
	RevealThreshold float64 `help:"Visible fraction that reveals a region." env:"REVEAL_THRESHOLD" default:"0.1"`
}

type Views struct {
	IdleTTL       time.Duration `help:"Close page views idle for this long." env:"VIEW_IDLE_TTL" default:"30m"`
	SweepInterval time.Duration `help:"How often idle views are swept." env:"VIEW_SWEEP_INTERVAL" default:"1m"`
}

type Contact struct {
	Delay    time.Duration `help:"Simulated delivery delay when SMTP is not configured." env:"CONTACT_DELAY" default:"2s"`
	SMTPHost string        `help:"SMTP host." env:"SMTP_HOST" default:"smtp.gmail.com"`
	SMTPPort string        `help:"SMTP port." env:"SMTP_PORT" default:"587"`
	SMTPUser string        `help:"SMTP user." env:"SMTP_USER"`
	SMTPPass string        `help:"SMTP password." env:"SMTP_PASS"`
	To       string        `help:"Where contact messages are delivered." env:"TO_EMAIL"`
}

type Ledger struct {
	DSN       string        `help:"SQLite DSN for the page-view ledger. Empty keeps it in memory." env:"LEDGER_DSN"`
	Retention time.Duration `help:"Drop ledger rows older than this." env:"LEDGER_RETENTION" default:"720h"`
	Stats     bool          `help:"Serve aggregated section reach on /stats/reach." env:"LEDGER_STATS"`
}

type Log struct {
	Verbose bool `short:"v" help:"Enable debug logging." env:"VERBOSE"`
	Dev     bool `help:"Human readable development logs." env:"LOG_DEV"`
}

// Config is the whole configuration tree.
type Config struct {
	Server  Server  `embed:"" prefix:"server-"`
	Content Content `embed:"" prefix:"content-"`
	Scroll  Scroll  `embed:"" prefix:"scroll-"`
	Views   Views   `embed:"" prefix:"views-"`
	Contact Contact `embed:"" prefix:"contact-"`
	Ledger  Ledger  `embed:"" prefix:"ledger-"`
	Log     Log     `embed:""`
}

// Validate is called by kong after parsing.
func (c *Config) Validate() error {
	var errs []error
	if c.Scroll.Bias < 0 {
		errs = append(errs, fmt.Errorf("scroll bias must not be negative, got %v", c.Scroll.Bias))
	}
	if c.Scroll.NavThreshold < 0 {
		errs = append(errs, fmt.Errorf("nav threshold must not be negative, got %v", c.Scroll.NavThreshold))
	}
	if c.Scroll.RevealThreshold <= 0 || c.Scroll.RevealThreshold > 1 {
		errs = append(errs, fmt.Errorf("reveal threshold must be in (0, 1], got %v", c.Scroll.RevealThreshold))
	}
	if c.Views.IdleTTL <= 0 {
		errs = append(errs, errors.New("views idle TTL must be positive"))
	}
	if c.Views.SweepInterval <= 0 {
		errs = append(errs, errors.New("views sweep interval must be positive"))
	}
	if c.Contact.Delay < 0 {
		errs = append(errs, errors.New("contact delay must not be negative"))
	}
	return errors.Join(errs...)
}

// Parse reads args and the environment into a Config.
func Parse(args []string, options ...kong.Option) (*Config, error) {
	var cfg Config
	options = append([]kong.Option{
		kong.Name("folio"),
		kong.Description("Single page portfolio server with server-side scroll state."),
	}, options...)
	parser, err := kong.New(&cfg, options...)
	if err != nil {
		return nil, err
	}
	if _, err := parser.Parse(args); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ScrollConfig builds the coordinator configuration.
func (c *Config) ScrollConfig() scrollstate.Config {
	bias := c.Scroll.Bias
	return scrollstate.Config{
		Bias:            &bias,
		RevealThreshold: c.Scroll.RevealThreshold,
		Thresholds: []scrollstate.Threshold{
			{Name: "back_to_top", Anchor: c.Scroll.BackToTopAnchor},
			{Name: "nav_scrolled", Offset: c.Scroll.NavThreshold},
		},
	}
}

// Submitter returns the SMTP mailer when credentials are set and the
// simulated submitter otherwise.
func (c *Config) Submitter() contact.Submitter {
	m := contact.NewMailer(c.Contact.SMTPHost, c.Contact.SMTPPort, c.Contact.SMTPUser, c.Contact.SMTPPass, c.Contact.To)
	if m.Configured() {
		return m
	}
	return contact.Simulated{Delay: c.Contact.Delay}
}
