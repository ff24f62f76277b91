package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/stridelog/internal/backup"
	"github.com/julianstephens/stridelog/internal/config"
	"github.com/julianstephens/stridelog/internal/constants"
	"github.com/julianstephens/stridelog/internal/intervals"
	"github.com/julianstephens/stridelog/internal/keyring"
	"github.com/julianstephens/stridelog/internal/logger"
	"github.com/julianstephens/stridelog/internal/notifier"
	"github.com/julianstephens/stridelog/internal/progress"
	"github.com/julianstephens/stridelog/internal/storage"
	"github.com/julianstephens/stridelog/internal/utils"
	"github.com/julianstephens/stridelog/internal/validation"
)

type Context struct {
	Store     storage.Provider
	Config    *config.Container
	Validator *validation.Validator
	Notifier  *notifier.Notifier

	// Now is the wall clock; tests pin it
	Now func() time.Time
	// Confirm asks a yes/no question; tests answer it directly
	Confirm func(title string) (bool, error)
	// IntervalsOptions are appended when building the API client
	IntervalsOptions []intervals.Option
}

// NewContext wires the store to the shared services built from cfg
func NewContext(store storage.Provider, cfg *config.Container) *Context {
	return &Context{
		Store:     store,
		Config:    cfg,
		Validator: validation.New(),
		Notifier:  notifier.New(cfg.Webhooks.URLs, cfg.Webhooks.Secret),
		Now:       time.Now,
		Confirm:   confirmPrompt,
	}
}

func confirmPrompt(title string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if err != nil {
		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}
	return ok, nil
}

// Location resolves the timezone from settings, falling back to the
// environment and then to local time
func (c *Context) Location() *time.Location {
	tz := c.Config.App.Timezone
	if settings, err := c.Store.GetSettings(); err == nil && settings.Timezone != "" {
		tz = settings.Timezone
	}
	loc, err := utils.LoadLocation(tz)
	if err != nil {
		logger.Warn("invalid timezone, using local time", "timezone", tz, "err", err)
		return time.Local
	}
	return loc
}

// Today is the current time in the configured timezone
func (c *Context) Today() time.Time {
	return c.Now().In(c.Location())
}

// Intervals builds an API client from the configured or stored key
func (c *Context) Intervals() (*intervals.Client, error) {
	key, err := keyring.ResolveAPIKey(c.Config.Intervals.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read API key: %w", err)
	}
	opts := []intervals.Option{
		intervals.WithBaseURL(c.Config.Intervals.BaseURL),
		intervals.WithAthleteID(c.Config.Intervals.AthleteID),
	}
	return intervals.New(intervals.Credentials{APIKey: key}, append(opts, c.IntervalsOptions...)...)
}

// IsFileStore reports whether the store lives in a SQLite file that can be
// backed up
func (c *Context) IsFileStore() bool {
	path := c.Store.GetConfigPath()
	return path != constants.MemoryStoreConfig && path != "postgresql" && !strings.Contains(path, "://")
}

// PerformAutomaticBackup creates a backup before destructive changes and
// only logs failures
func (c *Context) PerformAutomaticBackup() {
	if !c.IsFileStore() {
		return
	}
	if _, err := backup.NewManager(c.Store.GetConfigPath()).Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

var (
	tierStyles = map[constants.Tier]lipgloss.Style{
		constants.TierA: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		constants.TierB: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		constants.TierC: lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
	}

	levelStyles = map[progress.Tier]lipgloss.Style{
		progress.TierGood:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		progress.TierCaution:  lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		progress.TierCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}

	MutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// RenderTier colors a race tier badge
func RenderTier(t constants.Tier) string {
	if s, ok := tierStyles[t]; ok {
		return s.Render("[" + string(t) + "]")
	}
	return "[" + string(t) + "]"
}

// RenderLevel colors text by its progress tier
func RenderLevel(t progress.Tier, text string) string {
	if s, ok := levelStyles[t]; ok {
		return s.Render(text)
	}
	return text
}

// Bar draws a fixed width percentage bar
func Bar(pct float64, width int) string {
	filled := int(progress.Clamp(pct) / 100 * float64(width))
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}
