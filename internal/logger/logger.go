// Package logger owns the process-wide charm logger. Lines go to a rotating
// file under the config directory, and to stderr as well with --debug.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/stridelog/internal/constants"
)

// Logger is nil until Init runs; the helpers below are no-ops until then.
var Logger *log.Logger

var discard = log.NewWithOptions(io.Discard, log.Options{})

// Config selects the level and location of the log
type Config struct {
	Debug     bool
	ConfigDir string
	// Level overrides the default level (warn, or debug with Debug set).
	// Accepts the charm log names: debug, info, warn, error, fatal.
	Level string
}

// rotatingFile keeps a few compressed generations of a small file
func rotatingFile(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
}

// LogFile returns the path of the rotating log file under configDir
func LogFile(configDir string) string {
	return filepath.Join(configDir, "logs", constants.AppName+".log")
}

func (c Config) level() (log.Level, error) {
	if c.Level != "" {
		lvl, err := log.ParseLevel(c.Level)
		if err != nil {
			return 0, fmt.Errorf("invalid log level %q: %w", c.Level, err)
		}
		return lvl, nil
	}
	if c.Debug {
		return log.DebugLevel, nil
	}
	return log.WarnLevel, nil
}

// Init builds Logger from cfg, creating the log directory when missing
func Init(cfg Config) error {
	level, err := cfg.level()
	if err != nil {
		return err
	}

	path := LogFile(cfg.ConfigDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	file := rotatingFile(path)

	var out io.Writer = file
	if cfg.Debug {
		out = io.MultiWriter(os.Stderr, file)
	}

	Logger = log.NewWithOptions(out, log.Options{
		Level:           level,
		Prefix:          constants.AppName,
		ReportTimestamp: true,
		ReportCaller:    cfg.Debug,
	})
	return nil
}

// Named returns a child logger tagged with component. Before Init it
// discards everything.
func Named(component string) *log.Logger {
	if Logger == nil {
		return discard.WithPrefix(component)
	}
	return Logger.WithPrefix(constants.AppName + "/" + component)
}

func current() *log.Logger {
	if Logger == nil {
		return discard
	}
	return Logger
}

func Debug(msg string, keyvals ...any) { current().Debug(msg, keyvals...) }

func Info(msg string, keyvals ...any) { current().Info(msg, keyvals...) }

func Warn(msg string, keyvals ...any) { current().Warn(msg, keyvals...) }

func Error(msg string, keyvals ...any) { current().Error(msg, keyvals...) }
