package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

var (
	diagLog  zerolog.Logger
	diagFile *os.File
	logMu    sync.Mutex
	logReady bool
	pid      int
	dir      string
)

func ResolveDir(flagPath string) (string, error) {
	// Priority 1: -logpath flag
	if flagPath != "" {
		if !filepath.IsAbs(flagPath) {
			wd, err := os.Getwd()
			if err != nil {
				return "", err
			}
			return filepath.Join(wd, flagPath), nil
		}
		return flagPath, nil
	}

	// Priority 2: KLACK_LOG_PATH environment variable
	envPath := os.Getenv("KLACK_LOG_PATH")
	if envPath != "" {
		if !filepath.IsAbs(envPath) {
			wd, err := os.Getwd()
			if err != nil {
				return "", err
			}
			return filepath.Join(wd, envPath), nil
		}
		return envPath, nil
	}

	// Priority 3: Default OS-specific location
	return getDefaultDir()
}

func SetDir(d string) {
	dir = d
}

func Dir() string {
	return dir
}

func EnsureDir() error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := EnsureDir(); err != nil {
		return err
	}

	pid = os.Getpid()

	var err error
	diagPath := filepath.Join(dir, "diagnostics_log.txt")
	diagFile, err = os.OpenFile(diagPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        diagFile,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	diagLog = zerolog.New(consoleWriter).With().Timestamp().Int("pid", pid).Logger()

	logReady = true
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
	logReady = false
}

func Info(msg string) {
	if logReady {
		diagLog.Info().Msg(msg)
	}
}

func Error(msg string) {
	if logReady {
		diagLog.Error().Msg(msg)
	}
}

func Errorf(format string, args ...any) {
	if logReady {
		diagLog.Error().Msg(fmt.Sprintf(format, args...))
	}
}

func Warn(msg string) {
	if logReady {
		diagLog.Warn().Msg(msg)
	}
}

func Warnf(format string, args ...any) {
	if logReady {
		diagLog.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

func SessionStart(preset string, volume float64, enabled bool) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("preset", preset).
		Float64("volume", volume).
		Bool("enabled", enabled).
		Msg("session_start")
}

func SessionEnd(triggers uint64) {
	if !logReady {
		return
	}
	diagLog.Info().
		Uint64("triggers", triggers).
		Msg("session_end")
}

// BankLoaded records the outcome of a preset/folder reload.
func BankLoaded(preset, dir string, clips, skipped int) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("preset", preset).
		Str("dir", dir).
		Int("clips", clips).
		Int("skipped", skipped).
		Msg("bank_loaded")
}

// DeviceError records an output-device failure; the engine keeps
// running disabled.
func DeviceError(err error) {
	if !logReady {
		return
	}
	diagLog.Error().Err(err).Msg("device_error")
}

func VolumeChanged(volume float64) {
	if !logReady {
		return
	}
	diagLog.Info().Float64("volume", volume).Msg("volume_changed")
}

func EnabledChanged(enabled bool) {
	if !logReady {
		return
	}
	diagLog.Info().Bool("enabled", enabled).Msg("enabled_changed")
}
