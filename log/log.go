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

	// Priority 2: GLASS_LOG_PATH environment variable
	envPath := os.Getenv("GLASS_LOG_PATH")
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

	diagPath := filepath.Join(dir, "device_log.txt")
	f, err := os.OpenFile(diagPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	diagFile = f

	consoleWriter := zerolog.ConsoleWriter{
		Out:        diagFile,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	diagLog = zerolog.New(consoleWriter).With().Timestamp().Int("pid", os.Getpid()).Logger()

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

func Infof(format string, args ...any) {
	if logReady {
		diagLog.Info().Msg(fmt.Sprintf(format, args...))
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

// SessionStart marks the beginning of a touch-activated recording.
func SessionStart(trigger string) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("trigger", trigger).
		Msg("session_start")
}

// SessionEnd records why and how a recording finished.
func SessionEnd(reason string, audioBytes int, durationMs int64) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("reason", reason).
		Int("audio_bytes", audioBytes).
		Int64("duration_ms", durationMs).
		Msg("session_end")
}

// ArenaOverflow records a session outgrowing the audio buffer. Logged
// once per session.
func ArenaOverflow(capacity int) {
	if !logReady {
		return
	}
	diagLog.Warn().
		Int("capacity", capacity).
		Msg("arena_overflow")
}

// PhotoUpload records a completed photo transfer.
func PhotoUpload(sizeBytes, chunks int) {
	if !logReady {
		return
	}
	diagLog.Info().
		Int("size_bytes", sizeBytes).
		Int("chunks", chunks).
		Msg("photo_upload")
}

// Battery records a level notify.
func Battery(percent int, millivolts int) {
	if !logReady {
		return
	}
	diagLog.Info().
		Int("percent", percent).
		Int("mv", millivolts).
		Msg("battery")
}

// ControlWrite records an accepted inbound control write.
func ControlWrite(characteristic string, value int) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("characteristic", characteristic).
		Int("value", value).
		Msg("control_write")
}
