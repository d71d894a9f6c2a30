// Package logger is the process-wide structured logger.
//
// Calls take a message followed by alternating key/value pairs:
//
//	logger.Info("server starting", "address", addr)
//	logger.Error("save failed", "user_id", id, "error", err)
//
// A trailing unpaired error is attached as the "error" field.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu  sync.RWMutex
	log = zerolog.New(os.Stdout).With().Timestamp().Logger()
)

// Init configures the global logger for the given environment.
// development gets a console writer at debug level, everything else JSON at info.
func Init(environment string) {
	var out io.Writer = os.Stdout
	level := zerolog.InfoLevel

	if strings.EqualFold(environment, "development") || strings.EqualFold(environment, "dev") {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.DateTime}
		level = zerolog.DebugLevel
	}

	SetOutput(out, level)
}

// SetOutput replaces the writer and minimum level.
func SetOutput(w io.Writer, level zerolog.Level) {
	mu.Lock()
	defer mu.Unlock()
	log = zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func get() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := log
	return &l
}

func Debug(msg string, kv ...any) { emit(get().Debug(), msg, kv) }
func Info(msg string, kv ...any)  { emit(get().Info(), msg, kv) }
func Warn(msg string, kv ...any)  { emit(get().Warn(), msg, kv) }
func Error(msg string, kv ...any) { emit(get().Error(), msg, kv) }

// Fatal logs and exits the process.
func Fatal(msg string, kv ...any) { emit(get().Fatal(), msg, kv) }

func emit(ev *zerolog.Event, msg string, kv []any) {
	if ev == nil {
		return
	}
	for i := 0; i < len(kv); i += 2 {
		if i == len(kv)-1 {
			if err, ok := kv[i].(error); ok {
				ev = ev.Err(err)
			} else {
				ev = ev.Interface("extra", kv[i])
			}
			break
		}
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		if err, ok := kv[i+1].(error); ok {
			ev = ev.AnErr(key, err)
			continue
		}
		ev = ev.Interface(key, kv[i+1])
	}
	ev.Msg(msg)
}
