package httpapi

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// zlog is an optional structured logger. If unset, falls back to log.Printf.
var zlog *zerolog.Logger

// SetLogger installs a structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = &l }

// LogLevel controls per-request logging behavior.
type LogLevel int

const (
	LevelOff LogLevel = iota
	LevelError
	LevelInfo
	LevelDebug
)

func parseLevel(s string) LogLevel {
	switch s {
	case "off", "":
		return LevelOff
	case "error":
		return LevelError
	case "info":
		return LevelInfo
	case "debug":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// global default, read once
var defaultLogLevel = parseLevel(os.Getenv("MLMODELD_HTTP_LOG"))

// SetDefaultLogLevel overrides the per-request log level used when a request
// carries no override.
func SetDefaultLogLevel(s string) { defaultLogLevel = parseLevel(s) }

func requestLogLevel(r *http.Request) LogLevel {
	// Per-request overrides
	if v := r.URL.Query().Get("log"); v != "" {
		if v == "1" {
			return LevelDebug
		}
		return parseLevel(v)
	}
	if v := r.Header.Get("X-Log-Level"); v != "" {
		return parseLevel(v)
	}
	return defaultLogLevel
}

// logOutcome records the end of a model operation. Errors are logged from
// LevelError up, successes from LevelInfo up.
func logOutcome(r *http.Request, op, model string, status int, start time.Time, err error) {
	lvl := requestLogLevel(r)
	if lvl == LevelOff || (err == nil && lvl < LevelInfo) {
		return
	}
	dur := time.Since(start)
	if zlog == nil {
		if err != nil {
			log.Printf("%s end model=%s status=%d dur=%s err=%v", op, model, status, dur, err)
		} else {
			log.Printf("%s end model=%s status=%d dur=%s", op, model, status, dur)
		}
		return
	}
	z := zlog.Info()
	if err != nil && status >= http.StatusInternalServerError {
		z = zlog.Error()
	} else if err != nil {
		z = zlog.Warn()
	}
	z = z.Str("op", op).Str("model", model).Int("status", status).Dur("dur", dur)
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		z = z.Str("request_id", rid)
	}
	if err != nil {
		z = z.Err(err)
	}
	z.Msg(op + " end")
}

// logDebug emits a debug line when the request asked for it.
func logDebug(r *http.Request, op, model string, kv map[string]any) {
	if requestLogLevel(r) < LevelDebug {
		return
	}
	if zlog == nil {
		log.Printf("%s model=%s %v", op, model, kv)
		return
	}
	z := zlog.Debug().Str("op", op).Str("model", model).Fields(kv)
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		z = z.Str("request_id", rid)
	}
	z.Msg(op)
}
