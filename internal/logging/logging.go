package logging

import (
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/inconshreveable/log15/v3"
)

// New builds the root logger. format is logfmt, json or terminal; unknown levels fall back to info.
func New(level, format string, out io.Writer) log15.Logger {
	if out == nil {
		out = os.Stderr
	}
	var fmtr log15.Format
	switch strings.ToLower(format) {
	case "json":
		fmtr = log15.JsonFormat()
	case "terminal", "text":
		fmtr = log15.TerminalFormat()
	default:
		fmtr = log15.LogfmtFormat()
	}
	lvl, err := log15.LvlFromString(strings.ToLower(level))
	if err != nil {
		lvl = log15.LvlInfo
	}

	logger := log15.New("app", "minbot-dashboard")
	logger.SetHandler(log15.LvlFilterHandler(lvl, log15.StreamHandler(out, fmtr)))
	return logger
}

func Discard() log15.Logger {
	logger := log15.New()
	logger.SetHandler(log15.DiscardHandler())
	return logger
}

// AccessLog logs one line per request after the handler finished.
func AccessLog(logger log15.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			ctx := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).Round(time.Microsecond),
			}
			if reqID := middleware.GetReqID(r.Context()); reqID != "" {
				ctx = append(ctx, "request_id", reqID)
			}
			switch {
			case status >= 500:
				logger.Error("http request", ctx...)
			case status >= 400:
				logger.Warn("http request", ctx...)
			default:
				logger.Info("http request", ctx...)
			}
		})
	}
}
