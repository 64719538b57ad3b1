package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"gopkg.in/natefinch/lumberjack.v2"
)

// accessLogger returns a middleware writing one JSON line per request to a
// rotating file at path. An empty path disables access logging.
func accessLogger(path string) (func(http.Handler) http.Handler, func()) {
	if path == "" {
		return nil, func() {}
	}

	out := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    50, // megabytes
		MaxBackups: 5,
		MaxAge:     14, // days
		Compress:   true,
	}
	logger := slog.New(slog.NewJSONHandler(out, nil))

	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			logger.Info("request",
				"request_id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"remote", r.RemoteAddr,
				"latency_ms", time.Since(start).Milliseconds(),
			)
		})
	}
	return mw, func() { _ = out.Close() }
}
