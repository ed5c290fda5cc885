package api

import (
	"compress/gzip"
	"context"
	"net/http"
	"strings"

	"github.com/fulldump/box"
)

// Compression gzips response bodies for clients that accept it. Responses
// that can not carry a body (204, 304, 1xx) go out untouched.
func Compression(next box.H) box.H {
	return func(ctx context.Context) {
		r := box.GetRequest(ctx)
		w := box.GetResponse(ctx)

		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next(ctx)
			return
		}

		w.Header().Add("Vary", "Accept-Encoding")
		gzw := &gzipResponseWriter{ResponseWriter: w}
		defer gzw.Close()
		box.GetBoxContext(ctx).Response = gzw
		next(ctx)
	}
}

func bodyAllowed(status int) bool {
	switch {
	case status >= 100 && status < 200:
		return false
	case status == http.StatusNoContent, status == http.StatusNotModified:
		return false
	}
	return true
}

// gzipResponseWriter decides on the first WriteHeader or Write whether the
// body is compressed.
type gzipResponseWriter struct {
	http.ResponseWriter

	gz          *gzip.Writer
	wroteHeader bool
	plain       bool
}

func (w *gzipResponseWriter) WriteHeader(status int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true

	if bodyAllowed(status) {
		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Del("Content-Length")
	} else {
		w.plain = true
	}

	w.ResponseWriter.WriteHeader(status)
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if w.plain {
		return w.ResponseWriter.Write(b)
	}
	if w.gz == nil {
		w.gz = gzip.NewWriter(w.ResponseWriter)
	}
	return w.gz.Write(b)
}

// Close flushes the gzip footer. Nothing is written when the response was
// never started or can not carry a body.
func (w *gzipResponseWriter) Close() error {
	if !w.wroteHeader || w.plain {
		return nil
	}
	if w.gz == nil {
		// header already promised gzip, send a valid empty stream
		w.gz = gzip.NewWriter(w.ResponseWriter)
	}
	return w.gz.Close()
}
