// Copyright 2025 The Vafast Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package compress

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/vafast/vafast-compress/encoding"
	"github.com/vafast/vafast-compress/ttlcache"
)

// writeMode is the wrapper's dispatch state.
type writeMode int

const (
	// modeBuffer captures handler writes so the size, type, and status
	// gates can run against the materialized body.
	modeBuffer writeMode = iota

	// modeStream feeds handler writes through an incremental encoder,
	// engaged when the handler flushes a live stream.
	modeStream

	// modePassthrough writes straight to the underlying writer after
	// compression has been declined.
	modePassthrough
)

// responseWriter wraps the downstream http.ResponseWriter. Writes are
// buffered until either the handler returns (buffered compression) or the
// handler flushes (stream compression or passthrough).
type responseWriter struct {
	http.ResponseWriter
	cfg   *config
	enc   encoding.Encoder
	cache *ttlcache.Cache[[]byte]
	sw    encoding.StreamWriter

	buf         bytes.Buffer
	status      int
	mode        writeMode
	headersSent bool
}

func newResponseWriter(w http.ResponseWriter, cfg *config, enc encoding.Encoder, cache *ttlcache.Cache[[]byte]) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		cfg:            cfg,
		enc:            enc,
		cache:          cache,
		status:         http.StatusOK,
	}
}

// WriteHeader records the status code. Headers are not sent downstream
// until the compression decision is made.
func (rw *responseWriter) WriteHeader(code int) {
	if rw.headersSent || rw.mode != modeBuffer {
		return
	}

	rw.status = code
}

// Write dispatches on the current mode; in buffer mode the body is captured
// for the finalization decision.
func (rw *responseWriter) Write(data []byte) (int, error) {
	switch rw.mode {
	case modeStream:
		return rw.sw.Write(data)
	case modePassthrough:
		return rw.ResponseWriter.Write(data)
	default:
		return rw.buf.Write(data)
	}
}

// Flush marks the response as a live stream. The first flush decides the
// stream's fate: incremental compression when enabled and the status
// qualifies, uncompressed passthrough otherwise (an unbounded stream cannot
// be held to the buffering threshold). Every flush reaches the underlying
// http.Flusher so delivery timing is unchanged.
func (rw *responseWriter) Flush() {
	if rw.mode == modeBuffer {
		if rw.cfg.compressStream && statusOK(rw.status) {
			rw.startStream()
		} else {
			rw.startPassthrough()
		}
	}

	if rw.mode == modeStream {
		if err := rw.sw.Flush(); err != nil {
			rw.logError("stream compression flush failed", err)
		}
	}

	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// startStream sends headers rewritten for the negotiated encoding and
// routes all further writes through an incremental encoder. The cache is
// never involved: streams are not assumed content-stable or boundable.
func (rw *responseWriter) startStream() {
	h := rw.Header()
	h.Del("Content-Length")
	h.Set("Content-Encoding", rw.enc.Name())
	mergeVary(h, varyAcceptEncoding)

	rw.sendHeader()
	rw.mode = modeStream
	rw.sw = rw.enc.NewStreamWriter(rw.ResponseWriter)

	if rw.buf.Len() > 0 {
		if _, err := rw.sw.Write(rw.buf.Bytes()); err != nil {
			rw.logError("stream compression write failed", err)
		}
		rw.buf.Reset()
	}
}

// startPassthrough sends headers as-is and stops intercepting writes.
func (rw *responseWriter) startPassthrough() {
	rw.sendHeader()
	rw.mode = modePassthrough

	if rw.buf.Len() > 0 {
		_, _ = rw.ResponseWriter.Write(rw.buf.Bytes())
		rw.buf.Reset()
	}
}

// finalize completes the response after the handler has returned. For
// buffered responses it runs the remaining gate rules and either compresses
// (consulting the compressed-result cache first) or replays the body
// unmodified. The returned error is a fatal encoder failure; downstream
// write failures are not errors here.
func (rw *responseWriter) finalize() error {
	switch rw.mode {
	case modeStream:
		if err := rw.sw.Close(); err != nil {
			rw.logError("stream compression close failed", err)
		}

		return nil
	case modePassthrough:
		return nil
	}

	h := rw.Header()

	skip := !statusOK(rw.status) ||
		h.Get("Content-Encoding") != "" ||
		rw.buf.Len() < rw.cfg.threshold ||
		!rw.cfg.compressible(h.Get("Content-Type"))
	if skip {
		rw.replayUncompressed()

		return nil
	}

	compressed, err := rw.compressedBody(rw.buf.Bytes())
	if err != nil {
		return err
	}

	h.Set("Content-Encoding", rw.enc.Name())
	h.Set("Content-Length", strconv.Itoa(len(compressed)))
	mergeVary(h, varyAcceptEncoding)

	rw.sendHeader()
	_, _ = rw.ResponseWriter.Write(compressed)

	return nil
}

// compressedBody returns the compressed form of body, reusing a cached
// result for an identical (encoding, body) pair when one is still live.
func (rw *responseWriter) compressedBody(body []byte) ([]byte, error) {
	key := cacheKey(rw.enc.Name(), body)
	if data, ok := rw.cache.Get(key); ok {
		return data, nil
	}

	data, err := rw.enc.Encode(body)
	if err != nil {
		return nil, err
	}

	rw.cache.SetTTL(key, data, rw.cfg.cacheTTL)

	return data, nil
}

// replayUncompressed emits the captured response exactly as the handler
// wrote it.
func (rw *responseWriter) replayUncompressed() {
	rw.sendHeader()

	if rw.buf.Len() > 0 {
		_, _ = rw.ResponseWriter.Write(rw.buf.Bytes())
	}
}

func (rw *responseWriter) sendHeader() {
	if rw.headersSent {
		return
	}

	rw.ResponseWriter.WriteHeader(rw.status)
	rw.headersSent = true
}

func (rw *responseWriter) logError(msg string, err error) {
	if rw.cfg.logger != nil {
		rw.cfg.logger.Error(msg, "encoding", rw.enc.Name(), "error", err)
	}
}

var (
	_ http.ResponseWriter = (*responseWriter)(nil)
	_ http.Flusher        = (*responseWriter)(nil)
)
