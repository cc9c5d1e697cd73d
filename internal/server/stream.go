package server

import (
	"fmt"
	"net/http"
	"time"
)

// FrameSource provides the latest JPEG frame and a sequence number that
// changes whenever the frame does.
type FrameSource interface {
	Frame() ([]byte, uint64)
}

// StreamHandler serves the triggered frames as MJPEG.
type StreamHandler struct {
	source   FrameSource
	interval time.Duration
}

// NewStreamHandler creates a new StreamHandler polling source at ~15 FPS.
func NewStreamHandler(source FrameSource) *StreamHandler {
	return &StreamHandler{source: source, interval: 66 * time.Millisecond}
}

// ServeHTTP streams MJPEG frames to connected clients. A frame is written
// only when it changed since the last one sent.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	var sent uint64
	for {
		if data, seq := h.source.Frame(); seq != sent && len(data) > 0 {
			if err := writePart(w, data); err != nil {
				return
			}
			sent = seq
		}

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

func writePart(w http.ResponseWriter, data []byte) error {
	if _, err := fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(data)); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\r\n"); err != nil {
		return err
	}
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}
