package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"sleuth/internal/pipeline"
)

// streamEvents relays pipeline events to the client as server-sent
// events, flushing after each one. The pipeline's capacity-1 channel
// means a slow reader holds the run at the current stage; a client
// disconnect cancels the request context and tears the producer down.
func (s *Server) streamEvents(w http.ResponseWriter, r *http.Request, events <-chan pipeline.Event) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for ev := range events {
		if err := writeSSE(w, ev); err != nil {
			AddError(r.Context(), err)
			return
		}
		flusher.Flush()
	}
}

// writeSSE encodes one event as a labeled SSE record with a JSON
// payload.
func writeSSE(w io.Writer, ev pipeline.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Kind, payload)
	return err
}
