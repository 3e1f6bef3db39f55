package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/louisbranch/wit/internal/gaze"
	apperrors "github.com/louisbranch/wit/internal/platform/errors"
	"github.com/louisbranch/wit/internal/platform/id"
	"github.com/louisbranch/wit/internal/platform/telemetry/metrics"
	"github.com/louisbranch/wit/internal/platform/timeouts"
	"github.com/louisbranch/wit/internal/services/gaze/protocol"
	"github.com/louisbranch/wit/internal/services/gaze/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/websocket"
)

const tracerName = "github.com/louisbranch/wit/gaze"

// gazeHub holds what every connection shares: defaults, limits, the live
// session registry and the optional ledger.
type gazeHub struct {
	config   Config
	registry *registry
	ledger   storage.SessionStore
	metrics  *metrics.Recorder
	tracer   trace.Tracer
	now      func() time.Time
	conns    sync.WaitGroup
}

func newGazeHub(config Config, ledger storage.SessionStore, newID id.Generator) *gazeHub {
	return &gazeHub{
		config:   config.withDefaults(),
		registry: newRegistry(newID, time.Now),
		ledger:   ledger,
		metrics:  metrics.Global(),
		tracer:   otel.Tracer(tracerName),
		now:      time.Now,
	}
}

// NewHandler creates gaze routes without a ledger, for tests and offline paths.
func NewHandler(config Config) http.Handler {
	return newHandler(newGazeHub(config, nil, id.NewID))
}

func newHandler(hub *gazeHub) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/up", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	mux.HandleFunc("/health", hub.handleHealth)
	mux.HandleFunc("/sessions", hub.handleSessions)
	mux.HandleFunc("/sessions/recent", hub.handleRecentSessions)

	wsHandler := websocket.Handler(hub.serveConn)
	mux.HandleFunc("/ws/gaze", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		wsHandler.ServeHTTP(w, r)
	})

	return mux
}

// shutdown closes live connections and waits for their ledger writes, up to
// the context deadline.
func (h *gazeHub) shutdown(ctx context.Context) {
	h.registry.closeAll()
	done := make(chan struct{})
	go func() {
		h.conns.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		log.Printf("gaze: %d sessions still open at shutdown", h.registry.len())
	}
}

func (h *gazeHub) serveConn(conn *websocket.Conn) {
	h.conns.Add(1)
	defer h.conns.Done()
	defer func() {
		_ = conn.Close()
	}()
	conn.MaxPayloadBytes = h.config.MaxFrameBytes

	ctx := context.Background()
	remote := ""
	if request := conn.Request(); request != nil {
		ctx = request.Context()
		remote = request.RemoteAddr
	}

	entry, err := h.registry.open(h.config.Session.CrowdingIntensity, conn)
	if err != nil {
		log.Printf("gaze: open session remote=%s err=%v", remote, err)
		_ = h.send(conn, protocol.ErrorFrame(apperrors.Wrap(apperrors.CodeUnknown, "open session", err)))
		return
	}
	ctx, span := h.tracer.Start(ctx, "gaze.session",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attribute.String("gaze.session_id", entry.id)),
	)
	h.metrics.SessionOpened(ctx)
	log.Printf("gaze: session opened id=%q remote=%s", entry.id, remote)
	defer h.finishSession(ctx, span, entry)

	session := gaze.NewSession(
		gaze.WithConfig(h.config.Session),
		gaze.WithTuning(h.config.Tuning),
		gaze.WithClock(h.now),
	)
	dispatcher := protocol.NewDispatcher(session, h.config.Session, entry)

	windowStart := time.Now()
	framesInWindow := 0
	decodeErrors := 0

	for {
		_ = conn.SetReadDeadline(time.Now().Add(h.config.IdleTimeout))
		var data []byte
		if err := websocket.Message.Receive(conn, &data); err != nil {
			if errors.Is(err, websocket.ErrFrameTooLarge) {
				decodeErrors++
				out, _ := dispatcher.Reject(apperrors.WithMetadata(
					apperrors.CodeFrameTooLarge,
					"frame exceeds size limit",
					map[string]string{"limit": strconv.Itoa(h.config.MaxFrameBytes)},
				))
				h.metrics.FrameRejected(ctx, string(apperrors.CodeFrameTooLarge))
				if err := h.send(conn, out); err != nil || decodeErrors >= maxDecodeErrorsPerConn {
					return
				}
				continue
			}
			h.logReadEnd(entry.id, err)
			return
		}

		now := time.Now()
		if now.Sub(windowStart) >= time.Second {
			windowStart = now
			framesInWindow = 0
		}
		framesInWindow++
		if framesInWindow > h.config.MaxFramesPerSecond {
			if framesInWindow == h.config.MaxFramesPerSecond+1 {
				log.Printf("gaze: session %q over %d frames/s, dropping frames", entry.id, h.config.MaxFramesPerSecond)
				span.AddEvent("gaze.rate_limited")
			}
			out, _ := dispatcher.Reject(apperrors.WithMetadata(
				apperrors.CodeRateLimited,
				"frame rate exceeded",
				map[string]string{"limit": strconv.Itoa(h.config.MaxFramesPerSecond)},
			))
			h.metrics.FrameRejected(ctx, string(apperrors.CodeRateLimited))
			if err := h.send(conn, out); err != nil {
				log.Printf("gaze: session %q write: %v", entry.id, err)
				return
			}
			continue
		}

		started := time.Now()
		out, err := dispatcher.HandleFrame(data)
		switch {
		case err == nil:
			decodeErrors = 0
			if out.Type == protocol.TypeGazeUpdate && out.Fixation != nil {
				h.metrics.SampleProcessed(ctx, *out.Fixation, time.Since(started))
			}
		case apperrors.CodeOf(err) == apperrors.CodeInvalidFrame:
			decodeErrors++
			h.metrics.FrameRejected(ctx, string(apperrors.CodeInvalidFrame))
		default:
			decodeErrors = 0
			h.metrics.FrameRejected(ctx, string(apperrors.CodeOf(err)))
		}

		if err := h.send(conn, out); err != nil {
			log.Printf("gaze: session %q write: %v", entry.id, err)
			return
		}
		if decodeErrors >= maxDecodeErrorsPerConn {
			log.Printf("gaze: session %q closed after %d undecodable frames", entry.id, decodeErrors)
			return
		}
	}
}

func (h *gazeHub) send(conn *websocket.Conn, out protocol.Outbound) error {
	_ = conn.SetWriteDeadline(time.Now().Add(timeouts.Write))
	return websocket.JSON.Send(conn, out)
}

func (h *gazeHub) logReadEnd(sessionID string, err error) {
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		return
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		log.Printf("gaze: session %q idle for %s, closing", sessionID, h.config.IdleTimeout)
		return
	}
	log.Printf("gaze: session %q read: %v", sessionID, err)
}

func (h *gazeHub) finishSession(ctx context.Context, span trace.Span, entry *sessionEntry) {
	record, ok := h.registry.close(entry.id)
	h.metrics.SessionClosed(ctx)
	span.SetAttributes(
		attribute.Int64("gaze.samples_accepted", entry.accepted.Load()),
		attribute.Int64("gaze.samples_rejected", entry.rejected.Load()),
		attribute.Int64("gaze.fixations", entry.fixations.Load()),
	)
	span.End()
	log.Printf("gaze: session closed id=%q samples=%d fixations=%d", entry.id, entry.accepted.Load(), entry.fixations.Load())

	if !ok || h.ledger == nil {
		return
	}
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.LedgerWrite)
	defer cancel()
	if err := h.ledger.RecordSession(writeCtx, record); err != nil {
		log.Printf("gaze: record session %q: %v", entry.id, err)
	}
}

type healthResponse struct {
	Status    string  `json:"status"`
	Timestamp float64 `json:"timestamp"`
}

func (h *gazeHub) handleHealth(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: float64(now.UnixNano()) / float64(time.Second),
	})
}

type sessionsResponse struct {
	Active   int               `json:"active"`
	Sessions []SessionSnapshot `json:"sessions"`
}

func (h *gazeHub) handleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sessions := h.registry.snapshot()
	writeJSON(w, http.StatusOK, sessionsResponse{Active: len(sessions), Sessions: sessions})
}

type recentSession struct {
	ID              string    `json:"id"`
	StartedAt       time.Time `json:"started_at"`
	EndedAt         time.Time `json:"ended_at"`
	SamplesAccepted int64     `json:"samples_accepted"`
	SamplesRejected int64     `json:"samples_rejected"`
	Fixations       int64     `json:"fixations"`
	Intensity       string    `json:"intensity"`
}

type recentSessionsResponse struct {
	Sessions []recentSession `json:"sessions"`
}

func (h *gazeHub) handleRecentSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.ledger == nil {
		http.Error(w, "session ledger is not configured", http.StatusServiceUnavailable)
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}
	records, err := h.ledger.ListRecentSessions(r.Context(), limit)
	if err != nil {
		log.Printf("gaze: list recent sessions: %v", err)
		http.Error(w, "session ledger unavailable", http.StatusInternalServerError)
		return
	}
	resp := recentSessionsResponse{Sessions: make([]recentSession, 0, len(records))}
	for _, record := range records {
		resp.Sessions = append(resp.Sessions, recentSession{
			ID:              record.ID,
			StartedAt:       record.StartedAt,
			EndedAt:         record.EndedAt,
			SamplesAccepted: record.SamplesAccepted,
			SamplesRejected: record.SamplesRejected,
			Fixations:       record.Fixations,
			Intensity:       record.Intensity,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("gaze: encode response: %v", err)
	}
}
