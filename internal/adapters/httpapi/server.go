package httpapi

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"

	"github.com/Overland-East-Bay/newsletter-api/internal/app/subscriptions"
	"github.com/Overland-East-Bay/newsletter-api/internal/platform/logger"
	"github.com/Overland-East-Bay/newsletter-api/internal/ports/out/idempotency"
)

const (
	idempotencyHeader = "Idempotency-Key"
	subscribeRoute    = "/subscribe"
)

// Server holds the HTTP handlers.
type Server struct {
	Subscriptions *subscriptions.Service
	Idem          idempotency.Store
	Log           *logger.Logger

	keys *keyLocks
}

// NewServer builds the handlers. idem may be nil to disable Idempotency-Key replay.
func NewServer(svc *subscriptions.Service, idem idempotency.Store, log *logger.Logger) *Server {
	if log == nil {
		log = logger.NewNop()
	}
	return &Server{Subscriptions: svc, Idem: idem, Log: log, keys: newKeyLocks()}
}

// Health always reports success with an empty body.
func (s *Server) Health(w http.ResponseWriter, _ *http.Request) {
	writeEmpty(w, http.StatusOK)
}

// Ready reports whether the subscription store is reachable.
func (s *Server) Ready(w http.ResponseWriter, r *http.Request) {
	if err := s.Subscriptions.Ready(r.Context()); err != nil {
		s.Log.Warn("readiness check failed", "request_id", middleware.GetReqID(r.Context()), "error", err)
		writeEmpty(w, http.StatusServiceUnavailable)
		return
	}
	writeEmpty(w, http.StatusOK)
}

func (s *Server) Greet(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		name = "World"
	}
	writeText(w, http.StatusOK, "Hello "+name+"!")
}

// Subscribe handles POST /subscribe with an application/x-www-form-urlencoded body.
func (s *Server) Subscribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeText(w, http.StatusBadRequest, "malformed form body")
		return
	}
	var form subscriptions.Form
	if err := runtime.BindForm(&form, r.PostForm, nil, nil); err != nil {
		writeText(w, http.StatusBadRequest, "malformed form body")
		return
	}

	// Idempotency handling:
	// - Replay the stored response if same key+route+bodyHash
	// - Reject if same key+route with a different bodyHash (409)
	// Concurrent requests with one key run one at a time so the later one replays.
	key := strings.TrimSpace(r.Header.Get(idempotencyHeader))
	var respFP idempotency.Fingerprint
	if s.Idem != nil && key != "" {
		if s.keys != nil {
			defer s.keys.lock(key)()
		}
		bodyHash, err := hashSubscribeForm(form)
		if err != nil {
			s.internalError(w, r, err)
			return
		}
		metaFP := idempotency.Fingerprint{
			Key:      idempotency.Key(key),
			Method:   http.MethodPost,
			Route:    subscribeRoute,
			BodyHash: "",
		}
		ctx := r.Context()
		if meta, ok, err := s.Idem.Get(ctx, metaFP); err != nil {
			s.internalError(w, r, err)
			return
		} else if ok {
			if string(meta.Body) != bodyHash {
				writeText(w, http.StatusConflict, "idempotency key reuse with different payload")
				return
			}
		} else {
			_ = s.Idem.Put(ctx, metaFP, idempotency.Record{
				StatusCode:  0,
				ContentType: "text/plain",
				Body:        []byte(bodyHash),
				CreatedAt:   time.Now().UTC(),
			})
		}

		respFP = metaFP
		respFP.BodyHash = bodyHash
		if rec, ok, err := s.Idem.Get(ctx, respFP); err != nil {
			s.internalError(w, r, err)
			return
		} else if ok {
			s.replay(w, rec)
			return
		}
	}

	status, msg := http.StatusOK, ""
	if _, err := s.Subscriptions.Subscribe(r.Context(), form); err != nil {
		ae := (*subscriptions.Error)(nil)
		if !errors.As(err, &ae) || ae.Status >= 500 {
			s.internalError(w, r, err)
			return
		}
		status, msg = ae.Status, ae.Message
	}

	// Only final outcomes are stored; a 5xx may succeed on retry.
	if respFP.Key != "" {
		_ = s.Idem.Put(r.Context(), respFP, idempotency.Record{
			StatusCode:  status,
			ContentType: "text/plain; charset=utf-8",
			Body:        []byte(msg),
			CreatedAt:   time.Now().UTC(),
		})
	}

	if msg == "" {
		writeEmpty(w, status)
		return
	}
	writeText(w, status, msg)
}

func (s *Server) replay(w http.ResponseWriter, rec idempotency.Record) {
	w.Header().Set("Idempotent-Replayed", "true")
	if len(rec.Body) == 0 {
		writeEmpty(w, rec.StatusCode)
		return
	}
	w.Header().Set("Content-Type", rec.ContentType)
	w.WriteHeader(rec.StatusCode)
	_, _ = w.Write(rec.Body)
}

// internalError logs err and writes an empty 500; details never reach the client.
func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.Log.Error("request failed",
		"request_id", middleware.GetReqID(r.Context()),
		"route", r.Method+" "+r.URL.Path,
		"error", err,
	)
	writeEmpty(w, http.StatusInternalServerError)
}

func hashSubscribeForm(f subscriptions.Form) (string, error) {
	raw, err := json.Marshal(f)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
