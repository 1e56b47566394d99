package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/actvis"
	"github.com/aretw0/actvis/internal/dto"
	"github.com/aretw0/actvis/internal/logging"
	"github.com/aretw0/actvis/pkg/adapters/raster"
	"github.com/aretw0/actvis/pkg/adapters/recorder"
	"github.com/aretw0/actvis/pkg/domain"
	"github.com/aretw0/actvis/pkg/ports"
	"github.com/aretw0/actvis/pkg/session"
	"github.com/go-chi/chi/v5"
)

// maxRequestSize caps request bodies. Scenes are the largest payload.
const maxRequestSize = 4 << 20

// Server exposes the views of a session.Manager over HTTP.
type Server struct {
	Views   *session.Manager
	Streams *StreamManager

	catalog ports.ActionCatalog
	metrics http.Handler
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithCatalog serves POST /actions from c.
func WithCatalog(c ports.ActionCatalog) Option {
	return func(s *Server) {
		s.catalog = c
	}
}

// WithMetrics mounts h on GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a server over views.
func NewServer(views *session.Manager, opts ...Option) *Server {
	s := &Server{
		Views:   views,
		Streams: NewStreamManager(),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams.logger = s.logger
	return s
}

// NewHandler creates the HTTP handler for views.
func NewHandler(views *session.Manager, opts ...Option) http.Handler {
	return NewServer(views, opts...).Handler()
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	r.Post("/actions", s.ListActions)

	r.Route("/views", func(r chi.Router) {
		r.Get("/", s.ListViews)
		r.Post("/", s.CreateView)
		r.Route("/{id}", func(r chi.Router) {
			r.Delete("/", s.DeleteView)
			r.Post("/input", s.HandleInput)
			r.Put("/scene", s.PutScene)
			r.Post("/load", s.LoadFromSource)
			r.Post("/open", s.OpenAction)
			r.Get("/state", s.GetState)
			r.Get("/frame", s.GetFrame)
			r.Get("/frame.png", s.GetFramePNG)
			r.Get("/events", s.SubscribeEvents)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Notification is what SSE subscribers of a view receive.
type Notification struct {
	Type      string              `json:"type"` // "redraw", "select", "scene" or "delete"
	Selection *domain.Selection   `json:"selection,omitempty"`
	Scene     *actvis.LoadSummary `json:"scene,omitempty"`
}

// Publish sends n to every subscriber of the view.
func (s *Server) Publish(viewID string, n Notification) {
	bytes, err := json.Marshal(n)
	if err != nil {
		s.logger.Error("failed to encode notification", "view_id", viewID, "err", err)
		return
	}
	s.Streams.Broadcast(viewID, string(bytes))
}

type createViewRequest struct {
	ID     string  `json:"id"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type viewResponse struct {
	ID    string           `json:"id"`
	State domain.ViewState `json:"state"`
}

type inputResponse struct {
	Result actvis.Result    `json:"result"`
	State  domain.ViewState `json:"state"`
}

type sourceRequest struct {
	Text   string             `json:"text"`
	Entry  string             `json:"entry,omitempty"`
	Action *domain.ActionInfo `json:"action,omitempty"`
}

// ListViews handles GET /views.
func (s *Server) ListViews(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"views": s.Views.List()})
}

// CreateView handles POST /views. The body is optional.
func (s *Server) CreateView(w http.ResponseWriter, r *http.Request) {
	var body createViewRequest
	if err := decodeBody(w, r, &body); err != nil && !errors.Is(err, io.EOF) {
		s.fail(w, "CreateView", fmt.Errorf("invalid request body: %w", err), http.StatusBadRequest)
		return
	}

	id, eng, err := s.Views.Create(body.ID)
	if err != nil {
		s.fail(w, "CreateView", err, 0)
		return
	}
	if body.Width > 0 && body.Height > 0 {
		eng.HandleInput(domain.Resize{Width: body.Width, Height: body.Height})
	}
	s.logger.Info("view created", "view_id", id)
	writeJSON(w, http.StatusCreated, viewResponse{ID: id, State: eng.State()})
}

// DeleteView handles DELETE /views/{id}.
func (s *Server) DeleteView(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Views.Delete(id); err != nil {
		s.fail(w, "DeleteView", err, 0)
		return
	}
	s.Publish(id, Notification{Type: "delete"})
	w.WriteHeader(http.StatusNoContent)
}

// HandleInput handles POST /views/{id}/input.
func (s *Server) HandleInput(w http.ResponseWriter, r *http.Request) {
	id, eng, ok := s.view(w, r)
	if !ok {
		return
	}

	var raw any
	if err := decodeBody(w, r, &raw); err != nil {
		s.fail(w, "HandleInput", fmt.Errorf("invalid request body: %w", err), http.StatusBadRequest)
		return
	}
	p, err := dto.DecodeInput(raw)
	if err != nil {
		s.fail(w, "HandleInput", err, http.StatusBadRequest)
		return
	}
	ev, err := p.ToDomain()
	if err != nil {
		s.fail(w, "HandleInput", err, 0)
		return
	}

	res := eng.HandleInput(ev)
	state := eng.State()
	if res.SelectionChanged {
		sel := state.Selection
		s.Publish(id, Notification{Type: "select", Selection: &sel})
	}
	if res.Redraw {
		s.Publish(id, Notification{Type: "redraw"})
	}
	writeJSON(w, http.StatusOK, inputResponse{Result: res, State: state})
}

// PutScene handles PUT /views/{id}/scene with a graph in the service format.
func (s *Server) PutScene(w http.ResponseWriter, r *http.Request) {
	id, eng, ok := s.view(w, r)
	if !ok {
		return
	}

	var raw any
	if err := decodeBody(w, r, &raw); err != nil {
		s.fail(w, "PutScene", fmt.Errorf("invalid request body: %w", err), http.StatusBadRequest)
		return
	}
	g, err := dto.DecodeGraph(raw)
	if err != nil {
		s.fail(w, "PutScene", err, http.StatusBadRequest)
		return
	}

	summary := eng.Load(g)
	s.Publish(id, Notification{Type: "scene", Scene: &summary})
	writeJSON(w, http.StatusOK, summary)
}

// LoadFromSource handles POST /views/{id}/load.
func (s *Server) LoadFromSource(w http.ResponseWriter, r *http.Request) {
	id, eng, ok := s.view(w, r)
	if !ok {
		return
	}

	var body sourceRequest
	if err := decodeBody(w, r, &body); err != nil {
		s.fail(w, "LoadFromSource", fmt.Errorf("invalid request body: %w", err), http.StatusBadRequest)
		return
	}

	summary, err := eng.LoadFromSource(r.Context(), body.Text, body.Entry)
	if err != nil {
		s.fail(w, "LoadFromSource", err, 0)
		return
	}
	s.Publish(id, Notification{Type: "scene", Scene: &summary})
	writeJSON(w, http.StatusOK, summary)
}

// OpenAction handles POST /views/{id}/open.
func (s *Server) OpenAction(w http.ResponseWriter, r *http.Request) {
	id, eng, ok := s.view(w, r)
	if !ok {
		return
	}

	var body sourceRequest
	if err := decodeBody(w, r, &body); err != nil {
		s.fail(w, "OpenAction", fmt.Errorf("invalid request body: %w", err), http.StatusBadRequest)
		return
	}
	if body.Action == nil {
		s.fail(w, "OpenAction", errors.New("missing action"), http.StatusBadRequest)
		return
	}

	summary, err := eng.OpenAction(r.Context(), body.Text, *body.Action)
	if err != nil {
		s.fail(w, "OpenAction", err, 0)
		return
	}
	s.Publish(id, Notification{Type: "scene", Scene: &summary})
	writeJSON(w, http.StatusOK, summary)
}

// GetState handles GET /views/{id}/state.
func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	_, eng, ok := s.view(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, eng.State())
}

// GetFrame handles GET /views/{id}/frame: the frame as a display list.
func (s *Server) GetFrame(w http.ResponseWriter, r *http.Request) {
	_, eng, ok := s.view(w, r)
	if !ok {
		return
	}
	cv := recorder.New()
	eng.Draw(cv)
	width, height := eng.Size()
	writeJSON(w, http.StatusOK, cv.Frame(width, height))
}

// GetFramePNG handles GET /views/{id}/frame.png.
func (s *Server) GetFramePNG(w http.ResponseWriter, r *http.Request) {
	_, eng, ok := s.view(w, r)
	if !ok {
		return
	}
	width, height := eng.Size()
	cv, err := raster.New(int(width), int(height))
	if err != nil {
		s.fail(w, "GetFramePNG", err, http.StatusInternalServerError)
		return
	}
	eng.Draw(cv)

	w.Header().Set("Content-Type", "image/png")
	if err := cv.EncodePNG(w); err != nil {
		s.logger.Error("GetFramePNG: encode failed", "err", err)
	}
}

// ListActions handles POST /actions.
func (s *Server) ListActions(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		s.fail(w, "ListActions", fmt.Errorf("%w: no action catalog configured", domain.ErrSourceUnavailable), 0)
		return
	}
	var body sourceRequest
	if err := decodeBody(w, r, &body); err != nil {
		s.fail(w, "ListActions", fmt.Errorf("invalid request body: %w", err), http.StatusBadRequest)
		return
	}
	actions, err := s.catalog.ListActions(r.Context(), body.Text)
	if err != nil {
		s.fail(w, "ListActions", err, 0)
		return
	}
	if actions == nil {
		actions = []domain.ActionInfo{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"actions": actions})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"app":     "actvis-http",
		"version": strings.TrimSpace(actvis.Version),
		"views":   s.Views.Len(),
	})
}

// SubscribeEvents handles GET /views/{id}/events (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	id, _, ok := s.view(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	s.logger.Info("SSE: Subscribing to view updates", "view_id", id)
	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected", "view_id", id)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// StreamManager handles active SSE connections
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // ViewID -> Set of Channels
	logger      *slog.Logger
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
		logger:      logging.NewNop(),
	}
}

func (sm *StreamManager) Subscribe(viewID string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[viewID]; !ok {
		sm.subscribers[viewID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[viewID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[viewID]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, viewID)
			}
		}
	}
}

// Subscribers returns the number of open streams for a view.
func (sm *StreamManager) Subscribers(viewID string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[viewID])
}

func (sm *StreamManager) Broadcast(viewID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[viewID] {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("SSE: Client buffer full, dropping message", "view_id", viewID)
		}
	}
}

// -- Helpers --

func (s *Server) view(w http.ResponseWriter, r *http.Request) (string, *actvis.Engine, bool) {
	id := chi.URLParam(r, "id")
	eng, err := s.Views.Get(id)
	if err != nil {
		s.fail(w, "view", err, 0)
		return "", nil, false
	}
	return id, eng, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestSize))
	dec.UseNumber()
	return dec.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// fail writes err as a JSON error body. A zero status derives one from the
// sentinel error err wraps.
func (s *Server) fail(w http.ResponseWriter, op string, err error, status int) {
	if status == 0 {
		status = StatusFor(err)
	}
	if status >= 500 {
		s.logger.Error(op+" failed", "err", err)
	} else {
		s.logger.Warn(op+" rejected", "err", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// StatusFor maps domain errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrViewNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrViewExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInputTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrUnknownEvent),
		errors.Is(err, domain.ErrInvalidEvent),
		errors.Is(err, domain.ErrEmptySource),
		errors.Is(err, domain.ErrInvalidUTF8):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSourceRejected):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrSourceUnavailable):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
