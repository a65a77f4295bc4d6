package app

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"time"
)

// Server wires the repository, the admin gate and the site content into
// HTTP handlers.
type Server struct {
	cfg     *Config
	store   *BlobStore
	repo    *Repository
	gate    *Gate
	content *SiteContent
}

// NewServer assembles the HTTP surface on top of the data layer.
func NewServer(cfg *Config, store *BlobStore, repo *Repository, gate *Gate, content *SiteContent) *Server {
	return &Server{cfg: cfg, store: store, repo: repo, gate: gate, content: content}
}

// statusRecorder captures the response code for the request counter.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withMetrics counts requests per handler, method and status code.
func withMetrics(name string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		httpRequests.WithLabelValues(name, r.Method, strconv.Itoa(rec.status)).Inc()
	}
}

// HandleEvents dispatches the /events endpoint. Reads are public, every
// mutation sits behind the admin gate.
func (s *Server) HandleEvents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listEvents(w, r)
	case http.MethodPost:
		s.gate.RequireSession(s.createEvent)(w, r)
	case http.MethodPut:
		s.gate.RequireSession(s.updateEvent)(w, r)
	case http.MethodDelete:
		s.gate.RequireSession(s.deleteEvent)(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// listEvents returns one category's list, or all three keyed by their
// Dutch plural names when no type is given.
func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	eventType := r.URL.Query().Get("type")
	if eventType == "" {
		writeJSON(w, http.StatusOK, s.repo.ListAll(r.Context()))
		return
	}

	events, err := s.repo.List(r.Context(), eventType)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, MsgInvalidType)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) createEvent(w http.ResponseWriter, r *http.Request) {
	var in NewEventInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSONError(w, http.StatusBadRequest, MsgAllFieldsRequired)
		return
	}

	event, err := s.repo.Create(r.Context(), in)
	switch {
	case errors.Is(err, ErrMissingFields):
		writeJSONError(w, http.StatusBadRequest, MsgAllFieldsRequired)
		return
	case errors.Is(err, ErrInvalidCategory):
		writeJSONError(w, http.StatusBadRequest, MsgInvalidType)
		return
	case err != nil:
		writeJSONError(w, http.StatusInternalServerError, MsgGenericError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "event": event})
}

func (s *Server) updateEvent(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Type string `json:"type"`
		ID   string `json:"id"`
		EventPatch
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSONError(w, http.StatusBadRequest, MsgTypeIDRequired)
		return
	}

	event, err := s.repo.Update(r.Context(), in.Type, in.ID, in.EventPatch)
	switch {
	case errors.Is(err, ErrMissingID):
		writeJSONError(w, http.StatusBadRequest, MsgTypeIDRequired)
		return
	case errors.Is(err, ErrInvalidCategory):
		writeJSONError(w, http.StatusBadRequest, MsgInvalidType)
		return
	case errors.Is(err, ErrEventNotFound):
		writeJSONError(w, http.StatusNotFound, MsgEventNotFound)
		return
	case err != nil:
		writeJSONError(w, http.StatusInternalServerError, MsgGenericError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "event": event})
}

func (s *Server) deleteEvent(w http.ResponseWriter, r *http.Request) {
	eventType := r.URL.Query().Get("type")
	id := r.URL.Query().Get("id")

	err := s.repo.Delete(r.Context(), eventType, id)
	switch {
	case errors.Is(err, ErrMissingID):
		writeJSONError(w, http.StatusBadRequest, MsgTypeIDRequired)
		return
	case errors.Is(err, ErrInvalidCategory):
		writeJSONError(w, http.StatusBadRequest, MsgInvalidType)
		return
	case errors.Is(err, ErrEventNotFound):
		writeJSONError(w, http.StatusNotFound, MsgEventNotFound)
		return
	case err != nil:
		writeJSONError(w, http.StatusInternalServerError, MsgGenericError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HandleUpcoming serves the public agenda: active, not-yet-past events of
// a category, soonest first.
func (s *Server) HandleUpcoming(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	events, err := s.repo.Upcoming(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, MsgInvalidType)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// HandleAuth implements the admin login endpoint: GET reports session
// state, POST exchanges the password for a session cookie, DELETE logs
// out.
func (s *Server) HandleAuth(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		authenticated := false
		if cookie, err := r.Cookie(SessionCookie); err == nil {
			authenticated = s.gate.ValidSession(cookie.Value)
		}
		writeJSON(w, http.StatusOK, map[string]bool{"authenticated": authenticated})

	case http.MethodPost:
		var in struct {
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "error": MsgGenericError})
			return
		}

		if !s.gate.CheckPassword(in.Password) {
			log.Printf("⚠️  Failed admin login attempt from %s", r.RemoteAddr)
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "error": MsgWrongPassword})
			return
		}

		token, err := s.gate.IssueSession()
		if err != nil {
			log.Printf("Error issuing session: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"success": false, "error": MsgGenericError})
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    token,
			Path:     "/",
			MaxAge:   int(SessionTTL.Seconds()),
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteStrictMode,
		})
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})

	case http.MethodDelete:
		if cookie, err := r.Cookie(SessionCookie); err == nil {
			s.gate.RevokeSession(cookie.Value)
		}
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
		})
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// HandleContact validates a contact-form submission and records it for
// operator follow-up. Mail delivery is handled outside this service.
func (s *Server) HandleContact(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var in struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSONError(w, http.StatusBadRequest, MsgAllFieldsRequired)
		return
	}

	if in.Name == "" || in.Email == "" || in.Message == "" {
		writeJSONError(w, http.StatusBadRequest, MsgAllFieldsRequired)
		return
	}
	if !emailPattern.MatchString(in.Email) {
		writeJSONError(w, http.StatusBadRequest, MsgInvalidEmail)
		return
	}

	log.Printf("📬 Contactbericht van %s <%s> voor %s: %s", in.Name, in.Email, s.cfg.ContactEmail, in.Message)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HandleSite serves the embedded marketing-site content document.
func (s *Server) HandleSite(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, s.content)
}

// maxUploadBytes caps admin image uploads.
const maxUploadBytes = 10 << 20

// HandleUpload stores an admin-supplied image in blob storage and returns
// its public URL for use in the afbeelding field.
func (s *Server) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if !s.store.Configured() {
		writeJSONError(w, http.StatusBadRequest, MsgUploadsNeedBlob)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, MsgGenericError)
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Printf("Error closing upload: %v", err)
		}
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, MsgGenericError)
		return
	}

	url, err := s.store.UploadImage(r.Context(), header.Filename, data)
	if err != nil {
		log.Printf("Error uploading image: %v", err)
		writeJSONError(w, http.StatusInternalServerError, MsgGenericError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "url": url})
}

// HandleHealth reports liveness and the active storage mode.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	storage := "fallback"
	if s.store.Configured() {
		storage = "blob"
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"storage": storage,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// Register mounts all API routes on the mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/events", withMetrics("events", s.HandleEvents))
	mux.HandleFunc("/events/upcoming", withMetrics("upcoming", s.HandleUpcoming))
	mux.HandleFunc("/feed", withMetrics("feed", s.HandleFeed))
	mux.HandleFunc("/auth", withMetrics("auth", s.HandleAuth))
	mux.HandleFunc("/contact", withMetrics("contact", s.HandleContact))
	mux.HandleFunc("/site", withMetrics("site", s.HandleSite))
	mux.HandleFunc("/upload", withMetrics("upload", s.gate.RequireSession(s.HandleUpload)))
	mux.HandleFunc("/healthz", s.HandleHealth)
}
