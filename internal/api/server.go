package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	json "github.com/goccy/go-json"

	"github.com/AaronLay10/nina-sequence-editor/internal/events"
	"github.com/AaronLay10/nina-sequence-editor/internal/mqtt"
	"github.com/AaronLay10/nina-sequence-editor/internal/sequence"
	"github.com/AaronLay10/nina-sequence-editor/internal/session"
)

// SequenceDeployer publishes a sequence to a registered observatory.
type SequenceDeployer interface {
	Deploy(observatoryID string, seq *sequence.Sequence) error
}

// ObservatoryLister reports the health of registered observatories.
type ObservatoryLister interface {
	States() []mqtt.ObservatoryState
	MissingRequired() []string
}

var (
	sess          *session.Session
	deployer      SequenceDeployer
	observatories ObservatoryLister
)

// SetSession sets the editing session served by the editor endpoints.
func SetSession(s *session.Session) {
	sess = s
}

// SetDeployer sets the deployer used by /observatories/deploy.
func SetDeployer(d SequenceDeployer) {
	deployer = d
}

// SetObservatories sets the source for /observatories.
func SetObservatories(o ObservatoryLister) {
	observatories = o
}

type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Hostname  string `json:"hostname"`
	Timestamp string `json:"ts"`
}

// Response is the envelope for mutation endpoints.
type Response struct {
	OK    bool        `json:"ok"`
	Error string      `json:"error,omitempty"`
	Data  interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeOK(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, Response{OK: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, Response{OK: false, Error: msg})
}

// decodePost enforces POST and decodes an optional JSON body into v.
// An empty body leaves v untouched.
func decodePost(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	if v == nil || r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return false
	}
	return true
}

func requireGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	return true
}

// requireSession writes 503 when no session is attached.
func requireSession(w http.ResponseWriter) bool {
	if sess == nil {
		writeError(w, http.StatusServiceUnavailable, "editor not ready")
		return false
	}
	return true
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	host, _ := os.Hostname()
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Service:   "ninaseq-editor",
		Hostname:  host,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func eventsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, events.Snapshot())
}

func observatoriesHandler(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	if observatories == nil {
		writeOK(w, map[string]interface{}{"observatories": []mqtt.ObservatoryState{}})
		return
	}
	writeOK(w, map[string]interface{}{
		"observatories":    observatories.States(),
		"missing_required": observatories.MissingRequired(),
	})
}

type deployRequest struct {
	ObservatoryID string `json:"observatoryId"`
}

func deployHandler(w http.ResponseWriter, r *http.Request) {
	var req deployRequest
	if !decodePost(w, r, &req) || !requireSession(w) {
		return
	}
	if req.ObservatoryID == "" {
		writeError(w, http.StatusBadRequest, "observatoryId required")
		return
	}
	if deployer == nil {
		writeError(w, http.StatusServiceUnavailable, "observatory integration disabled")
		return
	}
	seq := sess.Sequence()
	if err := deployer.Deploy(req.ObservatoryID, seq); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	SetLastDeploy(time.Now())
	writeOK(w, map[string]string{"sequenceId": seq.ID, "observatoryId": req.ObservatoryID})
}

// Handler builds the full route table with authentication applied.
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/ready", readyHandler)
	mux.HandleFunc("/metrics", metricsHandler)
	mux.HandleFunc("/events", RequireAnyRole(eventsHandler))
	mux.HandleFunc("/ws/events", RequireAnyRole(wsEventsHandler))
	mux.HandleFunc("/", RequireAnyRole(uiHandler))

	for path, h := range readRoutes {
		mux.HandleFunc(path, RequireAnyRole(h))
	}
	for path, h := range writeRoutes {
		mux.HandleFunc(path, RequireEditor(h))
	}
	mux.HandleFunc("/view", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			RequireAnyRole(viewHandler)(w, r)
			return
		}
		RequireEditor(viewHandler)(w, r)
	})
	mux.HandleFunc("/observatories", RequireAnyRole(observatoriesHandler))
	mux.HandleFunc("/observatories/deploy", RequireEditor(deployHandler))
	return mux
}

// ListenAndServe serves the API on port until ctx is cancelled, then shuts
// down gracefully. TLS is used when configured via InitTLS.
func ListenAndServe(ctx context.Context, port int) error {
	tlsCfg, err := LoadTLSConfig()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           Handler(),
		TLSConfig:         tlsCfg,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if tlsCfg != nil {
			log.Printf("API listening on %s (TLS)\n", srv.Addr)
			errCh <- srv.ListenAndServeTLS("", "")
			return
		}
		log.Printf("API listening on %s\n", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}
