package misc

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/compassremodeling/cms/internal/telemetry/tracing"
	"github.com/compassremodeling/cms/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

// Collections recognized by the CMS, in the store's naming.
var Collections = []string{
	"adminuser",
	"service",
	"galleryitem",
	"testimonial",
	"message",
	"mediaasset",
}

type storeDiagnostics interface {
	Ping(ctx context.Context) error
	TableNames(ctx context.Context) ([]string, error)
}

type Handler struct {
	store        storeDiagnostics
	databaseName string
	versionInfo  string
}

func NewHandler(store storeDiagnostics, databaseName, versionInfo string) *Handler {
	return &Handler{
		store:        store,
		databaseName: databaseName,
		versionInfo:  versionInfo,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/", handler.handleRoot).Methods("GET", "POST", "OPTIONS").Name("root")
	mainRouter.HandleFunc("/test", handler.handleTestStore).Methods("GET").Name("test-store")
	mainRouter.HandleFunc("/schema", handler.handleGetSchema).Methods("GET").Name("schema")
	mainRouter.HandleFunc("/version", handler.handleGetVersionInfo).Methods("GET").Name("version")
}

func (handler *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSONResponseOK(w, `{"message":"Compass Remodeling CMS API running"}`)
}

// handleTestStore reports store connectivity; it degrades to a descriptive
// status and never fails the request itself.
func (handler *Handler) handleTestStore(w http.ResponseWriter, r *http.Request) {
	reqCtx, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.testStore")
	defer span.End()

	type testResponse struct {
		Backend          string   `json:"backend"`
		Database         string   `json:"database"`
		DatabaseURL      string   `json:"database_url"`
		DatabaseName     string   `json:"database_name"`
		ConnectionStatus string   `json:"connection_status"`
		Collections      []string `json:"collections"`
	}

	resp := testResponse{
		Backend:          "✅ Running",
		Database:         "❌ Not Available",
		DatabaseURL:      "❌ Not Set",
		DatabaseName:     "❌ Not Set",
		ConnectionStatus: "Not Connected",
		Collections:      []string{},
	}

	if handler.store != nil {
		ctx, cancel := context.WithTimeout(reqCtx, 3*time.Second)
		defer cancel()

		if err := handler.store.Ping(ctx); err != nil {
			errMsg := err.Error()
			// truncate on a rune boundary, driver errors can carry multi-byte chars
			if runes := []rune(errMsg); len(runes) > 80 {
				errMsg = string(runes[:80])
			}
			resp.Database = "⚠️ " + errMsg
			span.SetStatus(codes.Error, "store-unavailable")
		} else {
			resp.Database = "✅ Connected"
			resp.DatabaseURL = "✅ Set"
			resp.DatabaseName = handler.databaseName
			resp.ConnectionStatus = "Connected"
			if names, err := handler.store.TableNames(ctx); err != nil {
				log.Errorf("test store, get table names: %s", err)
			} else {
				resp.Collections = names
			}
			span.SetStatus(codes.Ok, "ok")
		}
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal test response error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, payload)
}

func (handler *Handler) handleGetSchema(w http.ResponseWriter, _ *http.Request) {
	payload, err := json.Marshal(map[string][]string{
		"collections": Collections,
	})
	if err != nil {
		log.Errorf("marshal schema response error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, payload)
}

func (handler *Handler) handleGetVersionInfo(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, handler.versionInfo)
}
