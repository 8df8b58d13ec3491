package media

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/compassremodeling/cms/internal/auth"
	"github.com/compassremodeling/cms/internal/telemetry/tracing"
	"github.com/compassremodeling/cms/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

type assetsRepo interface {
	Insert(ctx context.Context, asset *Asset) (string, error)
}

type Handler struct {
	repo assetsRepo
}

func NewHandler(repo assetsRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.
		PathPrefix("/api/admin").Subrouter().
		HandleFunc("/media-url", handler.handleSaveURL).Methods("POST", "OPTIONS").Name("new-media-url")
}

func (handler *Handler) handleSaveURL(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "mediaHandler.saveURL")
	defer span.End()

	var asset Asset
	if err := json.NewDecoder(r.Body).Decode(&asset); err != nil {
		log.Errorf("save media url, unmarshal json params: %s", err)
		http.Error(w, "invalid media asset payload", http.StatusBadRequest)
		return
	}
	if asset.URL == "" || asset.Type == "" {
		http.Error(w, "error, media asset url or type empty", http.StatusBadRequest)
		return
	}

	id, err := handler.repo.Insert(r.Context(), &asset)
	if err != nil {
		log.Errorf("failed to save media url [%s]: %s", asset.URL, err)
		http.Error(w, "error, failed to save media url", http.StatusInternalServerError)
		span.SetStatus(codes.Error, "insert-err")
		span.RecordError(err)
		return
	}

	subject, _ := auth.SubjectFromContext(r.Context())
	log.Printf("new media asset %s saved by [%s]", id, subject)

	// the url is client-supplied and may contain quotes, so no sprintf here
	payload, err := json.Marshal(struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}{
		ID:  id,
		URL: asset.URL,
	})
	if err != nil {
		log.Errorf("marshal media asset response error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	span.SetStatus(codes.Ok, "ok")
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, payload)
}
