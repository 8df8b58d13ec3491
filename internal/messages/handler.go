package messages

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/compassremodeling/cms/internal/telemetry/metrics"
	"github.com/compassremodeling/cms/internal/telemetry/tracing"
	"github.com/compassremodeling/cms/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

type messagesRepo interface {
	Insert(ctx context.Context, message *Message) (string, error)
	List(ctx context.Context) ([]Message, error)
}

type Handler struct {
	repo    messagesRepo
	metrics *metrics.Manager
}

func NewHandler(repo messagesRepo, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:    repo,
		metrics: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/api/messages", handler.handleSubmit).Methods("POST", "OPTIONS").Name("new-message")
	mainRouter.
		PathPrefix("/api/admin").Subrouter().
		HandleFunc("/messages", handler.handleAdminList).Methods("GET", "OPTIONS").Name("list-messages")
}

func (handler *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "messagesHandler.submit")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	var message Message
	if err := json.NewDecoder(r.Body).Decode(&message); err != nil {
		log.Errorf("submit message, unmarshal json params: %s", err)
		http.Error(w, "invalid message payload", http.StatusBadRequest)
		return
	}
	if message.Name == "" || message.Email == "" || message.Message == "" {
		http.Error(w, "error, message name, email or body empty", http.StatusBadRequest)
		return
	}

	id, err := handler.repo.Insert(r.Context(), &message)
	if err != nil {
		log.Errorf("failed to store message from [%s]: %s", message.Email, err)
		http.Error(w, "error, failed to store message", http.StatusInternalServerError)
		span.SetStatus(codes.Error, "insert-err")
		span.RecordError(err)
		return
	}

	handler.metrics.CounterMessagesReceived.Inc()
	span.SetStatus(codes.Ok, "ok")

	log.Printf("new message %s received from [%s]", id, message.Email)
	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"id":"%s","status":"received"}`, id))
}

func (handler *Handler) handleAdminList(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "messagesHandler.adminList")
	defer span.End()

	msgs, err := handler.repo.List(r.Context())
	if err != nil {
		log.Errorf("list messages error: %s", err)
		http.Error(w, "failed to get messages", http.StatusInternalServerError)
		span.SetStatus(codes.Error, "list-err")
		span.RecordError(err)
		return
	}

	if msgs == nil {
		msgs = []Message{}
	}

	payload, err := json.Marshal(msgs)
	if err != nil {
		log.Errorf("marshal messages error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	span.SetStatus(codes.Ok, "ok")
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, payload)
}
