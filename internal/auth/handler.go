package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/compassremodeling/cms/internal/telemetry/metrics"
	"github.com/compassremodeling/cms/internal/telemetry/tracing"
	"github.com/compassremodeling/cms/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

type Handler struct {
	service *Service
	metrics *metrics.Manager
}

func NewHandler(service *Service, metrics *metrics.Manager) *Handler {
	return &Handler{
		service: service,
		metrics: metrics,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	authSubrouter := mainRouter.PathPrefix("/api/auth").Subrouter()
	authSubrouter.
		HandleFunc("/login", handler.handleLogin).
		Methods("POST", "OPTIONS").Name("login")
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.login")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	type loginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var loginReq loginRequest
	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		log.Errorf("login, unmarshal json params: %s", err)
		http.Error(w, "login failed", http.StatusBadRequest)
		span.SetStatus(codes.Error, "bad-request")
		return
	}

	if loginReq.Email == "" {
		http.Error(w, "error, email empty", http.StatusBadRequest)
		return
	}
	if loginReq.Password == "" {
		http.Error(w, "error, password empty", http.StatusBadRequest)
		return
	}

	token, err := handler.service.Login(r.Context(), loginReq.Email, loginReq.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			// unknown email and wrong password are indistinguishable on purpose
			log.Tracef("failed login attempt for: %s", loginReq.Email)
			handler.metrics.CounterFailedLogins.Inc()
			http.Error(w, "invalid email or password", http.StatusUnauthorized)
			span.SetStatus(codes.Error, "invalid-credentials")
			return
		}
		log.Errorf("login failed for %s: %s", loginReq.Email, err)
		http.Error(w, "login failed", http.StatusInternalServerError)
		span.SetStatus(codes.Error, "login-err")
		span.RecordError(err)
		return
	}

	handler.metrics.CounterLogins.Inc()
	span.SetStatus(codes.Ok, "ok")

	log.Trace("new login success")
	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"access_token":"%s","token_type":"bearer"}`, token))
}
