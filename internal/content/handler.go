package content

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"github.com/compassremodeling/cms/internal/auth"
	"github.com/compassremodeling/cms/internal/telemetry/metrics"
	"github.com/compassremodeling/cms/internal/telemetry/tracing"
	"github.com/compassremodeling/cms/pkg"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

// cache keys / metrics labels, named after the store collections
const (
	collectionServices     = "service"
	collectionGallery      = "galleryitem"
	collectionTestimonials = "testimonial"
)

type servicesRepo interface {
	List(ctx context.Context) ([]Service, error)
	Insert(ctx context.Context, service *Service) (string, error)
}

type galleryRepo interface {
	List(ctx context.Context) ([]GalleryItem, error)
	Insert(ctx context.Context, item *GalleryItem) (string, error)
}

type testimonialsRepo interface {
	List(ctx context.Context) ([]Testimonial, error)
	Insert(ctx context.Context, testimonial *Testimonial) (string, error)
}

type Handler struct {
	services     servicesRepo
	gallery      galleryRepo
	testimonials testimonialsRepo
	cache        *ListCache
	metrics      *metrics.Manager
}

func NewHandler(
	services servicesRepo,
	gallery galleryRepo,
	testimonials testimonialsRepo,
	cache *ListCache,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		services:     services,
		gallery:      gallery,
		testimonials: testimonials,
		cache:        cache,
		metrics:      metricsManager,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/api/services", handler.handleListServices).Methods("GET", "OPTIONS").Name("list-services")
	mainRouter.HandleFunc("/api/gallery", handler.handleListGallery).Methods("GET", "OPTIONS").Name("list-gallery")
	mainRouter.HandleFunc("/api/testimonials", handler.handleListTestimonials).Methods("GET", "OPTIONS").Name("list-testimonials")

	adminSubrouter := mainRouter.PathPrefix("/api/admin").Subrouter()
	adminSubrouter.HandleFunc("/services", handler.handleCreateService).Methods("POST", "OPTIONS").Name("new-service")
	adminSubrouter.HandleFunc("/gallery", handler.handleCreateGalleryItem).Methods("POST", "OPTIONS").Name("new-gallery-item")
	adminSubrouter.HandleFunc("/testimonials", handler.handleCreateTestimonial).Methods("POST", "OPTIONS").Name("new-testimonial")
}

func (handler *Handler) handleListServices(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "contentHandler.listServices")
	defer span.End()

	if cached, ok := handler.cache.Get(collectionServices); ok {
		pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, cached)
		span.SetStatus(codes.Ok, "ok-cached")
		return
	}

	services, err := handler.services.List(r.Context())
	if err != nil {
		log.Errorf("list services error: %s", err)
		http.Error(w, "failed to get services", http.StatusInternalServerError)
		span.SetStatus(codes.Error, "list-err")
		span.RecordError(err)
		return
	}

	// ascending by order; ties keep store order
	sort.SliceStable(services, func(i, j int) bool {
		return services[i].Order < services[j].Order
	})
	for i := range services {
		services[i].ID = "" // internal identifiers are not public
	}
	if services == nil {
		services = []Service{}
	}

	payload, err := json.Marshal(services)
	if err != nil {
		log.Errorf("marshal services error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	handler.cache.Set(collectionServices, payload)
	span.SetStatus(codes.Ok, "ok")
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, payload)
}

func (handler *Handler) handleListGallery(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "contentHandler.listGallery")
	defer span.End()

	if cached, ok := handler.cache.Get(collectionGallery); ok {
		pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, cached)
		span.SetStatus(codes.Ok, "ok-cached")
		return
	}

	items, err := handler.gallery.List(r.Context())
	if err != nil {
		log.Errorf("list gallery error: %s", err)
		http.Error(w, "failed to get gallery", http.StatusInternalServerError)
		span.SetStatus(codes.Error, "list-err")
		span.RecordError(err)
		return
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Order < items[j].Order
	})
	for i := range items {
		items[i].ID = ""
	}
	if items == nil {
		items = []GalleryItem{}
	}

	payload, err := json.Marshal(items)
	if err != nil {
		log.Errorf("marshal gallery error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	handler.cache.Set(collectionGallery, payload)
	span.SetStatus(codes.Ok, "ok")
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, payload)
}

func (handler *Handler) handleListTestimonials(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "contentHandler.listTestimonials")
	defer span.End()

	if cached, ok := handler.cache.Get(collectionTestimonials); ok {
		pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, cached)
		span.SetStatus(codes.Ok, "ok-cached")
		return
	}

	testimonials, err := handler.testimonials.List(r.Context())
	if err != nil {
		log.Errorf("list testimonials error: %s", err)
		http.Error(w, "failed to get testimonials", http.StatusInternalServerError)
		span.SetStatus(codes.Error, "list-err")
		span.RecordError(err)
		return
	}

	sort.SliceStable(testimonials, func(i, j int) bool {
		return testimonials[i].Order < testimonials[j].Order
	})
	for i := range testimonials {
		testimonials[i].ID = ""
	}
	if testimonials == nil {
		testimonials = []Testimonial{}
	}

	payload, err := json.Marshal(testimonials)
	if err != nil {
		log.Errorf("marshal testimonials error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	handler.cache.Set(collectionTestimonials, payload)
	span.SetStatus(codes.Ok, "ok")
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, payload)
}

func (handler *Handler) handleCreateService(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "contentHandler.createService")
	defer span.End()

	var service Service
	if err := json.NewDecoder(r.Body).Decode(&service); err != nil {
		log.Errorf("create service, unmarshal json params: %s", err)
		http.Error(w, "invalid service payload", http.StatusBadRequest)
		return
	}
	if service.Title == "" || service.Description == "" {
		http.Error(w, "error, service title or description empty", http.StatusBadRequest)
		return
	}

	id, err := handler.services.Insert(r.Context(), &service)
	if err != nil {
		log.Errorf("failed to add new service [%s]: %s", service.Title, err)
		http.Error(w, "error, failed to add new service", http.StatusInternalServerError)
		span.SetStatus(codes.Error, "insert-err")
		span.RecordError(err)
		return
	}

	handler.contentCreated(r, collectionServices, id)
	span.SetStatus(codes.Ok, "ok")
	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"id":"%s"}`, id))
}

func (handler *Handler) handleCreateGalleryItem(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "contentHandler.createGalleryItem")
	defer span.End()

	var item GalleryItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		log.Errorf("create gallery item, unmarshal json params: %s", err)
		http.Error(w, "invalid gallery item payload", http.StatusBadRequest)
		return
	}
	if item.Title == "" || item.ImageURL == "" {
		http.Error(w, "error, gallery item title or image url empty", http.StatusBadRequest)
		return
	}

	id, err := handler.gallery.Insert(r.Context(), &item)
	if err != nil {
		log.Errorf("failed to add new gallery item [%s]: %s", item.Title, err)
		http.Error(w, "error, failed to add new gallery item", http.StatusInternalServerError)
		span.SetStatus(codes.Error, "insert-err")
		span.RecordError(err)
		return
	}

	handler.contentCreated(r, collectionGallery, id)
	span.SetStatus(codes.Ok, "ok")
	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"id":"%s"}`, id))
}

func (handler *Handler) handleCreateTestimonial(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "contentHandler.createTestimonial")
	defer span.End()

	var testimonial Testimonial
	if err := json.NewDecoder(r.Body).Decode(&testimonial); err != nil {
		log.Errorf("create testimonial, unmarshal json params: %s", err)
		http.Error(w, "invalid testimonial payload", http.StatusBadRequest)
		return
	}
	if testimonial.ClientName == "" {
		http.Error(w, "error, testimonial client name empty", http.StatusBadRequest)
		return
	}

	id, err := handler.testimonials.Insert(r.Context(), &testimonial)
	if err != nil {
		log.Errorf("failed to add new testimonial [%s]: %s", testimonial.ClientName, err)
		http.Error(w, "error, failed to add new testimonial", http.StatusInternalServerError)
		span.SetStatus(codes.Error, "insert-err")
		span.RecordError(err)
		return
	}

	handler.contentCreated(r, collectionTestimonials, id)
	span.SetStatus(codes.Ok, "ok")
	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"id":"%s"}`, id))
}

func (handler *Handler) contentCreated(r *http.Request, collection, id string) {
	handler.cache.Invalidate(collection)
	handler.metrics.CounterContentCreated.With(prometheus.Labels{
		"collection": collection,
	}).Inc()

	subject, _ := auth.SubjectFromContext(r.Context())
	log.Printf("new %s document %s created by [%s]", collection, id, subject)
}
