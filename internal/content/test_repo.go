package content

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// In-memory repos for unit and dev testing, preserving insertion order the
// way the SQL repos do via created_at.

type TestServicesRepo struct {
	mutex    sync.RWMutex
	services []Service
}

func NewTestServicesRepo() *TestServicesRepo {
	return &TestServicesRepo{}
}

func (r *TestServicesRepo) List(_ context.Context) ([]Service, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	services := make([]Service, len(r.services))
	copy(services, r.services)
	return services, nil
}

func (r *TestServicesRepo) Insert(_ context.Context, service *Service) (string, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	service.ID = uuid.NewString()
	service.CreatedAt = time.Now()
	r.services = append(r.services, *service)
	return service.ID, nil
}

type TestGalleryRepo struct {
	mutex sync.RWMutex
	items []GalleryItem
}

func NewTestGalleryRepo() *TestGalleryRepo {
	return &TestGalleryRepo{}
}

func (r *TestGalleryRepo) List(_ context.Context) ([]GalleryItem, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	items := make([]GalleryItem, len(r.items))
	copy(items, r.items)
	return items, nil
}

func (r *TestGalleryRepo) Insert(_ context.Context, item *GalleryItem) (string, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	item.ID = uuid.NewString()
	item.CreatedAt = time.Now()
	r.items = append(r.items, *item)
	return item.ID, nil
}

type TestTestimonialsRepo struct {
	mutex        sync.RWMutex
	testimonials []Testimonial
}

func NewTestTestimonialsRepo() *TestTestimonialsRepo {
	return &TestTestimonialsRepo{}
}

func (r *TestTestimonialsRepo) List(_ context.Context) ([]Testimonial, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	testimonials := make([]Testimonial, len(r.testimonials))
	copy(testimonials, r.testimonials)
	return testimonials, nil
}

func (r *TestTestimonialsRepo) Insert(_ context.Context, testimonial *Testimonial) (string, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	testimonial.ID = uuid.NewString()
	testimonial.CreatedAt = time.Now()
	r.testimonials = append(r.testimonials, *testimonial)
	return testimonial.ID, nil
}
