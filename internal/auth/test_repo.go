package auth

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// TestAdminsRepo is an in-memory admins repo for unit and dev testing.
type TestAdminsRepo struct {
	mutex  sync.RWMutex
	admins map[string]*AdminUser // email -> admin
}

func NewTestAdminsRepo() *TestAdminsRepo {
	return &TestAdminsRepo{
		admins: make(map[string]*AdminUser),
	}
}

func (r *TestAdminsRepo) GetByEmail(_ context.Context, email string) (*AdminUser, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	admin, ok := r.admins[email]
	if !ok {
		return nil, ErrAdminNotFound
	}
	adminCopy := *admin
	return &adminCopy, nil
}

func (r *TestAdminsRepo) Insert(_ context.Context, admin *AdminUser) (string, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	admin.ID = uuid.NewString()
	r.admins[admin.Email] = admin
	return admin.ID, nil
}
