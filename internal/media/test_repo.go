package media

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TestRepo is an in-memory assets repo for unit and dev testing.
type TestRepo struct {
	mutex  sync.RWMutex
	assets []Asset
}

func NewTestRepo() *TestRepo {
	return &TestRepo{}
}

func (r *TestRepo) Insert(_ context.Context, asset *Asset) (string, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	asset.ID = uuid.NewString()
	asset.CreatedAt = time.Now()
	r.assets = append(r.assets, *asset)
	return asset.ID, nil
}

func (r *TestRepo) Assets() []Asset {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	assets := make([]Asset, len(r.assets))
	copy(assets, r.assets)
	return assets
}
