package messages

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TestRepo is an in-memory messages repo for unit and dev testing.
type TestRepo struct {
	mutex sync.RWMutex
	msgs  []Message
}

func NewTestRepo() *TestRepo {
	return &TestRepo{}
}

func (r *TestRepo) Insert(_ context.Context, message *Message) (string, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	message.ID = uuid.NewString()
	message.CreatedAt = time.Now()
	r.msgs = append(r.msgs, *message)
	return message.ID, nil
}

func (r *TestRepo) List(_ context.Context) ([]Message, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	msgs := make([]Message, len(r.msgs))
	copy(msgs, r.msgs)
	return msgs, nil
}
