package repofake

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-exchange-client/storage"
)

var _ storage.Repo = (*FakeKVRepo)(nil)

type FakeKVRepo struct {
	values map[string][]byte
	lock   sync.RWMutex

	// GetErr and SetErr, when set, are returned by Get and Set.
	GetErr error
	SetErr error
	Writes int
}

func NewFakeKVRepo() *FakeKVRepo {
	return &FakeKVRepo{
		values: make(map[string][]byte),
	}
}

func (r *FakeKVRepo) Get(_ context.Context, key string) ([]byte, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	if r.GetErr != nil {
		return nil, r.GetErr
	}
	v, ok := r.values[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (r *FakeKVRepo) Set(_ context.Context, key string, value []byte) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.SetErr != nil {
		return r.SetErr
	}
	r.values[key] = append([]byte(nil), value...)
	r.Writes++
	return nil
}

func (r *FakeKVRepo) Delete(_ context.Context, key string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	delete(r.values, key)
	return nil
}

// WriteCount returns how many successful Set calls were made.
func (r *FakeKVRepo) WriteCount() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.Writes
}
