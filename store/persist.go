package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	apperrors "github.com/jrsteele09/go-exchange-client/internal/errors"
	"github.com/jrsteele09/go-exchange-client/session"
	"github.com/jrsteele09/go-exchange-client/storage"
	"github.com/rs/zerolog/log"
)

const (
	persistKey     = "persist:root"
	persistVersion = 1
)

// Persisted is the stored layout: only the session part of the store.
type Persisted struct {
	Version int              `json:"version"`
	Session session.Snapshot `json:"session"`
}

// Persister mirrors the session subset of a Store into a storage.Repo and
// restores it on start.
type Persister struct {
	store *Store
	repo  storage.Repo

	mu          sync.Mutex
	last        []byte
	unsubscribe func()
	done        chan struct{}
}

func NewPersister(st *Store, repo storage.Repo) *Persister {
	return &Persister{
		store: st,
		repo:  repo,
		done:  make(chan struct{}),
	}
}

// Start restores persisted state asynchronously, then begins saving changes
// and marks the store hydrated. A failed restore is logged and the store is
// still marked hydrated with whatever state it holds.
func (p *Persister) Start(ctx context.Context) {
	go func() {
		defer close(p.done)
		if err := p.Restore(ctx); err != nil {
			log.Err(err).Msg("persist: restore failed, starting with an empty session")
		}
		p.mu.Lock()
		if raw, err := encode(p.store.GetState()); err == nil {
			p.last = raw
		}
		// Saves outlive ctx so that the last changes before shutdown are kept.
		saveCtx := context.WithoutCancel(ctx)
		p.unsubscribe = p.store.Subscribe(func(st State) { p.save(saveCtx, st) })
		p.mu.Unlock()

		p.store.Dispatch(MarkHydrated{})
		log.Info().Msg("persist: state hydrated")
	}()
}

// Done is closed once Start has restored state and marked the store hydrated.
func (p *Persister) Done() <-chan struct{} {
	return p.done
}

// Stop stops saving changes.
func (p *Persister) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
}

// Restore loads the persisted session and dispatches it into the store.
// A missing entry is not an error.
func (p *Persister) Restore(ctx context.Context) error {
	raw, err := p.repo.Get(ctx, persistKey)
	if apperrors.Is(err, storage.ErrNotFound) {
		log.Debug().Msg("persist: nothing to restore")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", persistKey, err)
	}

	var persisted Persisted
	if err := json.Unmarshal(raw, &persisted); err != nil {
		return fmt.Errorf("decode %s: %w", persistKey, err)
	}
	if persisted.Version != persistVersion {
		return fmt.Errorf("decode %s: unsupported version %d", persistKey, persisted.Version)
	}

	p.store.Dispatch(Rehydrate{Session: persisted.Session})
	return nil
}

func (p *Persister) save(ctx context.Context, st State) {
	raw, err := encode(st)
	if err != nil {
		log.Err(err).Msg("persist: encode failed")
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if bytes.Equal(raw, p.last) {
		return
	}
	if err := p.repo.Set(ctx, persistKey, raw); err != nil {
		log.Err(err).Msg("persist: save failed")
		return
	}
	p.last = raw
}

func encode(st State) ([]byte, error) {
	return json.Marshal(Persisted{Version: persistVersion, Session: st.Session})
}
