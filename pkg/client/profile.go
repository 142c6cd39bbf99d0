package client

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/dimitrije/crowdfund-api/pkg/dto"
	"github.com/google/uuid"
)

// ProfileSource loads the session's profile, creating it on first sight.
// A nil Profile in a successful response means the create step failed.
type ProfileSource interface {
	Session(ctx context.Context) (*dto.SessionResponse, error)
}

// ProfileSynchronizer keeps the profile of the current identity. Every
// identity change starts a new generation and results from older
// generations are dropped.
type ProfileSynchronizer struct {
	source ProfileSource
	notify Notifier

	emitMu sync.Mutex

	mu         sync.Mutex
	generation uint64
	identityID uuid.UUID
	profile    *dto.ProfileResponse
	loading    bool
	cancel     context.CancelFunc
	wg         sync.WaitGroup

	listenerMu sync.Mutex
	listeners  []func(*dto.ProfileResponse)
}

func NewProfileSynchronizer(source ProfileSource, notify Notifier) *ProfileSynchronizer {
	if notify == nil {
		notify = discardNotifier{}
	}
	return &ProfileSynchronizer{source: source, notify: notify}
}

func (p *ProfileSynchronizer) Profile() *dto.ProfileResponse {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.profile
}

func (p *ProfileSynchronizer) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

func (p *ProfileSynchronizer) Subscribe(fn func(*dto.ProfileResponse)) {
	p.listenerMu.Lock()
	defer p.listenerMu.Unlock()
	p.listeners = append(p.listeners, fn)
}

// SetIdentity follows the session. It is a no-op when the identity id has
// not changed. A nil identity leaves the synchronizer idle.
func (p *ProfileSynchronizer) SetIdentity(identity *Identity) {
	id := uuid.Nil
	if identity != nil {
		id = identity.ID
	}

	p.mu.Lock()
	if id == p.identityID && (id == uuid.Nil || p.loading || p.profile != nil) {
		p.mu.Unlock()
		return
	}
	p.identityID = id
	p.mu.Unlock()

	p.start(identity)
}

// Reload refetches the profile of the current identity.
func (p *ProfileSynchronizer) Reload() {
	p.mu.Lock()
	id := p.identityID
	p.mu.Unlock()

	if id == uuid.Nil {
		return
	}
	p.start(&Identity{ID: id})
}

// Wait blocks until no fetch is in flight.
func (p *ProfileSynchronizer) Wait() {
	p.wg.Wait()
}

func (p *ProfileSynchronizer) start(identity *Identity) {
	p.emitMu.Lock()
	defer p.emitMu.Unlock()

	p.mu.Lock()
	p.generation++
	gen := p.generation
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}

	if identity == nil {
		hadProfile := p.profile != nil
		p.profile = nil
		p.loading = false
		p.mu.Unlock()
		if hadProfile {
			p.emit(nil)
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.loading = true
	p.wg.Add(1)
	p.mu.Unlock()

	go p.fetch(ctx, gen)
}

func (p *ProfileSynchronizer) fetch(ctx context.Context, gen uint64) {
	defer p.wg.Done()

	resp, err := p.source.Session(ctx)

	p.emitMu.Lock()
	defer p.emitMu.Unlock()

	p.mu.Lock()
	if gen != p.generation {
		p.mu.Unlock()
		return
	}
	p.loading = false
	p.cancel = nil

	switch {
	case err != nil:
		p.profile = nil
		p.mu.Unlock()
		_ = notifyErr(p.notify, fmt.Errorf("%w: %w", ErrProfileFetch, err))
	case resp.Profile == nil:
		p.profile = nil
		p.mu.Unlock()
		_ = notifyErr(p.notify, ErrProfileCreate)
	default:
		p.profile = resp.Profile
		p.mu.Unlock()
	}

	p.emit(p.Profile())
}

func (p *ProfileSynchronizer) emit(profile *dto.ProfileResponse) {
	p.listenerMu.Lock()
	listeners := slices.Clone(p.listeners)
	p.listenerMu.Unlock()

	for _, fn := range listeners {
		fn(profile)
	}
}
