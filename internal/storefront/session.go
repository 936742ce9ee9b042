package storefront

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/angelmondragon/utmart-backend/internal/cart"
	"github.com/angelmondragon/utmart-backend/internal/checkout"
	"github.com/angelmondragon/utmart-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/utmart-backend/pkg/errors"
	"github.com/angelmondragon/utmart-backend/pkg/logger"
	"github.com/angelmondragon/utmart-backend/pkg/metrics"
	"github.com/angelmondragon/utmart-backend/pkg/redis"
	"github.com/google/uuid"
)

// StorageFactory opens the cart storage namespace for a session.
type StorageFactory func(sessionID string) (cart.Storage, error)

// NewStorageFactory selects the cart storage backend from configuration.
func NewStorageFactory(cfg config.StorefrontConfig, redisClient *redis.Client) (StorageFactory, error) {
	switch cfg.StorageBackend() {
	case config.CartStorageMemory:
		return func(string) (cart.Storage, error) {
			return cart.NewMemoryStorage(), nil
		}, nil
	case config.CartStorageFile:
		return func(id string) (cart.Storage, error) {
			return cart.NewFileStorage(cfg.StorageDir, id)
		}, nil
	case config.CartStorageRedis:
		if redisClient == nil {
			return nil, fmt.Errorf("redis cart storage requires a redis client")
		}
		return func(id string) (cart.Storage, error) {
			return cart.NewRedisStorage(redisClient, id, cfg.SessionTTL)
		}, nil
	default:
		return nil, fmt.Errorf("unknown cart storage %q", cfg.CartStorage)
	}
}

// Session is one shopper's cart and checkout. Callers hold the lock for the
// duration of a request.
type Session struct {
	ID string

	mu       sync.Mutex
	cart     *cart.Store
	checkout *checkout.Flow
	lastSeen time.Time
	logg     *logger.Logger
	metrics  *metrics.StorefrontMetrics
}

func (s *Session) Lock() {
	s.mu.Lock()
}

func (s *Session) Unlock() {
	s.mu.Unlock()
}

func (s *Session) Cart() *cart.Store {
	return s.cart
}

// Checkout returns the session's checkout. A confirmed checkout is replaced
// by a fresh one once the shopper has filled the cart again.
func (s *Session) Checkout() *checkout.Flow {
	if s.checkout == nil || (s.checkout.Receipt() != nil && !s.cart.IsEmpty()) {
		flow, _ := checkout.NewFlow(s.cart, s.logg, checkout.WithMetrics(s.metrics))
		s.checkout = flow
	}
	return s.checkout
}

// Registry keeps live sessions in memory, rehydrating carts from storage on
// first use.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	storage  StorageFactory
	logg     *logger.Logger
	metrics  *metrics.StorefrontMetrics
	idleTTL  time.Duration
	now      func() time.Time
}

// RegistryOption configures optional registry behavior.
type RegistryOption func(*Registry)

func WithRegistryMetrics(m *metrics.StorefrontMetrics) RegistryOption {
	return func(r *Registry) {
		r.metrics = m
	}
}

// WithIdleTTL evicts sessions untouched for longer than ttl on Sweep.
func WithIdleTTL(ttl time.Duration) RegistryOption {
	return func(r *Registry) {
		r.idleTTL = ttl
	}
}

func WithRegistryClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

func NewRegistry(storage StorageFactory, logg *logger.Logger, opts ...RegistryOption) (*Registry, error) {
	if storage == nil {
		return nil, fmt.Errorf("storage factory required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	r := &Registry{
		sessions: map[string]*Session{},
		storage:  storage,
		logg:     logg,
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r, nil
}

// NewSessionID returns a fresh random session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// ValidSessionID reports whether id looks like an identifier issued by NewSessionID.
func ValidSessionID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Session returns the live session for id, creating it from storage when
// it is not loaded yet. Hydration runs outside the registry lock; when two
// requests race to load the same id the first one stored wins.
func (r *Registry) Session(ctx context.Context, id string) (*Session, error) {
	if !ValidSessionID(id) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid session id")
	}
	if sess, ok := r.lookup(id); ok {
		return sess, nil
	}

	storage, err := r.storage(id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open cart storage")
	}
	ctx = r.logg.WithSessionID(ctx, id)
	loaded := &Session{
		ID:      id,
		cart:    cart.NewStore(ctx, storage, r.logg, cart.WithMetrics(r.metrics)),
		logg:    r.logg,
		metrics: r.metrics,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if sess, ok := r.sessions[id]; ok {
		sess.lastSeen = r.now()
		return sess, nil
	}
	loaded.lastSeen = r.now()
	r.sessions[id] = loaded
	r.logg.Debug(ctx, "storefront.session_loaded")
	return loaded, nil
}

func (r *Registry) lookup(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[id]
	if ok {
		sess.lastSeen = r.now()
	}
	return sess, ok
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than the configured TTL and returns
// how many were evicted. Persisted carts survive eviction.
func (r *Registry) Sweep() int {
	if r.idleTTL <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.idleTTL)
	evicted := 0
	for id, sess := range r.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			evicted++
		}
	}
	return evicted
}

// RunSweeper sweeps on every tick until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.logg.Info(r.logg.WithField(ctx, "evicted", n), "storefront.sessions_swept")
			}
		}
	}
}
