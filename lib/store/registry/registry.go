package registry

import (
	"github.com/cedarkv/cedar/lib/logging"
	"github.com/cedarkv/cedar/lib/store"
	"github.com/cedarkv/cedar/lib/store/lstore"
	"github.com/puzpuzpuz/xsync/v3"
)

var log = logging.GetLogger("store/registry")

// Registry manages named store instances for processes that host several
// independent stores side by side. Each name maps to exactly one store;
// stores are created lazily on first use.
//
// Thread-safety: All methods are thread-safe and can be called concurrently.
type Registry struct {
	factory store.DBFactory
	stores  *xsync.MapOf[string, store.IStore]
}

// New creates a registry whose stores are backed by databases created with
// the given factory.
func New(factory store.DBFactory) *Registry {
	return &Registry{
		factory: factory,
		stores:  xsync.NewMapOf[string, store.IStore](),
	}
}

// GetOrCreate returns the store registered under name, creating it on first
// use. Concurrent callers for the same name always receive the same instance.
func (r *Registry) GetOrCreate(name string) store.IStore {
	st, loaded := r.stores.LoadOrCompute(name, func() store.IStore {
		return lstore.NewLocalStore(r.factory)
	})
	if !loaded {
		log.Infof("created store %q", name)
	}
	return st
}

// Get returns the store registered under name, or false if no store with
// that name exists.
func (r *Registry) Get(name string) (store.IStore, bool) {
	return r.stores.Load(name)
}

// Drop closes and removes the store registered under name. Dropping an
// unknown name is a no-op.
func (r *Registry) Drop(name string) error {
	st, loaded := r.stores.LoadAndDelete(name)
	if !loaded {
		return nil
	}
	log.Infof("dropped store %q", name)
	return st.Close()
}

// Names returns the names of all registered stores, in no particular order.
func (r *Registry) Names() []string {
	names := make([]string, 0, r.stores.Size())
	r.stores.Range(func(name string, _ store.IStore) bool {
		names = append(names, name)
		return true
	})
	return names
}

// CloseAll closes and removes every registered store. The first error
// encountered is returned; remaining stores are still closed.
func (r *Registry) CloseAll() error {
	var firstErr error
	r.stores.Range(func(name string, st store.IStore) bool {
		r.stores.Delete(name)
		if err := st.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		return true
	})
	return firstErr
}
