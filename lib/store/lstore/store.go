package lstore

import (
	"io"
	"time"

	"github.com/cedarkv/cedar/lib/db"
	"github.com/cedarkv/cedar/lib/store"
)

type storeImpl struct {
	db db.KVDB
}

// NewLocalStore creates a new local store instance.
// This store implementation is not distributed and only works in a single
// process. It uses the db.KVDB created by the factory directly.
func NewLocalStore(factory store.DBFactory) store.IStore {
	return &storeImpl{
		db: factory(),
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Put(key string, value []byte, ttl time.Duration) error {
	required := db.FeaturePut
	if ttl > 0 {
		required |= db.FeaturePutTTL
	}
	if !s.db.SupportsFeature(required) {
		return store.NewError(store.RetCUnsupportedOperation, "Put operation is not supported")
	}
	s.db.Put(key, value, ttl)
	return nil
}

func (s *storeImpl) Erase(key string) (bool, error) {
	if !s.db.SupportsFeature(db.FeatureErase) {
		return false, store.NewError(store.RetCUnsupportedOperation, "Erase operation is not supported")
	}
	return s.db.Erase(key), nil
}

func (s *storeImpl) Get(key string) ([]byte, bool, error) {
	if !s.db.SupportsFeature(db.FeatureGet) {
		return nil, false, store.NewError(store.RetCUnsupportedOperation, "Get operation is not supported")
	}
	val, ok := s.db.Get(key)
	return val, ok, nil
}

func (s *storeImpl) PrefixGet(prefix string, limit int) ([]db.KV, error) {
	if !s.db.SupportsFeature(db.FeaturePrefixScan) {
		return nil, store.NewError(store.RetCUnsupportedOperation, "PrefixGet operation is not supported")
	}
	return s.db.PrefixGet(prefix, limit), nil
}

func (s *storeImpl) Size() (int, error) {
	if !s.db.SupportsFeature(db.FeatureSize) {
		return 0, store.NewError(store.RetCUnsupportedOperation, "Size operation is not supported")
	}
	return s.db.Size(), nil
}

func (s *storeImpl) Clear() error {
	if !s.db.SupportsFeature(db.FeatureClear) {
		return store.NewError(store.RetCUnsupportedOperation, "Clear operation is not supported")
	}
	s.db.Clear()
	return nil
}

func (s *storeImpl) GetDBInfo() (db.DatabaseInfo, error) {
	return s.db.GetInfo(), nil
}

func (s *storeImpl) WriteMetrics(w io.Writer) error {
	source, ok := s.db.(db.MetricsSource)
	if !ok || !s.db.SupportsFeature(db.FeatureMetrics) {
		return store.NewError(store.RetCUnsupportedOperation, "Metrics export is not supported")
	}
	source.WriteMetrics(w)
	return nil
}

func (s *storeImpl) Close() error {
	if err := s.db.Close(); err != nil {
		return store.NewError(store.RetCInternalError, err.Error())
	}
	return nil
}
