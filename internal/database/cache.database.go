package database

import (
	"fmt"

	"brokex/config"

	"github.com/valkey-io/valkey-go"
)

// Valkey database index organization. Each index gives logical separation
// for a cache category.
const (
	// GENERAL_CACHE_INDEX (DB 0) - general purpose caching
	GENERAL_CACHE_INDEX = iota

	// USER_CACHE_INDEX (DB 1) - user profiles and subject-id mappings
	USER_CACHE_INDEX

	// MARKERS_CACHE_INDEX (DB 2) - short-lived map marker projections
	MARKERS_CACHE_INDEX

	// EVENTS_CACHE_INDEX (DB 3) - pub/sub backing for the event bus
	EVENTS_CACHE_INDEX
)

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")
	log.Info("initializing cache database")

	address := config.DatabaseCacheAddress
	port := config.DatabaseCachePort
	if address == "" || port == 0 {
		return log.Errorf("failed to initialize cache database", "address or port is empty")
	}

	newClient := func(index int) (valkey.Client, error) {
		return valkey.NewClient(valkey.ClientOption{
			InitAddress: []string{fmt.Sprintf("%s:%d", address, port)},
			SelectDB:    index,
		})
	}

	var cacheDB Cache
	var err error

	if cacheDB.General, err = newClient(GENERAL_CACHE_INDEX); err != nil {
		return log.Err("failed to create general valkey client", err)
	}
	if cacheDB.User, err = newClient(USER_CACHE_INDEX); err != nil {
		return log.Err("failed to create user valkey client", err)
	}
	if cacheDB.Markers, err = newClient(MARKERS_CACHE_INDEX); err != nil {
		return log.Err("failed to create markers valkey client", err)
	}
	if cacheDB.Events, err = newClient(EVENTS_CACHE_INDEX); err != nil {
		return log.Err("failed to create events valkey client", err)
	}

	s.Cache = cacheDB

	return nil
}
