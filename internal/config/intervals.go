package config

import "time"

// Worker intervals
const (
	// RedisBackupInterval is how often dirty trips are written to Redis.
	RedisBackupInterval = 10 * time.Second

	// PostgresBackupInterval is how often all trips are written to PostgreSQL.
	PostgresBackupInterval = 60 * time.Second

	// EvictionInterval is how often trips older than TRIP_TTL leave memory.
	EvictionInterval = 5 * time.Minute
)
