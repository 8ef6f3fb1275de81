package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "roombook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "8080"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultKafkaBookingTopic = "roombook.bookings"

	DefaultLockTTL          = 10 * time.Second
	DefaultLockRetryBackoff = 50 * time.Millisecond
	DefaultLockWaitTimeout  = 5 * time.Second

	// Bookings whose start is less than this far in the past still count as
	// upcoming in the "my bookings" view.
	DefaultStartGraceWindow = 30 * time.Minute

	DefaultPaginationLimit = 100
)
