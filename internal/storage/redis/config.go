package redis

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// KeyPrefix namespaces every key and channel, so several scoreboards
	// can share one Redis
	KeyPrefix string

	// PatchRetries bounds optimistic-lock retries when a patched document
	// is modified concurrently
	PatchRetries int
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		KeyPrefix:    "gamenight",
		PatchRetries: 5,
	}
}
