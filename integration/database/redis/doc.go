// Package redis provides Redis client initialization, health checking and a
// session.Store backed by Redis keys.
//
// New validates the URL scheme (redis:// or rediss://), creates the client
// and pings it once:
//
//	client, err := redis.New(ctx, redis.Config{ConnectionURL: "redis://localhost:6379/0"})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	store := redis.NewSessionStore[SessionData](client, "session:")
//
// # Configuration
//
//	REDIS_URL               connection URL
//	REDIS_CONNECT_TIMEOUT   dial and ping timeout (default: 10s)
//	REDIS_SESSION_PREFIX    key prefix for sessions (default: session:)
//
// # Key layout
//
// Each session is stored as JSON under <prefix><id>. A second key,
// <prefix>token:<token>, maps the client token to the id. Both keys carry
// the session's remaining lifetime as their TTL.
//
// # Error Handling
//
//   - ErrEmptyConnectionURL: no URL configured
//   - ErrFailedToParseRedisConnString: malformed URL or unsupported scheme
//   - ErrFailedToConnect: the initial ping failed
//   - ErrHealthcheckFailed: a health check ping failed
package redis
