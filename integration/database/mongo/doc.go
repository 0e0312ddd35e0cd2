// Package mongo provides MongoDB client initialization, health checking and
// a session.Store backed by a MongoDB collection.
//
// The client is created with a single connection attempt followed by a ping,
// so startup fails fast when the database is unreachable:
//
//	var cfg mongo.Config
//	config.MustLoad(&cfg)
//
//	db, err := mongo.NewWithDatabase(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer db.Client().Disconnect(context.Background())
//
// # Configuration
//
//	MONGODB_URL                 full connection string (takes precedence)
//	MONGO_USER                  user for the assembled mongodb+srv URI
//	MONGO_PASSWORD              password for the assembled URI
//	MONGO_HOST                  cluster host (default: cluster0.mongodb.net)
//	MONGO_DATABASE              database name (default: shop)
//	MONGODB_CONNECT_TIMEOUT     (default: 10s)
//	MONGODB_MAX_POOL_SIZE       (default: 100)
//	MONGODB_MIN_POOL_SIZE       (default: 1)
//	MONGODB_MAX_CONN_IDLE_TIME  (default: 300s)
//
// # Sessions
//
// NewSessionStore creates the token and TTL indexes on the sessions
// collection. The TTL index lets MongoDB reap expired documents on its own;
// DeleteExpired covers the gap between monitor runs.
//
//	store, err := mongo.NewSessionStore[SessionData](ctx, db, mongo.SessionCollection)
//	manager := session.NewManager(store, session.WithTTL(24*time.Hour))
package mongo
