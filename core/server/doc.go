// Package server wraps http.Server with graceful shutdown and errgroup
// integration.
//
// Run returns a func() error suitable for errgroup.Group.Go: it serves until
// the group context is canceled, then drains in-flight requests within the
// shutdown timeout.
//
//	srv, err := server.NewFromConfig(cfg.Server, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, handler))
//	return g.Wait()
//
// # Configuration
//
//	HOST                      listen host (default: all interfaces)
//	PORT                      listen port (default: 3000)
//	SERVER_READ_TIMEOUT       (default: 15s)
//	SERVER_WRITE_TIMEOUT      (default: 30s)
//	SERVER_IDLE_TIMEOUT       (default: 60s)
//	SERVER_SHUTDOWN_TIMEOUT   (default: 30s)
//	SERVER_MAX_HEADER_BYTES   (default: 1MB)
package server
