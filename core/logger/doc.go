// Package logger builds slog loggers for the shop and offers attribute helpers
// so log lines share the same keys across packages.
//
//	log := logger.New(logger.WithDevelopment("shop"))
//	log.Info("server started", logger.Component("server"), logger.Key("addr", ":3000"))
//
// Attribute helpers return an empty slog.Attr for empty input, so calls like
// log.Error("failed", logger.Error(err)) need no nil checks.
//
// Context extractors add request-scoped attributes to every *Context call:
//
//	log := logger.New(
//		logger.WithProduction("shop"),
//		logger.WithContextExtractors(requestIDFromContext),
//	)
package logger
