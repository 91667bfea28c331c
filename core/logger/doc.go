// Package logger provides slog attribute helpers shared across the platform
// packages. All helpers return an empty slog.Attr for zero values so call
// sites never need nil or empty checks:
//
//	log.Warn("tenant isolation violation",
//		logger.TenantID(actual),
//		logger.Error(err),
//	)
package logger
