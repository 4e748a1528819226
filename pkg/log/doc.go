/*
Package log provides structured logging for VectoriaDB using zerolog.

The log package wraps the zerolog library to provide JSON-structured logging
with component-specific loggers, configurable log levels, and helper functions
for common logging patterns. All logs include timestamps and support filtering
by severity level.

# Usage

Initialize once at startup:

	log.Init(log.Config{
		Level:      log.InfoLevel,
		JSONOutput: true,
	})

Create component loggers for subsystems:

	logger := log.WithComponent("build-worker")
	logger.Info().Str("index", name).Msg("Index build started")

Per-index and per-upload-session child loggers carry the index name and the
session id through every record they emit:

	indexLogger := log.WithIndex("documents-v2")
	indexLogger.Warn().Msg("Status file rewritten")
	sessionLogger := log.WithSession(sessionID)
	sessionLogger.Error().Err(err).Msg("Upload stream failed")

Console output (the default) is meant for interactive use; pass JSONOutput
for machine-parseable logs. Records go to Config.Output, or to stdout when
it is unset.
*/
package log
