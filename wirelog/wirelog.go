// Package wirelog provides structured logging for the decoder's diagnostic
// hook, in the style internal/observability uses for HTTP request logging
// in the rest of this codebase's ancestry: one zerolog.Logger, one Msg per
// event, fields attached with the fluent With/Str/Int builder rather than
// Printf-style formatting.
package wirelog

import (
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/wirepg/pgproto/internal/proto"
)

func frameCodeName(code byte) string {
	return proto.ResponseCode(code).String()
}

// New builds a console-formatted logger tagged with the given component
// name, mirroring observability.InitLogger.
func New(component string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).With().Timestamp().Str("component", component).Logger()
}

// FrameLogger returns a decode.Options.OnFrame callback that logs one debug
// event per parsed frame, naming the backend message type via
// internal/proto's ResponseCode.String().
//
// It intentionally takes only (code, contentLength) — the same signature
// OnFrame is declared with — rather than the decoded message itself, since
// OnFrame fires before the message is queued and must stay cheap.
func FrameLogger(logger zerolog.Logger) func(code byte, contentLength int) {
	return func(code byte, contentLength int) {
		logger.Debug().
			Str("code", frameCodeName(code)).
			Int("content_length", contentLength).
			Msg("frame_decoded")
	}
}

// ConnectionEvent logs a milestone in the connection lifecycle (SSL
// negotiated, authenticated, ready) at info level.
func ConnectionEvent(logger zerolog.Logger, event string, fields map[string]string) {
	e := logger.Info()
	for k, v := range fields {
		e = e.Str(k, v)
	}
	e.Msg(event)
}
