// pgprotodump connects to a PostgreSQL server, sends a startup handshake as
// an unauthenticated observer would, then dumps every decoded backend
// message it receives until the connection closes.
package main

import (
	"flag"
	"io"
	"net"

	"github.com/rs/zerolog/log"

	"github.com/wirepg/pgproto"
	"github.com/wirepg/pgproto/decode"
	"github.com/wirepg/pgproto/wirelog"
)

func main() {
	configPath := flag.String("config", "", "path to pgprotodump config.toml (optional)")
	user := flag.String("user", "postgres", "startup user")
	database := flag.String("database", "", "startup database (defaults to user)")
	flag.Parse()

	logger := wirelog.New("pgprotodump")
	log.Logger = logger

	cfg, err := loadDumpConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	conn, err := net.Dial("tcp", cfg.Addr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.Addr).Msg("dial failed")
	}
	defer conn.Close()

	startup := pgproto.StartupMessage{User: *user}
	if *database != "" {
		startup.Extra = append(startup.Extra, pgproto.StartupParam{Key: "database", Value: *database})
	}
	wire, err := startup.Encode(pgproto.UTF8)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to encode startup message")
	}
	if _, err := conn.Write(wire); err != nil {
		log.Fatal().Err(err).Msg("failed to send startup message")
	}
	wirelog.ConnectionEvent(logger, "startup_sent", map[string]string{"addr": cfg.Addr, "user": *user})

	opts := decode.Options{
		Charset:   pgproto.UTF8,
		MaxLength: cfg.MaxMessageSize,
		OnFrame:   wirelog.FrameLogger(logger),
	}
	reader := decode.NewReader(conn, opts, cfg.ChunkSize)

	for {
		msg, err := reader.Next()
		if err == io.EOF {
			log.Info().Msg("connection closed")
			return
		}
		if err != nil {
			log.Fatal().Err(err).Msg("decode failed")
		}
		log.Info().Str("type", messageTypeName(msg)).Msg("message")
	}
}

func messageTypeName(msg pgproto.BackendMessage) string {
	switch msg.(type) {
	case pgproto.AuthenticationRequest:
		return "AuthenticationRequest"
	case pgproto.ErrorResponse:
		return "ErrorResponse"
	case pgproto.ReadyForQuery:
		return "ReadyForQuery"
	case pgproto.RowDescription:
		return "RowDescription"
	case pgproto.DataRow:
		return "DataRow"
	case pgproto.CommandComplete:
		return "CommandComplete"
	case pgproto.ParameterStatus:
		return "ParameterStatus"
	default:
		return "other"
	}
}
