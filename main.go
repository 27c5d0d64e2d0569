package main

import (
	"flag"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/carn181/dspadapter/codec"
	"github.com/carn181/dspadapter/logging"
	"github.com/carn181/dspadapter/protocol"
	"github.com/carn181/dspadapter/transport"
)

// dspcat: reads framed DSP messages from a transport, decodes them into
// typed messages and logs what it saw. Useful for inspecting what a debug
// adapter actually sends.
func main() {
	transportMethod := flag.String("transport", "stdio", "transport to read from: stdio | socket | ws")
	addr := flag.String("addr", ":4711", "listen address for socket and ws transports")
	logLevel := flag.String("log-level", "info", "log level: trace | debug | info | warn | error")
	flag.Parse()

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logging.Init(level)
	logging.Logger.Info().Msg("Initialized")

	var t transport.Transport
	switch *transportMethod {
	case "socket":
		t.Init(transport.Server, transport.Socket, *addr)
	case "ws":
		t.Init(transport.Server, transport.WebSocket, *addr)
	default:
		t.Init(transport.Server, transport.Stdio, *addr)
	}

	handler := codec.NewHandler(protocol.DefaultRegistry())

	for !t.Closed {
		payload, err := t.Read()
		if err != nil {
			logging.Logger.Error().Err(err).Msg("Transport read failed")
			break
		}
		if len(payload) == 0 {
			continue
		}

		msg, err := handler.DecodeMessage(payload)
		if err != nil {
			// A malformed frame is a fatal protocol violation, DSP has
			// no way to ask for redelivery
			errormsg := "Ending because of error (" + err.Error() + ")"
			logging.Logger.Error().Msg(errormsg)
			fmt.Println(errormsg)
			break
		}
		logMessage(handler, msg)
	}
	t.Close()
	logging.Logger.Info().Msg("Ended")
}

func logMessage(handler *codec.Handler, msg protocol.Message) {
	switch m := msg.(type) {
	case *protocol.RequestMessage:
		// Track the request so a later response can resolve its result type
		handler.Pending.Add(m.ID, m.Method)
		logging.Logger.Info().Str("id", m.ID).Str("command", m.Method).Msg("request")
	case *protocol.EventMessage:
		logging.Logger.Info().Str("id", m.ID).Str("event", m.Method).Msg("event")
	case *protocol.ResponseMessage:
		if m.Error != nil {
			logging.Logger.Info().Str("id", m.ID).Str("message", m.Error.Message).Msg("error response")
		} else {
			logging.Logger.Info().Str("id", m.ID).Msg("response")
		}
	case nil:
		logging.Logger.Info().Msg("Got null message")
	}
}
