package transport

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"

	"github.com/coder/websocket"

	"github.com/carn181/dspadapter/codec"
	"github.com/carn181/dspadapter/logging"
	"github.com/carn181/dspadapter/protocol"
)

type TransportMethod int

const (
	Stdio = iota
	Socket
	WebSocket
)

// Useful for dialling or listening based on which side of the session we are
type TransportType int

const (
	Client = iota
	Server
)

// Transport reads and writes Content-Length framed DSP messages over a
// stream. DSP uses the same framing as JSON-RPC: a Content-Length header,
// a blank line, then the JSON payload.
type Transport struct {
	Type    TransportType   // client or server
	Method  TransportMethod // type of stream
	Scanner *bufio.Scanner  // reader (scanner)
	conn    net.Conn        // connection to close for client
	ln      net.Listener    // listener to close for server
	connCh  chan net.Conn   // hands accepted websocket conns to Accept
	Writer  io.Writer       // writer
	Closed  bool
}

func (t *Transport) Init(ttype TransportType, method TransportMethod, addr string) {
	t.Method = method
	t.Type = ttype

	switch t.Method {
	// Communicate with the peer through stdin/stdout
	case Stdio:
		t.attach(os.Stdin, os.Stdout)

	// Communicate with the peer through a tcp socket
	case Socket:
		switch t.Type {
		case Server:
			if err := t.Listen(method, addr); err != nil {
				logging.Logger.Fatal().Err(err).Msg("tcp listen")
			}
			if err := t.Accept(); err != nil {
				logging.Logger.Fatal().Err(err).Msg("tcp accept")
			}
		case Client:
			conn, err := net.Dial("tcp", addr)
			t.conn = conn
			if err != nil {
				logging.Logger.Fatal().Err(err).Msg("tcp dial")
			}
			t.attach(conn, conn)
		}

	// Communicate with the peer through a websocket, framed the same way
	case WebSocket:
		switch t.Type {
		case Server:
			if err := t.Listen(method, addr); err != nil {
				logging.Logger.Fatal().Err(err).Msg("websocket listen")
			}
			if err := t.Accept(); err != nil {
				logging.Logger.Fatal().Err(err).Msg("websocket accept")
			}
		case Client:
			c, _, err := websocket.Dial(context.Background(), "ws://"+addr, nil)
			if err != nil {
				logging.Logger.Fatal().Err(err).Msg("websocket dial")
			}
			conn := websocket.NetConn(context.Background(), c, websocket.MessageBinary)
			t.conn = conn
			t.attach(conn, conn)
		}
	}
}

// Listen binds the server-side listener without accepting a peer yet, so the
// address is dialable as soon as it returns. Accept completes the setup.
func (t *Transport) Listen(method TransportMethod, addr string) error {
	t.Method = method
	t.Type = Server

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	t.ln = ln

	if method == WebSocket {
		t.connCh = make(chan net.Conn, 1)
		srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			c, err := websocket.Accept(w, req, nil)
			if err != nil {
				logging.Logger.Error().Err(err).Msg("websocket accept")
				return
			}
			t.connCh <- websocket.NetConn(context.Background(), c, websocket.MessageBinary)
		})}
		go srv.Serve(ln)
	}
	return nil
}

// Accept waits for one peer connection on a listening transport.
func (t *Transport) Accept() error {
	var conn net.Conn
	switch t.Method {
	case WebSocket:
		conn = <-t.connCh
	default:
		var err error
		conn, err = t.ln.Accept()
		if err != nil {
			return err
		}
	}
	t.attach(conn, conn)
	return nil
}

// Addr returns the address a listening transport is bound to.
func (t *Transport) Addr() string {
	return t.ln.Addr().String()
}

func (t *Transport) attach(r io.Reader, w io.Writer) {
	t.Writer = w

	// TODO: Find dynamic buffer for handling large messages
	const maxBufferSize = 1024 * 1024 * 10 // 10 MB
	buf := make([]byte, maxBufferSize)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(buf, maxBufferSize)
	scanner.Split(split)
	t.Scanner = scanner
}

// Reads one framed DSP message from the stream
func (t *Transport) Read() ([]byte, error) {
	hasError := !t.Scanner.Scan()
	if hasError {
		if t.Scanner.Err() == nil {
			t.Closed = true
		}
	}

	rawMessage := t.Scanner.Bytes()
	err := t.Scanner.Err()
	if err != nil {
		return rawMessage, err
	}

	_, content, _ := bytes.Cut(rawMessage, []byte{'\r', '\n', '\r', '\n'})
	return content, nil
}

// Writes one DSP message with its Content-Length header
func (t *Transport) Write(msg []byte) error {
	header := []byte("Content-Length: " + strconv.Itoa(len(msg)) + "\r\n\r\n")
	_, err := t.Writer.Write(append(header, msg...))
	return err
}

// Writes a DSP request
func (t *Transport) WriteRequest(id string, method string, params any) error {
	msg, err := codec.Marshal(&protocol.RequestMessage{
		ID:     id,
		Method: method,
		Params: params,
	})
	if err != nil {
		return err
	}

	logging.Logger.Debug().Msg("Writing " + string(msg))
	return t.Write(msg)
}

// Writes a DSP response. id correlates to the request, responseID is the
// response's own sequence number.
func (t *Transport) WriteResponse(id string, responseID string, method string, result any, responseError *protocol.ResponseError) error {
	msg, err := codec.Marshal(&protocol.ResponseMessage{
		ID:         id,
		ResponseID: responseID,
		Method:     method,
		Result:     result,
		Error:      responseError,
	})
	if err != nil {
		return err
	}

	logging.Logger.Debug().Msg("Writing " + string(msg))
	return t.Write(msg)
}

// Writes a DSP event
func (t *Transport) WriteEvent(id string, method string, body any) error {
	msg, err := codec.Marshal(&protocol.EventMessage{
		ID:     id,
		Method: method,
		Params: body,
	})
	if err != nil {
		return err
	}

	logging.Logger.Debug().Msg("Writing " + string(msg))
	return t.Write(msg)
}

func (t *Transport) Close() {
	if t.Method == Socket || t.Method == WebSocket {
		if t.Type == Client {
			t.conn.Close()
		} else {
			t.ln.Close()
		}
	}
}

// Split function for scanner to parse one framed DSP message
func split(data []byte, _ bool) (advance int, token []byte, err error) {
	header, content, found := bytes.Cut(data, []byte{'\r', '\n', '\r', '\n'})
	if !found {
		return 0, nil, nil
	}

	// Content-Length: <number>
	if len(header) < len("Content-Length: ") {
		return 0, nil, errors.New("Invalid Header: " + string(header))
	}
	contentLengthBytes := header[len("Content-Length: "):]
	contentLength, err := strconv.Atoi(string(contentLengthBytes))
	if err != nil {
		return 0, nil, errors.New("Invalid Content Length")
	}

	if len(content) < contentLength {
		return 0, nil, nil
	}

	totalLength := len(header) + 4 + contentLength
	return totalLength, data[:totalLength], nil
}

// GetCommand peeks the command (or event name) of a raw DSP message without
// fully decoding it.
func GetCommand(content []byte) (string, error) {
	var msg struct {
		Type    string `json:"type"`
		Command string `json:"command"`
		Event   string `json:"event"`
	}

	err := json.Unmarshal(content, &msg)
	if msg.Command != "" {
		return msg.Command, err
	}
	return msg.Event, err
}
