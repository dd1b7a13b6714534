package notify

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

// STOMP frame commands used by the push channel. The backend exposes a
// Spring STOMP broker over the websocket endpoint; only the small client
// subset below is needed, so the framing is implemented here rather than
// pulling in a broker-grade dependency.
const (
	stompConnect    = "CONNECT"
	stompConnected  = "CONNECTED"
	stompSubscribe  = "SUBSCRIBE"
	stompDisconnect = "DISCONNECT"
	stompMessage    = "MESSAGE"
	stompError      = "ERROR"
)

// frame is a single STOMP frame: command, headers, optional body.
type frame struct {
	command string
	headers map[string]string
	body    []byte
}

// escapeHeader applies STOMP 1.2 header value escaping.
func escapeHeader(v string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		"\n", `\n`,
		":", `\c`,
		"\r", `\r`,
	)
	return r.Replace(v)
}

// unescapeHeader reverses STOMP 1.2 header value escaping.
func unescapeHeader(v string) string {
	r := strings.NewReplacer(
		`\r`, "\r",
		`\n`, "\n",
		`\c`, ":",
		`\\`, `\`,
	)
	return r.Replace(v)
}

// marshal serializes the frame: command line, header lines, blank line,
// body, NUL terminator.
func (f *frame) marshal() []byte {
	var buf bytes.Buffer
	buf.WriteString(f.command)
	buf.WriteByte('\n')
	for k, v := range f.headers {
		buf.WriteString(k)
		buf.WriteByte(':')
		buf.WriteString(escapeHeader(v))
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	buf.Write(f.body)
	buf.WriteByte(0)
	return buf.Bytes()
}

// errHeartbeat marks an EOL-only websocket message, which STOMP uses as a
// heart-beat rather than a frame.
var errHeartbeat = fmt.Errorf("stomp heart-beat")

// cutLine splits off the next EOL-terminated line, accepting both LF and
// CRLF endings.
func cutLine(data []byte) (line string, rest []byte, ok bool) {
	idx := bytes.IndexByte(data, '\n')
	if idx < 0 {
		return "", data, false
	}
	return strings.TrimSuffix(string(data[:idx]), "\r"), data[idx+1:], true
}

// parseFrame deserializes a single frame from one websocket message.
func parseFrame(data []byte) (*frame, error) {
	// A heart-beat is a bare EOL.
	trimmed := bytes.TrimLeft(data, "\r\n")
	if len(trimmed) == 0 {
		return nil, errHeartbeat
	}
	data = trimmed

	command, rest, ok := cutLine(data)
	if !ok || command == "" {
		return nil, fmt.Errorf("malformed stomp frame: missing command")
	}
	f := &frame{command: command, headers: make(map[string]string)}

	for {
		var line string
		line, rest, ok = cutLine(rest)
		if !ok {
			return nil, fmt.Errorf("malformed stomp frame: no header terminator")
		}
		if line == "" {
			break
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			return nil, fmt.Errorf("malformed stomp header %q", line)
		}
		// First occurrence of a repeated header wins.
		if _, exists := f.headers[key]; !exists {
			f.headers[key] = unescapeHeader(value)
		}
	}

	f.body = bytes.TrimSuffix(rest, []byte{0})
	return f, nil
}

// stompConn is a connected, subscribed STOMP session over a websocket.
// Frame writes are serialized; Close may race a write when the subscriber
// is torn down mid-handshake.
type stompConn struct {
	ws  *websocket.Conn
	wmu sync.Mutex
}

// dialSTOMP opens the websocket, performs the CONNECT handshake, and
// returns the connected session. The caller owns closing it.
func dialSTOMP(ctx context.Context, wsURL string) (*stompConn, error) {
	dialer := websocket.Dialer{
		Subprotocols: []string{"v12.stomp", "v11.stomp"},
	}
	ws, _, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", wsURL, err)
	}

	c := &stompConn{ws: ws}
	connect := &frame{
		command: stompConnect,
		headers: map[string]string{
			"accept-version": "1.1,1.2",
			"heart-beat":     "0,0",
		},
	}
	if err := c.send(connect); err != nil {
		ws.Close()
		return nil, fmt.Errorf("sending CONNECT: %w", err)
	}

	reply, err := c.next()
	if err != nil {
		ws.Close()
		return nil, fmt.Errorf("awaiting CONNECTED: %w", err)
	}
	if reply.command != stompConnected {
		ws.Close()
		return nil, fmt.Errorf(
			"handshake rejected: got %s: %s",
			reply.command, string(reply.body),
		)
	}

	return c, nil
}

// subscribe registers for a destination with auto acknowledgement.
func (c *stompConn) subscribe(id, destination string) error {
	sub := &frame{
		command: stompSubscribe,
		headers: map[string]string{
			"id":          id,
			"destination": destination,
			"ack":         "auto",
		},
	}
	if err := c.send(sub); err != nil {
		return fmt.Errorf("subscribing to %s: %w", destination, err)
	}
	return nil
}

// send writes one frame as a single websocket text message.
func (c *stompConn) send(f *frame) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return c.ws.WriteMessage(websocket.TextMessage, f.marshal())
}

// next blocks for the next frame, transparently skipping heart-beats.
// A received ERROR frame is surfaced as a Go error.
func (c *stompConn) next() (*frame, error) {
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			return nil, err
		}

		f, err := parseFrame(data)
		if err == errHeartbeat {
			continue
		}
		if err != nil {
			return nil, err
		}
		if f.command == stompError {
			return nil, fmt.Errorf(
				"broker error: %s", strings.TrimSpace(string(f.body)),
			)
		}
		return f, nil
	}
}

// close sends a best-effort DISCONNECT and tears down the websocket.
// Safe to call on a half-dead connection.
func (c *stompConn) close() {
	_ = c.send(&frame{command: stompDisconnect, headers: map[string]string{}})
	_ = c.ws.Close()
}
