package remote

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
)

const (
	stageDial      = "dial"
	stageHandshake = "handshake"

	rfbVersion       = "RFB 003.008\n"
	securityNone     = 1
	securityResultOK = 0
)

// StreamViewer opens the streaming surface and reports the framebuffer size.
type StreamViewer interface {
	Open(ctx context.Context, url string) (Size, error)
}

// RFBViewer speaks the remote framebuffer handshake over a websocket,
// far enough to learn the framebuffer size from ServerInit.
type RFBViewer struct {
	Dialer *websocket.Dialer
	Header http.Header
}

// Open implements StreamViewer. The connection is closed once the size is
// known; the terminal surface does not paint framebuffer updates.
func (v *RFBViewer) Open(ctx context.Context, url string) (Size, error) {
	dialer := v.Dialer
	if dialer == nil {
		dialer = &websocket.Dialer{
			Proxy:        http.ProxyFromEnvironment,
			Subprotocols: []string{"binary"},
		}
	}

	conn, _, err := dialer.DialContext(ctx, url, v.Header)
	if err != nil {
		return Size{}, wrapConnectError(stageDial, url, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(deadline)
	}

	size, err := handshake(&wsStream{conn: conn}, conn)
	if err != nil {
		return Size{}, wrapConnectError(stageHandshake, url, err)
	}
	return size, nil
}

func handshake(r io.Reader, conn *websocket.Conn) (Size, error) {
	version := make([]byte, len(rfbVersion))
	if _, err := io.ReadFull(r, version); err != nil {
		return Size{}, fmt.Errorf("read protocol version: %w", err)
	}
	if !strings.HasPrefix(string(version), "RFB ") {
		return Size{}, fmt.Errorf("unexpected protocol version %q", version)
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, []byte(rfbVersion)); err != nil {
		return Size{}, fmt.Errorf("write protocol version: %w", err)
	}

	var count [1]byte
	if _, err := io.ReadFull(r, count[:]); err != nil {
		return Size{}, fmt.Errorf("read security types: %w", err)
	}
	if count[0] == 0 {
		return Size{}, fmt.Errorf("server refused connection: %s", readReason(r))
	}
	offered := make([]byte, count[0])
	if _, err := io.ReadFull(r, offered); err != nil {
		return Size{}, fmt.Errorf("read security types: %w", err)
	}
	if !containsByte(offered, securityNone) {
		return Size{}, ErrUnsupportedSecurity
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, []byte{securityNone}); err != nil {
		return Size{}, fmt.Errorf("write security type: %w", err)
	}

	var result uint32
	if err := binary.Read(r, binary.BigEndian, &result); err != nil {
		return Size{}, fmt.Errorf("read security result: %w", err)
	}
	if result != securityResultOK {
		return Size{}, fmt.Errorf("security handshake failed: %s", readReason(r))
	}

	// ClientInit: shared session
	if err := conn.WriteMessage(websocket.BinaryMessage, []byte{1}); err != nil {
		return Size{}, fmt.Errorf("write client init: %w", err)
	}

	// ServerInit: width, height, 16-byte pixel format, name
	var head [4]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return Size{}, fmt.Errorf("read server init: %w", err)
	}
	return Size{
		Width:  int(binary.BigEndian.Uint16(head[0:2])),
		Height: int(binary.BigEndian.Uint16(head[2:4])),
	}, nil
}

func readReason(r io.Reader) string {
	var n uint32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil || n > 4096 {
		return "no reason given"
	}
	reason := make([]byte, n)
	if _, err := io.ReadFull(r, reason); err != nil {
		return "no reason given"
	}
	return string(reason)
}

func containsByte(b []byte, v byte) bool {
	for _, c := range b {
		if c == v {
			return true
		}
	}
	return false
}

// wsStream turns a message-framed websocket into a byte stream. The server
// may split or coalesce handshake fields across messages.
type wsStream struct {
	conn *websocket.Conn
	cur  io.Reader
}

func (s *wsStream) Read(p []byte) (int, error) {
	for {
		if s.cur == nil {
			kind, r, err := s.conn.NextReader()
			if err != nil {
				return 0, err
			}
			if kind != websocket.BinaryMessage && kind != websocket.TextMessage {
				continue
			}
			s.cur = r
		}
		n, err := s.cur.Read(p)
		if errors.Is(err, io.EOF) {
			s.cur = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}
