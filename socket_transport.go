/*
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package thrift

import (
	"crypto/tls"
	"net"
	"time"
)

// SocketTransport wraps a net.Conn as an opaque byte-stream Transport.
// SSL/TLS handshake details are treated as opaque: SocketTransport never
// inspects the TLS record layer itself, it only ever hands the *tls.Conn
// to net.Conn's plain Read/Write, exactly as it would a raw TCP socket.
// A plain-socket and TLS-socket transport collapse into one type since
// Go's crypto/tls.Conn already satisfies net.Conn.
type SocketTransport struct {
	conn net.Conn
	cfg  *TransportConfig
	open bool
}

var _ Transport = (*SocketTransport)(nil)

// NewSocketTransport adapts an already-connected net.Conn (plain or TLS).
func NewSocketTransport(conn net.Conn, cfg *TransportConfig) *SocketTransport {
	if cfg == nil {
		cfg = DefaultTransportConfig()
	}
	return &SocketTransport{conn: conn, cfg: cfg, open: true}
}

// DialSocket connects to addr over network ("tcp", "unix", ...). If
// tlsConfig is non-nil the connection is upgraded with tls.Dial and the
// handshake is left entirely to crypto/tls.
func DialSocket(network, addr string, tlsConfig *tls.Config, cfg *TransportConfig) (*SocketTransport, error) {
	var (
		conn net.Conn
		err  error
	)
	if tlsConfig != nil {
		conn, err = tls.Dial(network, addr, tlsConfig)
	} else {
		conn, err = net.Dial(network, addr)
	}
	if err != nil {
		return nil, WrapTTransportException(TRANSPORT_EXCEPTION_NOT_OPEN, "dial failed", err)
	}
	return NewSocketTransport(conn, cfg), nil
}

func (s *SocketTransport) IsOpen() bool { return s.open }

func (s *SocketTransport) Open() error {
	s.open = true
	return nil
}

func (s *SocketTransport) Close() error {
	s.open = false
	return s.conn.Close()
}

func (s *SocketTransport) applyReadDeadline() error {
	if s.cfg.ReadTimeout <= 0 {
		return nil
	}
	return s.conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
}

func (s *SocketTransport) applyWriteDeadline() error {
	if s.cfg.WriteTimeout <= 0 {
		return nil
	}
	return s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
}

func (s *SocketTransport) Read(p []byte) (int, error) {
	if !s.open {
		return 0, NewTTransportException(TRANSPORT_EXCEPTION_NOT_OPEN, "socket not open")
	}
	if err := s.applyReadDeadline(); err != nil {
		return 0, WrapTTransportException(TRANSPORT_EXCEPTION_UNKNOWN, "set read deadline failed", err)
	}
	n, err := s.conn.Read(p)
	if err != nil {
		return n, s.classifyReadErr(err)
	}
	return n, nil
}

func (s *SocketTransport) ReadAll(n int) ([]byte, error) {
	out := make([]byte, n)
	read := 0
	for read < n {
		k, err := s.Read(out[read:])
		read += k
		if err != nil {
			return out[:read], err
		}
		if k == 0 {
			return out[:read], NewTTransportException(TRANSPORT_EXCEPTION_END_OF_FILE, "unexpected end of stream")
		}
	}
	return out, nil
}

func (s *SocketTransport) classifyReadErr(err error) error {
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return WrapTTransportException(TRANSPORT_EXCEPTION_TIMED_OUT, "read timed out", err)
	}
	return WrapTTransportException(TRANSPORT_EXCEPTION_END_OF_FILE, "read failed", err)
}

func (s *SocketTransport) Write(p []byte) (int, error) {
	if !s.open {
		return 0, NewTTransportException(TRANSPORT_EXCEPTION_NOT_OPEN, "socket not open")
	}
	if err := s.applyWriteDeadline(); err != nil {
		return 0, WrapTTransportException(TRANSPORT_EXCEPTION_UNKNOWN, "set write deadline failed", err)
	}
	n, err := s.conn.Write(p)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return n, WrapTTransportException(TRANSPORT_EXCEPTION_TIMED_OUT, "write timed out", err)
		}
		return n, WrapTTransportException(TRANSPORT_EXCEPTION_UNKNOWN, "write failed", err)
	}
	return n, nil
}

func (s *SocketTransport) Flush() error { return nil }

func (s *SocketTransport) RemainingBytes() uint64 {
	return ^uint64(0)
}

// Conn exposes the underlying net.Conn, e.g. so a ForkingServer can pull a
// duplicable *os.File out of a *net.TCPConn.
func (s *SocketTransport) Conn() net.Conn { return s.conn }

// SocketServerTransport implements ServerTransport over a net.Listener.
type SocketServerTransport struct {
	network   string
	addr      string
	tlsConfig *tls.Config
	cfg       *TransportConfig
	listener  net.Listener
}

var _ ServerTransport = (*SocketServerTransport)(nil)

// NewSocketServerTransport prepares a listener on network/addr. If
// tlsConfig is non-nil, accepted connections are TLS servers.
func NewSocketServerTransport(network, addr string, tlsConfig *tls.Config, cfg *TransportConfig) *SocketServerTransport {
	if cfg == nil {
		cfg = DefaultTransportConfig()
	}
	return &SocketServerTransport{network: network, addr: addr, tlsConfig: tlsConfig, cfg: cfg}
}

func (s *SocketServerTransport) Listen() error {
	var (
		ln  net.Listener
		err error
	)
	if s.tlsConfig != nil {
		ln, err = tls.Listen(s.network, s.addr, s.tlsConfig)
	} else {
		ln, err = net.Listen(s.network, s.addr)
	}
	if err != nil {
		return WrapTTransportException(TRANSPORT_EXCEPTION_NOT_OPEN, "listen failed", err)
	}
	s.listener = ln
	return nil
}

func (s *SocketServerTransport) Accept() (Transport, error) {
	if s.listener == nil {
		return nil, NewTTransportException(TRANSPORT_EXCEPTION_NOT_OPEN, "server transport not listening")
	}
	conn, err := s.listener.Accept()
	if err != nil {
		return nil, WrapTTransportException(TRANSPORT_EXCEPTION_UNKNOWN, "accept failed", err)
	}
	return NewSocketTransport(conn, s.cfg), nil
}

func (s *SocketServerTransport) Close() error {
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

// Interrupt closes the listener, unblocking any pending Accept.
func (s *SocketServerTransport) Interrupt() error {
	return s.Close()
}

// Listener exposes the underlying net.Listener once Listen has run, e.g.
// to read back the OS-assigned address after binding to port 0.
func (s *SocketServerTransport) Listener() net.Listener { return s.listener }
