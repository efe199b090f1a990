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

import "time"

// Transport is a duplex byte stream: open/close lifecycle plus read/write/
// flush. read may return fewer than the requested bytes; ReadAll never
// does.
type Transport interface {
	IsOpen() bool
	Open() error
	Close() error

	// Read reads up to len(p) bytes into p, returning the number read.
	// It may return fewer bytes than requested without error.
	Read(p []byte) (n int, err error)

	// ReadAll reads exactly n bytes or returns an error; short reads from
	// the underlying stream are retried internally.
	ReadAll(n int) ([]byte, error)

	Write(p []byte) (n int, err error)
	Flush() error

	// RemainingBytes reports how many bytes remain in the current logical
	// message, per the transport's configured size accounting. Transports
	// that cannot know this return ^uint64(0).
	RemainingBytes() uint64
}

// ServerTransport accepts client Transports, splitting the listening side
// of a connection from the per-client Transport it produces.
type ServerTransport interface {
	Listen() error
	Accept() (Transport, error)
	Close() error

	// Interrupt breaks a blocked Listen/Accept. Safe to call from a
	// different goroutine than the one blocked in Accept.
	Interrupt() error
}

// TransportFactory wraps a base Transport, typically to layer buffering or
// framing on top of a raw socket. Used by servers to build the per
// direction input/output transport from one accepted connection.
type TransportFactory interface {
	GetTransport(base Transport) (Transport, error)
}

// TransportFactoryFunc adapts a function to a TransportFactory.
type TransportFactoryFunc func(base Transport) (Transport, error)

// GetTransport implements TransportFactory.
func (f TransportFactoryFunc) GetTransport(base Transport) (Transport, error) {
	return f(base)
}

// NopTransportFactory returns a TransportFactory that hands back the base
// transport unmodified.
func NopTransportFactory() TransportFactory {
	return TransportFactoryFunc(func(base Transport) (Transport, error) { return base, nil })
}

// TransportConfig carries the size and timeout limits every layered
// transport in this package consults. It plays the role of Apache Thrift's
// TConfiguration.
type TransportConfig struct {
	// MaxMessageSize bounds the cumulative element count that container
	// headers declare within one logical message; a list/set/map header
	// that would exceed the remaining budget fails immediately, before any
	// element is read. Bytes read are not counted against it.
	MaxMessageSize int64
	// MaxFrameSize additionally bounds a single framed-transport frame.
	// Zero means "use MaxMessageSize".
	MaxFrameSize int64
	// ReadTimeout and WriteTimeout bound blocking I/O on transports that
	// sit on top of a net.Conn (see SocketTransport). Zero means no
	// deadline.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

const defaultMaxMessageSize int64 = 100 * 1024 * 1024

// DefaultTransportConfig returns a TransportConfig with a conservative
// 100MiB message size ceiling and no timeouts: a safe non-zero default
// rather than "unbounded."
func DefaultTransportConfig() *TransportConfig {
	return &TransportConfig{MaxMessageSize: defaultMaxMessageSize}
}

func (c *TransportConfig) maxMessageSize() int64 {
	if c == nil || c.MaxMessageSize <= 0 {
		return defaultMaxMessageSize
	}
	return c.MaxMessageSize
}

func (c *TransportConfig) maxFrameSize() int64 {
	if c == nil {
		return defaultMaxMessageSize
	}
	if c.MaxFrameSize > 0 {
		return c.MaxFrameSize
	}
	return c.maxMessageSize()
}

// TransportConfigOption mutates a TransportConfig; used by constructors
// that take functional options.
type TransportConfigOption func(*TransportConfig)

// WithMaxMessageSize sets the message size ceiling.
func WithMaxMessageSize(n int64) TransportConfigOption {
	return func(c *TransportConfig) { c.MaxMessageSize = n }
}

// WithMaxFrameSize sets the per-frame size ceiling used by FramedTransport.
func WithMaxFrameSize(n int64) TransportConfigOption {
	return func(c *TransportConfig) { c.MaxFrameSize = n }
}

// WithReadTimeout sets the blocking-read deadline used by SocketTransport.
func WithReadTimeout(d time.Duration) TransportConfigOption {
	return func(c *TransportConfig) { c.ReadTimeout = d }
}

// WithWriteTimeout sets the blocking-write deadline used by
// SocketTransport.
func WithWriteTimeout(d time.Duration) TransportConfigOption {
	return func(c *TransportConfig) { c.WriteTimeout = d }
}

// NewTransportConfig builds a TransportConfig from DefaultTransportConfig
// plus the given options.
func NewTransportConfig(opts ...TransportConfigOption) *TransportConfig {
	c := DefaultTransportConfig()
	for _, opt := range opts {
		opt(c)
	}
	return c
}
