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
	"net"
	"testing"

	"github.com/loopthrift/loopthrift/internal/test"
)

// plainMechanism is a one-round-trip SASL mechanism used only for exercising
// SASLTransport's framing; it carries a fixed credential and never wraps
// message bytes (QOP "auth" only).
type plainMechanism struct {
	credential string
	complete   bool
}

func (m *plainMechanism) EvaluateChallenge(challenge []byte) ([]byte, error) {
	m.complete = true
	return []byte(m.credential), nil
}

func (m *plainMechanism) EvaluateResponse(response []byte) ([]byte, error) {
	m.complete = true
	return nil, nil
}

func (m *plainMechanism) IsComplete() bool { return m.complete }
func (m *plainMechanism) Wrap(p []byte) ([]byte, error) { return p, nil }
func (m *plainMechanism) Unwrap(p []byte) ([]byte, error) { return p, nil }

func TestSASLTransportNegotiateAndExchange(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	client := NewSASLClientTransport(NewSocketTransport(clientConn, nil), &plainMechanism{credential: "user:pass"})
	server := NewSASLServerTransport(NewSocketTransport(serverConn, nil), &plainMechanism{})

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- server.Negotiate()
	}()

	test.Assert(t, client.Negotiate() == nil)
	test.Assert(t, <-serverDone == nil)

	clientWriteDone := make(chan error, 1)
	go func() {
		_, err := client.Write([]byte("payload"))
		if err != nil {
			clientWriteDone <- err
			return
		}
		clientWriteDone <- client.Flush()
	}()

	// net.Pipe is synchronous: the client's Flush completes only once the
	// server has read the frame.
	got, err := server.ReadAll(len("payload"))
	test.Assert(t, err == nil, err)
	test.DeepEqual(t, string(got), "payload")
	test.Assert(t, <-clientWriteDone == nil)
}

func TestSASLTransportInvalidHeaderLength(t *testing.T) {
	wire := NewMemoryBuffer(16)
	header := []byte{SASL_STATUS_OK, 0xFF, 0xFF, 0xFF, 0xFF} // absurd length
	_, _ = wire.Write(header)

	s := NewSASLServerTransport(wire, &plainMechanism{})
	_, _, err := s.readFrame()
	test.Assert(t, err != nil, "expected invalid header length rejection")
	pe, ok := err.(*TProtocolException)
	test.Assert(t, ok, "expected *TProtocolException, got %T", err)
	test.DeepEqual(t, pe.code, PROTOCOL_EXCEPTION_SIZE_LIMIT)
}

// TestSASLTransportInvalidHeaderStatus checks that an unrecognized status
// byte is rejected directly from the header, before any attempt to read a
// payload using the header's declared length. The wire here carries only
// the 5-byte header and nothing else, so a readFrame that tried to consume
// a payload first would fail on the read instead of on the status check.
func TestSASLTransportInvalidHeaderStatus(t *testing.T) {
	wire := NewMemoryBuffer(16)
	header := []byte{0xFF, 0x00, 0x00, 0x00, 0x05} // unknown status, no payload on the wire
	_, _ = wire.Write(header)

	s := NewSASLServerTransport(wire, &plainMechanism{})
	_, _, err := s.readFrame()
	test.Assert(t, err != nil, "expected invalid status rejection")
	te, ok := err.(*TTransportException)
	test.Assert(t, ok, "expected *TTransportException, got %T", err)
	test.DeepEqual(t, te.Error(), "Invalid status -1")
}
