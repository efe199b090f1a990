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
	"bytes"
	"encoding/binary"
	"fmt"
)

// SASL negotiation frame statuses, matching the status byte a SASL
// client/server transport pair exchanges during negotiation.
const (
	SASL_STATUS_START    byte = 1
	SASL_STATUS_OK       byte = 2
	SASL_STATUS_BAD      byte = 3
	SASL_STATUS_ERROR    byte = 4
	SASL_STATUS_COMPLETE byte = 5
)

const saslHeaderSize = 5 // 1 status byte + 4 byte big-endian length

// saslMaxPayload guards against a corrupt or hostile header claiming an
// implausible payload length before any allocation happens.
const saslMaxPayload = 128 * 1024 * 1024

// SASLMechanism performs one challenge/response exchange of a SASL
// mechanism. The wire framing and status handling live in SASLTransport;
// a SASLMechanism only ever sees and returns raw payload bytes.
type SASLMechanism interface {
	// EvaluateChallenge is used on the client side: given the server's
	// challenge bytes, return the client's response.
	EvaluateChallenge(challenge []byte) ([]byte, error)
	// EvaluateResponse is used on the server side: given the client's
	// response bytes, return the server's next challenge (or final token).
	EvaluateResponse(response []byte) ([]byte, error)
	// IsComplete reports whether the mechanism has finished negotiating.
	IsComplete() bool
	// Wrap/Unwrap implement the QOP (auth-int/auth-conf) integrity/
	// confidentiality layer once negotiation completes. A mechanism that
	// only supports plain "auth" QOP can return its argument unchanged.
	Wrap(data []byte) ([]byte, error)
	Unwrap(data []byte) ([]byte, error)
}

// SASLTransport wraps another Transport, running a SASL negotiation
// handshake over it before ordinary reads/writes are allowed, and applying
// the mechanism's Wrap/Unwrap to every message afterward. Frames are a
// status byte followed by a 4-byte big-endian length and payload; a header
// claiming a negative or implausibly large length is rejected before any
// payload allocation.
type SASLTransport struct {
	transport Transport
	mechanism SASLMechanism
	isServer  bool

	negotiated bool
	readBuf    bytes.Buffer
	writeBuf   bytes.Buffer
}

var _ Transport = (*SASLTransport)(nil)

// NewSASLClientTransport wraps transport for the client side of a SASL
// negotiation using mechanism.
func NewSASLClientTransport(transport Transport, mechanism SASLMechanism) *SASLTransport {
	return &SASLTransport{transport: transport, mechanism: mechanism, isServer: false}
}

// NewSASLServerTransport wraps transport for the server side of a SASL
// negotiation using mechanism.
func NewSASLServerTransport(transport Transport, mechanism SASLMechanism) *SASLTransport {
	return &SASLTransport{transport: transport, mechanism: mechanism, isServer: true}
}

func (s *SASLTransport) IsOpen() bool { return s.transport.IsOpen() }
func (s *SASLTransport) Open() error  { return s.transport.Open() }

func (s *SASLTransport) Close() error {
	s.negotiated = false
	s.readBuf.Reset()
	s.writeBuf.Reset()
	return s.transport.Close()
}

// Negotiate drives the handshake to completion, sending/receiving SASL
// frames until the mechanism reports IsComplete.
func (s *SASLTransport) Negotiate() error {
	if s.negotiated {
		return nil
	}
	if s.isServer {
		return s.negotiateServer()
	}
	return s.negotiateClient()
}

func (s *SASLTransport) negotiateClient() error {
	status := SASL_STATUS_START
	response, err := s.mechanism.EvaluateChallenge(nil)
	if err != nil {
		return NewTTransportException(TRANSPORT_EXCEPTION_UNKNOWN, "sasl: initial response failed: "+err.Error())
	}
	for {
		if err := s.writeFrame(status, response); err != nil {
			return err
		}
		if err := s.transport.Flush(); err != nil {
			return err
		}
		// The server replies to every client frame, including the one that
		// completes the exchange on this side, so a matching read is always
		// due here regardless of what IsComplete already reports locally.
		gotStatus, challenge, err := s.readFrame()
		if err != nil {
			return err
		}
		switch gotStatus {
		case SASL_STATUS_COMPLETE:
			s.negotiated = true
			return nil
		case SASL_STATUS_OK:
			// continue negotiating
		case SASL_STATUS_BAD, SASL_STATUS_ERROR:
			return NewTTransportException(TRANSPORT_EXCEPTION_UNKNOWN, fmt.Sprintf("sasl: peer rejected negotiation with status %d", gotStatus))
		default:
			return NewTTransportException(TRANSPORT_EXCEPTION_UNKNOWN, fmt.Sprintf("Invalid status %d", int8(gotStatus)))
		}
		if s.mechanism.IsComplete() {
			s.negotiated = true
			return nil
		}
		response, err = s.mechanism.EvaluateChallenge(challenge)
		if err != nil {
			return NewTTransportException(TRANSPORT_EXCEPTION_UNKNOWN, "sasl: challenge evaluation failed: "+err.Error())
		}
		status = SASL_STATUS_OK
	}
}

func (s *SASLTransport) negotiateServer() error {
	for {
		status, payload, err := s.readFrame()
		if err != nil {
			return err
		}
		switch status {
		case SASL_STATUS_START, SASL_STATUS_OK:
			// proceed
		default:
			return NewTTransportException(TRANSPORT_EXCEPTION_UNKNOWN, fmt.Sprintf("Invalid status %d", int8(status)))
		}
		reply, err := s.mechanism.EvaluateResponse(payload)
		if err != nil {
			_ = s.writeFrame(SASL_STATUS_ERROR, []byte(err.Error()))
			_ = s.transport.Flush()
			return NewTTransportException(TRANSPORT_EXCEPTION_UNKNOWN, "sasl: response evaluation failed: "+err.Error())
		}
		if s.mechanism.IsComplete() {
			if err := s.writeFrame(SASL_STATUS_COMPLETE, reply); err != nil {
				return err
			}
			s.negotiated = true
			return s.transport.Flush()
		}
		if err := s.writeFrame(SASL_STATUS_OK, reply); err != nil {
			return err
		}
		if err := s.transport.Flush(); err != nil {
			return err
		}
	}
}

// readFrame reads one status+length+payload frame from the underlying
// transport, validating the header the way TestTSaslTransports.java's
// testBadHeader expects: an unrecognized status byte, or a negative or
// implausibly large length, is rejected right from the header, before any
// payload read is attempted.
func (s *SASLTransport) readFrame() (byte, []byte, error) {
	header, err := s.transport.ReadAll(saslHeaderSize)
	if err != nil {
		return 0, nil, err
	}
	status := header[0]
	if !isKnownSASLStatus(status) {
		return 0, nil, NewTTransportException(TRANSPORT_EXCEPTION_UNKNOWN, fmt.Sprintf("Invalid status %d", int8(status)))
	}
	length := int32(binary.BigEndian.Uint32(header[1:]))
	if length < 0 || int64(length) > saslMaxPayload {
		return 0, nil, NewTProtocolExceptionWithType(PROTOCOL_EXCEPTION_SIZE_LIMIT, fmt.Sprintf("Invalid payload header length: %d", length))
	}
	if length == 0 {
		return status, nil, nil
	}
	payload, err := s.transport.ReadAll(int(length))
	if err != nil {
		return 0, nil, err
	}
	return status, payload, nil
}

func isKnownSASLStatus(status byte) bool {
	switch status {
	case SASL_STATUS_START, SASL_STATUS_OK, SASL_STATUS_BAD, SASL_STATUS_ERROR, SASL_STATUS_COMPLETE:
		return true
	default:
		return false
	}
}

func (s *SASLTransport) writeFrame(status byte, payload []byte) error {
	header := make([]byte, saslHeaderSize)
	header[0] = status
	binary.BigEndian.PutUint32(header[1:], uint32(len(payload)))
	if _, err := s.transport.Write(header); err != nil {
		return err
	}
	if len(payload) > 0 {
		if _, err := s.transport.Write(payload); err != nil {
			return err
		}
	}
	return nil
}

// Read serves bytes from the current unwrapped message, pulling and
// unwrapping a fresh SASL frame from the underlying transport when needed.
func (s *SASLTransport) Read(p []byte) (int, error) {
	if err := s.Negotiate(); err != nil {
		return 0, err
	}
	if s.readBuf.Len() == 0 {
		if err := s.fillReadBuf(); err != nil {
			return 0, err
		}
	}
	return s.readBuf.Read(p)
}

func (s *SASLTransport) fillReadBuf() error {
	_, payload, err := s.readFrame()
	if err != nil {
		return err
	}
	unwrapped, err := s.mechanism.Unwrap(payload)
	if err != nil {
		return NewTProtocolExceptionWithType(PROTOCOL_EXCEPTION_INVALID_DATA, "sasl: unwrap failed: "+err.Error())
	}
	s.readBuf.Reset()
	s.readBuf.Write(unwrapped)
	return nil
}

func (s *SASLTransport) ReadAll(n int) ([]byte, error) {
	out := make([]byte, 0, n)
	for len(out) < n {
		if s.readBuf.Len() == 0 {
			if err := s.Negotiate(); err != nil {
				return out, err
			}
			if err := s.fillReadBuf(); err != nil {
				return out, err
			}
		}
		need := n - len(out)
		chunk := make([]byte, need)
		k, _ := s.readBuf.Read(chunk)
		out = append(out, chunk[:k]...)
	}
	return out, nil
}

// Write buffers p; nothing is wrapped or sent until Flush.
func (s *SASLTransport) Write(p []byte) (int, error) {
	return s.writeBuf.Write(p)
}

// Flush negotiates if necessary, wraps the pending write buffer as one
// QOP-protected message, and sends it as a single SASL frame.
func (s *SASLTransport) Flush() error {
	if err := s.Negotiate(); err != nil {
		return err
	}
	if s.writeBuf.Len() == 0 {
		return nil
	}
	wrapped, err := s.mechanism.Wrap(s.writeBuf.Bytes())
	if err != nil {
		return NewTProtocolExceptionWithType(PROTOCOL_EXCEPTION_INVALID_DATA, "sasl: wrap failed: "+err.Error())
	}
	s.writeBuf.Reset()
	if err := s.writeFrame(SASL_STATUS_COMPLETE, wrapped); err != nil {
		return err
	}
	return s.transport.Flush()
}

func (s *SASLTransport) RemainingBytes() uint64 {
	return uint64(s.readBuf.Len())
}
