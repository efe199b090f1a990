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
)

const frameHeaderSize = 4

// FramedTransport wraps another Transport to add a 4-byte big-endian
// length prefix per logical message. A single complete message is
// produced by one Flush; a reader never observes a partial frame.
type FramedTransport struct {
	transport Transport
	cfg       *TransportConfig

	writeBuf bytes.Buffer
	readBuf  bytes.Buffer
}

var _ Transport = (*FramedTransport)(nil)

// NewFramedTransport wraps transport, using cfg (or DefaultTransportConfig
// if nil) for the frame-size ceiling.
func NewFramedTransport(transport Transport, cfg *TransportConfig) *FramedTransport {
	if cfg == nil {
		cfg = DefaultTransportConfig()
	}
	return &FramedTransport{transport: transport, cfg: cfg}
}

func (f *FramedTransport) IsOpen() bool { return f.transport.IsOpen() }
func (f *FramedTransport) Open() error  { return f.transport.Open() }

func (f *FramedTransport) Close() error {
	f.writeBuf.Reset()
	f.readBuf.Reset()
	return f.transport.Close()
}

// Read serves bytes from the current frame's buffer, pulling a fresh frame
// from the underlying transport when the buffer is empty. Reads larger
// than the buffered frame return the whole buffer and clear it.
func (f *FramedTransport) Read(p []byte) (int, error) {
	if f.readBuf.Len() == 0 {
		if err := f.readFrame(); err != nil {
			return 0, err
		}
	}
	return f.readBuf.Read(p)
}

// ReadAll always returns exactly n bytes, pulling as many additional
// frames as necessary.
func (f *FramedTransport) ReadAll(n int) ([]byte, error) {
	out := make([]byte, 0, n)
	for len(out) < n {
		if f.readBuf.Len() == 0 {
			if err := f.readFrame(); err != nil {
				return out, err
			}
		}
		need := n - len(out)
		chunk := make([]byte, need)
		k, _ := f.readBuf.Read(chunk)
		out = append(out, chunk[:k]...)
	}
	return out, nil
}

func (f *FramedTransport) readFrame() error {
	header, err := f.transport.ReadAll(frameHeaderSize)
	if err != nil {
		return err
	}
	size := int64(binary.BigEndian.Uint32(header))
	if size < 0 {
		return NewTTransportException(TRANSPORT_EXCEPTION_NEGATIVE_SIZE, "negative frame size")
	}
	if size > f.cfg.maxFrameSize() {
		return NewTTransportException(TRANSPORT_EXCEPTION_SIZE_LIMIT, "frame size exceeds configured limit")
	}
	if size == 0 {
		f.readBuf.Reset()
		return nil
	}
	payload, err := f.transport.ReadAll(int(size))
	if err != nil {
		return err
	}
	f.readBuf.Reset()
	f.readBuf.Write(payload)
	return nil
}

// PutBack prepends data to the current read buffer, so a caller that
// over-read (e.g. probing for a version tag) can hand bytes back.
func (f *FramedTransport) PutBack(data []byte) {
	remaining := f.readBuf.Bytes()
	merged := make([]byte, 0, len(data)+len(remaining))
	merged = append(merged, data...)
	merged = append(merged, remaining...)
	f.readBuf.Reset()
	f.readBuf.Write(merged)
}

// Write appends to the pending write buffer; nothing reaches the
// underlying transport until Flush.
func (f *FramedTransport) Write(p []byte) (int, error) {
	if int64(f.writeBuf.Len()+len(p)) > f.cfg.maxFrameSize() {
		return 0, NewTTransportException(TRANSPORT_EXCEPTION_SIZE_LIMIT, "frame size exceeds configured limit")
	}
	return f.writeBuf.Write(p)
}

// Flush emits the 4-byte length prefix followed by the buffered payload as
// a single frame. The write buffer is cleared before the underlying write
// runs, so a write that fails partway leaves this transport ready to
// accept the next message rather than corrupting it with leftover bytes.
func (f *FramedTransport) Flush() error {
	size := f.writeBuf.Len()
	payload := f.writeBuf.Bytes()
	buf := make([]byte, frameHeaderSize+size)
	binary.BigEndian.PutUint32(buf[:frameHeaderSize], uint32(size))
	copy(buf[frameHeaderSize:], payload)
	f.writeBuf.Reset()
	if _, err := f.transport.Write(buf); err != nil {
		return err
	}
	return f.transport.Flush()
}

func (f *FramedTransport) RemainingBytes() uint64 {
	return uint64(f.readBuf.Len())
}
