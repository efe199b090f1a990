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
	"github.com/cloudwego/gopkg/bufiox"
)

// BufferedTransport wraps another Transport to coalesce small writes and
// serve reads out of a local buffer, cutting down on syscalls against the
// underlying stream. Buffering itself is delegated to cloudwego/gopkg's
// bufiox.
type BufferedTransport struct {
	transport Transport
	reader    bufiox.Reader
	writer    bufiox.Writer
}

var _ Transport = (*BufferedTransport)(nil)

// NewBufferedTransport wraps transport with bufiox-backed read/write
// buffering.
func NewBufferedTransport(transport Transport) *BufferedTransport {
	return &BufferedTransport{
		transport: transport,
		reader:    bufiox.NewDefaultReader(transport),
		writer:    bufiox.NewDefaultWriter(transport),
	}
}

func (b *BufferedTransport) IsOpen() bool { return b.transport.IsOpen() }
func (b *BufferedTransport) Open() error  { return b.transport.Open() }

func (b *BufferedTransport) Close() error {
	_ = b.reader.Release(nil)
	return b.transport.Close()
}

// Read tops the buffer up from the underlying transport when necessary and
// fills p completely.
func (b *BufferedTransport) Read(p []byte) (int, error) {
	n, err := b.reader.ReadBinary(p)
	if err != nil {
		return n, WrapTTransportException(TRANSPORT_EXCEPTION_UNKNOWN, "buffered read failed", err)
	}
	return n, nil
}

// ReadAll reads exactly n bytes, failing with END_OF_FILE on a short read.
func (b *BufferedTransport) ReadAll(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	out := make([]byte, n)
	if _, err := b.reader.ReadBinary(out); err != nil {
		return nil, WrapTTransportException(TRANSPORT_EXCEPTION_END_OF_FILE, "short read from buffered transport", err)
	}
	return out, nil
}

// Write buffers p; nothing reaches the underlying transport until the
// write buffer fills or Flush runs.
func (b *BufferedTransport) Write(p []byte) (int, error) {
	return b.writer.WriteBinary(p)
}

// Flush drains the write buffer to the underlying transport, then flushes
// that transport too.
func (b *BufferedTransport) Flush() error {
	if err := b.writer.Flush(); err != nil {
		return WrapTTransportException(TRANSPORT_EXCEPTION_UNKNOWN, "buffered flush failed", err)
	}
	return b.transport.Flush()
}

func (b *BufferedTransport) RemainingBytes() uint64 {
	return b.transport.RemainingBytes()
}
