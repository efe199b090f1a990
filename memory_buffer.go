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

import "bytes"

// MemoryBuffer is a finite in-memory Transport: reads never block, writes
// always succeed (subject to Go's own allocator), and Reset clears both
// the buffered bytes and the read cursor.
type MemoryBuffer struct {
	buf *bytes.Buffer
}

var _ Transport = (*MemoryBuffer)(nil)

// NewMemoryBuffer returns an empty MemoryBuffer with size as its initial
// capacity hint.
func NewMemoryBuffer(size int) *MemoryBuffer {
	return &MemoryBuffer{buf: bytes.NewBuffer(make([]byte, 0, size))}
}

// NewMemoryBufferFromBytes returns a MemoryBuffer whose readable contents
// are exactly p (p is not copied).
func NewMemoryBufferFromBytes(p []byte) *MemoryBuffer {
	return &MemoryBuffer{buf: bytes.NewBuffer(p)}
}

func (m *MemoryBuffer) IsOpen() bool { return true }
func (m *MemoryBuffer) Open() error  { return nil }

func (m *MemoryBuffer) Close() error {
	m.buf.Reset()
	return nil
}

func (m *MemoryBuffer) Read(p []byte) (int, error) {
	return m.buf.Read(p)
}

func (m *MemoryBuffer) ReadAll(n int) ([]byte, error) {
	out := make([]byte, n)
	read := 0
	for read < n {
		k, err := m.buf.Read(out[read:])
		read += k
		if err != nil {
			return out[:read], WrapTTransportException(TRANSPORT_EXCEPTION_END_OF_FILE, "memory buffer underrun", err)
		}
		if k == 0 {
			return out[:read], NewTTransportException(TRANSPORT_EXCEPTION_END_OF_FILE, "memory buffer underrun")
		}
	}
	return out, nil
}

func (m *MemoryBuffer) Write(p []byte) (int, error) {
	return m.buf.Write(p)
}

func (m *MemoryBuffer) Flush() error { return nil }

func (m *MemoryBuffer) RemainingBytes() uint64 {
	return uint64(m.buf.Len())
}

// Reset clears the buffer's contents and read cursor, so the same
// MemoryBuffer instance can be reused for a fresh message.
func (m *MemoryBuffer) Reset() {
	m.buf.Reset()
}

// Bytes returns the buffer's unread contents without consuming them.
func (m *MemoryBuffer) Bytes() []byte {
	return m.buf.Bytes()
}
