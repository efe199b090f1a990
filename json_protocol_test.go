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
	"math"
	"testing"

	"github.com/loopthrift/loopthrift/internal/test"
)

func newJSONPair() (*JSONProtocol, *MemoryBuffer) {
	buf := NewMemoryBuffer(256)
	return NewJSONProtocol(buf, nil), buf
}

// TestJSONProtocolMessageRoundTrip exercises the whole envelope plus a
// two-field struct body, checking that every write is read back unchanged
// and that both context stacks are empty at the message boundary.
func TestJSONProtocolMessageRoundTrip(t *testing.T) {
	p, _ := newJSONPair()

	test.Assert(t, p.WriteMessageBegin("Ping", CALL, 42) == nil)
	test.Assert(t, p.WriteStructBegin("PingArgs") == nil)

	test.Assert(t, p.WriteFieldBegin("seq", I32, 1) == nil)
	test.Assert(t, p.WriteI32(7) == nil)
	test.Assert(t, p.WriteFieldEnd() == nil)

	test.Assert(t, p.WriteFieldBegin("label", STRING, 2) == nil)
	test.Assert(t, p.WriteString("hello \"world\"") == nil)
	test.Assert(t, p.WriteFieldEnd() == nil)

	test.Assert(t, p.WriteFieldStop() == nil)
	test.Assert(t, p.WriteStructEnd() == nil)
	test.Assert(t, p.WriteMessageEnd() == nil)
	test.DeepEqual(t, p.writeCtx.depth(), 0)

	name, msgType, seqID, err := p.ReadMessageBegin()
	test.Assert(t, err == nil, err)
	test.DeepEqual(t, name, "Ping")
	test.DeepEqual(t, msgType, CALL)
	test.DeepEqual(t, seqID, int32(42))

	_, err = p.ReadStructBegin()
	test.Assert(t, err == nil, err)

	_, fieldType, id, err := p.ReadFieldBegin()
	test.Assert(t, err == nil, err)
	test.DeepEqual(t, fieldType, I32)
	test.DeepEqual(t, id, int16(1))
	v, err := p.ReadI32()
	test.Assert(t, err == nil, err)
	test.DeepEqual(t, v, int32(7))
	test.Assert(t, p.ReadFieldEnd() == nil)

	_, fieldType, id, err = p.ReadFieldBegin()
	test.Assert(t, err == nil, err)
	test.DeepEqual(t, fieldType, STRING)
	test.DeepEqual(t, id, int16(2))
	s, err := p.ReadString()
	test.Assert(t, err == nil, err)
	test.DeepEqual(t, s, "hello \"world\"")
	test.Assert(t, p.ReadFieldEnd() == nil)

	_, fieldType, _, err = p.ReadFieldBegin()
	test.Assert(t, err == nil, err)
	test.DeepEqual(t, fieldType, STOP)

	test.Assert(t, p.ReadStructEnd() == nil)
	test.Assert(t, p.ReadMessageEnd() == nil)
	test.DeepEqual(t, p.readCtx.depth(), 0)
}

// TestJSONProtocolFieldIDBoundaries checks encoding survives round-trip for
// field ids at the edges of int16's range and near common size thresholds.
func TestJSONProtocolFieldIDBoundaries(t *testing.T) {
	for _, id := range []int16{0, 1, 13, 127, 32767, -32768} {
		p, _ := newJSONPair()
		test.Assert(t, p.WriteStructBegin("S") == nil)
		test.Assert(t, p.WriteFieldBegin("f", BOOL, id) == nil)
		test.Assert(t, p.WriteBool(true) == nil)
		test.Assert(t, p.WriteFieldEnd() == nil)
		test.Assert(t, p.WriteFieldStop() == nil)
		test.Assert(t, p.WriteStructEnd() == nil)

		test.Assert(t, func() bool { _, e := p.ReadStructBegin(); return e == nil }())
		_, fieldType, gotID, err := p.ReadFieldBegin()
		test.Assert(t, err == nil, err)
		test.DeepEqual(t, fieldType, BOOL)
		test.DeepEqual(t, gotID, id)
	}
}

func TestJSONProtocolListRoundTrip(t *testing.T) {
	p, _ := newJSONPair()
	test.Assert(t, p.WriteListBegin(I32, 3) == nil)
	for _, v := range []int32{1, 2, 3} {
		test.Assert(t, p.WriteI32(v) == nil)
	}
	test.Assert(t, p.WriteListEnd() == nil)

	elemType, size, err := p.ReadListBegin()
	test.Assert(t, err == nil, err)
	test.DeepEqual(t, elemType, I32)
	test.DeepEqual(t, size, 3)
	for i := 0; i < size; i++ {
		v, err := p.ReadI32()
		test.Assert(t, err == nil, err)
		test.DeepEqual(t, v, int32(i+1))
	}
	test.Assert(t, p.ReadListEnd() == nil)
}

func TestJSONProtocolEmptyListRoundTrip(t *testing.T) {
	p, _ := newJSONPair()
	test.Assert(t, p.WriteListBegin(STRING, 0) == nil)
	test.Assert(t, p.WriteListEnd() == nil)

	elemType, size, err := p.ReadListBegin()
	test.Assert(t, err == nil, err)
	test.DeepEqual(t, elemType, STRING)
	test.DeepEqual(t, size, 0)
	test.Assert(t, p.ReadListEnd() == nil)
}

func TestJSONProtocolMapRoundTrip(t *testing.T) {
	p, _ := newJSONPair()
	test.Assert(t, p.WriteMapBegin(STRING, I32, 2) == nil)
	test.Assert(t, p.WriteString("a") == nil)
	test.Assert(t, p.WriteI32(1) == nil)
	test.Assert(t, p.WriteString("b") == nil)
	test.Assert(t, p.WriteI32(2) == nil)
	test.Assert(t, p.WriteMapEnd() == nil)

	keyType, valType, size, err := p.ReadMapBegin()
	test.Assert(t, err == nil, err)
	test.DeepEqual(t, keyType, STRING)
	test.DeepEqual(t, valType, I32)
	test.DeepEqual(t, size, 2)

	k1, _ := p.ReadString()
	v1, _ := p.ReadI32()
	k2, _ := p.ReadString()
	v2, _ := p.ReadI32()
	test.DeepEqual(t, k1, "a")
	test.DeepEqual(t, v1, int32(1))
	test.DeepEqual(t, k2, "b")
	test.DeepEqual(t, v2, int32(2))
	test.Assert(t, p.ReadMapEnd() == nil)
}

// TestJSONProtocolDoubleSpecials checks NaN/+Inf/-Inf round-trip through
// their quoted sentinel form and that ordinary finite doubles stay bare.
func TestJSONProtocolDoubleSpecials(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), 3.5, -0.0, 0} {
		p, _ := newJSONPair()
		test.Assert(t, p.WriteDouble(v) == nil)
		got, err := p.ReadDouble()
		test.Assert(t, err == nil, err)
		if math.IsNaN(v) {
			test.Assert(t, math.IsNaN(got))
		} else {
			test.DeepEqual(t, got, v)
		}
	}
}

func TestJSONProtocolBoolEncoding(t *testing.T) {
	buf := NewMemoryBuffer(16)
	p := NewJSONProtocol(buf, nil)
	test.Assert(t, p.WriteBool(true) == nil)
	test.DeepEqual(t, string(buf.Bytes()), "1")
}

func TestJSONProtocolBinaryRoundTrip(t *testing.T) {
	p, _ := newJSONPair()
	payload := []byte{0x00, 0xFF, 0x10, 0x20}
	test.Assert(t, p.WriteBinary(payload) == nil)
	got, err := p.ReadBinary()
	test.Assert(t, err == nil, err)
	test.DeepEqual(t, got, payload)
}

// TestJSONProtocolBadVersionRejected checks a message array whose leading
// version tag isn't 1 fails ReadMessageBegin with a BAD_VERSION exception.
func TestJSONProtocolBadVersionRejected(t *testing.T) {
	buf := NewMemoryBufferFromBytes([]byte(`[2,"Foo",1,0]`))
	p := NewJSONProtocol(buf, nil)
	_, _, _, err := p.ReadMessageBegin()
	test.Assert(t, err != nil, "expected bad version error")
	pe, ok := err.(*TProtocolException)
	test.Assert(t, ok, "expected *TProtocolException, got %T", err)
	test.DeepEqual(t, pe.code, PROTOCOL_EXCEPTION_BAD_VERSION)
}

// TestJSONProtocolUnknownFieldSkip verifies that a struct body with a field
// unknown to the reader can still be skipped and the struct fully consumed,
// the forward-compatibility path a generated Read method relies on.
func TestJSONProtocolUnknownFieldSkip(t *testing.T) {
	p, _ := newJSONPair()
	test.Assert(t, p.WriteStructBegin("S") == nil)
	test.Assert(t, p.WriteFieldBegin("known", I32, 1) == nil)
	test.Assert(t, p.WriteI32(1) == nil)
	test.Assert(t, p.WriteFieldEnd() == nil)
	test.Assert(t, p.WriteFieldBegin("unknown", STRING, 99) == nil)
	test.Assert(t, p.WriteString("ignored") == nil)
	test.Assert(t, p.WriteFieldEnd() == nil)
	test.Assert(t, p.WriteFieldStop() == nil)
	test.Assert(t, p.WriteStructEnd() == nil)

	_, err := p.ReadStructBegin()
	test.Assert(t, err == nil, err)

	_, fieldType, id, err := p.ReadFieldBegin()
	test.Assert(t, err == nil, err)
	test.DeepEqual(t, id, int16(1))
	v, _ := p.ReadI32()
	test.DeepEqual(t, v, int32(1))
	test.Assert(t, p.ReadFieldEnd() == nil)

	_, fieldType, id, err = p.ReadFieldBegin()
	test.Assert(t, err == nil, err)
	test.DeepEqual(t, id, int16(99))
	test.Assert(t, SkipType(p, fieldType) == nil)
	test.Assert(t, p.ReadFieldEnd() == nil)

	_, fieldType, _, err = p.ReadFieldBegin()
	test.Assert(t, err == nil, err)
	test.DeepEqual(t, fieldType, STOP)
	test.Assert(t, p.ReadStructEnd() == nil)
}

// TestJSONProtocolMessageSizeLimit checks a container header declaring a
// size larger than the configured ceiling is rejected before any element
// read is attempted.
func TestJSONProtocolMessageSizeLimit(t *testing.T) {
	buf := NewMemoryBufferFromBytes([]byte(`["i32",1000000,1]`))
	cfg := NewTransportConfig(WithMaxMessageSize(16))
	p := NewJSONProtocol(buf, cfg)
	_, _, err := p.ReadListBegin()
	test.Assert(t, err != nil, "expected size-limit rejection")
	pe, ok := err.(*TProtocolException)
	test.Assert(t, ok, "expected *TProtocolException, got %T", err)
	test.DeepEqual(t, pe.code, PROTOCOL_EXCEPTION_SIZE_LIMIT)
}

func TestJSONProtocolNegativeContainerSize(t *testing.T) {
	buf := NewMemoryBufferFromBytes([]byte(`["i32",-1]`))
	p := NewJSONProtocol(buf, nil)
	_, _, err := p.ReadListBegin()
	test.Assert(t, err != nil, "expected negative size rejection")
	pe, ok := err.(*TProtocolException)
	test.Assert(t, ok, "expected *TProtocolException, got %T", err)
	test.DeepEqual(t, pe.code, PROTOCOL_EXCEPTION_NEGATIVE_SIZE)
}

func TestJSONProtocolStringEscaping(t *testing.T) {
	buf := NewMemoryBuffer(64)
	p := NewJSONProtocol(buf, nil)
	test.Assert(t, p.WriteString("line1\nline2\ttab\\slash/end") == nil)

	reader := NewJSONProtocol(NewMemoryBufferFromBytes(buf.Bytes()), nil)
	got, err := reader.ReadString()
	test.Assert(t, err == nil, err)
	test.DeepEqual(t, got, "line1\nline2\ttab\\slash/end")
}
