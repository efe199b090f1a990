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

// Protocol is the codec surface a JSONProtocol or SimpleJSONProtocol
// implements: a paired sequence of Write*/Read* calls bracketing every
// message, struct, field and container, with a flattened method set
// rather than the generic-container-name variant some Thrift bindings use.
type Protocol interface {
	WriteMessageBegin(name string, typeID TMessageType, seqID int32) error
	WriteMessageEnd() error
	WriteStructBegin(name string) error
	WriteStructEnd() error
	WriteFieldBegin(name string, typeID TType, id int16) error
	WriteFieldEnd() error
	WriteFieldStop() error
	WriteMapBegin(keyType, valueType TType, size int) error
	WriteMapEnd() error
	WriteListBegin(elemType TType, size int) error
	WriteListEnd() error
	WriteSetBegin(elemType TType, size int) error
	WriteSetEnd() error
	WriteBool(value bool) error
	WriteByte(value int8) error
	WriteI16(value int16) error
	WriteI32(value int32) error
	WriteI64(value int64) error
	WriteDouble(value float64) error
	WriteString(value string) error
	WriteBinary(value []byte) error

	ReadMessageBegin() (name string, typeID TMessageType, seqID int32, err error)
	ReadMessageEnd() error
	ReadStructBegin() (name string, err error)
	ReadStructEnd() error
	ReadFieldBegin() (name string, typeID TType, id int16, err error)
	ReadFieldEnd() error
	ReadMapBegin() (keyType, valueType TType, size int, err error)
	ReadMapEnd() error
	ReadListBegin() (elemType TType, size int, err error)
	ReadListEnd() error
	ReadSetBegin() (elemType TType, size int, err error)
	ReadSetEnd() error
	ReadBool() (bool, error)
	ReadByte() (int8, error)
	ReadI16() (int16, error)
	ReadI32() (int32, error)
	ReadI64() (int64, error)
	ReadDouble() (float64, error)
	ReadString() (string, error)
	ReadBinary() ([]byte, error)

	// Skip discards one value of typeID without materializing it,
	// recursing into containers and structs. Protocols delegate their
	// own Skip to the package-level SkipType so the traversal logic is
	// shared between JSONProtocol and SimpleJSONProtocol.
	Skip(typeID TType) error

	// Flush and transport give callers (Processor, application code)
	// access to the underlying byte stream when they need to flush a
	// reply or inspect transport-level state.
	Flush() error
	Transport() Transport
}

// SkipType discards one encoded value of the given type from p, recursing
// through struct fields and container elements so any wire representation
// can be forward-compatibly ignored.
func SkipType(p Protocol, typeID TType) error {
	switch typeID {
	case BOOL:
		_, err := p.ReadBool()
		return err
	case BYTE:
		_, err := p.ReadByte()
		return err
	case I16:
		_, err := p.ReadI16()
		return err
	case I32:
		_, err := p.ReadI32()
		return err
	case I64:
		_, err := p.ReadI64()
		return err
	case DOUBLE:
		_, err := p.ReadDouble()
		return err
	case STRING:
		_, err := p.ReadString()
		return err
	case STRUCT:
		return skipStruct(p)
	case MAP:
		return skipMap(p)
	case SET:
		return skipSetOrList(p, true)
	case LIST:
		return skipSetOrList(p, false)
	default:
		return NewTProtocolExceptionWithType(PROTOCOL_EXCEPTION_INVALID_DATA, "cannot skip unknown type")
	}
}

func skipStruct(p Protocol) error {
	if _, err := p.ReadStructBegin(); err != nil {
		return err
	}
	for {
		_, fieldType, _, err := p.ReadFieldBegin()
		if err != nil {
			return err
		}
		if fieldType == STOP {
			break
		}
		if err := SkipType(p, fieldType); err != nil {
			return err
		}
		if err := p.ReadFieldEnd(); err != nil {
			return err
		}
	}
	return p.ReadStructEnd()
}

func skipMap(p Protocol) error {
	keyType, valueType, size, err := p.ReadMapBegin()
	if err != nil {
		return err
	}
	for i := 0; i < size; i++ {
		if err := SkipType(p, keyType); err != nil {
			return err
		}
		if err := SkipType(p, valueType); err != nil {
			return err
		}
	}
	return p.ReadMapEnd()
}

func skipSetOrList(p Protocol, isSet bool) error {
	var elemType TType
	var size int
	var err error
	if isSet {
		elemType, size, err = p.ReadSetBegin()
	} else {
		elemType, size, err = p.ReadListBegin()
	}
	if err != nil {
		return err
	}
	for i := 0; i < size; i++ {
		if err := SkipType(p, elemType); err != nil {
			return err
		}
	}
	if isSet {
		return p.ReadSetEnd()
	}
	return p.ReadListEnd()
}

// messageSizeTracker accumulates the element counts that container headers
// declare while decoding one logical message (a map entry counts twice), so
// a list/set/map header that would push the running total past the
// configured ceiling is rejected before any element is read. Bytes read
// from the transport and struct headers are not counted.
type messageSizeTracker struct {
	limit    int64
	consumed int64
}

func newMessageSizeTracker(limit int64) *messageSizeTracker {
	if limit <= 0 {
		limit = defaultMaxMessageSize
	}
	return &messageSizeTracker{limit: limit}
}

// reserve accounts for n additional declared elements about to be read,
// failing before the caller reads any of them if the budget is exceeded.
func (t *messageSizeTracker) reserve(n int) error {
	if n < 0 {
		return NewTProtocolExceptionWithType(PROTOCOL_EXCEPTION_NEGATIVE_SIZE, "negative size in wire data")
	}
	t.consumed += int64(n)
	if t.consumed > t.limit {
		return NewTProtocolExceptionWithType(PROTOCOL_EXCEPTION_SIZE_LIMIT, "message exceeds configured size limit")
	}
	return nil
}

func (t *messageSizeTracker) reset() {
	t.consumed = 0
}
