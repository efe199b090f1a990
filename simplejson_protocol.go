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
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
)

// SimpleJSONProtocol emits plain, human-readable JSON: structs as
// {fieldName: value}, lists/sets as [v0, v1, ...], maps as {k: v, ...}
// with no type tags or field ids anywhere on the wire. It is write-only:
// the dropped type information makes decoding ambiguous without a schema,
// so no reader is implemented.
type SimpleJSONProtocol struct {
	transport Transport
	ctx       jsonContextStack
}

var _ Protocol = (*SimpleJSONProtocol)(nil)

// NewSimpleJSONProtocol builds a SimpleJSONProtocol over transport.
func NewSimpleJSONProtocol(transport Transport) *SimpleJSONProtocol {
	return &SimpleJSONProtocol{transport: transport}
}

func (p *SimpleJSONProtocol) Transport() Transport { return p.transport }
func (p *SimpleJSONProtocol) Flush() error         { return p.transport.Flush() }
func (p *SimpleJSONProtocol) Skip(typeID TType) error {
	return SkipType(p, typeID)
}

func (p *SimpleJSONProtocol) writeRaw(s string) error {
	_, err := p.transport.Write([]byte(s))
	return err
}

func (p *SimpleJSONProtocol) writeToken(raw string, forceQuote bool) error {
	ctx := p.ctx.current()
	if sep := ctx.separator(); sep != 0 {
		if err := p.writeRaw(string(sep)); err != nil {
			return err
		}
	}
	quote := forceQuote || ctx.escapeNum()
	if quote {
		raw = `"` + raw + `"`
	}
	if err := p.writeRaw(raw); err != nil {
		return err
	}
	ctx.advance()
	return nil
}

func (p *SimpleJSONProtocol) writeStringToken(raw string) error {
	ctx := p.ctx.current()
	if sep := ctx.separator(); sep != 0 {
		if err := p.writeRaw(string(sep)); err != nil {
			return err
		}
	}
	if err := p.writeRaw(`"` + escapeJSONString(raw) + `"`); err != nil {
		return err
	}
	ctx.advance()
	return nil
}

func (p *SimpleJSONProtocol) enterContainer(kind jsonContextKind, openChar byte) error {
	ctx := p.ctx.current()
	if sep := ctx.separator(); sep != 0 {
		if err := p.writeRaw(string(sep)); err != nil {
			return err
		}
	}
	ctx.advance()
	if err := p.writeRaw(string(openChar)); err != nil {
		return err
	}
	p.ctx.push(kind)
	return nil
}

func (p *SimpleJSONProtocol) exitContainer(closeChar byte) error {
	if err := p.writeRaw(string(closeChar)); err != nil {
		return err
	}
	return p.ctx.pop()
}

// --- write surface ---

func (p *SimpleJSONProtocol) WriteMessageBegin(name string, typeID TMessageType, seqID int32) error {
	if err := p.enterContainer(jsonContextList, '['); err != nil {
		return err
	}
	if err := p.writeStringToken(name); err != nil {
		return err
	}
	if err := p.writeToken(strconv.Itoa(int(typeID)), false); err != nil {
		return err
	}
	return p.writeToken(strconv.FormatInt(int64(seqID), 10), false)
}

func (p *SimpleJSONProtocol) WriteMessageEnd() error {
	return p.exitContainer(']')
}

func (p *SimpleJSONProtocol) WriteStructBegin(name string) error {
	return p.enterContainer(jsonContextPair, '{')
}

func (p *SimpleJSONProtocol) WriteStructEnd() error {
	return p.exitContainer('}')
}

func (p *SimpleJSONProtocol) WriteFieldBegin(name string, typeID TType, id int16) error {
	return p.writeStringToken(name)
}

func (p *SimpleJSONProtocol) WriteFieldEnd() error { return nil }
func (p *SimpleJSONProtocol) WriteFieldStop() error { return nil }

// WriteMapBegin rejects container-typed keys immediately: SimpleJSON has
// no bracket syntax for a non-scalar object key, so the check is made
// explicit here rather than deferred to a write failure partway through.
func (p *SimpleJSONProtocol) WriteMapBegin(keyType, valueType TType, size int) error {
	switch keyType {
	case MAP, SET, LIST:
		return NewTProtocolExceptionWithType(PROTOCOL_EXCEPTION_INVALID_DATA, fmt.Sprintf("cannot serialize %s as a JSON map key", keyType))
	}
	return p.enterContainer(jsonContextMap, '{')
}

func (p *SimpleJSONProtocol) WriteMapEnd() error {
	return p.exitContainer('}')
}

func (p *SimpleJSONProtocol) WriteListBegin(elemType TType, size int) error {
	return p.enterContainer(jsonContextList, '[')
}

func (p *SimpleJSONProtocol) WriteListEnd() error {
	return p.exitContainer(']')
}

func (p *SimpleJSONProtocol) WriteSetBegin(elemType TType, size int) error {
	return p.WriteListBegin(elemType, size)
}

func (p *SimpleJSONProtocol) WriteSetEnd() error {
	return p.WriteListEnd()
}

func (p *SimpleJSONProtocol) WriteBool(value bool) error {
	if value {
		return p.writeToken("true", false)
	}
	return p.writeToken("false", false)
}

func (p *SimpleJSONProtocol) WriteByte(value int8) error {
	return p.writeToken(strconv.Itoa(int(value)), false)
}

func (p *SimpleJSONProtocol) WriteI16(value int16) error {
	return p.writeToken(strconv.Itoa(int(value)), false)
}

func (p *SimpleJSONProtocol) WriteI32(value int32) error {
	return p.writeToken(strconv.Itoa(int(value)), false)
}

func (p *SimpleJSONProtocol) WriteI64(value int64) error {
	return p.writeToken(strconv.FormatInt(value, 10), false)
}

func (p *SimpleJSONProtocol) WriteDouble(value float64) error {
	switch {
	case math.IsNaN(value):
		return p.writeToken("NaN", true)
	case math.IsInf(value, 1):
		return p.writeToken("Infinity", true)
	case math.IsInf(value, -1):
		return p.writeToken("-Infinity", true)
	default:
		return p.writeToken(strconv.FormatFloat(value, 'g', -1, 64), false)
	}
}

func (p *SimpleJSONProtocol) WriteString(value string) error {
	return p.writeStringToken(value)
}

func (p *SimpleJSONProtocol) WriteBinary(value []byte) error {
	return p.writeStringToken(base64.StdEncoding.EncodeToString(value))
}

// --- read surface: unimplemented ---

func notImplemented() error {
	return NewTProtocolExceptionWithType(PROTOCOL_EXCEPTION_NOT_IMPLEMENTED, "SimpleJSONProtocol does not support reading")
}

func (p *SimpleJSONProtocol) ReadMessageBegin() (string, TMessageType, int32, error) {
	return "", INVALID_TMESSAGE_TYPE, 0, notImplemented()
}
func (p *SimpleJSONProtocol) ReadMessageEnd() error { return notImplemented() }
func (p *SimpleJSONProtocol) ReadStructBegin() (string, error) { return "", notImplemented() }
func (p *SimpleJSONProtocol) ReadStructEnd() error { return notImplemented() }
func (p *SimpleJSONProtocol) ReadFieldBegin() (string, TType, int16, error) {
	return "", STOP, 0, notImplemented()
}
func (p *SimpleJSONProtocol) ReadFieldEnd() error { return notImplemented() }
func (p *SimpleJSONProtocol) ReadMapBegin() (TType, TType, int, error) {
	return STOP, STOP, 0, notImplemented()
}
func (p *SimpleJSONProtocol) ReadMapEnd() error { return notImplemented() }
func (p *SimpleJSONProtocol) ReadListBegin() (TType, int, error) { return STOP, 0, notImplemented() }
func (p *SimpleJSONProtocol) ReadListEnd() error                 { return notImplemented() }
func (p *SimpleJSONProtocol) ReadSetBegin() (TType, int, error)  { return STOP, 0, notImplemented() }
func (p *SimpleJSONProtocol) ReadSetEnd() error                  { return notImplemented() }
func (p *SimpleJSONProtocol) ReadBool() (bool, error)            { return false, notImplemented() }
func (p *SimpleJSONProtocol) ReadByte() (int8, error)            { return 0, notImplemented() }
func (p *SimpleJSONProtocol) ReadI16() (int16, error)            { return 0, notImplemented() }
func (p *SimpleJSONProtocol) ReadI32() (int32, error)            { return 0, notImplemented() }
func (p *SimpleJSONProtocol) ReadI64() (int64, error)            { return 0, notImplemented() }
func (p *SimpleJSONProtocol) ReadDouble() (float64, error)       { return 0, notImplemented() }
func (p *SimpleJSONProtocol) ReadString() (string, error)        { return "", notImplemented() }
func (p *SimpleJSONProtocol) ReadBinary() ([]byte, error)        { return nil, notImplemented() }
