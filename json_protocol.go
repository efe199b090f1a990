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
	"strings"
)

// jsonTypeTags maps a TType to the short tag Thrift's JSON encoding uses to
// identify it inside a struct field's single-entry value object, and
// inside list/set/map element headers.
var jsonTypeTags = map[TType]string{
	BOOL:   "tf",
	BYTE:   "i8",
	I16:    "i16",
	I32:    "i32",
	I64:    "i64",
	DOUBLE: "dbl",
	STRING: "str",
	STRUCT: "rec",
	MAP:    "map",
	SET:    "set",
	LIST:   "lst",
}

var jsonTagTypes = func() map[string]TType {
	m := make(map[string]TType, len(jsonTypeTags))
	for t, tag := range jsonTypeTags {
		m[tag] = t
	}
	return m
}()

func jsonTypeTag(t TType) (string, error) {
	tag, ok := jsonTypeTags[t]
	if !ok {
		return "", NewTProtocolExceptionWithType(PROTOCOL_EXCEPTION_INVALID_DATA, fmt.Sprintf("unrecognized type %v for json encoding", t))
	}
	return tag, nil
}

func jsonTypeFromTag(tag string) (TType, error) {
	t, ok := jsonTagTypes[tag]
	if !ok {
		return STOP, NewTProtocolExceptionWithType(PROTOCOL_EXCEPTION_INVALID_DATA, fmt.Sprintf("unrecognized json type tag %q", tag))
	}
	return t, nil
}

// jsonLookahead layers a one-byte peek atop Transport.ReadAll(1), needed to
// detect a closing '}'/']' without consuming it.
type jsonLookahead struct {
	transport Transport
	has       bool
	b         byte
}

func (r *jsonLookahead) peek() (byte, error) {
	if !r.has {
		buf, err := r.transport.ReadAll(1)
		if err != nil {
			return 0, err
		}
		r.b = buf[0]
		r.has = true
	}
	return r.b, nil
}

func (r *jsonLookahead) readByte() (byte, error) {
	if r.has {
		r.has = false
		return r.b, nil
	}
	buf, err := r.transport.ReadAll(1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (r *jsonLookahead) readN(n int) ([]byte, error) {
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		b, err := r.readByte()
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

// JSONProtocol implements the bidirectional compact JSON encoding: struct
// fields keyed by decimal field id, values wrapped in a single-entry
// {typeTag: value} object, containers as tagged arrays. The context-stack-
// driven separator/quoting model is reorganized here as the tagged
// jsonContext variant rather than a Context class hierarchy.
type JSONProtocol struct {
	transport Transport
	writeCtx  jsonContextStack
	readCtx   jsonContextStack
	in        *jsonLookahead
	size      *messageSizeTracker
}

var _ Protocol = (*JSONProtocol)(nil)

// NewJSONProtocol builds a JSONProtocol over transport using cfg (or
// DefaultTransportConfig if nil) for its message size ceiling.
func NewJSONProtocol(transport Transport, cfg *TransportConfig) *JSONProtocol {
	return &JSONProtocol{
		transport: transport,
		in:        &jsonLookahead{transport: transport},
		size:      newMessageSizeTracker(cfg.maxMessageSize()),
	}
}

func (p *JSONProtocol) Transport() Transport { return p.transport }
func (p *JSONProtocol) Flush() error         { return p.transport.Flush() }
func (p *JSONProtocol) Skip(typeID TType) error {
	return SkipType(p, typeID)
}

func (p *JSONProtocol) writeRaw(s string) error {
	_, err := p.transport.Write([]byte(s))
	return err
}

// writeToken emits the separator due in ctx, optionally quotes raw, writes
// it, and advances ctx. forceQuote lets WriteDouble's NaN/Infinity
// sentinels be quoted unconditionally regardless of context position.
func (p *JSONProtocol) writeToken(ctx *jsonContext, raw string, forceQuote bool) error {
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

// writeStringToken always quotes and JSON-escapes raw, regardless of
// ctx.escapeNum: used for type tags, names and genuine string values,
// which are strings on the wire independent of key/value position.
func (p *JSONProtocol) writeStringToken(raw string) error {
	ctx := p.writeCtx.current()
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

func (p *JSONProtocol) enterContainer(kind jsonContextKind, openChar byte) error {
	ctx := p.writeCtx.current()
	if sep := ctx.separator(); sep != 0 {
		if err := p.writeRaw(string(sep)); err != nil {
			return err
		}
	}
	ctx.advance()
	if err := p.writeRaw(string(openChar)); err != nil {
		return err
	}
	p.writeCtx.push(kind)
	return nil
}

func (p *JSONProtocol) exitContainer(closeChar byte) error {
	if err := p.writeRaw(string(closeChar)); err != nil {
		return err
	}
	return p.writeCtx.pop()
}

// --- write surface ---

func (p *JSONProtocol) WriteMessageBegin(name string, typeID TMessageType, seqID int32) error {
	if err := p.enterContainer(jsonContextList, '['); err != nil {
		return err
	}
	ctx := p.writeCtx.current()
	if err := p.writeToken(ctx, strconv.Itoa(jsonVersion1), false); err != nil {
		return err
	}
	if err := p.writeStringToken(name); err != nil {
		return err
	}
	if err := p.writeToken(ctx, strconv.Itoa(int(typeID)), false); err != nil {
		return err
	}
	return p.writeToken(ctx, strconv.FormatInt(int64(seqID), 10), false)
}

func (p *JSONProtocol) WriteMessageEnd() error {
	return p.exitContainer(']')
}

func (p *JSONProtocol) WriteStructBegin(name string) error {
	return p.enterContainer(jsonContextPair, '{')
}

func (p *JSONProtocol) WriteStructEnd() error {
	return p.exitContainer('}')
}

func (p *JSONProtocol) WriteFieldBegin(name string, typeID TType, id int16) error {
	structCtx := p.writeCtx.current()
	if err := p.writeToken(structCtx, strconv.Itoa(int(id)), false); err != nil {
		return err
	}
	tag, err := jsonTypeTag(typeID)
	if err != nil {
		return err
	}
	if err := p.enterContainer(jsonContextPair, '{'); err != nil {
		return err
	}
	return p.writeStringToken(tag)
}

func (p *JSONProtocol) WriteFieldEnd() error {
	return p.exitContainer('}')
}

func (p *JSONProtocol) WriteFieldStop() error {
	return nil
}

func (p *JSONProtocol) WriteMapBegin(keyType, valueType TType, size int) error {
	if err := p.enterContainer(jsonContextList, '['); err != nil {
		return err
	}
	keyTag, err := jsonTypeTag(keyType)
	if err != nil {
		return err
	}
	if err := p.writeStringToken(keyTag); err != nil {
		return err
	}
	valTag, err := jsonTypeTag(valueType)
	if err != nil {
		return err
	}
	if err := p.writeStringToken(valTag); err != nil {
		return err
	}
	if err := p.writeToken(p.writeCtx.current(), strconv.Itoa(size), false); err != nil {
		return err
	}
	return p.enterContainer(jsonContextMap, '{')
}

func (p *JSONProtocol) WriteMapEnd() error {
	if err := p.exitContainer('}'); err != nil {
		return err
	}
	return p.exitContainer(']')
}

func (p *JSONProtocol) WriteListBegin(elemType TType, size int) error {
	if err := p.enterContainer(jsonContextList, '['); err != nil {
		return err
	}
	tag, err := jsonTypeTag(elemType)
	if err != nil {
		return err
	}
	if err := p.writeStringToken(tag); err != nil {
		return err
	}
	return p.writeToken(p.writeCtx.current(), strconv.Itoa(size), false)
}

func (p *JSONProtocol) WriteListEnd() error {
	return p.exitContainer(']')
}

func (p *JSONProtocol) WriteSetBegin(elemType TType, size int) error {
	return p.WriteListBegin(elemType, size)
}

func (p *JSONProtocol) WriteSetEnd() error {
	return p.WriteListEnd()
}

func (p *JSONProtocol) WriteBool(value bool) error {
	v := "0"
	if value {
		v = "1"
	}
	return p.writeToken(p.writeCtx.current(), v, false)
}

func (p *JSONProtocol) WriteByte(value int8) error {
	return p.writeToken(p.writeCtx.current(), strconv.Itoa(int(value)), false)
}

func (p *JSONProtocol) WriteI16(value int16) error {
	return p.writeToken(p.writeCtx.current(), strconv.Itoa(int(value)), false)
}

func (p *JSONProtocol) WriteI32(value int32) error {
	return p.writeToken(p.writeCtx.current(), strconv.Itoa(int(value)), false)
}

func (p *JSONProtocol) WriteI64(value int64) error {
	return p.writeToken(p.writeCtx.current(), strconv.FormatInt(value, 10), false)
}

func (p *JSONProtocol) WriteDouble(value float64) error {
	ctx := p.writeCtx.current()
	switch {
	case math.IsNaN(value):
		return p.writeToken(ctx, "NaN", true)
	case math.IsInf(value, 1):
		return p.writeToken(ctx, "Infinity", true)
	case math.IsInf(value, -1):
		return p.writeToken(ctx, "-Infinity", true)
	default:
		return p.writeToken(ctx, strconv.FormatFloat(value, 'g', -1, 64), false)
	}
}

func (p *JSONProtocol) WriteString(value string) error {
	return p.writeStringToken(value)
}

func (p *JSONProtocol) WriteBinary(value []byte) error {
	return p.writeStringToken(base64.StdEncoding.EncodeToString(value))
}

// --- read surface ---

func (p *JSONProtocol) skipWhitespace() error {
	for {
		b, err := p.in.peek()
		if err != nil {
			return err
		}
		if b != ' ' && b != '\t' && b != '\n' && b != '\r' {
			return nil
		}
		if _, err := p.in.readByte(); err != nil {
			return err
		}
	}
}

func (p *JSONProtocol) beforeRead(ctx *jsonContext) error {
	if err := p.skipWhitespace(); err != nil {
		return err
	}
	if sep := ctx.separator(); sep != 0 {
		b, err := p.in.readByte()
		if err != nil {
			return err
		}
		if b != sep {
			return NewTProtocolExceptionWithType(PROTOCOL_EXCEPTION_INVALID_DATA, fmt.Sprintf("expected %q, got %q", sep, b))
		}
		if err := p.skipWhitespace(); err != nil {
			return err
		}
	}
	return nil
}

func (p *JSONProtocol) readEnterContainer(kind jsonContextKind, openChar byte) error {
	parent := p.readCtx.current()
	if err := p.beforeRead(parent); err != nil {
		return err
	}
	parent.advance()
	if err := p.skipWhitespace(); err != nil {
		return err
	}
	b, err := p.in.readByte()
	if err != nil {
		return err
	}
	if b != openChar {
		return NewTProtocolExceptionWithType(PROTOCOL_EXCEPTION_INVALID_DATA, fmt.Sprintf("expected %q, got %q", openChar, b))
	}
	p.readCtx.push(kind)
	return nil
}

func (p *JSONProtocol) readExitContainer(closeChar byte) error {
	if err := p.skipWhitespace(); err != nil {
		return err
	}
	b, err := p.in.readByte()
	if err != nil {
		return err
	}
	if b != closeChar {
		return NewTProtocolExceptionWithType(PROTOCOL_EXCEPTION_INVALID_DATA, fmt.Sprintf("expected %q, got %q", closeChar, b))
	}
	return p.readCtx.pop()
}

func (p *JSONProtocol) readQuotedContent() (string, error) {
	b, err := p.in.readByte()
	if err != nil {
		return "", err
	}
	if b != '"' {
		return "", NewTProtocolExceptionWithType(PROTOCOL_EXCEPTION_INVALID_DATA, "expected opening quote")
	}
	var sb strings.Builder
	for {
		c, err := p.in.readByte()
		if err != nil {
			return "", err
		}
		if c == '"' {
			return sb.String(), nil
		}
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		esc, err := p.in.readByte()
		if err != nil {
			return "", err
		}
		switch esc {
		case '"':
			sb.WriteByte('"')
		case '\\':
			sb.WriteByte('\\')
		case '/':
			sb.WriteByte('/')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'u':
			hex, err := p.in.readN(4)
			if err != nil {
				return "", err
			}
			code, err := strconv.ParseUint(string(hex), 16, 32)
			if err != nil {
				return "", NewTProtocolExceptionWithType(PROTOCOL_EXCEPTION_INVALID_DATA, "invalid \\u escape")
			}
			sb.WriteRune(rune(code))
		default:
			return "", NewTProtocolExceptionWithType(PROTOCOL_EXCEPTION_INVALID_DATA, "invalid escape sequence")
		}
	}
}

func isJSONNumberByte(b byte) bool {
	return (b >= '0' && b <= '9') || b == '-' || b == '+' || b == '.' || b == 'e' || b == 'E'
}

func (p *JSONProtocol) readBareToken() (string, error) {
	var sb strings.Builder
	for {
		b, err := p.in.peek()
		if err != nil {
			// End of input terminates a token that has already started.
			if te, ok := err.(*TTransportException); ok && te.code == TRANSPORT_EXCEPTION_END_OF_FILE && sb.Len() > 0 {
				break
			}
			return "", err
		}
		if !isJSONNumberByte(b) {
			break
		}
		if _, err := p.in.readByte(); err != nil {
			return "", err
		}
		sb.WriteByte(b)
	}
	if sb.Len() == 0 {
		return "", NewTProtocolExceptionWithType(PROTOCOL_EXCEPTION_INVALID_DATA, "expected numeric token")
	}
	return sb.String(), nil
}

// readStringToken reads a value that is always a JSON string on the wire
// (type tags, message names, struct/binary string values).
func (p *JSONProtocol) readStringToken() (string, error) {
	ctx := p.readCtx.current()
	if err := p.beforeRead(ctx); err != nil {
		return "", err
	}
	raw, err := p.readQuotedContent()
	if err != nil {
		return "", err
	}
	ctx.advance()
	return raw, nil
}

// readNumericToken reads a value whose quoting is context-driven: quoted
// in key position (struct field ids, map keys), bare otherwise.
func (p *JSONProtocol) readNumericToken() (string, error) {
	ctx := p.readCtx.current()
	if err := p.beforeRead(ctx); err != nil {
		return "", err
	}
	var raw string
	var err error
	if ctx.escapeNum() {
		raw, err = p.readQuotedContent()
	} else {
		raw, err = p.readBareToken()
	}
	if err != nil {
		return "", err
	}
	ctx.advance()
	return raw, nil
}

func (p *JSONProtocol) ReadMessageBegin() (string, TMessageType, int32, error) {
	if err := p.readEnterContainer(jsonContextList, '['); err != nil {
		return "", INVALID_TMESSAGE_TYPE, 0, err
	}
	verRaw, err := p.readNumericToken()
	if err != nil {
		return "", INVALID_TMESSAGE_TYPE, 0, err
	}
	if ver, convErr := strconv.Atoi(verRaw); convErr != nil || ver != jsonVersion1 {
		return "", INVALID_TMESSAGE_TYPE, 0, NewTProtocolExceptionWithType(PROTOCOL_EXCEPTION_BAD_VERSION, "bad json protocol version")
	}
	name, err := p.readStringToken()
	if err != nil {
		return "", INVALID_TMESSAGE_TYPE, 0, err
	}
	typeRaw, err := p.readNumericToken()
	if err != nil {
		return "", INVALID_TMESSAGE_TYPE, 0, err
	}
	typeVal, err := strconv.Atoi(typeRaw)
	if err != nil {
		return "", INVALID_TMESSAGE_TYPE, 0, NewTProtocolExceptionWithType(PROTOCOL_EXCEPTION_INVALID_DATA, "invalid message type")
	}
	seqRaw, err := p.readNumericToken()
	if err != nil {
		return "", INVALID_TMESSAGE_TYPE, 0, err
	}
	seqVal, err := strconv.ParseInt(seqRaw, 10, 32)
	if err != nil {
		return "", INVALID_TMESSAGE_TYPE, 0, NewTProtocolExceptionWithType(PROTOCOL_EXCEPTION_INVALID_DATA, "invalid seqid")
	}
	p.size.reset()
	return name, TMessageType(typeVal), int32(seqVal), nil
}

func (p *JSONProtocol) ReadMessageEnd() error {
	return p.readExitContainer(']')
}

func (p *JSONProtocol) ReadStructBegin() (string, error) {
	return "", p.readEnterContainer(jsonContextPair, '{')
}

func (p *JSONProtocol) ReadStructEnd() error {
	return p.readExitContainer('}')
}

// ReadFieldBegin peeks for the struct's closing '}' to signal STOP without
// consuming it; ReadStructEnd consumes that brace.
func (p *JSONProtocol) ReadFieldBegin() (string, TType, int16, error) {
	if err := p.skipWhitespace(); err != nil {
		return "", STOP, 0, err
	}
	b, err := p.in.peek()
	if err != nil {
		return "", STOP, 0, err
	}
	if b == '}' {
		return "", STOP, 0, nil
	}
	idRaw, err := p.readNumericToken()
	if err != nil {
		return "", STOP, 0, err
	}
	id64, err := strconv.ParseInt(idRaw, 10, 16)
	if err != nil {
		return "", STOP, 0, NewTProtocolExceptionWithType(PROTOCOL_EXCEPTION_INVALID_DATA, "invalid field id")
	}
	if err := p.readEnterContainer(jsonContextPair, '{'); err != nil {
		return "", STOP, 0, err
	}
	tag, err := p.readStringToken()
	if err != nil {
		return "", STOP, 0, err
	}
	fieldType, err := jsonTypeFromTag(tag)
	if err != nil {
		return "", STOP, 0, err
	}
	// The wire format never carries a field name, only its numeric id, so
	// the name return value is always empty.
	return "", fieldType, int16(id64), nil
}

func (p *JSONProtocol) ReadFieldEnd() error {
	return p.readExitContainer('}')
}

func (p *JSONProtocol) ReadMapBegin() (TType, TType, int, error) {
	if err := p.readEnterContainer(jsonContextList, '['); err != nil {
		return STOP, STOP, 0, err
	}
	keyTag, err := p.readStringToken()
	if err != nil {
		return STOP, STOP, 0, err
	}
	keyType, err := jsonTypeFromTag(keyTag)
	if err != nil {
		return STOP, STOP, 0, err
	}
	valTag, err := p.readStringToken()
	if err != nil {
		return STOP, STOP, 0, err
	}
	valType, err := jsonTypeFromTag(valTag)
	if err != nil {
		return STOP, STOP, 0, err
	}
	sizeRaw, err := p.readNumericToken()
	if err != nil {
		return STOP, STOP, 0, err
	}
	size, err := parseNonNegativeSize(sizeRaw)
	if err != nil {
		return STOP, STOP, 0, err
	}
	if err := p.size.reserve(size * 2); err != nil {
		return STOP, STOP, 0, err
	}
	if err := p.readEnterContainer(jsonContextMap, '{'); err != nil {
		return STOP, STOP, 0, err
	}
	return keyType, valType, size, nil
}

func (p *JSONProtocol) ReadMapEnd() error {
	if err := p.readExitContainer('}'); err != nil {
		return err
	}
	return p.readExitContainer(']')
}

func (p *JSONProtocol) ReadListBegin() (TType, int, error) {
	if err := p.readEnterContainer(jsonContextList, '['); err != nil {
		return STOP, 0, err
	}
	tag, err := p.readStringToken()
	if err != nil {
		return STOP, 0, err
	}
	elemType, err := jsonTypeFromTag(tag)
	if err != nil {
		return STOP, 0, err
	}
	sizeRaw, err := p.readNumericToken()
	if err != nil {
		return STOP, 0, err
	}
	size, err := parseNonNegativeSize(sizeRaw)
	if err != nil {
		return STOP, 0, err
	}
	if err := p.size.reserve(size); err != nil {
		return STOP, 0, err
	}
	return elemType, size, nil
}

func (p *JSONProtocol) ReadListEnd() error {
	return p.readExitContainer(']')
}

func (p *JSONProtocol) ReadSetBegin() (TType, int, error) {
	return p.ReadListBegin()
}

func (p *JSONProtocol) ReadSetEnd() error {
	return p.ReadListEnd()
}

func parseNonNegativeSize(raw string) (int, error) {
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, NewTProtocolExceptionWithType(PROTOCOL_EXCEPTION_INVALID_DATA, "invalid container size")
	}
	if v < 0 {
		return 0, NewTProtocolExceptionWithType(PROTOCOL_EXCEPTION_NEGATIVE_SIZE, "negative container size")
	}
	return int(v), nil
}

func (p *JSONProtocol) ReadBool() (bool, error) {
	raw, err := p.readNumericToken()
	if err != nil {
		return false, err
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return false, NewTProtocolExceptionWithType(PROTOCOL_EXCEPTION_INVALID_DATA, "invalid bool")
	}
	return v != 0, nil
}

func (p *JSONProtocol) ReadByte() (int8, error) {
	raw, err := p.readNumericToken()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(raw, 10, 8)
	if err != nil {
		return 0, NewTProtocolExceptionWithType(PROTOCOL_EXCEPTION_INVALID_DATA, "invalid byte")
	}
	return int8(v), nil
}

func (p *JSONProtocol) ReadI16() (int16, error) {
	raw, err := p.readNumericToken()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(raw, 10, 16)
	if err != nil {
		return 0, NewTProtocolExceptionWithType(PROTOCOL_EXCEPTION_INVALID_DATA, "invalid i16")
	}
	return int16(v), nil
}

func (p *JSONProtocol) ReadI32() (int32, error) {
	raw, err := p.readNumericToken()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, NewTProtocolExceptionWithType(PROTOCOL_EXCEPTION_INVALID_DATA, "invalid i32")
	}
	return int32(v), nil
}

func (p *JSONProtocol) ReadI64() (int64, error) {
	raw, err := p.readNumericToken()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, NewTProtocolExceptionWithType(PROTOCOL_EXCEPTION_INVALID_DATA, "invalid i64")
	}
	return v, nil
}

func (p *JSONProtocol) ReadDouble() (float64, error) {
	ctx := p.readCtx.current()
	if err := p.beforeRead(ctx); err != nil {
		return 0, err
	}
	b, err := p.in.peek()
	if err != nil {
		return 0, err
	}
	var raw string
	if b == '"' {
		raw, err = p.readQuotedContent()
	} else {
		raw, err = p.readBareToken()
	}
	if err != nil {
		return 0, err
	}
	ctx.advance()
	switch raw {
	case "NaN":
		return math.NaN(), nil
	case "Infinity":
		return math.Inf(1), nil
	case "-Infinity":
		return math.Inf(-1), nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, NewTProtocolExceptionWithType(PROTOCOL_EXCEPTION_INVALID_DATA, "invalid double: "+raw)
	}
	return v, nil
}

func (p *JSONProtocol) ReadString() (string, error) {
	return p.readStringToken()
}

func (p *JSONProtocol) ReadBinary() ([]byte, error) {
	raw, err := p.readStringToken()
	if err != nil {
		return nil, err
	}
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, NewTProtocolExceptionWithType(PROTOCOL_EXCEPTION_INVALID_DATA, "invalid base64 binary")
	}
	return decoded, nil
}

// escapeJSONString applies the standard JSON escape table: quote,
// backslash, forward slash, and the \b\f\n\r\t control shorthands, falling
// back to \u00XX for any other byte below 0x20.
func escapeJSONString(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '/':
			sb.WriteString(`\/`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if c < 0x20 {
				fmt.Fprintf(&sb, `\u%04x`, c)
			} else {
				sb.WriteByte(c)
			}
		}
	}
	return sb.String()
}
