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

import "fmt"

// TApplicationException codes classifying why a request failed at the
// application/dispatch layer rather than in the wire encoding.
const (
	APPLICATION_EXCEPTION_UNKNOWN                 int32 = 0
	APPLICATION_EXCEPTION_UNKNOWN_METHOD          int32 = 1
	APPLICATION_EXCEPTION_INVALID_MESSAGE_TYPE    int32 = 2
	APPLICATION_EXCEPTION_WRONG_METHOD_NAME       int32 = 3
	APPLICATION_EXCEPTION_BAD_SEQUENCE_ID         int32 = 4
	APPLICATION_EXCEPTION_MISSING_RESULT          int32 = 5
	APPLICATION_EXCEPTION_INTERNAL_ERROR          int32 = 6
	APPLICATION_EXCEPTION_PROTOCOL_ERROR          int32 = 7
	APPLICATION_EXCEPTION_INVALID_TRANSFORM       int32 = 8
	APPLICATION_EXCEPTION_INVALID_PROTOCOL        int32 = 9
	APPLICATION_EXCEPTION_UNSUPPORTED_CLIENT_TYPE int32 = 10
)

var defaultApplicationExceptionMessage = map[int32]string{
	APPLICATION_EXCEPTION_UNKNOWN:                 "unknown application exception",
	APPLICATION_EXCEPTION_UNKNOWN_METHOD:          "unknown method",
	APPLICATION_EXCEPTION_INVALID_MESSAGE_TYPE:    "invalid message type",
	APPLICATION_EXCEPTION_WRONG_METHOD_NAME:       "wrong method name",
	APPLICATION_EXCEPTION_BAD_SEQUENCE_ID:         "bad sequence ID",
	APPLICATION_EXCEPTION_MISSING_RESULT:          "missing result",
	APPLICATION_EXCEPTION_INTERNAL_ERROR:          "unknown internal error",
	APPLICATION_EXCEPTION_PROTOCOL_ERROR:          "unknown protocol error",
	APPLICATION_EXCEPTION_INVALID_TRANSFORM:       "invalid transform",
	APPLICATION_EXCEPTION_INVALID_PROTOCOL:        "invalid protocol",
	APPLICATION_EXCEPTION_UNSUPPORTED_CLIENT_TYPE: "unsupported client type",
}

// TApplicationException is a semantic error raised by a service or by the
// runtime itself (unknown method, missing result). Unlike the transport and
// protocol exceptions it is itself a Thrift struct: field 1 is the message
// string, field 2 is the i32 type code, and it is serialized as a normal
// reply body of message type EXCEPTION.
type TApplicationException struct {
	codedError
}

// NewTApplicationException builds a TApplicationException. An empty message
// is filled in from the code's default text lazily, in Error().
func NewTApplicationException(code int32, message string) *TApplicationException {
	return &TApplicationException{codedError{code: code, message: message}}
}

func (e *TApplicationException) TypeId() int32 { return e.code }

// TypeID is the on-wire field name's Go accessor; TypeId is kept alongside
// it for interoperability with the generic tException shape.
func (e *TApplicationException) TypeID() int32 { return e.code }

func (e *TApplicationException) Error() string {
	if e.message != "" {
		return e.message
	}
	if m, ok := defaultApplicationExceptionMessage[e.code]; ok {
		return m
	}
	return fmt.Sprintf("unknown exception type [%d]", e.code)
}

// Read decodes a TApplicationException from p's current struct position,
// consuming through the terminating STOP. Unknown fields are skipped so
// that a peer that added fields to its own exception struct does not break
// this reader, per the struct forward-compatibility invariant.
func (e *TApplicationException) Read(p Protocol) error {
	if _, err := p.ReadStructBegin(); err != nil {
		return err
	}
	for {
		_, fieldType, id, err := p.ReadFieldBegin()
		if err != nil {
			return err
		}
		if fieldType == STOP {
			break
		}
		switch {
		case id == 1 && fieldType == STRING:
			e.message, err = p.ReadString()
		case id == 2 && fieldType == I32:
			e.code, err = p.ReadI32()
		default:
			err = SkipType(p, fieldType)
		}
		if err != nil {
			return err
		}
		if err := p.ReadFieldEnd(); err != nil {
			return err
		}
	}
	return p.ReadStructEnd()
}

// Write encodes the exception as its wire struct: field "message" (id 1,
// string) then field "type" (id 2, i32) then STOP.
func (e *TApplicationException) Write(p Protocol) error {
	if err := p.WriteStructBegin("TApplicationException"); err != nil {
		return err
	}
	if e.Error() != "" {
		if err := p.WriteFieldBegin("message", STRING, 1); err != nil {
			return err
		}
		if err := p.WriteString(e.Error()); err != nil {
			return err
		}
		if err := p.WriteFieldEnd(); err != nil {
			return err
		}
	}
	if err := p.WriteFieldBegin("type", I32, 2); err != nil {
		return err
	}
	if err := p.WriteI32(e.code); err != nil {
		return err
	}
	if err := p.WriteFieldEnd(); err != nil {
		return err
	}
	if err := p.WriteFieldStop(); err != nil {
		return err
	}
	return p.WriteStructEnd()
}
