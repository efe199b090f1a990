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

// TType is the wire type tag identifying a Thrift logical type. It appears
// in struct field headers and list/set/map element headers.
type TType byte

const (
	STOP   TType = 0
	VOID   TType = 1
	BOOL   TType = 2
	BYTE   TType = 3
	I08    TType = 3
	DOUBLE TType = 4
	I16    TType = 6
	I32    TType = 8
	I64    TType = 10
	STRING TType = 11
	UTF7   TType = 11
	STRUCT TType = 12
	MAP    TType = 13
	SET    TType = 14
	LIST   TType = 15
	UTF8   TType = 16
	UTF16  TType = 17
)

var typeNames = map[TType]string{
	STOP:   "STOP",
	VOID:   "VOID",
	BOOL:   "BOOL",
	BYTE:   "BYTE",
	DOUBLE: "DOUBLE",
	I16:    "I16",
	I32:    "I32",
	I64:    "I64",
	STRING: "STRING",
	STRUCT: "STRUCT",
	MAP:    "MAP",
	SET:    "SET",
	LIST:   "LIST",
	UTF8:   "UTF8",
	UTF16:  "UTF16",
}

// String implements fmt.Stringer.
func (t TType) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "UNKNOWN"
}

// TMessageType identifies the role a message body plays on the wire.
type TMessageType int32

const (
	INVALID_TMESSAGE_TYPE TMessageType = 0
	CALL                  TMessageType = 1
	REPLY                 TMessageType = 2
	EXCEPTION             TMessageType = 3
	ONEWAY                TMessageType = 4
)

func (m TMessageType) String() string {
	switch m {
	case CALL:
		return "call"
	case REPLY:
		return "reply"
	case EXCEPTION:
		return "exception"
	case ONEWAY:
		return "oneway"
	default:
		return "invalid"
	}
}

// jsonVersion1 is the leading version tag every JSON-encoded message array
// carries: [1, "name", typeCode, seqid, body].
const jsonVersion1 = 1

// binaryFixedWidth reports the number of bytes a fixed-width primitive of
// type t occupies on the wire, or 0 if t has no fixed width (STRING,
// STRUCT, MAP, SET, LIST are all variable-width or headered).
func binaryFixedWidth(t TType) int {
	switch t {
	case BOOL, BYTE:
		return 1
	case I16:
		return 2
	case I32:
		return 4
	case I64, DOUBLE:
		return 8
	default:
		return 0
	}
}
