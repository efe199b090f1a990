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

import "encoding/binary"

// SkipBinary consumes exactly one well-formed value of typeID directly off
// transport, without going through a Protocol instance. It understands only
// fixed-width primitives and length-prefixed strings/binary; struct and
// container types are not fixed-width so callers that might see one of
// those should use SkipType against a real Protocol instead.
func SkipBinary(transport Transport, typeID TType) error {
	if width := binaryFixedWidth(typeID); width > 0 {
		_, err := transport.ReadAll(width)
		return err
	}
	switch typeID {
	case STRING:
		header, err := transport.ReadAll(4)
		if err != nil {
			return err
		}
		size := int32(binary.BigEndian.Uint32(header))
		if size < 0 {
			return NewTProtocolExceptionWithType(PROTOCOL_EXCEPTION_NEGATIVE_SIZE, "negative string length")
		}
		if size == 0 {
			return nil
		}
		_, err = transport.ReadAll(int(size))
		return err
	default:
		return NewTProtocolExceptionWithType(PROTOCOL_EXCEPTION_NOT_IMPLEMENTED, "SkipBinary does not support this type")
	}
}
