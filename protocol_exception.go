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

// TProtocolException codes classifying why a message failed to decode.
const (
	PROTOCOL_EXCEPTION_UNKNOWN         int32 = 0
	PROTOCOL_EXCEPTION_INVALID_DATA    int32 = 1
	PROTOCOL_EXCEPTION_NEGATIVE_SIZE   int32 = 2
	PROTOCOL_EXCEPTION_SIZE_LIMIT      int32 = 3
	PROTOCOL_EXCEPTION_BAD_VERSION     int32 = 4
	PROTOCOL_EXCEPTION_NOT_IMPLEMENTED int32 = 5
	PROTOCOL_EXCEPTION_DEPTH_LIMIT     int32 = 6
)

// TProtocolException signals malformed wire data: an unknown type tag, a
// missing delimiter, a bad version tag, a negative size. Fatal to the
// message being decoded; whether the connection survives depends on the
// transport's own framing.
type TProtocolException struct {
	codedError
}

// NewTProtocolException wraps err as a TProtocolException, passing through
// an existing TProtocolException unchanged rather than double-wrapping an
// already-typed exception, and defaulting to UNKNOWN otherwise.
func NewTProtocolException(err error) *TProtocolException {
	if err == nil {
		return nil
	}
	if pe, ok := err.(*TProtocolException); ok {
		return pe
	}
	return &TProtocolException{codedError{code: PROTOCOL_EXCEPTION_UNKNOWN, message: err.Error(), cause: err}}
}

// NewTProtocolExceptionWithType builds a TProtocolException carrying an
// explicit code and message.
func NewTProtocolExceptionWithType(code int32, message string) *TProtocolException {
	return &TProtocolException{codedError{code: code, message: message}}
}

func (e *TProtocolException) TypeId() int32 { return e.code }
