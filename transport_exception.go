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

// TTransportException codes classifying why a connection-level operation
// failed.
const (
	TRANSPORT_EXCEPTION_UNKNOWN            int32 = 0
	TRANSPORT_EXCEPTION_NOT_OPEN           int32 = 1
	TRANSPORT_EXCEPTION_ALREADY_OPEN       int32 = 2
	TRANSPORT_EXCEPTION_TIMED_OUT          int32 = 3
	TRANSPORT_EXCEPTION_END_OF_FILE        int32 = 4
	TRANSPORT_EXCEPTION_NEGATIVE_SIZE      int32 = 5
	TRANSPORT_EXCEPTION_SIZE_LIMIT         int32 = 6
	TRANSPORT_EXCEPTION_INVALID_CLIENT_TYPE int32 = 7
	TRANSPORT_EXCEPTION_CORRUPTED_DATA     int32 = 8
)

// TTransportException is fatal to the owning connection: a short read, a
// timeout, or a framing-size violation. The caller must close the
// transport rather than reuse it.
type TTransportException struct {
	codedError
}

// NewTTransportException builds a TTransportException carrying code and
// message.
func NewTTransportException(code int32, message string) *TTransportException {
	return &TTransportException{codedError{code: code, message: message}}
}

// WrapTTransportException attaches cause to a new TTransportException of
// the given code.
func WrapTTransportException(code int32, message string, cause error) *TTransportException {
	return &TTransportException{codedError{code: code, message: message, cause: cause}}
}

// TypeId matches the tException shape used elsewhere in the package for
// generic exception handling (Apache Thrift's own naming, kept for
// interoperability with the rest of the wire-level exception surface).
func (e *TTransportException) TypeId() int32 { return e.code }
