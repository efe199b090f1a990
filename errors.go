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

// codedError is the shared shape behind TTransportException,
// TProtocolException and TApplicationException: a small numeric code plus
// a free-form message and an optional wrapped cause. Collapsed into one
// type per exception family since each family here is closed (a fixed code
// table) rather than an open registry of basic errors.
type codedError struct {
	code    int32
	message string
	cause   error
}

func (e *codedError) Error() string {
	if e.cause != nil {
		if e.message == "" {
			return e.cause.Error()
		}
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

func (e *codedError) Unwrap() error {
	return e.cause
}

func (e *codedError) TypeID() int32 {
	return e.code
}

// tException is the common shape recovered generic Thrift-exception values
// (including foreign ones) satisfy: an error with a TypeId. Named lower
// case; it exists only so typeIDOf can recognize exceptions beyond the
// three concrete families.
type tException interface {
	error
	TypeId() int32
}

func typeIDOf(err error) (int32, bool) {
	switch e := err.(type) {
	case *TApplicationException:
		return e.code, true
	case *TProtocolException:
		return e.code, true
	case *TTransportException:
		return e.code, true
	case tException:
		return e.TypeId(), true
	default:
		return 0, false
	}
}

// PrependError adds a prefix to err's message while preserving whichever of
// the three exception families it belongs to, falling back to a plain
// wrapped error for anything else.
func PrependError(prepend string, err error) error {
	switch e := err.(type) {
	case *TTransportException:
		return NewTTransportException(e.code, prepend+e.Error())
	case *TProtocolException:
		return NewTProtocolExceptionWithType(e.code, prepend+e.Error())
	case *TApplicationException:
		return NewTApplicationException(e.code, prepend+e.Error())
	default:
		return fmt.Errorf("%s%w", prepend, err)
	}
}
