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
	"testing"

	"github.com/loopthrift/loopthrift/internal/test"
)

func TestTTypeString(t *testing.T) {
	test.DeepEqual(t, BOOL.String(), "BOOL")
	test.DeepEqual(t, STRUCT.String(), "STRUCT")
	test.DeepEqual(t, TType(99).String(), "UNKNOWN")
}

func TestTMessageTypeString(t *testing.T) {
	test.DeepEqual(t, CALL.String(), "call")
	test.DeepEqual(t, ONEWAY.String(), "oneway")
	test.DeepEqual(t, TMessageType(99).String(), "invalid")
}

func TestBinaryFixedWidth(t *testing.T) {
	cases := map[TType]int{
		BOOL: 1, BYTE: 1, I16: 2, I32: 4, I64: 8, DOUBLE: 8,
		STRING: 0, STRUCT: 0, MAP: 0, SET: 0, LIST: 0,
	}
	for typeID, want := range cases {
		test.Assert(t, binaryFixedWidth(typeID) == want, typeID, want)
	}
}
