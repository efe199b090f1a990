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
	"errors"
	"testing"

	"github.com/loopthrift/loopthrift/internal/test"
)

// TestSkipUnknownMessageWritesApplicationException checks that an unknown
// CALL method produces a well-formed TApplicationException(UNKNOWN_METHOD)
// reply after the unread request body is discarded.
func TestSkipUnknownMessageWritesApplicationException(t *testing.T) {
	buf := NewMemoryBuffer(256)
	p := NewJSONProtocol(buf, nil)

	// The unknown request: a header and an empty struct body. The header is
	// read first, as a Processor does before it looks up the method name.
	test.Assert(t, p.WriteMessageBegin("Frobnicate", CALL, 5) == nil)
	test.Assert(t, p.WriteStructBegin("Args") == nil)
	test.Assert(t, p.WriteFieldStop() == nil)
	test.Assert(t, p.WriteStructEnd() == nil)
	test.Assert(t, p.WriteMessageEnd() == nil)
	_, _, _, err := p.ReadMessageBegin()
	test.Assert(t, err == nil, err)

	test.Assert(t, SkipUnknownMessage(p, p, "Frobnicate", CALL, 5) == nil)

	name, msgType, seqID, err := p.ReadMessageBegin()
	test.Assert(t, err == nil, err)
	test.DeepEqual(t, name, "Frobnicate")
	test.DeepEqual(t, msgType, EXCEPTION)
	test.DeepEqual(t, seqID, int32(5))

	exc := &TApplicationException{}
	test.Assert(t, exc.Read(p) == nil)
	test.DeepEqual(t, exc.code, APPLICATION_EXCEPTION_UNKNOWN_METHOD)
	test.DeepEqual(t, exc.message, "Unknown function Frobnicate")
}

// TestSkipUnknownMessageOnewayWritesNothing checks that a oneway call to an
// unknown method never produces a reply.
func TestSkipUnknownMessageOnewayWritesNothing(t *testing.T) {
	buf := NewMemoryBuffer(64)
	p := NewJSONProtocol(buf, nil)
	test.Assert(t, p.WriteMessageBegin("FireAndForget", ONEWAY, 1) == nil)
	test.Assert(t, p.WriteStructBegin("Args") == nil)
	test.Assert(t, p.WriteFieldStop() == nil)
	test.Assert(t, p.WriteStructEnd() == nil)
	test.Assert(t, p.WriteMessageEnd() == nil)
	_, _, _, err := p.ReadMessageBegin()
	test.Assert(t, err == nil, err)

	test.Assert(t, SkipUnknownMessage(p, p, "FireAndForget", ONEWAY, 1) == nil)
	test.DeepEqual(t, buf.RemainingBytes(), uint64(0))
}

func TestWriteInternalErrorWritesApplicationException(t *testing.T) {
	buf := NewMemoryBuffer(256)
	p := NewJSONProtocol(buf, nil)

	test.Assert(t, WriteInternalError(p, "Compute", CALL, 3, errors.New("panic: divide by zero")) == nil)

	name, msgType, seqID, err := p.ReadMessageBegin()
	test.Assert(t, err == nil, err)
	test.DeepEqual(t, name, "Compute")
	test.DeepEqual(t, msgType, EXCEPTION)
	test.DeepEqual(t, seqID, int32(3))

	exc := &TApplicationException{}
	test.Assert(t, exc.Read(p) == nil)
	test.DeepEqual(t, exc.code, APPLICATION_EXCEPTION_INTERNAL_ERROR)
	test.DeepEqual(t, exc.message, "panic: divide by zero")
}

func TestWriteInternalErrorOnewaySkipsReply(t *testing.T) {
	buf := NewMemoryBuffer(16)
	p := NewJSONProtocol(buf, nil)
	test.Assert(t, WriteInternalError(p, "Fire", ONEWAY, 1, errors.New("boom")) == nil)
	test.DeepEqual(t, buf.RemainingBytes(), uint64(0))
}

func TestProcessorFuncAdapter(t *testing.T) {
	called := false
	var proc Processor = ProcessorFunc(func(input, output Protocol) (bool, error) {
		called = true
		return true, nil
	})
	ok, err := proc.Process(nil, nil)
	test.Assert(t, err == nil)
	test.Assert(t, ok)
	test.Assert(t, called)
}
