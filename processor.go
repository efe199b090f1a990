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

// Processor is implemented by generated service handlers: read one message
// header from input, dispatch by method name, invoke the corresponding
// handler, write a reply (or exception reply) to output, and report
// whether the connection should keep serving further messages.
type Processor interface {
	Process(input, output Protocol) (bool, error)
}

// ProcessorFunc adapts a function to a Processor.
type ProcessorFunc func(input, output Protocol) (bool, error)

// Process implements Processor.
func (f ProcessorFunc) Process(input, output Protocol) (bool, error) {
	return f(input, output)
}

// SkipUnknownMessage discards the body of a message whose method name a
// Processor does not recognize, then writes back a CALL/ONEWAY-appropriate
// TApplicationException(UNKNOWN_METHOD) reply. ONEWAY calls get no reply,
// matching the ordinary dispatch rule that a oneway message never produces
// output.
func SkipUnknownMessage(input, output Protocol, name string, msgType TMessageType, seqID int32) error {
	if err := input.Skip(STRUCT); err != nil {
		return err
	}
	if err := input.ReadMessageEnd(); err != nil {
		return err
	}
	if msgType == ONEWAY {
		return nil
	}
	exc := NewTApplicationException(APPLICATION_EXCEPTION_UNKNOWN_METHOD, "Unknown function "+name)
	if err := output.WriteMessageBegin(name, EXCEPTION, seqID); err != nil {
		return err
	}
	if err := exc.Write(output); err != nil {
		return err
	}
	if err := output.WriteMessageEnd(); err != nil {
		return err
	}
	return output.Flush()
}

// WriteInternalError replies to a request with
// TApplicationException(INTERNAL_ERROR) wrapping err, the fallback a
// Processor uses for a handler panic or unchecked failure. Nothing is
// written for a ONEWAY request, since no reply is expected.
func WriteInternalError(output Protocol, name string, msgType TMessageType, seqID int32, err error) error {
	if msgType == ONEWAY {
		return nil
	}
	exc := NewTApplicationException(APPLICATION_EXCEPTION_INTERNAL_ERROR, err.Error())
	if werr := output.WriteMessageBegin(name, EXCEPTION, seqID); werr != nil {
		return werr
	}
	if werr := exc.Write(output); werr != nil {
		return werr
	}
	if werr := output.WriteMessageEnd(); werr != nil {
		return werr
	}
	return output.Flush()
}
