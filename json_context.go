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

// jsonContextKind tags the shape of container a jsonContext governs.
// Modeled as a tagged variant with a transition table (see separator,
// escapeNum below) rather than a Context/ListContext/PairContext/
// MapContext class hierarchy, since Go has no inheritance to express that
// family naturally.
type jsonContextKind int

const (
	jsonContextBase jsonContextKind = iota
	jsonContextList
	jsonContextPair // struct body: alternating field-id key, value
	jsonContextMap  // map body: alternating key, value
)

// jsonContext tracks one level of JSON nesting: what separators are due
// before the next value, and whether that value must have its numeric
// encoding quoted.
type jsonContext struct {
	kind jsonContextKind
	pos  int // count of values already written/read at this level
}

// separator reports the byte that must precede the value about to be
// written or read, or 0 if none is due. Base and List never require
// numeric quoting; Pair and Map alternate comma-before-key and
// colon-before-value.
func (c *jsonContext) separator() byte {
	switch c.kind {
	case jsonContextList:
		if c.pos == 0 {
			return 0
		}
		return ','
	case jsonContextPair, jsonContextMap:
		if c.pos == 0 {
			return 0
		}
		if c.pos%2 == 0 {
			return ','
		}
		return ':'
	default:
		return 0
	}
}

// advance records that one value has just been written or read at this
// level.
func (c *jsonContext) advance() { c.pos++ }

// escapeNum reports whether the value about to be written or read must be
// quoted even when it is numeric. True exactly in key position of a Pair
// or Map context.
func (c *jsonContext) escapeNum() bool {
	switch c.kind {
	case jsonContextPair, jsonContextMap:
		return c.pos%2 == 0
	default:
		return false
	}
}

// jsonContextStack is the JSON protocols' write/read state: a stack of
// jsonContext values, always non-empty conceptually (an empty stack reads
// as the implicit Base context). Every …Begin call pushes a context and
// every matching …End call pops it; leaving values on the stack at
// WriteMessageEnd/ReadMessageEnd time is a bug in the caller.
type jsonContextStack struct {
	frames []*jsonContext
	base   jsonContext
}

// current returns the active context, or this stack's own Base context if
// no level is open. The base context is owned by the stack (not shared
// across instances) so concurrent use of two protocols never races on it,
// even though Base's separator/escapeNum never actually consult pos.
func (s *jsonContextStack) current() *jsonContext {
	if len(s.frames) == 0 {
		return &s.base
	}
	return s.frames[len(s.frames)-1]
}

// push starts a new nested context of kind.
func (s *jsonContextStack) push(kind jsonContextKind) {
	s.frames = append(s.frames, &jsonContext{kind: kind})
}

// pop ends the innermost context. Popping an empty stack is a caller bug;
// it is reported rather than silently ignored so mismatched Begin/End
// pairs surface immediately.
func (s *jsonContextStack) pop() error {
	if len(s.frames) == 0 {
		return NewTProtocolExceptionWithType(PROTOCOL_EXCEPTION_INVALID_DATA, "json context stack underflow")
	}
	s.frames = s.frames[:len(s.frames)-1]
	return nil
}

// depth reports how many nested contexts remain open, so callers can
// assert the stack is empty at message boundaries.
func (s *jsonContextStack) depth() int {
	return len(s.frames)
}
