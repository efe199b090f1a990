//go:build !windows

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

// TestNewForkingServerRegistersDistinctEntrypoints checks that constructing
// two ForkingServer instances in one process never collides on the same
// re-exec entrypoint name, since reexec.Register would silently let a
// second registration shadow the first.
func TestNewForkingServerRegistersDistinctEntrypoints(t *testing.T) {
	listener := NewSocketServerTransport("tcp", "127.0.0.1:0", nil, nil)
	protoFactory := NewJSONProtocolFactory(nil)

	fs1 := NewForkingServer(pingProcessor{}, listener, nil, nil, protoFactory, nil)
	fs2 := NewForkingServer(pingProcessor{}, listener, nil, nil, protoFactory, nil)

	test.Assert(t, fs1.entrypoint != fs2.entrypoint)
}

func TestForkingServerStopBeforeServeIsIdempotent(t *testing.T) {
	listener := NewSocketServerTransport("tcp", "127.0.0.1:0", nil, nil)
	fs := NewForkingServer(pingProcessor{}, listener, nil, nil, NewJSONProtocolFactory(nil), nil)
	test.Assert(t, listener.Listen() == nil)
	test.Assert(t, fs.Stop() == nil)
	test.Assert(t, fs.Stop() == nil)
}

func TestForkingServerReapChildrenNoChildrenIsNoop(t *testing.T) {
	listener := NewSocketServerTransport("tcp", "127.0.0.1:0", nil, nil)
	fs := NewForkingServer(pingProcessor{}, listener, nil, nil, NewJSONProtocolFactory(nil), nil)
	fs.reapChildren()
	test.DeepEqual(t, len(fs.children), 0)
}
