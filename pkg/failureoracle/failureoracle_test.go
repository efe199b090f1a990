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

package failureoracle

import (
	"testing"
	"time"

	"github.com/loopthrift/loopthrift/internal/test"
)

func TestNoopOracleAlwaysUp(t *testing.T) {
	var o NoopOracle
	o.MarkDown("host-a")
	test.Assert(t, !o.IsDown("host-a", time.Hour))
}

func TestMemoryOracleMarkDownAndUp(t *testing.T) {
	o := NewMemoryOracle()
	test.Assert(t, !o.IsDown("host-a", time.Minute))

	o.MarkDown("host-a")
	test.Assert(t, o.IsDown("host-a", time.Minute))

	o.MarkUp("host-a")
	test.Assert(t, !o.IsDown("host-a", time.Minute))
}

func TestMemoryOracleWindowExpiry(t *testing.T) {
	o := NewMemoryOracle()
	o.MarkDown("host-a")
	test.Assert(t, o.IsDown("host-a", time.Millisecond*50))
	time.Sleep(time.Millisecond * 75)
	test.Assert(t, !o.IsDown("host-a", time.Millisecond*50))
}

func TestMemoryOracleIndependentHosts(t *testing.T) {
	o := NewMemoryOracle()
	o.MarkDown("host-a")
	test.Assert(t, o.IsDown("host-a", time.Minute))
	test.Assert(t, !o.IsDown("host-b", time.Minute))
}
