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

// Package failureoracle carries an optional socket-pool health cache: a
// best-effort record of which hosts have recently failed, consulted
// before dialing and updated after a dial outcome. Callers that don't
// want the cache simply use NoopOracle, where every lookup is a miss.
package failureoracle

import (
	"time"

	"github.com/bytedance/gopkg/collection/skipmap"
)

// Oracle records and answers whether a host is presently considered down.
// Implementations must be safe for concurrent use; concurrent writers of
// the same key may race, and last-writer-wins is acceptable since
// timestamps rather than counters drive the decision.
type Oracle interface {
	// MarkDown records host as having just failed.
	MarkDown(host string)
	// MarkUp clears a prior failure record for host, if any.
	MarkUp(host string)
	// IsDown reports whether host failed within the last window and
	// should be treated as unreachable for now.
	IsDown(host string, window time.Duration) bool
}

// NoopOracle never records anything and always reports every host as up.
// It is the zero-cost default when no failure cache is configured.
type NoopOracle struct{}

var _ Oracle = NoopOracle{}

func (NoopOracle) MarkDown(string) {}
func (NoopOracle) MarkUp(string) {}
func (NoopOracle) IsDown(string, time.Duration) bool { return false }

// MemoryOracle is a process-local, lock-free failure cache backed by
// bytedance/gopkg's skiplist-based StringMap, tracking per-key state
// without a global mutex.
type MemoryOracle struct {
	failures *skipmap.StringMap
}

var _ Oracle = (*MemoryOracle)(nil)

// NewMemoryOracle returns an empty MemoryOracle.
func NewMemoryOracle() *MemoryOracle {
	return &MemoryOracle{failures: skipmap.NewString()}
}

func (o *MemoryOracle) MarkDown(host string) {
	o.failures.Store(host, time.Now())
}

func (o *MemoryOracle) MarkUp(host string) {
	o.failures.Delete(host)
}

func (o *MemoryOracle) IsDown(host string, window time.Duration) bool {
	v, ok := o.failures.Load(host)
	if !ok {
		return false
	}
	failedAt, ok := v.(time.Time)
	if !ok {
		return false
	}
	return time.Since(failedAt) < window
}
