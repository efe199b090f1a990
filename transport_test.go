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
	"time"

	"github.com/loopthrift/loopthrift/internal/test"
)

func TestDefaultTransportConfig(t *testing.T) {
	cfg := DefaultTransportConfig()
	test.DeepEqual(t, cfg.maxMessageSize(), defaultMaxMessageSize)
	test.DeepEqual(t, cfg.maxFrameSize(), defaultMaxMessageSize)
}

func TestTransportConfigOptions(t *testing.T) {
	cfg := NewTransportConfig(
		WithMaxMessageSize(1024),
		WithMaxFrameSize(256),
		WithReadTimeout(5*time.Second),
		WithWriteTimeout(3*time.Second),
	)
	test.DeepEqual(t, cfg.maxMessageSize(), int64(1024))
	test.DeepEqual(t, cfg.maxFrameSize(), int64(256))
	test.DeepEqual(t, cfg.ReadTimeout, 5*time.Second)
	test.DeepEqual(t, cfg.WriteTimeout, 3*time.Second)
}

func TestTransportConfigFrameSizeFallsBackToMessageSize(t *testing.T) {
	cfg := NewTransportConfig(WithMaxMessageSize(4096))
	test.DeepEqual(t, cfg.maxFrameSize(), int64(4096))
}

func TestNilTransportConfigUsesDefaults(t *testing.T) {
	var cfg *TransportConfig
	test.DeepEqual(t, cfg.maxMessageSize(), defaultMaxMessageSize)
	test.DeepEqual(t, cfg.maxFrameSize(), defaultMaxMessageSize)
}

func TestNopTransportFactory(t *testing.T) {
	base := NewMemoryBuffer(8)
	f := NopTransportFactory()
	got, err := f.GetTransport(base)
	test.Assert(t, err == nil, err)
	test.Assert(t, got == Transport(base))
}
