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

package reexec

import (
	"os"
	"testing"

	"github.com/loopthrift/loopthrift/internal/test"
)

func TestInitReturnsFalseOutsideReexec(t *testing.T) {
	os.Unsetenv(entrypointEnv)
	ranAsChild, err := Init()
	test.Assert(t, err == nil, err)
	test.Assert(t, !ranAsChild)
}

func TestInitReportsUnregisteredEntrypoint(t *testing.T) {
	os.Setenv(entrypointEnv, "no-such-entrypoint")
	defer os.Unsetenv(entrypointEnv)

	ranAsChild, err := Init()
	test.Assert(t, ranAsChild, "expected Init to recognize the re-exec env var")
	test.Assert(t, err != nil, "expected an error for an unregistered entrypoint")
}

func TestCommandSetsEntrypointEnvAndExtraFile(t *testing.T) {
	r, w, err := os.Pipe()
	test.Assert(t, err == nil, err)
	defer r.Close()
	defer w.Close()

	cmd := Command("my-entrypoint", w)
	test.DeepEqual(t, len(cmd.ExtraFiles), 1)
	test.Assert(t, cmd.ExtraFiles[0] == w)

	found := false
	for _, kv := range cmd.Env {
		if kv == entrypointEnv+"=my-entrypoint" {
			found = true
		}
	}
	test.Assert(t, found, "expected entrypoint env var to be set on the child command")
}

func TestRegisterAddsHandler(t *testing.T) {
	called := false
	Register("test-handler-registration", func(conn *os.File) error {
		called = true
		return nil
	})
	h, ok := registry["test-handler-registration"]
	test.Assert(t, ok)
	test.Assert(t, h(nil) == nil)
	test.Assert(t, called)
}
