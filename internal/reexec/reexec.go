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

// Package reexec provides the self-re-exec plumbing ForkingServer uses in
// place of a raw fork(): the Go runtime cannot safely fork a live
// multi-threaded process without an immediate exec, so a forked
// connection handler is instead run by re-invoking the same binary as a
// fresh child process, with the accepted connection's file descriptor
// handed down via os/exec's ExtraFiles.
package reexec

import (
	"fmt"
	"os"
	"os/exec"
)

const entrypointEnv = "LOOPTHRIFT_REEXEC_ENTRYPOINT"

// Handler runs one child process's work against a connection file
// descriptor inherited from the parent, and returns once that connection
// is done.
type Handler func(conn *os.File) error

var registry = map[string]Handler{}

// Register associates name with a handler a re-exec'd child dispatches to.
// Call during package or server initialization, before Init runs.
func Register(name string, h Handler) {
	registry[name] = h
}

// Init checks whether the current process was launched as a registered
// re-exec entrypoint (via Command). If so, it runs the matching handler
// against file descriptor 3 (the connection Command attached as
// ExtraFiles[0]) and returns true; the caller should exit immediately
// afterward. If this process was launched normally, Init returns false
// without side effects. Must be called near the top of main(), before any
// other startup work that assumes a fresh top-level process.
func Init() (bool, error) {
	name := os.Getenv(entrypointEnv)
	if name == "" {
		return false, nil
	}
	h, ok := registry[name]
	if !ok {
		return true, fmt.Errorf("reexec: unregistered entrypoint %q", name)
	}
	connFile := os.NewFile(3, "loopthrift-conn")
	if connFile == nil {
		return true, fmt.Errorf("reexec: missing inherited connection file descriptor")
	}
	return true, h(connFile)
}

// Command builds an *exec.Cmd that re-invokes the current binary
// (os.Args[0]) as the entrypoint named name, with connFile inherited as
// file descriptor 3 in the child.
func Command(name string, connFile *os.File) *exec.Cmd {
	cmd := exec.Command(os.Args[0])
	cmd.Env = append(os.Environ(), entrypointEnv+"="+name)
	cmd.ExtraFiles = []*os.File{connFile}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd
}
