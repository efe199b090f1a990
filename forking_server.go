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
	"fmt"
	"net"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/loopthrift/loopthrift/internal/reexec"
	"github.com/loopthrift/loopthrift/pkg/tlog"
)

// forkingServerSeq disambiguates the re-exec entrypoint name across
// multiple ForkingServer instances constructed in one process.
var forkingServerSeq int64

// ForkingServer serves each accepted connection in its own child process
// rather than on the accept loop's own goroutine, giving each connection
// process-level isolation. Go cannot safely fork() a live multi-threaded
// runtime, so each "fork" here re-execs the current binary (see
// internal/reexec) with
// the accepted connection's file descriptor inherited by the child; the
// child runs the ordinary per-connection message loop and exits when the
// connection closes. The parent only ever tracks child PIDs and reaps them
// non-blockingly between accepts.
type ForkingServer struct {
	transport         ServerTransport
	inputTransportFn  TransportFactory
	outputTransportFn TransportFactory
	inputProtocolFn   ProtocolFactory
	outputProtocolFn  ProtocolFactory
	processor         Processor
	entrypoint        string

	stopped int32
	mu      sync.Mutex

	childrenMu sync.Mutex
	children   map[int]*exec.Cmd
}

var _ Server = (*ForkingServer)(nil)

// NewForkingServer builds a ForkingServer and registers its re-exec
// entrypoint. RunReexecChild must be called near the top of main() in any
// binary that constructs one, so a re-exec'd child recognizes it should
// run the connection handler instead of the server's own main logic.
func NewForkingServer(processor Processor, transport ServerTransport, inputTransportFactory, outputTransportFactory TransportFactory, inputProtocolFactory, outputProtocolFactory ProtocolFactory) *ForkingServer {
	if inputTransportFactory == nil {
		inputTransportFactory = NopTransportFactory()
	}
	if outputTransportFactory == nil {
		outputTransportFactory = NopTransportFactory()
	}
	if outputProtocolFactory == nil {
		outputProtocolFactory = inputProtocolFactory
	}
	id := atomic.AddInt64(&forkingServerSeq, 1)
	fs := &ForkingServer{
		transport:         transport,
		inputTransportFn:  inputTransportFactory,
		outputTransportFn: outputTransportFactory,
		inputProtocolFn:   inputProtocolFactory,
		outputProtocolFn:  outputProtocolFactory,
		processor:         processor,
		entrypoint:        fmt.Sprintf("loopthrift-forking-server-%d", id),
		children:          make(map[int]*exec.Cmd),
	}
	reexec.Register(fs.entrypoint, fs.runChild)
	return fs
}

// RunReexecChild must be called at the very top of main(), before any
// other startup work, in any process that constructs a ForkingServer. If
// this process is a re-exec'd connection handler it runs to completion and
// returns true (the caller should exit); otherwise it returns false
// immediately and the caller proceeds with ordinary startup.
func RunReexecChild() (ranAsChild bool, err error) {
	return reexec.Init()
}

// Serve accepts connections until Stop is called, handing each one to a
// freshly spawned child process.
func (fs *ForkingServer) Serve() error {
	if err := fs.transport.Listen(); err != nil {
		return err
	}
	tlog.Infof("%s %s starting ForkingServer", Name, Version)
	for atomic.LoadInt32(&fs.stopped) == 0 {
		fs.reapChildren()
		client, err := fs.transport.Accept()
		if err != nil {
			if atomic.LoadInt32(&fs.stopped) != 0 {
				return nil
			}
			if _, ok := err.(*TTransportException); ok {
				tlog.Warnf("thrift: accept failed, continuing: %v", err)
				continue
			}
			return err
		}
		if err := fs.forkChild(client); err != nil {
			tlog.Errorf("thrift: forking child for connection failed: %v", err)
		}
	}
	return nil
}

func (fs *ForkingServer) forkChild(client Transport) error {
	defer client.Close()

	sock, ok := client.(*SocketTransport)
	if !ok {
		return NewTTransportException(TRANSPORT_EXCEPTION_UNKNOWN, "forking server requires a SocketTransport-backed connection")
	}
	fileConn, ok := sock.Conn().(interface{ File() (*os.File, error) })
	if !ok {
		return NewTTransportException(TRANSPORT_EXCEPTION_UNKNOWN, "connection type cannot be duplicated as a file descriptor")
	}
	f, err := fileConn.File()
	if err != nil {
		return WrapTTransportException(TRANSPORT_EXCEPTION_UNKNOWN, "duplicating connection file descriptor failed", err)
	}
	defer f.Close()

	cmd := reexec.Command(fs.entrypoint, f)
	if err := cmd.Start(); err != nil {
		return WrapTTransportException(TRANSPORT_EXCEPTION_UNKNOWN, "spawning connection child failed", err)
	}
	fs.childrenMu.Lock()
	fs.children[cmd.Process.Pid] = cmd
	fs.childrenMu.Unlock()
	return nil
}

// runChild drives one connection's message loop to completion inside a
// re-exec'd child process.
func (fs *ForkingServer) runChild(connFile *os.File) error {
	conn, err := net.FileConn(connFile)
	if err != nil {
		return err
	}
	defer conn.Close()

	base := NewSocketTransport(conn, nil)
	inputTransport, err := fs.inputTransportFn.GetTransport(base)
	if err != nil {
		return err
	}
	outputTransport, err := fs.outputTransportFn.GetTransport(base)
	if err != nil {
		return err
	}
	inputProtocol := fs.inputProtocolFn.GetProtocol(inputTransport)
	outputProtocol := fs.outputProtocolFn.GetProtocol(outputTransport)

	for {
		ok, err := fs.processor.Process(inputProtocol, outputProtocol)
		if err != nil {
			if _, isTransportErr := err.(*TTransportException); isTransportErr {
				return nil
			}
			return err
		}
		if !ok {
			return nil
		}
	}
}

// reapChildren collects exit statuses of finished children without
// blocking, releasing the parent's bookkeeping for them. It does not
// propagate child failures; a crashed handler only affects its own
// connection.
func (fs *ForkingServer) reapChildren() {
	fs.childrenMu.Lock()
	defer fs.childrenMu.Unlock()
	for pid, cmd := range fs.children {
		var status syscall.WaitStatus
		wpid, err := syscall.Wait4(pid, &status, syscall.WNOHANG, nil)
		if err != nil || wpid == 0 {
			continue
		}
		delete(fs.children, pid)
		_ = cmd
	}
}

// Stop closes the listening transport; already-forked children continue
// to completion independently.
func (fs *ForkingServer) Stop() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if !atomic.CompareAndSwapInt32(&fs.stopped, 0, 1) {
		return nil
	}
	return fs.transport.Close()
}
