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
	"sync"
	"sync/atomic"

	"github.com/loopthrift/loopthrift/pkg/tlog"
)

// ProtocolFactory builds a Protocol around a transport. One factory serves
// the input side of a connection and one (possibly the same) serves the
// output side.
type ProtocolFactory interface {
	GetProtocol(transport Transport) Protocol
}

// ProtocolFactoryFunc adapts a function to a ProtocolFactory.
type ProtocolFactoryFunc func(transport Transport) Protocol

// GetProtocol implements ProtocolFactory.
func (f ProtocolFactoryFunc) GetProtocol(transport Transport) Protocol {
	return f(transport)
}

// NewJSONProtocolFactory returns a ProtocolFactory producing JSONProtocol
// instances configured with cfg.
func NewJSONProtocolFactory(cfg *TransportConfig) ProtocolFactory {
	return ProtocolFactoryFunc(func(transport Transport) Protocol {
		return NewJSONProtocol(transport, cfg)
	})
}

// Server binds a listening transport, a processor and a pair of transport/
// protocol factories, accepting connections and driving each one's
// message loop to completion.
type Server interface {
	Serve() error
	Stop() error
}

// SimpleServer serves connections sequentially on the calling goroutine:
// accept, process every message on that connection to completion or
// error, close, accept the next. It never spawns a goroutine per
// connection — that is the job of ForkingServer, which trades sequential
// simplicity for process-level isolation instead.
type SimpleServer struct {
	transport         ServerTransport
	inputTransportFn  TransportFactory
	outputTransportFn TransportFactory
	inputProtocolFn   ProtocolFactory
	outputProtocolFn  ProtocolFactory
	processor         Processor

	stopped int32
	mu      sync.Mutex
}

var _ Server = (*SimpleServer)(nil)

// NewSimpleServer builds a SimpleServer. Nil transport factories default
// to NopTransportFactory(); a nil output protocol factory reuses
// inputProtocolFactory.
func NewSimpleServer(processor Processor, transport ServerTransport, inputTransportFactory, outputTransportFactory TransportFactory, inputProtocolFactory, outputProtocolFactory ProtocolFactory) *SimpleServer {
	if inputTransportFactory == nil {
		inputTransportFactory = NopTransportFactory()
	}
	if outputTransportFactory == nil {
		outputTransportFactory = NopTransportFactory()
	}
	if outputProtocolFactory == nil {
		outputProtocolFactory = inputProtocolFactory
	}
	return &SimpleServer{
		transport:         transport,
		inputTransportFn:  inputTransportFactory,
		outputTransportFn: outputTransportFactory,
		inputProtocolFn:   inputProtocolFactory,
		outputProtocolFn:  outputProtocolFactory,
		processor:         processor,
	}
}

// Serve listens and accepts connections until Stop is called, serving each
// connection sequentially before accepting the next.
func (s *SimpleServer) Serve() error {
	if err := s.transport.Listen(); err != nil {
		return err
	}
	tlog.Infof("%s %s starting SimpleServer", Name, Version)
	for atomic.LoadInt32(&s.stopped) == 0 {
		client, err := s.transport.Accept()
		if err != nil {
			if atomic.LoadInt32(&s.stopped) != 0 {
				return nil
			}
			if _, ok := err.(*TTransportException); ok {
				tlog.Warnf("thrift: accept failed, continuing: %v", err)
				continue
			}
			return err
		}
		s.serveClient(client)
	}
	return nil
}

func (s *SimpleServer) serveClient(client Transport) {
	defer client.Close()

	inputTransport, err := s.inputTransportFn.GetTransport(client)
	if err != nil {
		tlog.Errorf("thrift: building input transport failed: %v", err)
		return
	}
	outputTransport, err := s.outputTransportFn.GetTransport(client)
	if err != nil {
		tlog.Errorf("thrift: building output transport failed: %v", err)
		return
	}
	inputProtocol := s.inputProtocolFn.GetProtocol(inputTransport)
	outputProtocol := s.outputProtocolFn.GetProtocol(outputTransport)

	for {
		ok, err := s.processor.Process(inputProtocol, outputProtocol)
		if err != nil {
			if _, isTransportErr := err.(*TTransportException); isTransportErr {
				return
			}
			tlog.Errorf("thrift: processing error, closing connection: %v", err)
			return
		}
		if !ok {
			return
		}
	}
}

// Stop closes the listening transport; the accept loop exits at its next
// iteration. Cooperative only: in-flight processing on an already
// accepted connection runs to completion.
func (s *SimpleServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !atomic.CompareAndSwapInt32(&s.stopped, 0, 1) {
		return nil
	}
	return s.transport.Close()
}
