/*
 * ofagent - An OpenFlow Switch Agent
 *
 * Copyright (C) 2016 The ofagent Authors. All rights reserved.
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation; either version 2 of the License, or
 * any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License along
 * with this program; if not, write to the Free Software Foundation, Inc.,
 * 51 Franklin Street, Fifth Floor, Boston, MA 02110-1301 USA.
 */

package agent

import (
	"io"
	"net"
	"reflect"
	"testing"
	"time"

	"github.com/ofkit/ofagent/openflow"
)

const testTimeout = 2 * time.Second

// fakeController accepts the endpoint's connection and speaks raw
// OpenFlow over it.
type fakeController struct {
	t  *testing.T
	ln net.Listener
}

func newFakeController(t *testing.T) *fakeController {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	return &fakeController{t: t, ln: ln}
}

func (r *fakeController) close() {
	r.ln.Close()
}

func (r *fakeController) addr() string {
	return r.ln.Addr().String()
}

func (r *fakeController) accept() net.Conn {
	type result struct {
		conn net.Conn
		err  error
	}
	done := make(chan result, 1)
	go func() {
		conn, err := r.ln.Accept()
		done <- result{conn, err}
	}()

	select {
	case v := <-done:
		if v.err != nil {
			r.t.Fatalf("failed to accept: %v", v.err)
		}
		return v.conn
	case <-time.After(testTimeout):
		r.t.Fatal("timed out waiting for a connection")
	}
	return nil
}

func (r *fakeController) readMessage(conn net.Conn) openflow.Incoming {
	conn.SetReadDeadline(time.Now().Add(testTimeout))
	header := make([]byte, 8)
	if _, err := io.ReadFull(conn, header); err != nil {
		r.t.Fatalf("failed to read header: %v", err)
	}
	length := int(header[2])<<8 | int(header[3])
	if length < 8 {
		r.t.Fatalf("bad length in header: %v", length)
	}
	packet := make([]byte, length)
	copy(packet, header)
	if _, err := io.ReadFull(conn, packet[8:]); err != nil {
		r.t.Fatalf("failed to read body: %v", err)
	}

	msg, _, err := openflow.Decode(packet)
	if err != nil {
		r.t.Fatalf("failed to decode: %v", err)
	}
	return msg
}

func (r *fakeController) write(conn net.Conn, msg openflow.Outgoing) {
	data, err := msg.MarshalBinary()
	if err != nil {
		r.t.Fatalf("failed to marshal: %v", err)
	}
	conn.SetWriteDeadline(time.Now().Add(testTimeout))
	if _, err := conn.Write(data); err != nil {
		r.t.Fatalf("failed to write: %v", err)
	}
}

// handshake accepts a connection, verifies the endpoint's HELLO and
// answers with the given one.
func (r *fakeController) handshake(hello *openflow.Hello) net.Conn {
	conn := r.accept()
	msg := r.readMessage(conn)
	if msg.Type() != openflow.TypeHello {
		r.t.Fatalf("first message is not hello: %v", msg.Type())
	}
	r.write(conn, hello)

	return conn
}

func waitEvent(t *testing.T, events <-chan Event) Event {
	select {
	case ev := <-events:
		return ev
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for an event")
	}
	return nil
}

func startEndpoint(t *testing.T, controller string, events chan Event, version uint8, extra ...uint8) *Endpoint {
	endpoint, err := Start(Config{
		Controller:      controller,
		Events:          events,
		Version:         version,
		Versions:        extra,
		ReconnectPeriod: 50 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("failed to start the endpoint: %v", err)
	}

	return endpoint
}

func (r *Endpoint) inject(f func(*Endpoint)) {
	done := make(chan struct{})
	r.cmdC <- func(e *Endpoint) {
		f(e)
		close(done)
	}
	<-done
}

func TestNegotiation(t *testing.T) {
	controller := newFakeController(t)
	defer controller.close()
	events := make(chan Event, 16)
	endpoint := startEndpoint(t, controller.addr(), events, 4)
	defer endpoint.Stop()

	conn := controller.accept()
	defer conn.Close()
	msg := controller.readMessage(conn)
	hello, ok := msg.(*openflow.Hello)
	if !ok {
		t.Fatalf("first message is not hello: %T", msg)
	}
	if hello.Version() != 4 {
		t.Fatalf("unexpected hello version: %v", hello.Version())
	}
	if !reflect.DeepEqual(hello.VersionBitmap, []uint8{4}) {
		t.Fatalf("unexpected version bitmap: %v", hello.VersionBitmap)
	}

	controller.write(conn, openflow.NewHello(4, 1))
	ev := waitEvent(t, events)
	connected, ok := ev.(Connected)
	if !ok {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if connected.Version != 4 {
		t.Fatalf("unexpected negotiated version: %v", connected.Version)
	}

	status := endpoint.Status()
	if status.State != "open" || status.Version != 4 || status.Role != "equal" {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestNegotiationBitmapIntersection(t *testing.T) {
	controller := newFakeController(t)
	defer controller.close()
	events := make(chan Event, 16)
	endpoint := startEndpoint(t, controller.addr(), events, 4, 3)
	defer endpoint.Stop()

	serverHello := openflow.NewHello(3, 1)
	serverHello.VersionBitmap = []uint8{1, 3}
	conn := controller.handshake(serverHello)
	defer conn.Close()

	ev := waitEvent(t, events)
	connected, ok := ev.(Connected)
	if !ok {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if connected.Version != 3 {
		t.Fatalf("unexpected negotiated version: expected=3, actual=%v", connected.Version)
	}
}

func TestNoCommonVersion(t *testing.T) {
	controller := newFakeController(t)
	defer controller.close()
	events := make(chan Event, 16)
	endpoint := startEndpoint(t, controller.addr(), events, 4)
	defer endpoint.Stop()

	serverHello := openflow.NewHello(3, 1)
	serverHello.VersionBitmap = []uint8{1, 2, 3}
	conn := controller.handshake(serverHello)
	defer conn.Close()

	ev := waitEvent(t, events)
	closed, ok := ev.(ConnectionClosed)
	if !ok {
		t.Fatalf("unexpected event: %+v", ev)
	}
	reason, ok := closed.Reason.(*NoCommonVersionError)
	if !ok {
		t.Fatalf("unexpected reason: %v", closed.Reason)
	}
	if !reflect.DeepEqual(reason.Client, []uint8{4}) || !reflect.DeepEqual(reason.Server, []uint8{1, 2, 3}) {
		t.Fatalf("unexpected version sets: %+v", reason)
	}
}

func TestBadInitialMessage(t *testing.T) {
	controller := newFakeController(t)
	defer controller.close()
	events := make(chan Event, 16)
	endpoint := startEndpoint(t, controller.addr(), events, 4)
	defer endpoint.Stop()

	conn := controller.accept()
	defer conn.Close()
	controller.readMessage(conn)
	controller.write(conn, openflow.NewEchoRequest(4, 1))

	ev := waitEvent(t, events)
	closed, ok := ev.(ConnectionClosed)
	if !ok {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if closed.Reason != ErrBadInitialMessage {
		t.Fatalf("unexpected reason: %v", closed.Reason)
	}
}

func connectV4(t *testing.T, controller *fakeController, events chan Event, endpoint *Endpoint) net.Conn {
	conn := controller.handshake(openflow.NewHello(4, 1))
	ev := waitEvent(t, events)
	if _, ok := ev.(Connected); !ok {
		t.Fatalf("unexpected event: %+v", ev)
	}

	return conn
}

func TestSlaveWriteBlock(t *testing.T) {
	controller := newFakeController(t)
	defer controller.close()
	events := make(chan Event, 16)
	endpoint := startEndpoint(t, controller.addr(), events, 4)
	defer endpoint.Stop()

	conn := connectV4(t, controller, events, endpoint)
	defer conn.Close()
	endpoint.inject(func(e *Endpoint) { e.role = RoleSlave })

	// A modifying request from a slave controller is answered with an
	// error and never reaches the controlling process.
	controller.write(conn, openflow.NewGeneric(4, openflow.TypeFlowMod, 42, make([]byte, 40)))
	reply := controller.readMessage(conn)
	errMsg, ok := reply.(*openflow.Error)
	if !ok {
		t.Fatalf("unexpected reply: %T", reply)
	}
	if errMsg.Class != openflow.ErrTypeBadRequest || errMsg.Code != openflow.ErrCodeIsSlave {
		t.Fatalf("unexpected class/code: %v/%v", errMsg.Class, errMsg.Code)
	}
	if errMsg.TransactionID() != 42 {
		t.Fatalf("unexpected xid: %v", errMsg.TransactionID())
	}

	// An echo request sent afterwards must be the first and only
	// message forwarded upward.
	controller.write(conn, openflow.NewEchoRequest(4, 43))
	ev := waitEvent(t, events)
	received, ok := ev.(MessageReceived)
	if !ok {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if received.Message.Type() != openflow.TypeEchoRequest {
		t.Fatalf("flow_mod leaked past the slave write-block: %v", received.Message.Type())
	}
}

func TestInboundForwarding(t *testing.T) {
	controller := newFakeController(t)
	defer controller.close()
	events := make(chan Event, 16)
	endpoint := startEndpoint(t, controller.addr(), events, 4)
	defer endpoint.Stop()

	conn := connectV4(t, controller, events, endpoint)
	defer conn.Close()

	setConfig := openflow.NewSetConfig(4, 17)
	setConfig.Flags = []string{"frag_drop"}
	setConfig.MissSendLen = 128
	controller.write(conn, setConfig)
	// role_request is reserved and must be dropped silently.
	controller.write(conn, openflow.NewGeneric(4, openflow.TypeRoleRequest, 18, make([]byte, 16)))
	controller.write(conn, openflow.NewGeneric(4, openflow.TypeBarrierRequest, 19, nil))

	ev := waitEvent(t, events)
	received, ok := ev.(MessageReceived)
	if !ok {
		t.Fatalf("unexpected event: %+v", ev)
	}
	decoded, ok := received.Message.(*openflow.SetConfig)
	if !ok {
		t.Fatalf("unexpected message: %T", received.Message)
	}
	if decoded.MissSendLen != 128 {
		t.Fatalf("unexpected miss_send_len: %v", decoded.MissSendLen)
	}

	ev = waitEvent(t, events)
	received, ok = ev.(MessageReceived)
	if !ok {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if received.Message.Type() != openflow.TypeBarrierRequest {
		t.Fatalf("unexpected message order: %v", received.Message.Type())
	}
}

func TestSendValidationAndFilter(t *testing.T) {
	controller := newFakeController(t)
	defer controller.close()
	events := make(chan Event, 16)
	endpoint := startEndpoint(t, controller.addr(), events, 4)
	defer endpoint.Stop()

	// Not yet connected.
	if err := endpoint.Send(openflow.NewPacketIn(4, 1)); err != ErrNotConnected {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}

	conn := connectV4(t, controller, events, endpoint)
	defer conn.Close()

	// An inbound-only type is rejected regardless of state.
	err := endpoint.Send(openflow.NewGeneric(4, openflow.TypeFlowMod, 2, nil))
	if _, ok := err.(*BadMessageError); !ok {
		t.Fatalf("expected *BadMessageError, got %v", err)
	}

	// packet_in passes the default filter.
	if err := endpoint.Send(openflow.NewPacketIn(4, 3)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg := controller.readMessage(conn); msg.Type() != openflow.TypePacketIn {
		t.Fatalf("unexpected message on the wire: %v", msg.Type())
	}

	// Masking packet_in for master/equal suppresses the send.
	filter := DefaultAsyncFilter()
	filter.MasterEqual.PacketIn = false
	endpoint.SetAsyncFilter(filter)
	if err := endpoint.Send(openflow.NewPacketIn(4, 4)); err != ErrFiltered {
		t.Fatalf("expected ErrFiltered, got %v", err)
	}

	// Non-async replies are never filtered.
	if err := endpoint.Send(openflow.NewGeneric(4, openflow.TypeBarrierReply, 5, nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg := controller.readMessage(conn); msg.Type() != openflow.TypeBarrierReply {
		t.Fatalf("unexpected message on the wire: %v", msg.Type())
	}
}

func TestReconnect(t *testing.T) {
	controller := newFakeController(t)
	defer controller.close()
	events := make(chan Event, 16)
	endpoint := startEndpoint(t, controller.addr(), events, 4)
	defer endpoint.Stop()

	conn := connectV4(t, controller, events, endpoint)
	conn.Close()

	ev := waitEvent(t, events)
	closed, ok := ev.(ConnectionClosed)
	if !ok {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if closed.Reason != ErrTCPClosed {
		t.Fatalf("unexpected reason: %v", closed.Reason)
	}

	// The endpoint must dial again after the reconnect period.
	conn = connectV4(t, controller, events, endpoint)
	conn.Close()
}

func TestControllingProcessRebind(t *testing.T) {
	controller := newFakeController(t)
	defer controller.close()
	events := make(chan Event, 16)
	endpoint := startEndpoint(t, controller.addr(), events, 4)
	defer endpoint.Stop()

	conn := connectV4(t, controller, events, endpoint)
	defer conn.Close()

	rebound := make(chan Event, 16)
	endpoint.ControllingProcess(rebound)

	controller.write(conn, openflow.NewEchoRequest(4, 1))
	ev := waitEvent(t, rebound)
	if _, ok := ev.(MessageReceived); !ok {
		t.Fatalf("unexpected event on the rebound channel: %+v", ev)
	}
	select {
	case ev := <-events:
		t.Fatalf("event leaked to the old channel: %+v", ev)
	default:
	}
}

func TestMakeSlave(t *testing.T) {
	controller := newFakeController(t)
	defer controller.close()
	events := make(chan Event, 16)
	endpoint := startEndpoint(t, controller.addr(), events, 4)
	defer endpoint.Stop()

	// Demotion only applies to a master.
	endpoint.MakeSlave()
	if status := endpoint.Status(); status.Role != "equal" {
		t.Fatalf("make_slave must not demote an equal: %v", status.Role)
	}

	endpoint.inject(func(e *Endpoint) { e.role = RoleMaster })
	endpoint.MakeSlave()
	if status := endpoint.Status(); status.Role != "slave" {
		t.Fatalf("unexpected role: %v", status.Role)
	}
}

func TestStop(t *testing.T) {
	controller := newFakeController(t)
	defer controller.close()
	events := make(chan Event, 16)
	endpoint := startEndpoint(t, controller.addr(), events, 4)

	conn := connectV4(t, controller, events, endpoint)
	defer conn.Close()

	endpoint.Stop()
	if err := endpoint.Send(openflow.NewPacketIn(4, 1)); err != ErrStopped {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
	// Stop sends no upcall.
	select {
	case ev := <-events:
		t.Fatalf("unexpected event after stop: %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBadDataResets(t *testing.T) {
	controller := newFakeController(t)
	defer controller.close()
	events := make(chan Event, 16)
	endpoint := startEndpoint(t, controller.addr(), events, 4)
	defer endpoint.Stop()

	conn := connectV4(t, controller, events, endpoint)
	defer conn.Close()

	// A framing-impossible header (length < 8) kills the session.
	conn.SetWriteDeadline(time.Now().Add(testTimeout))
	if _, err := conn.Write([]byte{0x04, 0x00, 0x00, 0x04, 0x00, 0x00, 0x00, 0x01}); err != nil {
		t.Fatalf("failed to write: %v", err)
	}

	ev := waitEvent(t, events)
	closed, ok := ev.(ConnectionClosed)
	if !ok {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if _, ok := closed.Reason.(*openflow.BadDataError); !ok {
		t.Fatalf("unexpected reason: %v", closed.Reason)
	}
}
