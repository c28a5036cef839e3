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

// Package agent implements the switch-side endpoint of an OpenFlow
// control connection: one TCP connection to a controller, driven by a
// single-goroutine actor that negotiates the protocol version,
// reconnects on loss, enforces controller-role semantics and routes
// decoded messages to a controlling process.
package agent

import (
	"encoding/binary"
	"io"
	"net"
	"time"

	"github.com/ofkit/ofagent/openflow"

	"github.com/davecgh/go-spew/spew"
	"github.com/op/go-logging"
	"github.com/pkg/errors"
	"golang.org/x/net/context"
)

var logger = logging.MustGetLogger("agent")

const (
	DefaultController      = "127.0.0.1:6633"
	DefaultVersion         = openflow.Version4
	DefaultReconnectPeriod = 5 * time.Second

	readChunkSize = 4096
)

// Message types the switch side is allowed to emit.
var outboundTypes = map[openflow.Type]bool{
	openflow.TypeHello:               true,
	openflow.TypeError:               true,
	openflow.TypeEchoReply:           true,
	openflow.TypeFeaturesReply:       true,
	openflow.TypeGetConfigReply:      true,
	openflow.TypePacketIn:            true,
	openflow.TypeFlowRemoved:         true,
	openflow.TypePortStatus:          true,
	openflow.TypeStatsReply:          true,
	openflow.TypeBarrierReply:        true,
	openflow.TypeQueueGetConfigReply: true,
	openflow.TypeRoleReply:           true,
	openflow.TypeGetAsyncReply:       true,
}

// Inbound types that are delivered to the controlling process. The
// rest are dropped.
var forwardTypes = map[openflow.Type]bool{
	openflow.TypeEchoRequest:           true,
	openflow.TypeFeaturesRequest:       true,
	openflow.TypeGetConfigRequest:      true,
	openflow.TypeSetConfig:             true,
	openflow.TypePacketOut:             true,
	openflow.TypeFlowMod:               true,
	openflow.TypeGroupMod:              true,
	openflow.TypePortMod:               true,
	openflow.TypeTableMod:              true,
	openflow.TypeStatsRequest:          true,
	openflow.TypeBarrierRequest:        true,
	openflow.TypeQueueGetConfigRequest: true,
	openflow.TypeMeterMod:              true,
}

// Switch-modifying requests a slave controller must not issue.
var slaveBlockedTypes = map[openflow.Type]bool{
	openflow.TypeFlowMod:  true,
	openflow.TypeGroupMod: true,
	openflow.TypePortMod:  true,
	openflow.TypeTableMod: true,
	openflow.TypeMeterMod: true,
}

type state int

const (
	stateDisconnected state = iota
	stateConnecting
	stateOpen
)

func (r state) String() string {
	switch r {
	case stateDisconnected:
		return "disconnected"
	case stateConnecting:
		return "connecting"
	case stateOpen:
		return "open"
	}
	return "unknown"
}

// Config carries the construction options of an endpoint.
type Config struct {
	// Controller is the host:port the endpoint connects to.
	// Defaults to 127.0.0.1:6633.
	Controller string
	// Events receives the upcalls. Mandatory.
	Events chan<- Event
	// Version is the preferred protocol version. Defaults to 4.
	Version uint8
	// Versions lists additionally supported versions.
	Versions []uint8
	// ReconnectPeriod is the retry interval while disconnected.
	// Defaults to 5 seconds.
	ReconnectPeriod time.Duration
}

// Status is a point-in-time snapshot of an endpoint.
type Status struct {
	State        string `json:"state"`
	Controller   string `json:"controller"`
	Role         string `json:"role"`
	Version      uint8  `json:"version"`
	GenerationID uint64 `json:"generation_id"`
}

// Endpoint owns one control connection. All of its state is confined
// to the actor goroutine; the exported methods are synchronous calls
// into it.
type Endpoint struct {
	controller string
	versions   []uint8
	reconnect  time.Duration

	cmdC   chan interface{}
	cancel context.CancelFunc
	done   chan struct{}

	// Everything below is owned by the actor goroutine.
	ctx          context.Context
	events       chan<- Event
	state        state
	conn         net.Conn
	readC        chan readResult
	readDone     chan struct{}
	pre          []byte
	parser       *openflow.Parser
	version      uint8
	role         Role
	generationID uint64
	filter       AsyncFilter
	errors       *errorFactory
	xid          uint32
}

type readResult struct {
	data []byte
	err  error
}

type sendCmd struct {
	msg   openflow.Outgoing
	reply chan error
}

type rebindCmd struct {
	events chan<- Event
	reply  chan struct{}
}

type makeSlaveCmd struct {
	reply chan struct{}
}

type setFilterCmd struct {
	filter AsyncFilter
	reply  chan struct{}
}

type statusCmd struct {
	reply chan Status
}

// Start spawns an endpoint and immediately begins its first connect
// attempt.
func Start(config Config) (*Endpoint, error) {
	if config.Events == nil {
		return nil, errors.New("nil event channel")
	}
	if config.Controller == "" {
		config.Controller = DefaultController
	}
	if config.Version == 0 {
		config.Version = DefaultVersion
	}
	if config.ReconnectPeriod == 0 {
		config.ReconnectPeriod = DefaultReconnectPeriod
	}
	versions := mergeVersions(config.Version, config.Versions)
	for _, v := range versions {
		if !openflow.SupportedVersion(v) {
			return nil, errors.Wrapf(openflow.ErrUnsupportedVersion, "version=%v", v)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	endpoint := &Endpoint{
		controller: config.Controller,
		versions:   versions,
		reconnect:  config.ReconnectPeriod,
		cmdC:       make(chan interface{}),
		cancel:     cancel,
		done:       make(chan struct{}),
		ctx:        ctx,
		events:     config.Events,
		filter:     DefaultAsyncFilter(),
		errors:     newErrorFactory(),
	}
	go endpoint.run(ctx)

	return endpoint, nil
}

// Send queues an outbound message. It returns nil once the message is
// written to the socket buffer, which acknowledges queueing, not
// delivery.
func (r *Endpoint) Send(msg openflow.Outgoing) error {
	cmd := sendCmd{msg: msg, reply: make(chan error, 1)}
	select {
	case r.cmdC <- cmd:
		return <-cmd.reply
	case <-r.done:
		return ErrStopped
	}
}

// ControllingProcess rebinds the upcall channel. Events already
// delivered to the previous channel are unaffected.
func (r *Endpoint) ControllingProcess(events chan<- Event) {
	cmd := rebindCmd{events: events, reply: make(chan struct{}, 1)}
	select {
	case r.cmdC <- cmd:
		<-cmd.reply
	case <-r.done:
	}
}

// MakeSlave demotes the role from master to slave. It is a no-op for
// any other role.
func (r *Endpoint) MakeSlave() {
	cmd := makeSlaveCmd{reply: make(chan struct{}, 1)}
	select {
	case r.cmdC <- cmd:
		<-cmd.reply
	case <-r.done:
	}
}

// SetAsyncFilter replaces the role-keyed async event filter.
func (r *Endpoint) SetAsyncFilter(filter AsyncFilter) {
	cmd := setFilterCmd{filter: filter, reply: make(chan struct{}, 1)}
	select {
	case r.cmdC <- cmd:
		<-cmd.reply
	case <-r.done:
	}
}

// Status reports a snapshot of the endpoint.
func (r *Endpoint) Status() Status {
	cmd := statusCmd{reply: make(chan Status, 1)}
	select {
	case r.cmdC <- cmd:
		return <-cmd.reply
	case <-r.done:
		return Status{State: "stopped", Controller: r.controller}
	}
}

// Stop terminates the endpoint. The socket is closed; no upcall is
// sent.
func (r *Endpoint) Stop() {
	r.cancel()
	<-r.done
}

func (r *Endpoint) run(ctx context.Context) {
	defer close(r.done)

	// Zero delay on the first attempt.
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			r.teardown()
			return
		case cmd := <-r.cmdC:
			r.handleCommand(cmd)
		case <-timer.C:
			if r.state == stateDisconnected {
				r.connect(timer)
			}
		case res := <-r.readC:
			r.handleRead(res, timer)
		}
	}
}

func (r *Endpoint) teardown() {
	if r.conn != nil {
		r.conn.Close()
		r.conn = nil
	}
	if r.readDone != nil {
		close(r.readDone)
		r.readDone = nil
	}
	r.readC = nil
	r.parser = nil
}

func (r *Endpoint) nextTransactionID() uint32 {
	v := r.xid
	r.xid++
	return v
}

func (r *Endpoint) connect(timer *time.Timer) {
	conn, err := net.DialTimeout("tcp", r.controller, r.reconnect)
	if err != nil {
		// Failed attempts are silent; the timer drives the retry.
		logger.Debugf("connect to %v failed: %v", r.controller, err)
		timer.Reset(r.reconnect)
		return
	}

	hello, err := newHello(r.versions, r.nextTransactionID()).MarshalBinary()
	if err != nil {
		// Cannot happen with a validated version list.
		conn.Close()
		logger.Errorf("failed to marshal hello: %v", err)
		timer.Reset(r.reconnect)
		return
	}
	if _, err := conn.Write(hello); err != nil {
		conn.Close()
		logger.Debugf("failed to send hello to %v: %v", r.controller, err)
		timer.Reset(r.reconnect)
		return
	}

	r.conn = conn
	r.state = stateConnecting
	r.pre = nil
	r.readC = make(chan readResult)
	r.readDone = make(chan struct{})
	go reader(conn, r.readC, r.readDone)

	logger.Infof("connected to %v, awaiting hello", r.controller)
}

// reader pumps socket bytes into the actor one chunk at a time. The
// unbuffered channel paces reads to the actor's parsing speed, and the
// done channel guarantees that no chunk from an abandoned connection
// is ever delivered.
func reader(conn net.Conn, dataC chan<- readResult, done <-chan struct{}) {
	for {
		buf := make([]byte, readChunkSize)
		n, err := conn.Read(buf)
		select {
		case dataC <- readResult{data: buf[:n], err: err}:
		case <-done:
			return
		}
		if err != nil {
			return
		}
	}
}

func (r *Endpoint) handleRead(res readResult, timer *time.Timer) {
	if len(res.data) > 0 {
		r.handleData(res.data, timer)
	}
	if res.err == nil || r.state == stateDisconnected {
		return
	}
	if res.err == io.EOF {
		r.reset(ErrTCPClosed, timer)
	} else {
		r.reset(errors.Wrap(res.err, "tcp error"), timer)
	}
}

func (r *Endpoint) handleData(data []byte, timer *time.Timer) {
	switch r.state {
	case stateConnecting:
		r.negotiate(data, timer)
	case stateOpen:
		msgs, err := r.parser.Parse(data)
		for _, msg := range msgs {
			r.dispatch(msg, timer)
			if r.state != stateOpen {
				return
			}
		}
		if err != nil {
			r.reset(err, timer)
		}
	}
}

// negotiate accumulates bytes until the first complete message is
// available, then runs version selection on it. The first message is
// decoded standalone because no parser exists before the version is
// fixed.
func (r *Endpoint) negotiate(data []byte, timer *time.Timer) {
	r.pre = append(r.pre, data...)
	if len(r.pre) < 8 {
		return
	}
	length := int(binary.BigEndian.Uint16(r.pre[2:4]))
	if length < 8 {
		r.reset(&openflow.BadDataError{Bytes: r.pre, Reason: openflow.ErrInvalidPacketLength}, timer)
		return
	}
	if len(r.pre) < length {
		return
	}

	msg, rest, err := openflow.Decode(r.pre)
	if err != nil {
		r.reset(ErrBadInitialMessage, timer)
		return
	}
	hello, ok := msg.(*openflow.Hello)
	if !ok {
		r.reset(ErrBadInitialMessage, timer)
		return
	}
	version, err := decideOnVersion(r.versions, hello)
	if err != nil {
		r.reset(err, timer)
		return
	}
	parser, err := openflow.NewParser(version)
	if err != nil {
		r.reset(err, timer)
		return
	}

	r.pre = nil
	r.parser = parser
	r.version = version
	r.state = stateOpen
	logger.Infof("negotiated version %v with %v", version, r.controller)
	r.deliver(Connected{Endpoint: r, Version: version})

	// Bytes that arrived behind the hello flow through the parser.
	if len(rest) > 0 {
		r.handleData(rest, timer)
	}
}

func (r *Endpoint) dispatch(msg openflow.Incoming, timer *time.Timer) {
	typ := msg.Type()

	if r.role == RoleSlave && slaveBlockedTypes[typ] {
		reply, err := r.errors.Build(r.version, openflow.ErrTypeBadRequest, openflow.ErrCodeIsSlave, msg.TransactionID())
		if err != nil {
			logger.Errorf("failed to build is_slave error reply: %v", err)
			return
		}
		logger.Debugf("denied %v from slave controller (xid=%v)", typ, msg.TransactionID())
		if _, err := r.conn.Write(reply); err != nil {
			r.reset(errors.Wrap(err, "tcp error"), timer)
		}
		return
	}

	if forwardTypes[typ] {
		r.deliver(MessageReceived{Endpoint: r, Message: msg})
		return
	}

	// role_request, get_async_request and set_async are reserved;
	// they and every other unforwarded type are dropped.
	logger.Debugf("dropped inbound %v: %v", typ, spew.Sdump(msg))
}

func (r *Endpoint) deliver(event Event) {
	select {
	case r.events <- event:
	case <-r.ctx.Done():
	}
}

// reset tears the connection down, reports the reason upward exactly
// once and re-arms the reconnect timer.
func (r *Endpoint) reset(reason error, timer *time.Timer) {
	logger.Warningf("connection to %v closed: %v", r.controller, reason)

	if r.conn != nil {
		r.conn.Close()
		r.conn = nil
	}
	if r.readDone != nil {
		close(r.readDone)
		r.readDone = nil
	}
	r.readC = nil
	r.parser = nil
	r.version = 0
	r.pre = nil
	r.state = stateDisconnected

	r.deliver(ConnectionClosed{Endpoint: r, Reason: reason})
	timer.Reset(r.reconnect)
}

func (r *Endpoint) handleCommand(cmd interface{}) {
	switch v := cmd.(type) {
	case sendCmd:
		v.reply <- r.send(v.msg)
	case rebindCmd:
		r.events = v.events
		v.reply <- struct{}{}
	case makeSlaveCmd:
		if r.role == RoleMaster {
			r.role = RoleSlave
			r.generationID++
		}
		v.reply <- struct{}{}
	case setFilterCmd:
		r.filter = v.filter
		v.reply <- struct{}{}
	case func(*Endpoint):
		// Raw actor-context access, used by the reserved role/async
		// handling hooks and by tests.
		v(r)
	case statusCmd:
		v.reply <- Status{
			State:        r.state.String(),
			Controller:   r.controller,
			Role:         r.role.String(),
			Version:      r.version,
			GenerationID: r.generationID,
		}
	default:
		panic("unexpected endpoint command")
	}
}

func (r *Endpoint) send(msg openflow.Outgoing) error {
	if !outboundTypes[msg.Type()] {
		return &BadMessageError{Message: msg}
	}
	if r.state != stateOpen {
		return ErrNotConnected
	}
	if !r.filter.Allows(r.role, msg.Type()) {
		return ErrFiltered
	}

	data, err := r.parser.Encode(msg)
	if err != nil {
		return err
	}
	if _, err := r.conn.Write(data); err != nil {
		return errors.Wrap(err, "tcp error")
	}

	return nil
}
