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
	"fmt"

	"github.com/ofkit/ofagent/openflow"

	"github.com/pkg/errors"
)

// Event is an upcall delivered to the controlling process. It is one
// of Connected, MessageReceived or ConnectionClosed.
type Event interface{}

// Connected is sent once per connection, after HELLO negotiation
// succeeds.
type Connected struct {
	Endpoint *Endpoint
	Version  uint8
}

// MessageReceived forwards an inbound request or mod message.
type MessageReceived struct {
	Endpoint *Endpoint
	Message  openflow.Incoming
}

// ConnectionClosed is sent exactly once per established or failed
// session when the endpoint resets. Failed reconnect attempts do not
// produce events.
type ConnectionClosed struct {
	Endpoint *Endpoint
	Reason   error
}

// Reset reasons.
var (
	ErrTCPClosed         = errors.New("tcp connection closed by peer")
	ErrBadInitialMessage = errors.New("first message was not a hello")
)

// Synchronous call results.
var (
	ErrNotConnected = errors.New("not connected")
	ErrFiltered     = errors.New("message suppressed by the async filter")
	ErrStopped      = errors.New("endpoint stopped")
)

// UnsupportedVersionError reports a peer version that is not configured
// locally, when the highest configured version is below 4 and no
// versionbitmap is consulted.
type UnsupportedVersionError struct {
	Version uint8
}

func (r *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported protocol version %v", r.Version)
}

// NoCommonVersionError reports that the two version sets do not
// intersect.
type NoCommonVersionError struct {
	Client []uint8
	Server []uint8
}

func (r *NoCommonVersionError) Error() string {
	return fmt.Sprintf("no common protocol version: client=%v, server=%v", r.Client, r.Server)
}

// BadMessageError is returned by Send for a message whose type the
// switch side never emits.
type BadMessageError struct {
	Message openflow.Header
}

func (r *BadMessageError) Error() string {
	return fmt.Sprintf("bad outbound message type %v", r.Message.Type())
}
