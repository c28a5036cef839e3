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
	"github.com/ofkit/ofagent/openflow"
)

// Role is the controller role on this connection.
type Role int

const (
	RoleEqual Role = iota
	RoleMaster
	RoleSlave
)

func (r Role) String() string {
	switch r {
	case RoleEqual:
		return "equal"
	case RoleMaster:
		return "master"
	case RoleSlave:
		return "slave"
	}
	return "unknown"
}

// AsyncMask enables or disables the three asynchronous message types.
type AsyncMask struct {
	PacketIn    bool
	PortStatus  bool
	FlowRemoved bool
}

// AsyncFilter holds one mask for master and equal controllers and one
// for slaves.
type AsyncFilter struct {
	MasterEqual AsyncMask
	Slave       AsyncMask
}

// DefaultAsyncFilter mirrors the protocol defaults: a slave controller
// receives packet-ins but neither port-status nor flow-removed events.
func DefaultAsyncFilter() AsyncFilter {
	return AsyncFilter{
		MasterEqual: AsyncMask{PacketIn: true, PortStatus: true, FlowRemoved: true},
		Slave:       AsyncMask{PacketIn: true},
	}
}

// Allows reports whether an outbound message of the given type may be
// sent under the role. Non-async types are never filtered.
func (r AsyncFilter) Allows(role Role, typ openflow.Type) bool {
	mask := r.MasterEqual
	if role == RoleSlave {
		mask = r.Slave
	}

	switch typ {
	case openflow.TypePacketIn:
		return mask.PacketIn
	case openflow.TypePortStatus:
		return mask.PortStatus
	case openflow.TypeFlowRemoved:
		return mask.FlowRemoved
	default:
		return true
	}
}
