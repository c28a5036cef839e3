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

package openflow

// Generic is a message whose body this codec does not interpret. The
// payload is carried verbatim so the message round-trips
// byte-identically. Mods, stats, barriers and the reserved role/async
// messages travel this path.
type Generic struct {
	Message
}

func NewGeneric(version uint8, typ Type, xid uint32, payload []byte) *Generic {
	msg := &Generic{
		Message: NewMessage(version, typ, xid),
	}
	msg.SetPayload(payload)

	return msg
}
