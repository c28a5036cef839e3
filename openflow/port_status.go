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

// PortStatus reports a port addition, removal or modification.
type PortStatus struct {
	Message
	Reason uint8
	Port   Port
}

func NewPortStatus(version uint8, xid uint32) *PortStatus {
	return &PortStatus{
		Message: NewMessage(version, TypePortStatus, xid),
	}
}

func (r *PortStatus) MarshalBinary() ([]byte, error) {
	port, err := r.Port.MarshalBinary()
	if err != nil {
		return nil, err
	}

	payload := make([]byte, 8, 8+len(port))
	payload[0] = r.Reason
	payload = append(payload, port...)

	r.SetPayload(payload)
	return r.Message.MarshalBinary()
}

func (r *PortStatus) UnmarshalBinary(data []byte) error {
	if err := r.Message.UnmarshalBinary(data); err != nil {
		return err
	}

	payload := r.Payload()
	if len(payload) < 8+portLength {
		return ErrInvalidPacketLength
	}
	r.Reason = payload[0]

	return r.Port.UnmarshalBinary(payload[8:])
}
