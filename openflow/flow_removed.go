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

import (
	"encoding/binary"
)

// FlowRemoved notifies the controller that a flow entry was removed
// from a table.
type FlowRemoved struct {
	Message
	Cookie       uint64
	Priority     uint16
	Reason       uint8
	TableID      uint8
	DurationSec  uint32
	DurationNSec uint32
	IdleTimeout  uint16
	HardTimeout  uint16
	PacketCount  uint64
	ByteCount    uint64
	Match        Match
}

func NewFlowRemoved(version uint8, xid uint32) *FlowRemoved {
	return &FlowRemoved{
		Message: NewMessage(version, TypeFlowRemoved, xid),
		Match:   NewMatch(),
	}
}

func (r *FlowRemoved) MarshalBinary() ([]byte, error) {
	match, err := r.Match.MarshalBinary()
	if err != nil {
		return nil, err
	}

	payload := make([]byte, 40, 40+len(match))
	binary.BigEndian.PutUint64(payload[0:8], r.Cookie)
	binary.BigEndian.PutUint16(payload[8:10], r.Priority)
	payload[10] = r.Reason
	payload[11] = r.TableID
	binary.BigEndian.PutUint32(payload[12:16], r.DurationSec)
	binary.BigEndian.PutUint32(payload[16:20], r.DurationNSec)
	binary.BigEndian.PutUint16(payload[20:22], r.IdleTimeout)
	binary.BigEndian.PutUint16(payload[22:24], r.HardTimeout)
	binary.BigEndian.PutUint64(payload[24:32], r.PacketCount)
	binary.BigEndian.PutUint64(payload[32:40], r.ByteCount)
	payload = append(payload, match...)

	r.SetPayload(payload)
	return r.Message.MarshalBinary()
}

func (r *FlowRemoved) UnmarshalBinary(data []byte) error {
	if err := r.Message.UnmarshalBinary(data); err != nil {
		return err
	}

	payload := r.Payload()
	if len(payload) < 40 {
		return ErrInvalidPacketLength
	}
	r.Cookie = binary.BigEndian.Uint64(payload[0:8])
	r.Priority = binary.BigEndian.Uint16(payload[8:10])
	r.Reason = payload[10]
	r.TableID = payload[11]
	r.DurationSec = binary.BigEndian.Uint32(payload[12:16])
	r.DurationNSec = binary.BigEndian.Uint32(payload[16:20])
	r.IdleTimeout = binary.BigEndian.Uint16(payload[20:22])
	r.HardTimeout = binary.BigEndian.Uint16(payload[22:24])
	r.PacketCount = binary.BigEndian.Uint64(payload[24:32])
	r.ByteCount = binary.BigEndian.Uint64(payload[32:40])

	matchSize, err := matchWireSize(payload[40:])
	if err != nil {
		return err
	}
	if len(payload) < 40+matchSize {
		return ErrInvalidPacketLength
	}

	return r.Match.UnmarshalBinary(payload[40 : 40+matchSize])
}
