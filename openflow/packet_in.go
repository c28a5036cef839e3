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

// PacketIn carries a packet from the datapath to the controller. Data
// holds the packet bytes; its length is the total_len field on the
// wire.
type PacketIn struct {
	Message
	BufferID uint32
	Reason   uint8
	TableID  uint8
	Match    Match
	Data     []byte
}

func NewPacketIn(version uint8, xid uint32) *PacketIn {
	return &PacketIn{
		Message: NewMessage(version, TypePacketIn, xid),
		Match:   NewMatch(),
	}
}

func (r *PacketIn) MarshalBinary() ([]byte, error) {
	match, err := r.Match.MarshalBinary()
	if err != nil {
		return nil, err
	}

	payload := make([]byte, 8, 8+len(match)+2+len(r.Data))
	binary.BigEndian.PutUint32(payload[0:4], r.BufferID)
	binary.BigEndian.PutUint16(payload[4:6], uint16(len(r.Data)))
	payload[6] = r.Reason
	payload[7] = r.TableID
	payload = append(payload, match...)
	payload = append(payload, 0, 0)
	payload = append(payload, r.Data...)

	r.SetPayload(payload)
	return r.Message.MarshalBinary()
}

func (r *PacketIn) UnmarshalBinary(data []byte) error {
	if err := r.Message.UnmarshalBinary(data); err != nil {
		return err
	}

	payload := r.Payload()
	if len(payload) < 8 {
		return ErrInvalidPacketLength
	}
	r.BufferID = binary.BigEndian.Uint32(payload[0:4])
	totalLen := int(binary.BigEndian.Uint16(payload[4:6]))
	r.Reason = payload[6]
	r.TableID = payload[7]

	matchSize, err := matchWireSize(payload[8:])
	if err != nil {
		return err
	}
	if len(payload) < 8+matchSize+2+totalLen {
		return ErrInvalidPacketLength
	}
	if err := r.Match.UnmarshalBinary(payload[8 : 8+matchSize]); err != nil {
		return err
	}
	data = payload[8+matchSize+2:]
	r.Data = make([]byte, totalLen)
	copy(r.Data, data[:totalLen])

	return nil
}
