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
	"net"
)

type FeaturesRequest struct {
	Message
}

func NewFeaturesRequest(version uint8, xid uint32) *FeaturesRequest {
	return &FeaturesRequest{
		Message: NewMessage(version, TypeFeaturesRequest, xid),
	}
}

// FeaturesReply announces the datapath identity and its ports. The
// datapath identifier is split into its MAC part and the
// implementation-defined 16-bit part.
type FeaturesReply struct {
	Message
	DatapathMAC  net.HardwareAddr
	DatapathID   uint16
	NumBuffers   uint32
	NumTables    uint8
	Capabilities []string
	Ports        []Port
}

func NewFeaturesReply(version uint8, xid uint32) *FeaturesReply {
	return &FeaturesReply{
		Message: NewMessage(version, TypeFeaturesReply, xid),
	}
}

func (r *FeaturesReply) MarshalBinary() ([]byte, error) {
	if len(r.DatapathMAC) != 6 {
		return nil, ErrInvalidPacketLength
	}

	payload := make([]byte, 24)
	copy(payload[0:6], r.DatapathMAC)
	binary.BigEndian.PutUint16(payload[6:8], r.DatapathID)
	binary.BigEndian.PutUint32(payload[8:12], r.NumBuffers)
	payload[12] = r.NumTables
	capabilities, err := CapabilityFlags.Encode(r.Capabilities)
	if err != nil {
		return nil, err
	}
	binary.BigEndian.PutUint32(payload[16:20], capabilities)
	for i := range r.Ports {
		port, err := r.Ports[i].MarshalBinary()
		if err != nil {
			return nil, err
		}
		payload = append(payload, port...)
	}

	r.SetPayload(payload)
	return r.Message.MarshalBinary()
}

func (r *FeaturesReply) UnmarshalBinary(data []byte) error {
	if err := r.Message.UnmarshalBinary(data); err != nil {
		return err
	}

	payload := r.Payload()
	if len(payload) < 24 {
		return ErrInvalidPacketLength
	}
	r.DatapathMAC = make(net.HardwareAddr, 6)
	copy(r.DatapathMAC, payload[0:6])
	r.DatapathID = binary.BigEndian.Uint16(payload[6:8])
	r.NumBuffers = binary.BigEndian.Uint32(payload[8:12])
	r.NumTables = payload[12]
	r.Capabilities = CapabilityFlags.Decode(binary.BigEndian.Uint32(payload[16:20]))

	r.Ports = nil
	rest := payload[24:]
	if len(rest)%portLength != 0 {
		return ErrInvalidPacketLength
	}
	for len(rest) > 0 {
		var port Port
		if err := port.UnmarshalBinary(rest[:portLength]); err != nil {
			return err
		}
		r.Ports = append(r.Ports, port)
		rest = rest[portLength:]
	}

	return nil
}
