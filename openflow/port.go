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
	"strings"
)

// portLength is the wire size of the port structure.
const portLength = 64

// Port describes one switch port. Name is at most 16 bytes on the
// wire, zero-padded. The flag slices hold symbolic names from the port
// flag tables.
type Port struct {
	Number     uint32
	MAC        net.HardwareAddr
	Name       string
	Config     []string
	State      []string
	Curr       []string
	Advertised []string
	Supported  []string
	Peer       []string
	CurrSpeed  uint32
	MaxSpeed   uint32
}

func (r *Port) MarshalBinary() ([]byte, error) {
	if len(r.MAC) != 6 {
		return nil, ErrInvalidPacketLength
	}
	if len(r.Name) > 16 {
		return nil, ErrInvalidPacketLength
	}

	v := make([]byte, portLength)
	binary.BigEndian.PutUint32(v[0:4], r.Number)
	copy(v[8:14], r.MAC)
	copy(v[16:32], r.Name)
	flagSets := []struct {
		table *FlagTable
		names []string
		off   int
	}{
		{PortConfigFlags, r.Config, 32},
		{PortStateFlags, r.State, 36},
		{PortFeatureFlags, r.Curr, 40},
		{PortFeatureFlags, r.Advertised, 44},
		{PortFeatureFlags, r.Supported, 48},
		{PortFeatureFlags, r.Peer, 52},
	}
	for _, f := range flagSets {
		bits, err := f.table.Encode(f.names)
		if err != nil {
			return nil, err
		}
		binary.BigEndian.PutUint32(v[f.off:f.off+4], bits)
	}
	binary.BigEndian.PutUint32(v[56:60], r.CurrSpeed)
	binary.BigEndian.PutUint32(v[60:64], r.MaxSpeed)

	return v, nil
}

func (r *Port) UnmarshalBinary(data []byte) error {
	if len(data) < portLength {
		return ErrInvalidPacketLength
	}

	r.Number = binary.BigEndian.Uint32(data[0:4])
	r.MAC = make(net.HardwareAddr, 6)
	copy(r.MAC, data[8:14])
	r.Name = strings.TrimRight(string(data[16:32]), "\x00")
	r.Config = PortConfigFlags.Decode(binary.BigEndian.Uint32(data[32:36]))
	r.State = PortStateFlags.Decode(binary.BigEndian.Uint32(data[36:40]))
	r.Curr = PortFeatureFlags.Decode(binary.BigEndian.Uint32(data[40:44]))
	r.Advertised = PortFeatureFlags.Decode(binary.BigEndian.Uint32(data[44:48]))
	r.Supported = PortFeatureFlags.Decode(binary.BigEndian.Uint32(data[48:52]))
	r.Peer = PortFeatureFlags.Decode(binary.BigEndian.Uint32(data[52:56]))
	r.CurrSpeed = binary.BigEndian.Uint32(data[56:60])
	r.MaxSpeed = binary.BigEndian.Uint32(data[60:64])

	return nil
}
