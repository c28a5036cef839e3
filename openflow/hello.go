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
	"sort"
)

// Hello is the handshake message exchanged first on every connection.
// VersionBitmap lists the versions the sender supports; it is nil when
// the message carried no versionbitmap element. The element is encoded
// and decoded whatever the header version.
type Hello struct {
	Message
	VersionBitmap []uint8
}

func NewHello(version uint8, xid uint32) *Hello {
	return &Hello{
		Message: NewMessage(version, TypeHello, xid),
	}
}

func (r *Hello) MarshalBinary() ([]byte, error) {
	if r.VersionBitmap == nil {
		r.SetPayload(nil)
		return r.Message.MarshalBinary()
	}

	var max uint8
	for _, v := range r.VersionBitmap {
		if v > max {
			max = v
		}
	}
	words := int(max)/32 + 1

	// Element header plus bitmap words, padded to a multiple of 8.
	// The element length excludes the padding.
	length := 4 + 4*words
	padded := (length + 7) / 8 * 8
	payload := make([]byte, padded)
	binary.BigEndian.PutUint16(payload[0:2], helloElemVersionBitmap)
	binary.BigEndian.PutUint16(payload[2:4], uint16(length))
	for _, v := range r.VersionBitmap {
		word := int(v) / 32
		off := 4 + 4*(words-1-word)
		bits := binary.BigEndian.Uint32(payload[off : off+4])
		bits |= 1 << (uint(v) % 32)
		binary.BigEndian.PutUint32(payload[off:off+4], bits)
	}

	r.SetPayload(payload)
	return r.Message.MarshalBinary()
}

func (r *Hello) UnmarshalBinary(data []byte) error {
	if err := r.Message.UnmarshalBinary(data); err != nil {
		return err
	}

	r.VersionBitmap = nil
	payload := r.Payload()
	for len(payload) >= 4 {
		elemType := binary.BigEndian.Uint16(payload[0:2])
		elemLen := int(binary.BigEndian.Uint16(payload[2:4]))
		if elemLen < 4 || elemLen > len(payload) {
			return ErrInvalidPacketLength
		}
		if elemType == helloElemVersionBitmap {
			r.VersionBitmap = decodeVersionBitmap(payload[4:elemLen])
		}
		// Elements are padded to a multiple of 8 bytes.
		padded := (elemLen + 7) / 8 * 8
		if padded > len(payload) {
			padded = len(payload)
		}
		payload = payload[padded:]
	}

	return nil
}

func decodeVersionBitmap(words []byte) []uint8 {
	versions := make([]uint8, 0, 4)
	n := len(words) / 4
	for i := 0; i < n; i++ {
		// Words are most-significant first.
		bits := binary.BigEndian.Uint32(words[4*i : 4*i+4])
		base := uint(n-1-i) * 32
		for b := uint(0); b < 32; b++ {
			if bits&(1<<b) != 0 {
				versions = append(versions, uint8(base+b))
			}
		}
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i] < versions[j] })

	return versions
}
