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
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

// MatchField is a single OXM TLV. For the openflow_basic class the
// value length is fixed by the field's canonical bit length; for other
// classes the wire length byte is authoritative.
type MatchField struct {
	Class   uint16
	Field   uint8
	HasMask bool
	Value   []byte
	Mask    []byte
}

// Match is an ordered collection of OXM TLVs. On the wire it is a
// 4-byte header, the TLVs, and zero padding up to a multiple of 8
// bytes. The header length excludes the padding.
type Match struct {
	Type   uint16
	Fields []MatchField
}

// NewMatch returns an empty OXM match that matches every packet.
func NewMatch() Match {
	return Match{Type: MatchTypeOXM}
}

func (r *MatchField) marshal() ([]byte, error) {
	value := r.Value
	mask := r.Mask
	if r.Class == OXMClassOpenFlowBasic {
		bits, ok := tlvLength[r.Field]
		if !ok {
			return nil, errors.Wrapf(ErrInvalidMatchField, "field=%v", r.Field)
		}
		size := (bits + 7) / 8
		if len(value) != size {
			return nil, errors.Wrapf(ErrInvalidMatchField, "field=%v: value size %v, want %v", r.Field, len(value), size)
		}
		value = maskBits(value, bits)
		if r.HasMask {
			if len(mask) != size {
				return nil, errors.Wrapf(ErrInvalidMatchField, "field=%v: mask size %v, want %v", r.Field, len(mask), size)
			}
			mask = maskBits(mask, bits)
		}
	} else if r.HasMask && len(mask) != len(value) {
		return nil, errors.Wrapf(ErrInvalidMatchField, "field=%v: mask size %v, want %v", r.Field, len(mask), len(value))
	}

	bodyLen := len(value)
	if r.HasMask {
		bodyLen += len(mask)
	}
	if bodyLen > 0xFF {
		return nil, errors.Wrapf(ErrInvalidMatchField, "field=%v: body too long", r.Field)
	}

	v := make([]byte, 4+bodyLen)
	binary.BigEndian.PutUint16(v[0:2], r.Class)
	v[2] = r.Field << 1
	if r.HasMask {
		v[2] |= 0x1
	}
	v[3] = uint8(bodyLen)
	copy(v[4:], value)
	if r.HasMask {
		copy(v[4+len(value):], mask)
	}

	return v, nil
}

// maskBits zeroes the bits of v above the canonical bit length. The
// value is big-endian, so the excess bits live at the top of the first
// byte.
func maskBits(v []byte, bits int) []byte {
	extra := len(v)*8 - bits
	if extra <= 0 {
		return v
	}

	masked := make([]byte, len(v))
	copy(masked, v)
	masked[0] &= 0xFF >> uint(extra)

	return masked
}

func (r *Match) MarshalBinary() ([]byte, error) {
	data := make([]byte, 4)
	binary.BigEndian.PutUint16(data[0:2], r.Type)
	for i := range r.Fields {
		tlv, err := r.Fields[i].marshal()
		if err != nil {
			return nil, err
		}
		data = append(data, tlv...)
	}
	// The match length excludes the trailing padding.
	binary.BigEndian.PutUint16(data[2:4], uint16(len(data)))
	if rem := len(data) % 8; rem > 0 {
		data = append(data, bytes.Repeat([]byte{0}, 8-rem)...)
	}

	return data, nil
}

func (r *Match) UnmarshalBinary(data []byte) error {
	if len(data) < 8 {
		return ErrInvalidPacketLength
	}
	r.Type = binary.BigEndian.Uint16(data[0:2])
	if r.Type != MatchTypeOXM {
		return ErrUnsupportedMatch
	}
	length := int(binary.BigEndian.Uint16(data[2:4]))
	if length < 4 || len(data) < length {
		return ErrInvalidPacketLength
	}

	r.Fields = nil
	buf := data[4:length]
	for len(buf) > 0 {
		if len(buf) < 4 {
			return ErrInvalidPacketLength
		}
		field := MatchField{
			Class:   binary.BigEndian.Uint16(buf[0:2]),
			Field:   buf[2] >> 1,
			HasMask: buf[2]&0x1 != 0,
		}
		bodyLen := int(buf[3])
		if len(buf) < 4+bodyLen {
			return ErrInvalidPacketLength
		}
		body := buf[4 : 4+bodyLen]

		valueLen := bodyLen
		if field.Class == OXMClassOpenFlowBasic {
			bits, ok := tlvLength[field.Field]
			if !ok {
				return errors.Wrapf(ErrInvalidMatchField, "field=%v", field.Field)
			}
			valueLen = (bits + 7) / 8
		} else if field.HasMask {
			// Half value, half mask.
			valueLen = bodyLen / 2
		}
		expected := valueLen
		if field.HasMask {
			expected *= 2
		}
		if bodyLen != expected {
			return errors.Wrapf(ErrInvalidMatchField, "field=%v: body size %v, want %v", field.Field, bodyLen, expected)
		}

		field.Value = make([]byte, valueLen)
		copy(field.Value, body[:valueLen])
		if field.HasMask {
			field.Mask = make([]byte, valueLen)
			copy(field.Mask, body[valueLen:])
		}
		r.Fields = append(r.Fields, field)
		buf = buf[4+bodyLen:]
	}

	return nil
}

// matchWireSize reports the padded on-wire size of a marshaled match that
// starts at data[0], so a container can skip past it.
func matchWireSize(data []byte) (int, error) {
	if len(data) < 4 {
		return 0, ErrInvalidPacketLength
	}
	length := int(binary.BigEndian.Uint16(data[2:4]))
	if length < 4 {
		return 0, ErrInvalidPacketLength
	}

	return (length + 7) / 8 * 8, nil
}
