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

// Package openflow implements a bit-exact codec for the OpenFlow wire
// protocol spoken by a switch-side client: the 8-byte message header,
// typed message bodies, OXM match fields, port structures, named flag
// sets, and a stream parser that frames an arbitrary byte stream into
// complete messages. The package is pure; it performs no I/O.
package openflow

import (
	"encoding"
	"encoding/binary"

	"github.com/pkg/errors"
)

var (
	ErrInvalidPacketLength = errors.New("invalid packet length")
	ErrUnsupportedVersion  = errors.New("unsupported protocol version")
	ErrUnsupportedMessage  = errors.New("unsupported message type")
	ErrUnsupportedMatch    = errors.New("unsupported flow match type")
	ErrInvalidMatchField   = errors.New("invalid flow match field")
	ErrUnknownFlag         = errors.New("unknown flag name")
	ErrVersionMismatch     = errors.New("mis-matched protocol version")
)

// Header is the common part of every OpenFlow message. The wire length
// and the numeric type code are derived during marshaling and never
// stored by callers.
type Header interface {
	Version() uint8
	Type() Type
	TransactionID() uint32
}

type Outgoing interface {
	Header
	encoding.BinaryMarshaler
}

type Incoming interface {
	Header
	encoding.BinaryUnmarshaler
}

// Message is the base of all message types. It carries the header
// fields and the body payload as raw bytes. Typed messages embed it
// and interpret the payload.
type Message struct {
	version uint8
	typ     Type
	xid     uint32
	payload []byte
}

func NewMessage(version uint8, typ Type, xid uint32) Message {
	return Message{
		version: version,
		typ:     typ,
		xid:     xid,
	}
}

func (r *Message) Version() uint8 {
	return r.version
}

func (r *Message) Type() Type {
	return r.typ
}

func (r *Message) TransactionID() uint32 {
	return r.xid
}

func (r *Message) SetTransactionID(xid uint32) {
	r.xid = xid
}

func (r *Message) SetPayload(payload []byte) {
	r.payload = payload
}

func (r *Message) Payload() []byte {
	if r.payload == nil {
		return nil
	}

	v := make([]byte, len(r.payload))
	copy(v, r.payload)

	return v
}

func (r *Message) MarshalBinary() ([]byte, error) {
	code, ok := typeCode(r.version, r.typ)
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedMessage, "version=%v, type=%v", r.version, r.typ)
	}

	length := 8 + len(r.payload)
	if length > 0xFFFF {
		return nil, ErrInvalidPacketLength
	}

	v := make([]byte, length)
	v[0] = r.version & 0x7F
	v[1] = code
	binary.BigEndian.PutUint16(v[2:4], uint16(length))
	binary.BigEndian.PutUint32(v[4:8], r.xid)
	copy(v[8:], r.payload)

	return v, nil
}

func (r *Message) UnmarshalBinary(data []byte) error {
	if len(data) < 8 {
		return ErrInvalidPacketLength
	}

	// The top bit of the version byte is reserved and always zero.
	version := data[0] & 0x7F
	length := binary.BigEndian.Uint16(data[2:4])
	if length < 8 || len(data) < int(length) {
		return ErrInvalidPacketLength
	}
	typ, ok := typeFromCode(version, data[1])
	if !ok {
		return errors.Wrapf(ErrUnsupportedMessage, "version=%v, code=%v", version, data[1])
	}

	r.version = version
	r.typ = typ
	r.xid = binary.BigEndian.Uint32(data[4:8])
	r.payload = data[8:length]

	return nil
}

// wireLength reports the total length of the first message in data, or
// false if even the header is incomplete.
func wireLength(data []byte) (int, bool) {
	if len(data) < 8 {
		return 0, false
	}
	return int(binary.BigEndian.Uint16(data[2:4])), true
}
