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

// Error reports a failure to the peer. Class is the error type on the
// wire; Code is keyed by Class. When Class is the experimenter type the
// code field is replaced by ExpType and Experimenter.
type Error struct {
	Message
	Class        uint16
	Code         uint16
	ExpType      uint16
	Experimenter uint32
	Data         []byte
}

func NewError(version uint8, xid uint32, class, code uint16) *Error {
	return &Error{
		Message: NewMessage(version, TypeError, xid),
		Class:   class,
		Code:    code,
	}
}

func (r *Error) MarshalBinary() ([]byte, error) {
	var payload []byte
	if r.Class == ErrTypeExperimenter {
		payload = make([]byte, 8+len(r.Data))
		binary.BigEndian.PutUint16(payload[0:2], r.Class)
		binary.BigEndian.PutUint16(payload[2:4], r.ExpType)
		binary.BigEndian.PutUint32(payload[4:8], r.Experimenter)
		copy(payload[8:], r.Data)
	} else {
		payload = make([]byte, 4+len(r.Data))
		binary.BigEndian.PutUint16(payload[0:2], r.Class)
		binary.BigEndian.PutUint16(payload[2:4], r.Code)
		copy(payload[4:], r.Data)
	}

	r.SetPayload(payload)
	return r.Message.MarshalBinary()
}

func (r *Error) UnmarshalBinary(data []byte) error {
	if err := r.Message.UnmarshalBinary(data); err != nil {
		return err
	}

	payload := r.Payload()
	if len(payload) < 4 {
		return ErrInvalidPacketLength
	}
	r.Class = binary.BigEndian.Uint16(payload[0:2])
	if r.Class == ErrTypeExperimenter {
		if len(payload) < 8 {
			return ErrInvalidPacketLength
		}
		r.ExpType = binary.BigEndian.Uint16(payload[2:4])
		r.Experimenter = binary.BigEndian.Uint32(payload[4:8])
		r.Data = payload[8:]
	} else {
		r.Code = binary.BigEndian.Uint16(payload[2:4])
		r.Data = payload[4:]
	}

	return nil
}
