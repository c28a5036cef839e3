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

type echo struct {
	Message
	Data []byte
}

func (r *echo) MarshalBinary() ([]byte, error) {
	r.SetPayload(r.Data)
	return r.Message.MarshalBinary()
}

func (r *echo) UnmarshalBinary(data []byte) error {
	if err := r.Message.UnmarshalBinary(data); err != nil {
		return err
	}
	r.Data = r.Payload()

	return nil
}

type EchoRequest struct {
	echo
}

func NewEchoRequest(version uint8, xid uint32) *EchoRequest {
	return &EchoRequest{
		echo: echo{Message: NewMessage(version, TypeEchoRequest, xid)},
	}
}

type EchoReply struct {
	echo
}

func NewEchoReply(version uint8, xid uint32) *EchoReply {
	return &EchoReply{
		echo: echo{Message: NewMessage(version, TypeEchoReply, xid)},
	}
}
