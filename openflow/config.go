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

// switchConfig is the shared body of get_config_reply and set_config.
type switchConfig struct {
	Message
	Flags       []string
	MissSendLen uint16
}

func (r *switchConfig) MarshalBinary() ([]byte, error) {
	flags, err := ConfigFlags.Encode(r.Flags)
	if err != nil {
		return nil, err
	}

	payload := make([]byte, 4)
	binary.BigEndian.PutUint16(payload[0:2], uint16(flags))
	binary.BigEndian.PutUint16(payload[2:4], r.MissSendLen)

	r.SetPayload(payload)
	return r.Message.MarshalBinary()
}

func (r *switchConfig) UnmarshalBinary(data []byte) error {
	if err := r.Message.UnmarshalBinary(data); err != nil {
		return err
	}

	payload := r.Payload()
	if len(payload) < 4 {
		return ErrInvalidPacketLength
	}
	r.Flags = ConfigFlags.Decode(uint32(binary.BigEndian.Uint16(payload[0:2])))
	r.MissSendLen = binary.BigEndian.Uint16(payload[2:4])

	return nil
}

type GetConfigReply struct {
	switchConfig
}

func NewGetConfigReply(version uint8, xid uint32) *GetConfigReply {
	return &GetConfigReply{
		switchConfig: switchConfig{Message: NewMessage(version, TypeGetConfigReply, xid)},
	}
}

type SetConfig struct {
	switchConfig
}

func NewSetConfig(version uint8, xid uint32) *SetConfig {
	return &SetConfig{
		switchConfig: switchConfig{Message: NewMessage(version, TypeSetConfig, xid)},
	}
}
