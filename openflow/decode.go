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

	"github.com/pkg/errors"
)

// Decode peels exactly one message off the front of data and returns
// it along with the remaining bytes. The caller must supply at least
// the full wire length of the first message; accumulating a short
// buffer is the parser's job, not a decode error the codec can
// recover from.
func Decode(data []byte) (Incoming, []byte, error) {
	if len(data) < 8 {
		return nil, data, ErrInvalidPacketLength
	}
	version := data[0] & 0x7F
	length := int(binary.BigEndian.Uint16(data[2:4]))
	if length < 8 || len(data) < length {
		return nil, data, ErrInvalidPacketLength
	}
	typ, ok := typeFromCode(version, data[1])
	if !ok {
		return nil, data, errors.Wrapf(ErrUnsupportedMessage, "version=%v, code=%v", version, data[1])
	}

	var msg Incoming
	switch typ {
	case TypeHello:
		msg = new(Hello)
	case TypeError:
		msg = new(Error)
	case TypeEchoRequest:
		msg = new(EchoRequest)
	case TypeEchoReply:
		msg = new(EchoReply)
	case TypeFeaturesRequest:
		msg = new(FeaturesRequest)
	case TypeFeaturesReply:
		msg = new(FeaturesReply)
	case TypeGetConfigReply:
		msg = new(GetConfigReply)
	case TypeSetConfig:
		msg = new(SetConfig)
	case TypePacketIn:
		msg = new(PacketIn)
	case TypeFlowRemoved:
		msg = new(FlowRemoved)
	case TypePortStatus:
		msg = new(PortStatus)
	default:
		msg = new(Generic)
	}

	if err := msg.UnmarshalBinary(data[:length]); err != nil {
		return nil, data, err
	}

	return msg, data[length:], nil
}
