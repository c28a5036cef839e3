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
	"fmt"
)

// BadDataError is a fatal framing failure. The parser instance that
// returned it must be discarded along with its connection. Bytes holds
// the unconsumed buffer at the point of failure.
type BadDataError struct {
	Bytes  []byte
	Reason error
}

func (r *BadDataError) Error() string {
	return fmt.Sprintf("bad data: %v (%v bytes pending)", r.Reason, len(r.Bytes))
}

// Parser frames a byte stream into complete messages. It is bound to
// the version negotiated for its connection and accumulates partial
// messages across calls; no input byte is ever lost or skipped.
type Parser struct {
	version uint8
	buf     []byte
	dead    bool
}

func NewParser(version uint8) (*Parser, error) {
	if !SupportedVersion(version) {
		return nil, ErrUnsupportedVersion
	}

	return &Parser{version: version}, nil
}

func (r *Parser) Version() uint8 {
	return r.version
}

// Parse appends chunk to the internal buffer and returns every
// complete message now available, in wire order. A returned
// *BadDataError is fatal for this parser.
func (r *Parser) Parse(chunk []byte) ([]Incoming, error) {
	if r.dead {
		return nil, &BadDataError{Bytes: r.buf, Reason: ErrInvalidPacketLength}
	}
	r.buf = append(r.buf, chunk...)

	var msgs []Incoming
	for {
		length, ok := wireLength(r.buf)
		if !ok {
			break
		}
		if length < 8 {
			r.dead = true
			return msgs, &BadDataError{Bytes: r.buf, Reason: ErrInvalidPacketLength}
		}
		if len(r.buf) < length {
			break
		}
		if r.buf[0]&0x7F != r.version {
			r.dead = true
			return msgs, &BadDataError{Bytes: r.buf, Reason: ErrVersionMismatch}
		}

		msg, rest, err := Decode(r.buf)
		if err != nil {
			// The full wire length is present, so this is a
			// malformed message, not a short read.
			r.dead = true
			return msgs, &BadDataError{Bytes: r.buf, Reason: err}
		}
		msgs = append(msgs, msg)
		r.buf = rest
	}

	return msgs, nil
}

// Encode marshals an outbound message after checking it against the
// parser's negotiated version.
func (r *Parser) Encode(msg Outgoing) ([]byte, error) {
	if msg.Version() != r.version {
		return nil, ErrVersionMismatch
	}

	return msg.MarshalBinary()
}
