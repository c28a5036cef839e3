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

package agent

import (
	"encoding/binary"

	"github.com/ofkit/ofagent/openflow"

	"github.com/hashicorp/golang-lru"
)

// errorFactory builds encoded error replies per negotiated version.
// The endpoint core stays version-agnostic; whatever differs between
// versions is confined to the codec behind this capability. Encoded
// templates are memoized per (version, class, code) and only the
// transaction ID is patched per reply.
type errorFactory struct {
	cache *lru.Cache
}

type errorKey struct {
	version uint8
	class   uint16
	code    uint16
}

func newErrorFactory() *errorFactory {
	c, err := lru.New(64)
	if err != nil {
		panic(err)
	}

	return &errorFactory{cache: c}
}

// Build returns the wire bytes of an error reply carrying the given
// transaction ID.
func (r *errorFactory) Build(version uint8, class, code uint16, xid uint32) ([]byte, error) {
	key := errorKey{version: version, class: class, code: code}

	var template []byte
	if v, ok := r.cache.Get(key); ok {
		template = v.([]byte)
	} else {
		msg := openflow.NewError(version, 0, class, code)
		encoded, err := msg.MarshalBinary()
		if err != nil {
			return nil, err
		}
		r.cache.Add(key, encoded)
		template = encoded
	}

	reply := make([]byte, len(template))
	copy(reply, template)
	binary.BigEndian.PutUint32(reply[4:8], xid)

	return reply, nil
}
