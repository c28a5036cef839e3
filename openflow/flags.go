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
	"sort"

	"github.com/pkg/errors"
)

// FlagTable maps symbolic flag names to bit positions of a flag set.
// Decoding emits names high-bit-first so that a decoded list re-encodes
// to the identical value.
type FlagTable struct {
	bits  map[string]uint
	names []flagName // sorted by bit, descending
}

type flagName struct {
	name string
	bit  uint
}

func newFlagTable(bits map[string]uint) *FlagTable {
	names := make([]flagName, 0, len(bits))
	for name, bit := range bits {
		names = append(names, flagName{name: name, bit: bit})
	}
	sort.Slice(names, func(i, j int) bool { return names[i].bit > names[j].bit })

	return &FlagTable{
		bits:  bits,
		names: names,
	}
}

// Encode ORs the bits of the named flags into a single value.
func (r *FlagTable) Encode(flags []string) (uint32, error) {
	var v uint32
	for _, name := range flags {
		bit, ok := r.bits[name]
		if !ok {
			return 0, errors.Wrap(ErrUnknownFlag, name)
		}
		v |= 1 << bit
	}

	return v, nil
}

// Decode returns the names of the set bits, high-bit-first. Bits
// without a name are dropped.
func (r *FlagTable) Decode(v uint32) []string {
	flags := make([]string, 0, len(r.names))
	for _, f := range r.names {
		if v&(1<<f.bit) != 0 {
			flags = append(flags, f.name)
		}
	}

	return flags
}

// Datapath capability flags of features_reply.
var CapabilityFlags = newFlagTable(map[string]uint{
	"flow_stats":   0,
	"table_stats":  1,
	"port_stats":   2,
	"group_stats":  3,
	"ip_reasm":     5,
	"queue_stats":  6,
	"port_blocked": 8,
})

// Fragment handling flags of get_config_reply and set_config.
var ConfigFlags = newFlagTable(map[string]uint{
	"frag_drop":  0,
	"frag_reasm": 1,
})

// Port administrative configuration flags.
var PortConfigFlags = newFlagTable(map[string]uint{
	"port_down":    0,
	"no_recv":      2,
	"no_fwd":       5,
	"no_packet_in": 6,
})

// Port link state flags.
var PortStateFlags = newFlagTable(map[string]uint{
	"link_down": 0,
	"blocked":   1,
	"live":      2,
})

// Port feature flags used by the curr, advertised, supported and peer
// sets of the port structure.
var PortFeatureFlags = newFlagTable(map[string]uint{
	"10mb_hd":    0,
	"10mb_fd":    1,
	"100mb_hd":   2,
	"100mb_fd":   3,
	"1gb_hd":     4,
	"1gb_fd":     5,
	"10gb_fd":    6,
	"40gb_fd":    7,
	"100gb_fd":   8,
	"1tb_fd":     9,
	"other":      10,
	"copper":     11,
	"fiber":      12,
	"autoneg":    13,
	"pause":      14,
	"pause_asym": 15,
})
