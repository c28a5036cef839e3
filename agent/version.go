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
	"sort"

	"github.com/ofkit/ofagent/openflow"
)

// mergeVersions combines the default version with the extra configured
// versions into a sorted, duplicate-free ascending list.
func mergeVersions(version uint8, extra []uint8) []uint8 {
	seen := map[uint8]bool{version: true}
	for _, v := range extra {
		seen[v] = true
	}
	versions := make([]uint8, 0, len(seen))
	for v := range seen {
		versions = append(versions, v)
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i] < versions[j] })

	return versions
}

// newHello builds the HELLO this endpoint opens every connection with.
// The header carries the highest configured version; from version 4 on
// the body lists every configured version in a versionbitmap element.
func newHello(versions []uint8, xid uint32) *openflow.Hello {
	max := versions[len(versions)-1]
	hello := openflow.NewHello(max, xid)
	if max >= openflow.Version4 {
		bitmap := make([]uint8, len(versions))
		copy(bitmap, versions)
		hello.VersionBitmap = bitmap
	}

	return hello
}

// decideOnVersion picks the protocol version for a connection from our
// configured versions and the peer's HELLO.
func decideOnVersion(versions []uint8, hello *openflow.Hello) (uint8, error) {
	max := versions[len(versions)-1]
	peer := hello.Version()

	if max >= openflow.Version4 {
		if max == peer {
			return max, nil
		}
		peerVersions := hello.VersionBitmap
		if peerVersions == nil {
			peerVersions = []uint8{peer}
		}
		common, ok := greatestCommonVersion(versions, peerVersions)
		if !ok {
			return 0, &NoCommonVersionError{Client: versions, Server: peerVersions}
		}
		return common, nil
	}

	for _, v := range versions {
		if v == peer {
			return peer, nil
		}
	}

	return 0, &UnsupportedVersionError{Version: peer}
}

// greatestCommonVersion merges two ascending version lists from the
// top down and returns the highest version present in both.
func greatestCommonVersion(client, server []uint8) (uint8, bool) {
	i, j := len(client)-1, len(server)-1
	for i >= 0 && j >= 0 {
		switch {
		case client[i] == server[j]:
			return client[i], true
		case client[i] > server[j]:
			i--
		default:
			j--
		}
	}

	return 0, false
}
