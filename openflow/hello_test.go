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
	"reflect"
	"testing"
)

func TestHelloWithoutElements(t *testing.T) {
	hello := NewHello(Version1, 9)
	data, err := hello.MarshalBinary()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data) != 8 {
		t.Fatalf("unexpected wire length: expected=8, actual=%v", len(data))
	}

	decoded := Hello{}
	if err := decoded.UnmarshalBinary(data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.VersionBitmap != nil {
		t.Fatalf("unexpected version bitmap: %v", decoded.VersionBitmap)
	}
}

func TestHelloVersionBitmapRoundTrip(t *testing.T) {
	src := [][]uint8{
		{4},
		{1, 3, 4},
		{3, 4},
	}

	for _, versions := range src {
		hello := NewHello(Version4, 1)
		hello.VersionBitmap = versions
		data, err := hello.MarshalBinary()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		decoded := Hello{}
		if err := decoded.UnmarshalBinary(data); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(decoded.VersionBitmap, versions) {
			t.Fatalf("unexpected bitmap: expected=%v, actual=%v", versions, decoded.VersionBitmap)
		}
	}
}

func TestHelloSkipsUnknownElements(t *testing.T) {
	// An unknown element (type 0x7F) followed by a versionbitmap
	// carrying versions 1 and 4.
	data := []byte{
		0x04, 0x00, 0x00, 0x18, 0x00, 0x00, 0x00, 0x02,
		0x00, 0x7F, 0x00, 0x06, 0xDE, 0xAD, 0x00, 0x00,
		0x00, 0x01, 0x00, 0x08, 0x00, 0x00, 0x00, 0x12,
	}

	decoded := Hello{}
	if err := decoded.UnmarshalBinary(data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(decoded.VersionBitmap, []uint8{1, 4}) {
		t.Fatalf("unexpected bitmap: %v", decoded.VersionBitmap)
	}
}

func TestHelloBadElementLength(t *testing.T) {
	data := []byte{
		0x04, 0x00, 0x00, 0x10, 0x00, 0x00, 0x00, 0x02,
		0x00, 0x01, 0x00, 0x02, 0x00, 0x00, 0x00, 0x00, // element length < 4
	}

	decoded := Hello{}
	if err := decoded.UnmarshalBinary(data); err == nil {
		t.Fatal("expected error, but no error returns")
	}
}
