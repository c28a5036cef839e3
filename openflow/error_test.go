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
	"bytes"
	"testing"
)

func TestErrorRoundTrip(t *testing.T) {
	msg := NewError(Version4, 42, ErrTypeBadRequest, ErrCodeIsSlave)
	msg.Data = []byte{0xCA, 0xFE}
	data, err := msg.MarshalBinary()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data) != 8+4+2 {
		t.Fatalf("unexpected wire length: %v", len(data))
	}

	decoded := Error{}
	if err := decoded.UnmarshalBinary(data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.TransactionID() != 42 {
		t.Fatalf("unexpected xid: %v", decoded.TransactionID())
	}
	if decoded.Class != ErrTypeBadRequest || decoded.Code != ErrCodeIsSlave {
		t.Fatalf("unexpected class/code: %v/%v", decoded.Class, decoded.Code)
	}
	if !bytes.Equal(decoded.Data, []byte{0xCA, 0xFE}) {
		t.Fatalf("unexpected data: %v", decoded.Data)
	}
}

func TestErrorExperimenterRoundTrip(t *testing.T) {
	msg := NewError(Version4, 7, ErrTypeExperimenter, 0)
	msg.ExpType = 0x1234
	msg.Experimenter = 0xDEADBEEF
	data, err := msg.MarshalBinary()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decoded := Error{}
	if err := decoded.UnmarshalBinary(data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.Class != ErrTypeExperimenter {
		t.Fatalf("unexpected class: %v", decoded.Class)
	}
	if decoded.ExpType != 0x1234 || decoded.Experimenter != 0xDEADBEEF {
		t.Fatalf("unexpected experimenter fields: %v/%v", decoded.ExpType, decoded.Experimenter)
	}
}

func TestErrorTruncated(t *testing.T) {
	data := []byte{0x04, 0x01, 0x00, 0x0A, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01}

	decoded := Error{}
	if err := decoded.UnmarshalBinary(data); err == nil {
		t.Fatal("expected error, but no error returns")
	}
}
