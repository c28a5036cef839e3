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

package api

import (
	"testing"

	"github.com/ofkit/ofagent/openflow"
)

func TestTransactionLog(t *testing.T) {
	history, err := NewTransactionLog(4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for xid := uint32(1); xid <= 6; xid++ {
		msg := openflow.NewGeneric(openflow.Version4, openflow.TypeBarrierRequest, xid, nil)
		history.Observe(msg)
	}

	transactions := history.Snapshot()
	if len(transactions) != 4 {
		t.Fatalf("unexpected history size: %v", len(transactions))
	}
	// The two oldest entries were evicted.
	if transactions[0].XID != 3 || transactions[len(transactions)-1].XID != 6 {
		t.Fatalf("unexpected eviction order: %+v", transactions)
	}
	if transactions[0].Type != "barrier_request" {
		t.Fatalf("unexpected type name: %v", transactions[0].Type)
	}
}

func TestTransactionLogDedup(t *testing.T) {
	history, err := NewTransactionLog(4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Re-observing a transaction ID replaces its entry instead of
	// growing the history.
	history.Observe(openflow.NewGeneric(openflow.Version4, openflow.TypeBarrierRequest, 9, nil))
	history.Observe(openflow.NewGeneric(openflow.Version4, openflow.TypeBarrierReply, 9, nil))

	transactions := history.Snapshot()
	if len(transactions) != 1 {
		t.Fatalf("unexpected history size: %v", len(transactions))
	}
	if transactions[0].Type != "barrier_reply" {
		t.Fatalf("unexpected type name: %v", transactions[0].Type)
	}
}
