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
	"time"

	"github.com/ofkit/ofagent/openflow"

	"github.com/hashicorp/golang-lru"
)

// Transaction is one observed control message, summarized for the
// debug surface.
type Transaction struct {
	XID       uint32    `json:"xid"`
	Type      string    `json:"type"`
	Version   uint8     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// TransactionLog keeps a bounded history of recent control traffic,
// keyed by transaction ID. Old entries are evicted as new traffic
// arrives.
type TransactionLog struct {
	cache *lru.Cache
}

func NewTransactionLog(size int) (*TransactionLog, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}

	return &TransactionLog{cache: c}, nil
}

// Observe records one decoded message.
func (r *TransactionLog) Observe(msg openflow.Header) {
	r.cache.Add(msg.TransactionID(), Transaction{
		XID:       msg.TransactionID(),
		Type:      msg.Type().String(),
		Version:   msg.Version(),
		Timestamp: time.Now(),
	})
}

// Snapshot returns the retained transactions, oldest first.
func (r *TransactionLog) Snapshot() []Transaction {
	keys := r.cache.Keys()
	transactions := make([]Transaction, 0, len(keys))
	for _, k := range keys {
		if v, ok := r.cache.Peek(k); ok {
			transactions = append(transactions, v.(Transaction))
		}
	}

	return transactions
}
