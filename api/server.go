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

// Package api exposes a REST status surface for a running endpoint:
// its connection state, role and negotiated version, a bounded history
// of recent control traffic, and a demote-to-slave action.
package api

import (
	"fmt"
	"net/http"

	"github.com/ofkit/ofagent/agent"

	"github.com/ant0ine/go-json-rest/rest"
	"github.com/op/go-logging"
)

var logger = logging.MustGetLogger("api")

// Endpoint is the part of the agent the API reads and controls.
type Endpoint interface {
	Status() agent.Status
	MakeSlave()
}

type Server struct {
	Port     uint16
	Endpoint Endpoint
	History  *TransactionLog
}

type response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func (r *Server) Serve() error {
	if r.Endpoint == nil {
		return fmt.Errorf("nil endpoint")
	}

	api := rest.NewApi()
	router, err := rest.MakeRouter(
		rest.Get("/api/v1/status", r.status),
		rest.Get("/api/v1/transactions", r.transactions),
		rest.Post("/api/v1/role/slave", r.makeSlave),
	)
	if err != nil {
		return err
	}
	api.SetApp(router)

	// Listen on all interfaces.
	return http.ListenAndServe(fmt.Sprintf(":%v", r.Port), api.MakeHandler())
}

func (r *Server) status(w rest.ResponseWriter, req *rest.Request) {
	w.WriteJson(response{Status: "ok", Data: r.Endpoint.Status()})
}

func (r *Server) transactions(w rest.ResponseWriter, req *rest.Request) {
	if r.History == nil {
		w.WriteJson(response{Status: "ok", Data: []Transaction{}})
		return
	}
	w.WriteJson(response{Status: "ok", Data: r.History.Snapshot()})
}

func (r *Server) makeSlave(w rest.ResponseWriter, req *rest.Request) {
	logger.Infof("demote to slave requested by %v", req.RemoteAddr)
	r.Endpoint.MakeSlave()
	w.WriteJson(response{Status: "ok", Data: r.Endpoint.Status()})
}
