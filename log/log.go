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

// Package log wires go-logging backends for the daemon.
package log

import (
	"fmt"
	slog "log/syslog"
	"os"

	"github.com/op/go-logging"
)

type syslogBackend struct {
	writer *slog.Writer
}

// NewSyslog returns a logging backend that forwards records to the
// local syslog daemon under the given prefix.
func NewSyslog(prefix string) (logging.Backend, error) {
	w, err := slog.New(slog.LOG_INFO|slog.LOG_DAEMON, prefix)
	if err != nil {
		return nil, err
	}

	return &syslogBackend{writer: w}, nil
}

func (r *syslogBackend) Log(level logging.Level, calldepth int, record *logging.Record) error {
	line := record.Formatted(calldepth + 1)
	switch level {
	case logging.CRITICAL:
		return r.writer.Crit(line)
	case logging.ERROR:
		return r.writer.Err(line)
	case logging.WARNING:
		return r.writer.Warning(line)
	case logging.NOTICE:
		return r.writer.Notice(line)
	case logging.INFO:
		return r.writer.Info(line)
	case logging.DEBUG:
		return r.writer.Debug(line)
	default:
		panic("unexpected log level")
	}
}

// NewStderr returns a logging backend that writes formatted records to
// standard error.
func NewStderr() logging.Backend {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	format := logging.MustStringFormatter(`%{time:15:04:05.000} %{level}: %{shortpkg}.%{shortfunc}: %{message}`)

	return logging.NewBackendFormatter(backend, format)
}

// Setup installs the backend as the leveled default and returns the
// handle so the level can be changed at runtime.
func Setup(backend logging.Backend, level logging.Level) (logging.LeveledBackend, error) {
	if backend == nil {
		return nil, fmt.Errorf("nil backend")
	}

	leveled := logging.AddModuleLevel(backend)
	// Set log level for all modules.
	leveled.SetLevel(level, "")
	logging.SetBackend(leveled)

	return leveled, nil
}
