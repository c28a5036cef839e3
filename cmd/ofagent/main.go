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

package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ofkit/ofagent/agent"
	"github.com/ofkit/ofagent/api"
	"github.com/ofkit/ofagent/log"
	"github.com/ofkit/ofagent/openflow"

	"github.com/davecgh/go-spew/spew"
	"github.com/fsnotify/fsnotify"
	"github.com/op/go-logging"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	programName    = "ofagent"
	programVersion = "0.4.2"

	defaultLogLevel    = logging.INFO
	transactionLogSize = 1024
)

var (
	logger            = logging.MustGetLogger("main")
	loggerLeveled     logging.LeveledBackend
	showVersion       = flag.Bool("version", false, "Show program version and exit")
	defaultConfigFile = flag.String("config", fmt.Sprintf("/usr/local/etc/%v.yaml", programName), "absolute path of the configuration file")
)

func main() {
	flag.Parse()
	if *showVersion {
		fmt.Printf("Version: %v\n", programVersion)
		os.Exit(0)
	}

	initConfig()
	if err := initLog(getLogLevel(viper.GetString("default.log_level"))); err != nil {
		logger.Fatalf("failed to init log: %v", err)
	}

	events := make(chan agent.Event, 64)
	endpoint, err := agent.Start(agent.Config{
		Controller:      controllerAddr(),
		Events:          events,
		Version:         uint8(viper.GetInt("default.version")),
		Versions:        extraVersions(),
		ReconnectPeriod: time.Duration(viper.GetInt("default.reconnect_timeout")) * time.Millisecond,
	})
	if err != nil {
		logger.Fatalf("failed to start the endpoint: %v", err)
	}

	history, err := api.NewTransactionLog(transactionLogSize)
	if err != nil {
		logger.Fatalf("failed to create the transaction log: %v", err)
	}
	initAPIServer(endpoint, history)
	initSignalHandler(endpoint)

	serveEvents(endpoint, events, history)
}

func initConfig() {
	viper.SetConfigFile(*defaultConfigFile)
	// Read the config file.
	if err := viper.ReadInConfig(); err != nil {
		logger.Fatalf("failed to read the config file: %v", err)
	}
	// Watching and re-reading config file whenever it changes.
	viper.OnConfigChange(func(e fsnotify.Event) {
		// Only WRITE events re-apply the log level; every other
		// operation is ignored.
		if e.Op != fsnotify.Write {
			return
		}

		if loggerLeveled != nil {
			// Set log level for all modules
			loggerLeveled.SetLevel(getLogLevel(viper.GetString("default.log_level")), "")
		}
	})
	viper.WatchConfig()
	if err := validateConfig(); err != nil {
		logger.Fatalf("failed to validate the configuration: %v", err)
	}
}

func validateConfig() error {
	if len(viper.GetString("default.log_level")) == 0 {
		return errors.New("invalid default.log_level")
	}
	if v := viper.GetInt("default.version"); v != 0 && !openflow.SupportedVersion(uint8(v)) {
		return errors.New("invalid default.version")
	}
	if port := viper.GetInt("controller.port"); port < 0 || port > 0xFFFF {
		return errors.New("invalid controller.port")
	}
	if port := viper.GetInt("rest.port"); port < 0 || port > 0xFFFF {
		return errors.New("invalid rest.port")
	}

	return nil
}

func controllerAddr() string {
	host := viper.GetString("controller.host")
	if host == "" {
		return ""
	}
	port := viper.GetInt("controller.port")
	if port == 0 {
		port = 6633
	}

	return fmt.Sprintf("%v:%v", host, port)
}

func extraVersions() []uint8 {
	var versions []uint8
	for _, v := range viper.GetIntSlice("default.versions") {
		versions = append(versions, uint8(v))
	}

	return versions
}

func initLog(level logging.Level) error {
	var backend logging.Backend
	var err error
	if viper.GetBool("default.syslog") {
		backend, err = log.NewSyslog(programName)
		if err != nil {
			return err
		}
	} else {
		backend = log.NewStderr()
	}

	loggerLeveled, err = log.Setup(backend, level)
	return err
}

func getLogLevel(level string) logging.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logging.DEBUG
	case "info":
		return logging.INFO
	case "notice":
		return logging.NOTICE
	case "warning":
		return logging.WARNING
	case "error":
		return logging.ERROR
	case "critical":
		return logging.CRITICAL
	default:
		logger.Warningf("unknown log level %v, defaulting to INFO", level)
		return defaultLogLevel
	}
}

func initAPIServer(endpoint *agent.Endpoint, history *api.TransactionLog) {
	port := viper.GetInt("rest.port")
	if port == 0 {
		return
	}

	go func() {
		srv := &api.Server{
			Port:     uint16(port),
			Endpoint: endpoint,
			History:  history,
		}
		if err := srv.Serve(); err != nil {
			logger.Fatalf("failed to run the API server: %v", err)
		}
	}()
}

func initSignalHandler(endpoint *agent.Endpoint) {
	go func() {
		c := make(chan os.Signal, 5)
		// All incoming signals will be transferred to the channel.
		signal.Notify(c)

		for {
			s := <-c
			if s == syscall.SIGTERM || s == syscall.SIGINT {
				// Graceful shutdown.
				logger.Warning("Shutting down...")
				endpoint.Stop()
				os.Exit(0)
			} else if s == syscall.SIGHUP {
				fmt.Printf("* Endpoint status:\n%v\n", spew.Sdump(endpoint.Status()))
			}
		}
	}()
}

// serveEvents consumes the endpoint upcalls. Echo requests are
// answered here: the endpoint forwards them like any other request and
// leaves the reply to its controlling process.
func serveEvents(endpoint *agent.Endpoint, events <-chan agent.Event, history *api.TransactionLog) {
	for ev := range events {
		switch v := ev.(type) {
		case agent.Connected:
			logger.Infof("connected to the controller (version=%v)", v.Version)
		case agent.ConnectionClosed:
			logger.Warningf("connection closed: %v", v.Reason)
		case agent.MessageReceived:
			history.Observe(v.Message)
			logger.Debugf("received %v: %v", v.Message.Type(), spew.Sdump(v.Message))
			if echo, ok := v.Message.(*openflow.EchoRequest); ok {
				reply := openflow.NewEchoReply(echo.Version(), echo.TransactionID())
				reply.Data = echo.Data
				if err := endpoint.Send(reply); err != nil {
					logger.Errorf("failed to send echo reply: %v", err)
				}
			}
		}
	}
}
