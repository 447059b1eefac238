/*
Copyright 2016 The GoStor Authors All rights reserved.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package apiserver serves capture decoding over HTTP.
package apiserver

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"

	systemdActivation "github.com/coreos/go-systemd/activation"
	"github.com/docker/go-connections/sockets"
	"github.com/gorilla/mux"
	"github.com/gostor/scsitrace/pkg/apiserver/httputils"
	"github.com/gostor/scsitrace/pkg/apiserver/router"
	"github.com/gostor/scsitrace/pkg/apiserver/router/decode"
	"github.com/gostor/scsitrace/pkg/apiserver/router/system"
	log "github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// Routes are served both bare and under a /v<version> prefix.
const versionMatcher = "/v{version:[0-9.]+}"

type Config struct {
	TLSConfig *tls.Config
	Addrs     []Addr
	// Decode holds the settings decode requests start from.
	Decode decode.Defaults
	// MaxCaptureSize bounds the request body of a decode, 0 for no bound.
	MaxCaptureSize int64
}

// Addr is a listen address such as tcp 127.0.0.1:23457, unix
// /run/scsitrace.sock or fd 3.
type Addr struct {
	Proto string
	Addr  string
}

// Server is the decode daemon's HTTP front end. It owns one listener per
// configured address.
type Server struct {
	cfg       *Config
	listeners []*listener
	routers   []router.Router
}

type listener struct {
	srv *http.Server
	l   net.Listener
}

// New opens the listeners of cfg.Addrs. Nothing is served until Wait.
func New(cfg *Config) (*Server, error) {
	s := &Server{cfg: cfg}
	for _, addr := range cfg.Addrs {
		ls, err := s.listen(addr)
		if err != nil {
			s.Close()
			return nil, err
		}
		log.Infof("listening for decode requests on %s (%s)", addr.Proto, addr.Addr)
		for _, l := range ls {
			s.listeners = append(s.listeners, &listener{srv: &http.Server{Addr: addr.Addr}, l: l})
		}
	}
	return s, nil
}

// Close stops accepting requests on every listener.
func (s *Server) Close() {
	for _, ln := range s.listeners {
		if err := ln.l.Close(); err != nil {
			log.Error(err)
		}
	}
}

// InitRouters installs the decode and system routes.
func (s *Server) InitRouters() {
	s.routers = append(s.routers, decode.NewRouter(s.cfg.Decode), system.NewRouter())
}

// Wait serves every listener. It sends the first listener error on
// waitChan, or nil once Close stopped them all.
func (s *Server) Wait(waitChan chan error) {
	err := s.serve()
	if err != nil {
		log.Errorf("API server: %v", err)
	}
	waitChan <- err
}

func (s *Server) serve() error {
	m := s.createMux()
	errs := make(chan error, len(s.listeners))
	for _, ln := range s.listeners {
		ln.srv.Handler = m
		go func(ln *listener) {
			err := ln.srv.Serve(ln.l)
			if err != nil && strings.Contains(err.Error(), "use of closed network connection") {
				err = nil
			}
			errs <- err
		}(ln)
	}

	for range s.listeners {
		if err := <-errs; err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) createMux() *mux.Router {
	m := mux.NewRouter()
	for _, apiRouter := range s.routers {
		for _, r := range apiRouter.Routes() {
			f := s.makeHTTPHandler(r.Handler())
			log.Debugf("route %s %s", r.Method(), r.Path())
			m.Path(versionMatcher + r.Path()).Methods(r.Method()).Handler(f)
			m.Path(r.Path()).Methods(r.Method()).Handler(f)
		}
	}
	return m
}

func (s *Server) makeHTTPHandler(handler httputils.APIFunc) http.HandlerFunc {
	h := handler
	if s.cfg.MaxCaptureSize > 0 {
		h = limitBody(s.cfg.MaxCaptureSize)(h)
	}
	h = countRequests(h)

	return func(w http.ResponseWriter, r *http.Request) {
		log.Debugf("%s %s", r.Method, r.URL.Path)
		vars := mux.Vars(r)
		if vars == nil {
			vars = make(map[string]string)
		}
		// the request context ends a decode when the client goes away
		ctx := context.WithValue(r.Context(), httputils.APIVersionKey, vars["version"])
		if err := h(ctx, w, r, vars); err != nil {
			log.Errorf("%s %s: %v", r.Method, r.URL.Path, err)
			httputils.WriteError(w, err)
		}
	}
}

func (s *Server) listen(addr Addr) ([]net.Listener, error) {
	switch addr.Proto {
	case "fd":
		return listenFD(addr.Addr, s.cfg.TLSConfig)
	case "tcp":
		if s.cfg.TLSConfig == nil || s.cfg.TLSConfig.ClientAuth != tls.RequireAndVerifyClientCert {
			log.Warnf("decode requests on %s are not authenticated", addr.Addr)
		}
		l, err := sockets.NewTCPSocket(addr.Addr, s.cfg.TLSConfig)
		if err != nil {
			return nil, err
		}
		return []net.Listener{l}, nil
	case "unix":
		l, err := sockets.NewUnixSocketWithOpts(addr.Addr, sockets.WithChmod(0600))
		if err != nil {
			return nil, err
		}
		return []net.Listener{l}, nil
	}
	return nil, fmt.Errorf("bad parameter: unknown protocol %q", addr.Proto)
}

// listenFD returns the systemd activated sockets: all of them for "" or
// "*", otherwise the one at the given fd number.
func listenFD(addr string, tlsConfig *tls.Config) ([]net.Listener, error) {
	var (
		ls  []net.Listener
		err error
	)
	if tlsConfig != nil {
		ls, err = systemdActivation.TLSListeners(false, tlsConfig)
	} else {
		ls, err = systemdActivation.Listeners(false)
	}
	if err != nil {
		return nil, err
	}
	if len(ls) == 0 {
		return nil, fmt.Errorf("no systemd activated sockets")
	}
	if addr == "" || addr == "*" {
		return ls, nil
	}

	fd, err := strconv.Atoi(addr)
	if err != nil {
		return nil, fmt.Errorf("bad parameter: fd %q is not a number", addr)
	}
	// activated files start at fd 3
	i := fd - 3
	if i < 0 || i >= len(ls) || ls[i] == nil {
		return nil, fmt.Errorf("no systemd activated socket at fd %d", fd)
	}
	for j, l := range ls {
		if j != i && l != nil {
			if err := l.Close(); err != nil {
				log.Errorf("closing activated socket at fd %d: %v", j+3, err)
			}
		}
	}
	return []net.Listener{ls[i]}, nil
}
