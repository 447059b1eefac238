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

package system

import (
	"net/http"
	"runtime"

	"github.com/gostor/scsitrace/pkg/api"
	"github.com/gostor/scsitrace/pkg/apiserver/httputils"
	"github.com/gostor/scsitrace/pkg/apiserver/router"
	"github.com/gostor/scsitrace/pkg/metrics"
	"github.com/gostor/scsitrace/pkg/port"
	"github.com/gostor/scsitrace/pkg/version"
	"golang.org/x/net/context"
)

// systemRouter serves information about the daemon itself.
type systemRouter struct {
	routes []router.Route
}

// NewRouter initializes a new system router
func NewRouter() router.Router {
	r := &systemRouter{}
	r.initRoutes()
	return r
}

// Routes returns the available routes of the system router
func (r *systemRouter) Routes() []router.Route {
	return r.routes
}

func (r *systemRouter) initRoutes() {
	r.routes = []router.Route{
		// GET
		router.NewGetRoute("/version", r.getVersion),
		router.NewGetRoute("/metrics", r.getMetrics),
	}
}

func (s *systemRouter) getVersion(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	v := &api.Version{
		Version:    version.VERSION,
		GitCommit:  version.GitCommit,
		GoVersion:  runtime.Version(),
		Os:         runtime.GOOS,
		Arch:       runtime.GOARCH,
		Transports: port.Transports(),
	}
	return httputils.WriteJSON(w, http.StatusOK, v)
}

func (s *systemRouter) getMetrics(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	metrics.Handler().ServeHTTP(w, r)
	return nil
}
