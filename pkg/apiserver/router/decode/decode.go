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

package decode

import (
	"fmt"
	"net/http"

	"github.com/gostor/scsitrace/pkg/api"
	"github.com/gostor/scsitrace/pkg/apiserver/httputils"
	"github.com/gostor/scsitrace/pkg/apiserver/router"
	"github.com/gostor/scsitrace/pkg/capture"
	"github.com/gostor/scsitrace/pkg/scsi"
	log "github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// Defaults are the decoding settings a request starts from.
type Defaults struct {
	Session scsi.Options
	Capture capture.Options
}

// decodeRouter decodes captures posted to the daemon.
type decodeRouter struct {
	defaults Defaults
	routes   []router.Route
}

// NewRouter initializes a new decode router
func NewRouter(defaults Defaults) router.Router {
	r := &decodeRouter{defaults: defaults}
	r.initRoutes()
	return r
}

// Routes returns the available routes of the decode router
func (r *decodeRouter) Routes() []router.Route {
	return r.routes
}

func (r *decodeRouter) initRoutes() {
	r.routes = []router.Route{
		// POST
		router.NewPostRoute("/capture/decode", r.postCaptureDecode),
	}
}

func (s *decodeRouter) options(r *http.Request) (scsi.Options, capture.Options, error) {
	sessOpts, capOpts := s.defaults.Session, s.defaults.Capture
	if err := httputils.ParseForm(r); err != nil {
		return sessOpts, capOpts, err
	}
	if v := r.Form.Get("device-class"); v != "" {
		class, err := scsi.ParseDefaultDeviceClass(v)
		if err != nil {
			return sessOpts, capOpts, fmt.Errorf("bad parameter: %v", err)
		}
		sessOpts.DefaultDeviceClass = class
	}
	n, err := httputils.Int64ValueOrDefault(r, "max-tasks", int64(sessOpts.MaxTasks))
	if err != nil {
		return sessOpts, capOpts, err
	}
	sessOpts.MaxTasks = int(n)
	ports, err := httputils.Uint16Values(r, "iscsi-port")
	if err != nil {
		return sessOpts, capOpts, err
	}
	if len(ports) > 0 {
		capOpts.ISCSIPorts = ports
	}
	return sessOpts, capOpts, nil
}

func (s *decodeRouter) postCaptureDecode(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	if err := httputils.CheckForContentType(r, api.MediaTypePcap, api.MediaTypeOctets); err != nil {
		return err
	}
	sessOpts, capOpts, err := s.options(r)
	if err != nil {
		return err
	}

	sess := scsi.NewSession(sessOpts)
	defer sess.Close()
	resp := &api.DecodeResponse{Session: sess.ID.String(), Records: []*capture.Record{}}
	summary, err := capture.Replay(ctx, r.Body, sess, capOpts, func(rec *capture.Record) error {
		resp.Records = append(resp.Records, rec)
		return nil
	})
	if err != nil {
		return err
	}
	resp.Summary = *summary
	log.Debugf("session %s: decoded %d records from %d packets", resp.Session, summary.Records, summary.Packets)
	return httputils.WriteJSON(w, http.StatusOK, resp)
}
