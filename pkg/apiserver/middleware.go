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

package apiserver

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/gostor/scsitrace/pkg/apiserver/httputils"
	"github.com/gostor/scsitrace/pkg/metrics"
	"golang.org/x/net/context"
)

type middleware func(httputils.APIFunc) httputils.APIFunc

// countRequests counts each call by method and route path, without the
// version prefix.
func countRequests(handler httputils.APIFunc) httputils.APIFunc {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				path = strings.TrimPrefix(tpl, versionMatcher)
			}
		}
		metrics.APIRequests.WithValues(r.Method, path).Inc()
		return handler(ctx, w, r, vars)
	}
}

// limitBody fails reads past n bytes of the request body.
func limitBody(n int64) middleware {
	return func(handler httputils.APIFunc) httputils.APIFunc {
		return func(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
			r.Body = http.MaxBytesReader(w, r.Body, n)
			return handler(ctx, w, r, vars)
		}
	}
}
