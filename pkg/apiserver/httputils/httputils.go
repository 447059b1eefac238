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

package httputils

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/gostor/scsitrace/pkg/version"
	log "github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type contextKey string

// APIVersionKey is the client's requested API version.
const APIVersionKey contextKey = "api-version"

// APIFunc is an adapter to allow the use of ordinary functions as API endpoints.
// Any function that has the appropriate signature can be register as a API endpoint (e.g. getVersion).
type APIFunc func(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error

// MatchesContentType validates the content type against the expected one
func MatchesContentType(contentType, expectedType string) bool {
	mimetype, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		log.Errorf("Error parsing media type: %s error: %v", contentType, err)
	}
	return err == nil && mimetype == expectedType
}

// CheckForContentType makes sure that the request's Content-Type is one of
// the expected types. A request without Content-Type is accepted.
func CheckForContentType(r *http.Request, expected ...string) error {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return nil
	}
	for _, e := range expected {
		if MatchesContentType(ct, e) {
			return nil
		}
	}
	return fmt.Errorf("bad parameter: Content-Type specified (%s) must be one of %s", ct, strings.Join(expected, ", "))
}

// ParseForm ensures the request form is parsed even with invalid content types.
// If we don't do this, POST method without Content-type (even with empty body) will fail.
func ParseForm(r *http.Request) error {
	if r == nil {
		return nil
	}
	if err := r.ParseForm(); err != nil && !strings.HasPrefix(err.Error(), "mime:") {
		return err
	}
	return nil
}

// errorStatus maps error message keywords to status codes, first match wins.
var errorStatus = []struct {
	keyword string
	status  int
}{
	{"request body too large", http.StatusRequestEntityTooLarge},
	{"not found", http.StatusNotFound},
	{"no such", http.StatusNotFound},
	{"bad parameter", http.StatusBadRequest},
	{"unreadable", http.StatusBadRequest},
}

// WriteError writes err as a plain text response, choosing the status code
// from the error message.
func WriteError(w http.ResponseWriter, err error) {
	if err == nil || w == nil {
		log.WithFields(log.Fields{"error": err, "writer": w}).Error("unexpected HTTP error handling")
		return
	}

	statusCode := http.StatusInternalServerError
	errMsg := err.Error()

	errStr := strings.ToLower(err.Error())
	for _, m := range errorStatus {
		if strings.Contains(errStr, m.keyword) {
			statusCode = m.status
			break
		}
	}

	http.Error(w, errMsg, statusCode)
}

// WriteJSON writes the value v to the http response stream as json with standard json encoding.
func WriteJSON(w http.ResponseWriter, code int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(v)
}

// VersionFromContext returns an API version from the context using APIVersionKey.
func VersionFromContext(ctx context.Context) string {
	if ctx == nil {
		return version.VERSION
	}

	val, _ := ctx.Value(APIVersionKey).(string)
	if val == "" {
		return version.VERSION
	}
	return val
}
