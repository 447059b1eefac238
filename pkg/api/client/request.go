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

package client

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/context"
)

// serverResponse is a wrapper for http API responses.
type serverResponse struct {
	body       io.ReadCloser
	header     http.Header
	statusCode int
}

func (cli *Client) get(ctx context.Context, path string, query url.Values) (serverResponse, error) {
	return cli.sendRequest(ctx, "GET", path, query, nil, nil)
}

func (cli *Client) post(ctx context.Context, path string, query url.Values, body io.Reader, headers map[string]string) (serverResponse, error) {
	return cli.sendRequest(ctx, "POST", path, query, body, headers)
}

func (cli *Client) sendRequest(ctx context.Context, method, path string, query url.Values, body io.Reader, headers map[string]string) (serverResponse, error) {
	resp := serverResponse{statusCode: -1}

	req, err := http.NewRequest(method, cli.getAPIPath(path, query), body)
	if err != nil {
		return resp, err
	}
	req = req.WithContext(ctx)
	for k, v := range cli.customHTTPHeaders {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	req.URL.Host = cli.addr
	if cli.proto != "tcp" {
		// the transport dials the socket, the host only fills the header
		req.URL.Host = "scsitrace"
	}
	req.URL.Scheme = "http"

	res, err := cli.client.Do(req)
	if err != nil {
		if strings.Contains(err.Error(), "connection refused") {
			return resp, fmt.Errorf("Cannot connect to the scsitrace daemon at %s://%s. Is the daemon running?", cli.proto, cli.addr)
		}
		return resp, errors.Wrapf(err, "error during connect")
	}
	resp.body = res.Body
	resp.header = res.Header
	resp.statusCode = res.StatusCode

	if res.StatusCode < 200 || res.StatusCode >= 400 {
		msg, err := ioutil.ReadAll(res.Body)
		res.Body.Close()
		if err != nil {
			return resp, errors.Wrap(err, "reading error response")
		}
		return resp, fmt.Errorf("Error response from daemon: %s", strings.TrimSpace(string(msg)))
	}
	return resp, nil
}

func decodeBody(resp serverResponse, v interface{}) error {
	defer ensureReaderClosed(resp)
	return json.NewDecoder(resp.body).Decode(v)
}

func ensureReaderClosed(response serverResponse) {
	if response.body != nil {
		// Drain up to 512 bytes and close the body to let the Transport reuse the connection
		io.CopyN(ioutil.Discard, response.body, 512)
		response.body.Close()
	}
}
