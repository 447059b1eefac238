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

package port

import (
	"fmt"
	"sort"

	"github.com/gostor/scsitrace/pkg/scsi"
)

type TransportFunc func(*scsi.Session) (Transport, error)

var registeredPlugins = map[string](TransportFunc){}

func RegisterTransport(name string, f TransportFunc) {
	registeredPlugins[name] = f
}

func NewTransport(name string, s *scsi.Session) (Transport, error) {
	if name == "" {
		return nil, nil
	}
	f, ok := registeredPlugins[name]
	if !ok {
		return nil, fmt.Errorf("SCSI transport %s is not found.", name)
	}
	return f(s)
}

// Transports lists the registered transport names.
func Transports() []string {
	var names []string
	for name := range registeredPlugins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
