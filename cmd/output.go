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

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/gostor/scsitrace/pkg/capture"
	"github.com/gostor/scsitrace/pkg/scsi"
)

// recordWriter prints decoded records in one of the output formats.
type recordWriter interface {
	Write(rec *capture.Record) error
}

func newRecordWriter(w io.Writer, format string) (recordWriter, error) {
	switch format {
	case "text", "":
		return &textWriter{w: w}, nil
	case "json":
		return &jsonWriter{enc: json.NewEncoder(w)}, nil
	}
	return nil, fmt.Errorf("unknown format %q", format)
}

type jsonWriter struct {
	enc *json.Encoder
}

func (w *jsonWriter) Write(rec *capture.Record) error {
	return w.enc.Encode(rec)
}

type textWriter struct {
	w io.Writer
}

func (w *textWriter) Write(rec *capture.Record) error {
	r := rec.Result
	var s []string
	s = append(s, fmt.Sprintf("%-6d", rec.Frame), rec.Transport, "task "+r.Task, r.Phase.String())
	if r.Command != "" {
		s = append(s, fmt.Sprintf("%s (%s)", r.Command, r.CommandSet))
	}
	if r.Device != "" {
		s = append(s, string(r.Device))
	}
	if r.Status != nil {
		s = append(s, "status "+scsi.StatusName(*r.Status))
	}
	if r.Unmatched {
		s = append(s, "[unmatched]")
	}
	if r.Truncated {
		s = append(s, "[truncated]")
	}
	if _, err := fmt.Fprintln(w.w, strings.Join(s, "  ")); err != nil {
		return err
	}
	for _, f := range r.Fields {
		if _, err := fmt.Fprintf(w.w, "    %s: %s\n", f.Name, fieldValue(f)); err != nil {
			return err
		}
	}
	return nil
}

func fieldValue(f scsi.Field) string {
	switch {
	case f.Opaque:
		return fmt.Sprintf("%d bytes", f.Length)
	case f.Text != "":
		return fmt.Sprintf("%s (%v)", f.Text, f.Value)
	}
	switch v := f.Value.(type) {
	case []byte:
		return fmt.Sprintf("% x", v)
	case string:
		return v
	}
	return fmt.Sprintf("%v", f.Value)
}

func printSummary(w io.Writer, name string, sum *capture.Summary) {
	fmt.Fprintf(w, "%s: %d packets, %d frames, %d records, %d errors\n",
		name, sum.Packets, sum.Frames, sum.Records, sum.Errors)
}
