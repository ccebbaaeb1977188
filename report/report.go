/*
 * Licensed to the Apache Software Foundation (ASF) under one or more
 * contributor license agreements.  See the NOTICE file distributed with
 * this work for additional information regarding copyright ownership.
 * The ASF licenses this file to You under the Apache License, Version 2.0
 * (the "License"); you may not use this file except in compliance with
 * the License.  You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package report

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
)

// Row is one comparison result: what was measured, under which estimator
// configuration, and how the estimate relates to the exact truth.
type Row struct {
	Sketch   string
	Config   string
	Metric   string
	Estimate float64
	Truth    float64
}

// RelativeError returns |estimate - truth| / truth, or 0 when the truth
// is 0 (a zero truth with a zero estimate is a perfect answer; a nonzero
// estimate against zero truth has no meaningful relative scale).
func (r Row) RelativeError() float64 {
	if r.Truth == 0 {
		return 0
	}
	return math.Abs(r.Estimate-r.Truth) / r.Truth
}

var header = []string{"sketch", "config", "metric", "estimate", "truth", "relative_error_pct"}

// Writer emits comparison rows as CSV.
type Writer struct {
	cw          *csv.Writer
	wroteHeader bool
}

// NewWriter returns a report writer over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{cw: csv.NewWriter(w)}
}

// WriteRow appends one row, emitting the header first if needed.
func (w *Writer) WriteRow(r Row) error {
	if !w.wroteHeader {
		if err := w.cw.Write(header); err != nil {
			return err
		}
		w.wroteHeader = true
	}
	return w.cw.Write([]string{
		r.Sketch,
		r.Config,
		r.Metric,
		formatFloat(r.Estimate),
		formatFloat(r.Truth),
		formatFloat(r.RelativeError() * 100),
	})
}

// WriteRows appends all rows.
func (w *Writer) WriteRows(rows []Row) error {
	for _, r := range rows {
		if err := w.WriteRow(r); err != nil {
			return err
		}
	}
	return nil
}

// Flush writes buffered rows through to the underlying writer.
func (w *Writer) Flush() error {
	w.cw.Flush()
	return w.cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
