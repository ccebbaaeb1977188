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

package dataset

import (
	"bufio"
	"os"
	"strings"
)

const maxLineBytes = 1024 * 1024

// StreamLines reads a dataset file one element per line, calling fn for
// every non-blank line with surrounding whitespace trimmed. It returns
// the number of elements delivered.
func StreamLines(path string, fn func(element string) error) (int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, maxLineBytes), maxLineBytes)

	var count int64
	for scanner.Scan() {
		element := strings.TrimSpace(scanner.Text())
		if element == "" {
			continue
		}
		if err := fn(element); err != nil {
			return count, err
		}
		count++
	}
	return count, scanner.Err()
}

// ExactCounts tallies the true per-element frequency of a stream. This is
// the truth side of an estimator comparison and uses memory proportional
// to the number of distinct elements.
func ExactCounts(elements []string) map[string]int64 {
	counts := make(map[string]int64)
	for _, element := range elements {
		counts[element]++
	}
	return counts
}
