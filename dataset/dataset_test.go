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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewGeneratorInvalidConfig(t *testing.T) {
	_, err := NewGenerator(0, 1)
	assert.Error(t, err)
	_, err = NewGenerator(-10, 1)
	assert.Error(t, err)
}

func TestGenerateDeterministic(t *testing.T) {
	first, err := NewGenerator(10000, 42)
	assert.NoError(t, err)
	second, err := NewGenerator(10000, 42)
	assert.NoError(t, err)

	assert.Equal(t, first.Generate(), second.Generate())

	third, err := NewGenerator(10000, 43)
	assert.NoError(t, err)
	fourth, err := NewGenerator(10000, 42)
	assert.NoError(t, err)
	assert.NotEqual(t, fourth.Generate(), third.Generate())
}

func TestGenerateProfile(t *testing.T) {
	generator, err := NewGenerator(10000, 42)
	assert.NoError(t, err)
	elements := generator.Generate()
	// Rare visitors always fill the stream past the target before the
	// trailing trim, so the final length is exact.
	assert.Equal(t, 10000, len(elements))

	counts := ExactCounts(elements)
	for element, count := range counts {
		switch {
		case strings.HasPrefix(element, "192.168.1."):
			// Frequent visitors; the trailing trim can shave a few
			// occurrences off one element, never add any.
			assert.LessOrEqual(t, count, int64(50), element)
		case strings.HasPrefix(element, "10.0."):
			assert.LessOrEqual(t, count, int64(9), element)
		case strings.HasPrefix(element, "172.16."):
			assert.LessOrEqual(t, count, int64(2), element)
		default:
			t.Fatalf("unexpected element %q", element)
		}
	}
}

func TestWriteFileStreamLinesRoundTrip(t *testing.T) {
	generator, err := NewGenerator(1000, 7)
	assert.NoError(t, err)
	elements := generator.Generate()

	path := filepath.Join(t.TempDir(), "dataset.txt")
	assert.NoError(t, WriteFile(path, elements))

	var read []string
	count, err := StreamLines(path, func(element string) error {
		read = append(read, element)
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(len(elements)), count)
	assert.Equal(t, elements, read)
}

func TestStreamLinesSkipsBlanks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.txt")
	content := "10.0.0.1\n\n  \n 10.0.0.2 \n10.0.0.1\n"
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	var read []string
	count, err := StreamLines(path, func(element string) error {
		read = append(read, element)
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2", "10.0.0.1"}, read)
}

func TestStreamLinesMissingFile(t *testing.T) {
	_, err := StreamLines(filepath.Join(t.TempDir(), "absent.txt"), func(string) error {
		return nil
	})
	assert.Error(t, err)
}

func TestExactCounts(t *testing.T) {
	counts := ExactCounts([]string{"a", "b", "a", "c", "a", "b"})
	assert.Equal(t, map[string]int64{"a": 3, "b": 2, "c": 1}, counts)
	assert.Empty(t, ExactCounts(nil))
}
