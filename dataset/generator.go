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
	"errors"
	"fmt"
	"math/rand"
	"os"
)

// Generator produces a synthetic stream of visitor IP addresses with a
// skewed frequency profile: roughly 20% of the traffic volume comes from
// frequent visitors (10-50 occurrences each), 30% from occasional
// visitors (3-9 each) and the rest from rare visitors (1-2 each). The
// same seed always yields the same stream.
type Generator struct {
	numElements int
	rng         *rand.Rand
}

// NewGenerator returns a generator for a stream of numElements elements.
func NewGenerator(numElements int, seed int64) (*Generator, error) {
	if numElements < 1 {
		return nil, errors.New("numElements must be a positive integer")
	}
	return &Generator{
		numElements: numElements,
		rng:         rand.New(rand.NewSource(seed)),
	}, nil
}

// Generate builds the full element stream in memory and shuffles it.
func (g *Generator) Generate() []string {
	elements := make([]string, 0, g.numElements)

	// Frequent visitors account for ~20% of the volume at an average of
	// ~30 occurrences each.
	numFrequent := g.numElements * 20 / 100
	for i := 0; i < numFrequent/30; i++ {
		ip := fmt.Sprintf("192.168.1.%d", i)
		occurrences := g.rng.Intn(41) + 10 // 10..50
		for j := 0; j < occurrences; j++ {
			elements = append(elements, ip)
		}
	}

	// Occasional visitors account for ~30% at ~6 occurrences each.
	numOccasional := g.numElements * 30 / 100
	for i := 0; i < numOccasional/6; i++ {
		ip := fmt.Sprintf("10.0.%d.%d", i/256, i%256)
		occurrences := g.rng.Intn(7) + 3 // 3..9
		for j := 0; j < occurrences; j++ {
			elements = append(elements, ip)
		}
	}

	// Rare visitors fill the remainder with 1-2 occurrences each.
	numRare := g.numElements - len(elements)
	for i := 0; i < numRare; i++ {
		ip := fmt.Sprintf("172.16.%d.%d", i/256, i%256)
		occurrences := g.rng.Intn(2) + 1 // 1..2
		for j := 0; j < occurrences; j++ {
			elements = append(elements, ip)
		}
	}

	if len(elements) > g.numElements {
		elements = elements[:g.numElements]
	}
	g.rng.Shuffle(len(elements), func(i, j int) {
		elements[i], elements[j] = elements[j], elements[i]
	})
	return elements
}

// WriteFile writes a stream to a file, one element per line.
func WriteFile(path string, elements []string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, element := range elements {
		if _, err := writer.WriteString(element); err != nil {
			return err
		}
		if err := writer.WriteByte('\n'); err != nil {
			return err
		}
	}
	return writer.Flush()
}
