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

package hll

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/bits"
	"unsafe"

	"github.com/twmb/murmur3"

	"github.com/streamprobe/sketches/internal"
)

// Sketch is a HyperLogLog cardinality estimator. A 128-bit hash of each
// item is split into a register address (low bits of the first word) and
// a rank (leading-zero count of the second word, 1-indexed). Each register
// keeps the maximum rank routed to it, so the final state depends only on
// the set of items, not on their arrival order.
type Sketch struct {
	lgNumRegisters int
	numRegisters   int
	slotMask       uint64
	alphaM         float64
	registers      []uint8
	scratch        [8]byte
}

// NewSketch returns a sketch with the given number of registers, which
// must be a positive power of 2 (register addressing masks the hash).
func NewSketch(numRegisters int) (*Sketch, error) {
	if !internal.IsPowerOf2(numRegisters) {
		return nil, fmt.Errorf("numRegisters must be a positive power of 2: %d", numRegisters)
	}
	lgNumRegisters, err := internal.ExactLog2(numRegisters)
	if err != nil {
		return nil, err
	}
	return &Sketch{
		lgNumRegisters: lgNumRegisters,
		numRegisters:   numRegisters,
		slotMask:       uint64(numRegisters - 1),
		alphaM:         alpha(numRegisters),
		registers:      make([]uint8, numRegisters),
	}, nil
}

// UpdateSlice presents the given byte slice as a potential unique item.
func (s *Sketch) UpdateSlice(datum []byte) {
	if len(datum) == 0 {
		return
	}
	lo, hi := s.hash(datum)
	// rank is the 1-indexed position of the first set bit in the word
	// reserved for rank extraction; an all-zero word maps to 65.
	rank := uint8(bits.LeadingZeros64(hi)) + 1
	s.updateSlot(int(lo&s.slotMask), rank)
}

// UpdateString presents the given string as a potential unique item.
func (s *Sketch) UpdateString(datum string) {
	// get a slice to the string data (avoiding a copy to heap)
	s.UpdateSlice(unsafe.Slice(unsafe.StringData(datum), len(datum)))
}

// UpdateUInt64 presents the given uint64 as a potential unique item.
func (s *Sketch) UpdateUInt64(datum uint64) {
	binary.LittleEndian.PutUint64(s.scratch[:], datum)
	s.UpdateSlice(s.scratch[:])
}

// UpdateInt64 presents the given int64 as a potential unique item.
func (s *Sketch) UpdateInt64(datum int64) {
	s.UpdateUInt64(uint64(datum))
}

// updateSlot merges a rank into one register. Registers only grow.
func (s *Sketch) updateSlot(slot int, rank uint8) {
	if rank > s.registers[slot] {
		s.registers[slot] = rank
	}
}

// GetRawEstimate returns the harmonic-mean estimate alphaM * m^2 * Z with
// no bias correction applied, where Z is the reciprocal of the sum of
// 2^(-register) over all registers.
func (s *Sketch) GetRawEstimate() float64 {
	sum := 0.0
	for _, reg := range s.registers {
		invPow, _ := internal.InvPow2(int(reg)) // reg <= 65, cannot fail
		sum += invPow
	}
	if sum == 0 {
		return 0
	}
	m := float64(s.numRegisters)
	return s.alphaM * m * m / sum
}

// GetEstimate returns the bias-corrected cardinality estimate. Three
// regimes apply: linear counting below 2.5*m while empty registers
// remain, the raw estimate in the mid range, and a hash-space saturation
// correction above 2^32/30.
func (s *Sketch) GetEstimate() float64 {
	rawEstimate := s.GetRawEstimate()
	m := float64(s.numRegisters)

	if rawEstimate <= lowRangeFactor*m {
		if v := s.numZeroRegisters(); v > 0 {
			return m * math.Log(m/float64(v))
		}
		return rawEstimate
	}
	if rawEstimate <= twoTo32/highRangeDivisor {
		return rawEstimate
	}
	ratio := rawEstimate / twoTo32
	if ratio < 1 {
		return -twoTo32 * math.Log(1-ratio)
	}
	// The correction is undefined at or beyond the hash-space limit.
	return rawEstimate
}

// GetNumRegisters returns the configured register count.
func (s *Sketch) GetNumRegisters() int {
	return s.numRegisters
}

// GetLgNumRegisters returns log2 of the configured register count.
func (s *Sketch) GetLgNumRegisters() int {
	return s.lgNumRegisters
}

// IsEmpty returns true if no item has reached any register.
func (s *Sketch) IsEmpty() bool {
	return s.numZeroRegisters() == s.numRegisters
}

// Reset clears all registers.
func (s *Sketch) Reset() {
	for i := range s.registers {
		s.registers[i] = 0
	}
}

func (s *Sketch) numZeroRegisters() int {
	count := 0
	for _, reg := range s.registers {
		if reg == 0 {
			count++
		}
	}
	return count
}

func (s *Sketch) hash(bs []byte) (uint64, uint64) {
	return murmur3.SeedSum128(internal.DEFAULT_UPDATE_SEED, internal.DEFAULT_UPDATE_SEED, bs)
}
