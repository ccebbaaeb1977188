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

package spectral

import (
	"encoding/binary"
	"errors"
	"math"
	"math/rand"

	"github.com/cespare/xxhash/v2"
)

// Filter is a spectral Bloom filter: a single counting array probed by
// numHashes seeded hash functions. Every update increments one counter
// per probe, so collisions from other items can only inflate a counter.
// The minimum over the probed counters therefore never underestimates
// the true frequency of an item.
type Filter struct {
	numBuckets   int32
	numHashes    int8
	counters     []int64
	seed         int64
	hashSeeds    []uint64
	totalUpdates int64
}

// NewFilter returns a filter with numHashes probe functions over
// numBuckets counters. The probe seeds are derived deterministically
// from the given seed, so two filters built with the same parameters
// probe identical bucket positions.
func NewFilter(numHashes int8, numBuckets int32, seed int64) (*Filter, error) {
	if numHashes < 1 {
		return nil, errors.New("numHashes must be a positive integer")
	}
	if numBuckets < 1 {
		return nil, errors.New("numBuckets must be a positive integer")
	}
	if int64(numBuckets)*int64(numHashes) >= 1<<30 {
		return nil, errors.New("these parameters generate a sketch that exceeds 2^30 elements")
	}

	rng := rand.New(rand.NewSource(seed))
	hashSeeds := make([]uint64, numHashes)
	for i := range hashSeeds {
		hashSeeds[i] = uint64(rng.Int63())
	}

	return &Filter{
		numBuckets: numBuckets,
		numHashes:  numHashes,
		counters:   make([]int64, numBuckets),
		seed:       seed,
		hashSeeds:  hashSeeds,
	}, nil
}

// GetNumBuckets returns the width of the counting array.
func (f *Filter) GetNumBuckets() int32 {
	return f.numBuckets
}

// GetNumHashes returns the number of probe functions.
func (f *Filter) GetNumHashes() int8 {
	return f.numHashes
}

// GetSeed returns the seed the probe family was derived from.
func (f *Filter) GetSeed() int64 {
	return f.seed
}

// GetTotalUpdates returns the number of item insertions performed.
func (f *Filter) GetTotalUpdates() int64 {
	return f.totalUpdates
}

// bucketIndexes returns the counter position probed by each hash function.
func (f *Filter) bucketIndexes(item []byte) []int32 {
	indexes := make([]int32, f.numHashes)
	for i, hashSeed := range f.hashSeeds {
		h := xxhash.NewWithSeed(hashSeed)
		_, _ = h.Write(item)
		indexes[i] = int32(h.Sum64() % uint64(f.numBuckets))
	}
	return indexes
}

// Update records one occurrence of the given item.
func (f *Filter) Update(item []byte) {
	if len(item) == 0 {
		return
	}
	f.totalUpdates++
	for _, bucket := range f.bucketIndexes(item) {
		f.counters[bucket]++
	}
}

// UpdateString records one occurrence of the given string item.
func (f *Filter) UpdateString(item string) {
	if len(item) == 0 {
		return
	}
	f.Update([]byte(item))
}

// UpdateUint64 records one occurrence of the given uint64 item.
func (f *Filter) UpdateUint64(item uint64) {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, item)
	f.Update(b)
}

// GetEstimate returns the minimum counter value over all probe positions
// for the item. The result is never below the item's true frequency.
func (f *Filter) GetEstimate(item []byte) int64 {
	if len(item) == 0 {
		return 0
	}
	estimate := int64(math.MaxInt64)
	for _, bucket := range f.bucketIndexes(item) {
		estimate = Min(estimate, f.counters[bucket])
	}
	return estimate
}

// GetEstimateString returns the minimum-counter estimate for a string item.
func (f *Filter) GetEstimateString(item string) int64 {
	if len(item) == 0 {
		return 0
	}
	return f.GetEstimate([]byte(item))
}

// GetEstimateUint64 returns the minimum-counter estimate for a uint64 item.
func (f *Filter) GetEstimateUint64(item uint64) int64 {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, item)
	return f.GetEstimate(b)
}

// GetCorrectedEstimate subtracts the expected collision inflation from the
// minimum-counter estimate and clamps the result at zero. totalInsertions
// is the total number of updates applied to the filter; it must be
// supplied by the caller and must not be negative. The correction is a
// single global scalar, independent of which item is queried.
func (f *Filter) GetCorrectedEstimate(item []byte, totalInsertions int64) (float64, error) {
	if totalInsertions < 0 {
		return 0, errors.New("totalInsertions is required for bias correction and must be non-negative")
	}
	estimate := float64(f.GetEstimate(item)) - f.collisionBias(totalInsertions)
	return math.Max(0, estimate), nil
}

// GetCorrectedEstimateString is GetCorrectedEstimate for a string item.
func (f *Filter) GetCorrectedEstimateString(item string, totalInsertions int64) (float64, error) {
	return f.GetCorrectedEstimate([]byte(item), totalInsertions)
}

// collisionBias is the closed-form expectation (1 - e^(-k*n/m))^k of the
// amount by which collisions from other items inflate any one counter
// after n insertions.
func (f *Filter) collisionBias(totalInsertions int64) float64 {
	if totalInsertions == 0 {
		return 0
	}
	k := float64(f.numHashes)
	m := float64(f.numBuckets)
	return math.Pow(1-math.Exp(-k*float64(totalInsertions)/m), k)
}
