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

const (
	alpha16 = 0.673
	alpha32 = 0.697
	alpha64 = 0.709

	// twoTo32 is the size of the 32-bit hash space assumed by the
	// large-range correction.
	twoTo32 = float64(1 << 32)

	// lowRangeFactor and highRangeDivisor bound the mid range where the
	// raw harmonic-mean estimate needs no correction.
	lowRangeFactor   = 2.5
	highRangeDivisor = 30.0
)

// alpha returns the harmonic-mean bias constant for a register count m.
func alpha(m int) float64 {
	switch {
	case m >= 128:
		return 0.7213 / (1 + 1.079/float64(m))
	case m >= 64:
		return alpha64
	case m >= 32:
		return alpha32
	default:
		return alpha16
	}
}
