// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"strconv"
	"sync"
)

var sequences struct {
	sync.Mutex
	next map[string]int
}

// UniqueID numbers identifiers per prefix: the first call with "device"
// returns "device-1", the next "device-2". Parallel subtests that each
// take an id never share one.
func UniqueID(prefix string) string {
	sequences.Lock()
	defer sequences.Unlock()
	if sequences.next == nil {
		sequences.next = make(map[string]int)
	}
	sequences.next[prefix]++
	return prefix + "-" + strconv.Itoa(sequences.next[prefix])
}
