// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package sat

import "testing"

func TestWhitenIsSelfInverse(t *testing.T) {
	original := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 0, 63}

	for seed := 0; seed < 19; seed++ {
		working := append([]int(nil), original...)
		whiten(uint8(seed), working)
		whiten(uint8(seed), working)
		for i, v := range working {
			if v != original[i] {
				t.Fatalf("seed=%d: whiten(whiten(x)) != x at %d: got %d, want %d", seed, i, v, original[i])
			}
		}
	}
}

func TestWhitenChangesInput(t *testing.T) {
	original := []int{1, 2, 3, 4}
	working := append([]int(nil), original...)
	whiten(5, working)

	same := true
	for i := range original {
		if working[i] != original[i] {
			same = false
		}
	}
	if same {
		t.Fatalf("whiten left symbols unchanged: %v", working)
	}
}
