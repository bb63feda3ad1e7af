// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeClockNow(t *testing.T) {
	c := Fake(epoch)
	if !c.Now().Equal(epoch) {
		t.Errorf("Now = %v, want %v", c.Now(), epoch)
	}
	if !c.Now().Equal(c.Now()) {
		t.Error("fake time moved without Advance")
	}
}

func TestFakeClockAdvance(t *testing.T) {
	c := Fake(epoch)
	c.Advance(90 * time.Second)
	if want := epoch.Add(90 * time.Second); !c.Now().Equal(want) {
		t.Errorf("after Advance: Now = %v, want %v", c.Now(), want)
	}
	c.Advance(-time.Hour)
	if want := epoch.Add(90 * time.Second); !c.Now().Equal(want) {
		t.Errorf("negative Advance moved the clock to %v", c.Now())
	}
}

func TestFakeClockSet(t *testing.T) {
	c := Fake(epoch)
	target := epoch.Add(-24 * time.Hour)
	c.Set(target)
	if !c.Now().Equal(target) {
		t.Errorf("after Set: Now = %v, want %v", c.Now(), target)
	}
}

func TestRealClock(t *testing.T) {
	before := time.Now()
	now := Real().Now()
	if now.Before(before) {
		t.Errorf("Real().Now() = %v is before %v", now, before)
	}
}

func TestInterfaceSatisfaction(t *testing.T) {
	var _ Clock = Real()
	var _ Clock = Fake(epoch)
}
