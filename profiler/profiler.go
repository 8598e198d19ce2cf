// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package profiler defines the interface the renderer uses to mark spans of
// work, without depending on a particular GPU API.
package profiler

type ProfilerGroup interface {
	Start(label string) ProfilerGroup
	End()
}

// Nop is a ProfilerGroup that records nothing.
var Nop ProfilerGroup = nop{}

type nop struct{}

func (nop) Start(string) ProfilerGroup { return nop{} }
func (nop) End()                       {}

// OrNop returns g, or Nop if g is nil.
func OrNop(g ProfilerGroup) ProfilerGroup {
	if g == nil {
		return Nop
	}
	return g
}
