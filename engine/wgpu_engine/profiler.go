// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package wgpu_engine

import (
	"fmt"
	"time"

	"github.com/tiaanl/wgpu-vectors/mem"
	"github.com/tiaanl/wgpu-vectors/profiler"

	"honnef.co/go/wgpu"
)

// MaxProfilerTimestamps is the number of timestamps a single group tree may
// write. Query sets passed to NewProfilerGroup need at least this many
// entries.
const MaxProfilerTimestamps = 1024

// ProfilerGroup records CPU spans and GPU timestamp queries of one frame.
// Groups form a tree; all groups of a tree write to the same query set, in
// consecutive slots starting at 0. A nil *ProfilerGroup records nothing.
//
// The caller owns the query set. After the frame it resolves the first
// NumTimestamps slots and reads the values back; Queries of every group
// index into them.
type ProfilerGroup struct {
	Label    string
	CPUStart time.Time
	CPUEnd   time.Time
	Children []*ProfilerGroup
	Queries  []ProfilerQuery

	set *profilerQuerySet
}

type profilerQuerySet struct {
	set  *wgpu.QuerySet
	next uint32
}

func (set *profilerQuerySet) nextID() uint32 {
	if set.next >= MaxProfilerTimestamps {
		panic(fmt.Sprintf("more than %d profiler timestamps", MaxProfilerTimestamps))
	}
	id := set.next
	set.next++
	return id
}

// NewProfilerGroup returns the root group of a frame, writing timestamps to
// set.
func NewProfilerGroup(set *wgpu.QuerySet, label string) *ProfilerGroup {
	return &ProfilerGroup{
		Label:    label,
		CPUStart: time.Now(),
		set:      &profilerQuerySet{set: set},
	}
}

// NumTimestamps returns the number of query set slots written by g's tree so
// far.
func (g *ProfilerGroup) NumTimestamps() uint32 {
	if g == nil {
		return 0
	}
	return g.set.next
}

func (g *ProfilerGroup) End() {
	if g == nil {
		return
	}
	if !g.CPUEnd.IsZero() {
		panic("trying to end same group twice")
	}
	g.CPUEnd = time.Now()
}

// Start implements profiler.ProfilerGroup.
func (g *ProfilerGroup) Start(label string) profiler.ProfilerGroup {
	if g == nil {
		return (*ProfilerGroup)(nil)
	}
	return g.Nest(label)
}

func (g *ProfilerGroup) Nest(label string) *ProfilerGroup {
	if g == nil {
		return nil
	}
	cg := &ProfilerGroup{
		Label:    label,
		CPUStart: time.Now(),
		set:      g.set,
	}
	g.Children = append(g.Children, cg)
	return cg
}

type ProfilerQuery struct {
	Label   string
	StartID uint32
	EndID   uint32
}

// Elapsed returns the difference of the query's timestamps in values, the
// resolved contents of the query set.
func (q ProfilerQuery) Elapsed(values []uint64) uint64 {
	return values[q.EndID] - values[q.StartID]
}

func (g *ProfilerGroup) query(label string) ProfilerQuery {
	q := ProfilerQuery{
		Label:   label,
		StartID: g.set.nextID(),
		EndID:   g.set.nextID(),
	}
	g.Queries = append(g.Queries, q)
	return q
}

// Render returns timestamp writes for a render pass, or nil if g is nil.
func (g *ProfilerGroup) Render(arena *mem.Arena, label string) *wgpu.RenderPassTimestampWrites {
	if g == nil {
		return nil
	}
	q := g.query(label)
	return mem.Make(arena, wgpu.RenderPassTimestampWrites{
		QuerySet:                  g.set.set,
		BeginningOfPassWriteIndex: q.StartID,
		EndOfPassWriteIndex:       q.EndID,
	})
}

// Begin writes a start timestamp into enc. The span has to be ended in a
// command encoder submitted after enc.
func (g *ProfilerGroup) Begin(enc *wgpu.CommandEncoder, label string) ProfilerSpan {
	if g == nil {
		return ProfilerSpan{}
	}
	q := g.query(label)
	enc.WriteTimestamp(g.set.set, q.StartID)
	return ProfilerSpan{
		set:   g.set.set,
		endID: q.EndID,
	}
}

type ProfilerSpan struct {
	set   *wgpu.QuerySet
	endID uint32
}

func (span ProfilerSpan) End(enc *wgpu.CommandEncoder) {
	if span.set == nil {
		return
	}
	enc.WriteTimestamp(span.set, span.endID)
}
