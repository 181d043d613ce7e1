package ecs

import (
	"fmt"
	"time"
)

// Scheduler runs named stages in insertion order. It is itself a System, so a
// whole pipeline can be installed into a World with one AddSystem call.
type Scheduler struct {
	stages []stage
}

type stage struct {
	name     string
	system   System
	disabled bool
	last     time.Duration
}

// StageTiming is the wall time a stage took on the most recent tick.
type StageTiming struct {
	Name     string
	Duration time.Duration
	Disabled bool
}

// NewScheduler builds a scheduler whose stages are named after their types.
func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{}
	for _, sys := range systems {
		s.Stage(fmt.Sprintf("%T", sys), sys)
	}
	return s
}

// Stage appends a named stage. Nil systems are ignored.
func (s *Scheduler) Stage(name string, system System) *Scheduler {
	if system != nil {
		s.stages = append(s.stages, stage{name: name, system: system})
	}
	return s
}

// SetEnabled toggles a stage by name. Disabled stages are skipped entirely.
func (s *Scheduler) SetEnabled(name string, enabled bool) bool {
	for i := range s.stages {
		if s.stages[i].name == name {
			s.stages[i].disabled = !enabled
			return true
		}
	}
	return false
}

func (s *Scheduler) Update(w *World) {
	for i := range s.stages {
		st := &s.stages[i]
		if st.disabled {
			st.last = 0
			continue
		}
		start := time.Now()
		st.system.Update(w)
		st.last = time.Since(start)
	}
}

func (s *Scheduler) Timings() []StageTiming {
	out := make([]StageTiming, 0, len(s.stages))
	for _, st := range s.stages {
		out = append(out, StageTiming{Name: st.name, Duration: st.last, Disabled: st.disabled})
	}
	return out
}
