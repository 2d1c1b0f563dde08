package clockless

import "time"

// Edge is one level change recorded by a SimLine.
type Edge struct {
	// At is the cycle the store happened.
	At    uint64
	Level bool
	// Critical is true if the edge happened inside a critical section.
	Critical bool
}

// SimCosts are the cycles each simulated operation takes.
type SimCosts struct {
	Set, Clear uint32
	// Read is the cost of one counter read. Zero is treated as 1 so polling
	// loops make progress.
	Read uint32
}

// SimLine is a simulated output pin with its own cycle clock. It implements
// Port, Counter and Delayer, so either engine can run against it, and it
// records every edge for Decode.
type SimLine struct {
	Hz    uint32
	Costs SimCosts

	now    uint64
	level  bool
	output bool
	edges  []Edge
}

// NewSimLine returns a line clocked at hz.
func NewSimLine(hz uint32, costs SimCosts) *SimLine {
	if costs.Read == 0 {
		costs.Read = 1
	}
	return &SimLine{Hz: hz, Costs: costs}
}

func (s *SimLine) SetOutput() { s.output = true }

func (s *SimLine) Set() {
	s.store(true)
	s.now += uint64(s.Costs.Set)
}

func (s *SimLine) Clear() {
	s.store(false)
	s.now += uint64(s.Costs.Clear)
}

func (s *SimLine) store(level bool) {
	if !s.output {
		panic("clockless: SimLine written before SetOutput")
	}
	if level == s.level {
		return
	}
	s.level = level
	s.edges = append(s.edges, Edge{At: s.now, Level: level, Critical: InCritical()})
}

func (s *SimLine) Cycles() uint32 {
	v := s.now
	s.now += uint64(s.Costs.Read)
	return uint32(v)
}

func (s *SimLine) Delay(cycles uint32) { s.now += uint64(cycles) }

// Now returns the simulated time. Like Cycles it takes a read.
func (s *SimLine) Now() time.Duration {
	return time.Duration(s.Cycles64() * uint64(time.Second) / uint64(s.Hz))
}

// Cycles64 reads the unwrapped cycle count.
func (s *SimLine) Cycles64() uint64 {
	v := s.now
	s.now += uint64(s.Costs.Read)
	return v
}

// Advance moves the clock forward without touching the line.
func (s *SimLine) Advance(d time.Duration) {
	s.now += uint64(d) * uint64(s.Hz) / uint64(time.Second)
}

// Level returns the current line level.
func (s *SimLine) Level() bool { return s.level }

// Edges returns the recorded edges.
func (s *SimLine) Edges() []Edge { return s.edges }

// Reset forgets the recorded edges.
func (s *SimLine) Reset() { s.edges = s.edges[:0] }
