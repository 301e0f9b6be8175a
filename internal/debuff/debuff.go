package debuff

import "WeaponDPSSimulator/internal/property"

// Unbounded marks a queue without a stack limit.
const Unbounded = -1

// Stack is one timed status effect instance.
type Stack struct {
	Duration float64
	Elapsed  float64
}

// Queue holds the active stacks of one damage kind, oldest first, plus a
// count of constant stacks that never expire.
type Queue struct {
	stacks   []Stack
	capacity int
	constant int
}

// NewQueue returns an empty queue; capacity Unbounded disables the limit.
func NewQueue(capacity int) *Queue {
	return &Queue{capacity: capacity}
}

func (q *Queue) Capacity() int { return q.capacity }

func (q *Queue) Constant() int { return q.constant }

// Active returns the number of expiring stacks.
func (q *Queue) Active() int { return len(q.stacks) }

// Count is active plus constant stacks, capped at capacity.
func (q *Queue) Count() int {
	n := len(q.stacks) + q.constant
	if q.capacity != Unbounded && n > q.capacity {
		return q.capacity
	}
	return n
}

// Add appends a new stack. A full queue drops its oldest stack first, so
// Add never fails.
func (q *Queue) Add(duration float64) {
	if q.capacity != Unbounded && q.Count() >= q.capacity && len(q.stacks) > 0 {
		q.stacks = q.stacks[1:]
	}
	q.stacks = append(q.stacks, Stack{Duration: duration})
}

// Advance ages every stack by dt and drops those that have expired.
func (q *Queue) Advance(dt float64) {
	kept := q.stacks[:0]
	for _, s := range q.stacks {
		s.Elapsed += dt
		if s.Elapsed < s.Duration {
			kept = append(kept, s)
		}
	}
	q.stacks = kept
}

// SetConstant sets the non-expiring stack count, capped at capacity.
func (q *Queue) SetConstant(n int) {
	if n < 0 {
		n = 0
	}
	if q.capacity != Unbounded && n > q.capacity {
		n = q.capacity
	}
	q.constant = n
}

// ClearTransient drops active stacks and keeps the constant count.
func (q *Queue) ClearTransient() { q.stacks = nil }

// ClearAll drops active stacks and the constant count.
func (q *Queue) ClearAll() {
	q.stacks = nil
	q.constant = 0
}

func (q *Queue) clone() *Queue {
	cp := *q
	cp.stacks = append([]Stack(nil), q.stacks...)
	return &cp
}

// capacities per damage kind; kinetic has no queue.
var capacities = [property.DamageKindCount]int{
	property.DamageKinetic:   0,
	property.DamageCold:      9,
	property.DamageElectric:  Unbounded,
	property.DamageHeat:      Unbounded,
	property.DamageToxin:     Unbounded,
	property.DamageCrackling: Unbounded,
	property.DamageRadiation: 10,
	property.DamageGas:       Unbounded,
	property.DamageMagnetic:  10,
	property.DamageEther:     10,
	property.DamageVirus:     10,
}

// State is the set of status effects on one target.
type State struct {
	queues [property.DamageKindCount]*Queue
}

// NewState returns a state with one empty queue per elemental kind.
func NewState() *State {
	s := &State{}
	for d := property.DamageCold; d <= property.DamageVirus; d++ {
		s.queues[d] = NewQueue(capacities[d])
	}
	return s
}

// Queue returns the queue for d, or nil for kinetic.
func (s *State) Queue(d property.DamageKind) *Queue {
	if d < 0 || int(d) >= len(s.queues) {
		return nil
	}
	return s.queues[d]
}

func (s *State) AddByDamageKind(d property.DamageKind, duration float64) {
	if q := s.Queue(d); q != nil {
		q.Add(duration)
	}
}

// AddByAttributeKind is a no-op for non-damage kinds and kinetic.
func (s *State) AddByAttributeKind(k property.Kind, duration float64) {
	if d, ok := k.DamageKind(); ok {
		s.AddByDamageKind(d, duration)
	}
}

func (s *State) SetConstantByDamageKind(d property.DamageKind, n int) {
	if q := s.Queue(d); q != nil {
		q.SetConstant(n)
	}
}

func (s *State) SetConstantByAttributeKind(k property.Kind, n int) {
	if d, ok := k.DamageKind(); ok {
		s.SetConstantByDamageKind(d, n)
	}
}

// Count returns the effective stack count of d; kinetic is always 0.
func (s *State) Count(d property.DamageKind) int {
	if q := s.Queue(d); q != nil {
		return q.Count()
	}
	return 0
}

// Advance ages every queue by dt.
func (s *State) Advance(dt float64) {
	for _, q := range s.queues {
		if q != nil {
			q.Advance(dt)
		}
	}
}

// ClearTransient drops all expiring stacks.
func (s *State) ClearTransient() {
	for _, q := range s.queues {
		if q != nil {
			q.ClearTransient()
		}
	}
}

// ClearAll drops all stacks including constant counts.
func (s *State) ClearAll() {
	for _, q := range s.queues {
		if q != nil {
			q.ClearAll()
		}
	}
}

// Clone returns a deep copy.
func (s *State) Clone() *State {
	cp := &State{}
	for d, q := range s.queues {
		if q != nil {
			cp.queues[d] = q.clone()
		}
	}
	return cp
}
