package landmark

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Landmark is a fixed, identified point in the environment.
type Landmark struct {
	// Pos is landmark position
	Pos orb.Point
	// ID is the insertion rank of the landmark in its Map
	ID int
}

// Map is an ordered set of landmarks.
// Map is built with Append and then shared read-only by sensors and consumers.
type Map struct {
	landmarks []Landmark
}

// NewMap creates new Map with landmarks at the given positions, in order.
func NewMap(pos ...orb.Point) *Map {
	m := &Map{landmarks: make([]Landmark, 0, len(pos))}
	for _, p := range pos {
		m.Append(p)
	}

	return m
}

// Append adds a landmark at position p and returns its id.
// Ids are assigned as the landmark count at insertion time.
func (m *Map) Append(p orb.Point) int {
	id := len(m.landmarks)
	m.landmarks = append(m.landmarks, Landmark{Pos: p, ID: id})

	return id
}

// Len returns number of landmarks in the map.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}

	return len(m.landmarks)
}

// At returns landmark with the given id.
// It returns error if id is out of range.
func (m *Map) At(id int) (Landmark, error) {
	if id < 0 || id >= m.Len() {
		return Landmark{}, fmt.Errorf("invalid landmark id: %d", id)
	}

	return m.landmarks[id], nil
}

// Landmarks returns a copy of map landmarks in insertion order.
func (m *Map) Landmarks() []Landmark {
	if m == nil {
		return nil
	}

	lms := make([]Landmark, len(m.landmarks))
	copy(lms, m.landmarks)

	return lms
}

// Bound returns the bounding box of all landmarks.
func (m *Map) Bound() orb.Bound {
	mp := make(orb.MultiPoint, m.Len())
	for i, l := range m.Landmarks() {
		mp[i] = l.Pos
	}

	return mp.Bound()
}
