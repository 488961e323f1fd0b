package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBouncingBallsSettlesAboveFloor(t *testing.T) {
	m := BouncingBalls{}
	world := m.NewWorld()
	signals := m.NewSignals()
	for i := 0; i < 20000; i++ {
		m.Update(&world, &signals)
	}
	assert.GreaterOrEqual(t, world.First.Pos.Z(), bouncingRadius-1e-2)
	assert.GreaterOrEqual(t, world.Second.Pos.Z(), bouncingRadius-1e-2)
}

func TestBouncingBallsGetSolidsCount(t *testing.T) {
	m := BouncingBalls{}
	world := m.NewWorld()
	solids := m.GetSolids(world)
	assert.Len(t, solids, 3)
}

func TestIDPStaysNearUprightForShortHorizon(t *testing.T) {
	m := InvertedDoublePendulum{}
	world := m.NewWorld()
	signals := m.NewSignals()
	for i := 0; i < 50; i++ {
		m.Update(&world, &signals)
	}
	assert.InDelta(t, 2.0, world.TopPos.Z(), 0.5)
}

func TestIDPGetSolidsCount(t *testing.T) {
	m := InvertedDoublePendulum{}
	world := m.NewWorld()
	solids := m.GetSolids(world)
	assert.Len(t, solids, 5)
}
