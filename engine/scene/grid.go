package scene

import (
	"github.com/Carmen-Shannon/spacenav/common"
	"github.com/Carmen-Shannon/spacenav/engine/game_object"
)

// SpawnGrid adds count cubes on a stable grid layout. Objects fill an XZ grid (up to side per
// axis) centred on the origin and once a layer is full, new objects stack upward.
//
// Parameters:
//   - s: the scene to populate
//   - count: the number of cubes
//   - side: cubes per grid row (minimum 1)
//   - spacing: distance between cube centres
//   - size: cube edge length
//
// Returns:
//   - []uint64: the IDs of the added cubes
func SpawnGrid(s Scene, count, side int, spacing, size float64) []uint64 {
	if side < 1 {
		side = 1
	}
	existing := s.Count()
	ids := make([]uint64, 0, count)

	for i := 0; i < count; i++ {
		idx := existing + i
		col := idx % side
		row := (idx / side) % side
		layer := idx / (side * side)

		cx := (float64(col) - float64(side-1)/2) * spacing
		cz := (float64(row) - float64(side-1)/2) * spacing
		cy := float64(layer) * spacing

		ids = append(ids, s.Add(game_object.NewGameObject(
			game_object.WithName("cube"),
			game_object.WithBox(common.Vec3{size, size, size}),
			game_object.WithPosition(common.Vec3{cx, cy, cz}),
		)))
	}
	return ids
}
