package economy

// Base costs used by the build controllers.
var (
	RoadBaseCost    = Bundle{ResourceBrick: 1, ResourceWood: 1}
	OutpostBaseCost = Bundle{ResourceWood: 10, ResourceBrick: 10, ResourceWheat: 10, ResourceSheep: 10}
	UpgradeBaseCost = Bundle{ResourceWheat: 2, ResourceOre: 3}
)

// RoadCost scales base by 2^distance, where distance is the road's
// distance-to-settlement once placed. Long roads away from cities get
// expensive fast.
func RoadCost(base Bundle, distance int) Bundle {
	if distance < 0 {
		distance = 0
	}
	return base.Scale(1 << distance)
}

// OutpostCost scales base by the number of cities already on the map.
func OutpostCost(base Bundle, cities int) Bundle {
	if cities < 0 {
		cities = 0
	}
	return base.Scale(cities)
}

// UpgradeCost scales base by the level being reached (1 for Colony, 4 for Capital).
func UpgradeCost(base Bundle, nextLevel int) Bundle {
	return base.Scale(nextLevel)
}
