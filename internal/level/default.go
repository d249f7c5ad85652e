package level

// Default builds the demo level: an outer frame, the walkable room inside
// it, and a handful of platforms within single-jump reach of each other.
//
// The frame comes first so the container toggle skips it; the room is the
// second container and is the one that gets navigation nodes.
func Default() *Level {
	return &Level{Polygons: []Polygon{
		Room(-440, -340, 440, 340), // outer frame
		Room(-400, -300, 400, 300), // playable room
		Rect(-250, -256, -130, -240),
		Rect(-60, -196, 60, -180),
		Rect(130, -256, 250, -240),
		Rect(-220, -146, -100, -130),
		Rect(100, -146, 220, -130),
		Rect(300, -300, 360, -270), // step on the floor
	}}
}
