package maze

// Report summarises a maze for validation
type Report struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Walls       int     `json:"walls"`
	Entries     int     `json:"entries"`
	Exits       int     `json:"exits"`
	Traps       int     `json:"traps"`
	Enemies     int     `json:"enemies"`
	Keys        int     `json:"keys"`
	Lives       int     `json:"lives"`
	PowerUps    int     `json:"power_ups"`
	Reachable   int     `json:"reachable"`
	Unreachable []Coord `json:"unreachable,omitempty"` // keys, exits and pickups the entry cannot reach
}

// Analyze counts tiles and walks the open cells from the first entry tile.
// Targets that the walk never reaches are listed in Unreachable.
func Analyze(m *TileMap) Report {
	r := Report{
		Width:    m.Width(),
		Height:   m.Height(),
		Walls:    m.Count(Wall),
		Entries:  m.Count(Entry),
		Exits:    m.Count(Exit),
		Traps:    m.Count(Trap),
		Enemies:  m.Count(Enemy),
		Keys:     m.Count(Key),
		Lives:    m.Count(Life),
		PowerUps: m.Count(PowerUp),
	}

	entries := m.Positions(Entry)
	if len(entries) == 0 {
		return r
	}

	visited := Reachable(m, entries[0])
	r.Reachable = len(visited)

	for _, t := range []TileType{Key, Exit, Life, PowerUp} {
		for _, c := range m.Positions(t) {
			if !visited[c] {
				r.Unreachable = append(r.Unreachable, c)
			}
		}
	}
	sortCoords(r.Unreachable)

	return r
}

// Reachable returns every non-wall cell connected to start by 4-way steps
func Reachable(m *TileMap, start Coord) map[Coord]bool {
	dist := Distances(m, start)
	visited := make(map[Coord]bool, len(dist))
	for c := range dist {
		visited[c] = true
	}
	return visited
}

// Distances returns the number of 4-way steps from start to every reachable
// non-wall cell. A start inside a wall reaches nothing.
func Distances(m *TileMap, start Coord) map[Coord]int {
	dist := make(map[Coord]int)
	if m.IsWall(start.Col, start.Row) {
		return dist
	}

	queue := []Coord{start}
	dist[start] = 0
	steps := []Coord{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, s := range steps {
			next := Coord{Col: cur.Col + s.Col, Row: cur.Row + s.Row}
			if _, seen := dist[next]; seen || m.IsWall(next.Col, next.Row) {
				continue
			}
			dist[next] = dist[cur] + 1
			queue = append(queue, next)
		}
	}

	return dist
}
