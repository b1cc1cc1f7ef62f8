package game

// RecomputeSeats assigns each player, in join order, the seat position
// x_i = (i+1)/(n+1). The spacing is strictly increasing and symmetric across
// (0,1) no matter how players joined or left. Any manually-set position is
// overwritten by the next call.
func RecomputeSeats(players []*PlayerState) {
	n := len(players)
	for i, p := range players {
		p.X = float64(i+1) / float64(n+1)
	}
}
