package service

// drawQuestions assigns one question per round, drawing without
// replacement from a working copy of the eligible pool. Whenever the
// working copy runs dry it is replenished from the full pool, so every
// round receives a question even when rounds exceeds the pool size.
func drawQuestions(eligible []int64, rounds int, intn func(n int) int) []int64 {
	if len(eligible) == 0 || rounds <= 0 {
		return nil
	}

	working := make([]int64, 0, len(eligible))
	picks := make([]int64, 0, rounds)

	for round := 0; round < rounds; round++ {
		if len(working) == 0 {
			working = append(working, eligible...)
		}
		i := intn(len(working))
		picks = append(picks, working[i])
		working[i] = working[len(working)-1]
		working = working[:len(working)-1]
	}

	return picks
}
