// Package turnorder builds the fixed seat order used for the whole game.
package turnorder

import (
	"sort"

	"warfront/internal/domain/seeded"
)

// Assign returns a seeded permutation of playerIDs. teamOf may be nil when
// team mode is off; players it maps to "" are treated as singleton teams.
//
// With fewer than two team buckets the result is exactly
// seeded.Shuffle(stream, playerIDs). Otherwise the stream is consumed in this
// order: one shuffle of the sorted team ids, then one shuffle per team (in the
// shuffled team order) of that team's players in input order. Players are then
// emitted round-robin by slot across teams, skipping exhausted teams.
//
// Adjacent seats never share a team when all teams have the same size. With
// unequal sizes the seats after the smaller teams run out can repeat a team.
func Assign(playerIDs []string, teamOf map[string]string, stream *seeded.Stream) []string {
	if teamOf == nil {
		return seeded.Shuffle(stream, playerIDs)
	}
	buckets := map[string][]string{}
	for _, id := range playerIDs {
		key := teamOf[id]
		if key == "" {
			key = "\x00solo:" + id
		}
		buckets[key] = append(buckets[key], id)
	}
	if len(buckets) <= 1 || !anyTeam(playerIDs, teamOf) {
		return seeded.Shuffle(stream, playerIDs)
	}

	teamIDs := make([]string, 0, len(buckets))
	for k := range buckets {
		teamIDs = append(teamIDs, k)
	}
	sort.Strings(teamIDs)
	teamIDs = seeded.Shuffle(stream, teamIDs)

	shuffled := make([][]string, len(teamIDs))
	longest := 0
	for i, tid := range teamIDs {
		shuffled[i] = seeded.Shuffle(stream, buckets[tid])
		if len(shuffled[i]) > longest {
			longest = len(shuffled[i])
		}
	}

	out := make([]string, 0, len(playerIDs))
	for slot := 0; slot < longest; slot++ {
		for _, members := range shuffled {
			if slot < len(members) {
				out = append(out, members[slot])
			}
		}
	}
	return out
}

func anyTeam(ids []string, teamOf map[string]string) bool {
	for _, id := range ids {
		if teamOf[id] != "" {
			return true
		}
	}
	return false
}
