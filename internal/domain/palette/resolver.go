package palette

import (
	"sort"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

// Default is the fixed player palette, ordered so that neighbours in the
// spread traversal are far apart.
var Default = []string{
	"#e6194b", "#3cb44b", "#ffe119", "#4363d8",
	"#f58231", "#911eb4", "#46f0f0", "#f032e6",
	"#bcf60c", "#008080", "#9a6324", "#800000",
}

type PlayerInput struct {
	ID             string
	JoinedAt       time.Time
	PreferredColor string
	TeamID         string
}

const epsilon = 1e-9

// Resolve assigns a palette colour to every player. The result depends only
// on the set of inputs, never on their order.
func Resolve(players []PlayerInput) map[string]string {
	return ResolveWith(Default, players)
}

func ResolveWith(pal []string, players []PlayerInput) map[string]string {
	out := make(map[string]string, len(players))
	if len(players) == 0 || len(pal) == 0 {
		return out
	}
	ordered := append([]PlayerInput(nil), players...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].JoinedAt.Equal(ordered[j].JoinedAt) {
			return ordered[i].JoinedAt.Before(ordered[j].JoinedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})

	teams := groupTeams(ordered)
	if len(teams) < 2 || len(teams) > len(pal) {
		assignSolo(pal, ordered, map[int]bool{}, out)
		return out
	}

	claimed := map[int]bool{}
	lists := teamColorLists(pal, teams)
	leftovers := []PlayerInput{}
	for ti, team := range teams {
		for i, p := range team.members {
			if i < len(lists[ti]) {
				out[p.ID] = pal[lists[ti][i]]
				claimed[lists[ti][i]] = true
				continue
			}
			leftovers = append(leftovers, p)
		}
	}
	for _, p := range ordered {
		if strings.TrimSpace(p.TeamID) == "" {
			leftovers = append(leftovers, p)
		}
	}
	sort.SliceStable(leftovers, func(i, j int) bool {
		return indexOf(ordered, leftovers[i].ID) < indexOf(ordered, leftovers[j].ID)
	})
	assignSolo(pal, leftovers, claimed, out)
	return out
}

// SpreadOrder visits palette indices alternating from both ends toward the
// middle: 0, n-1, 1, n-2, ...
func SpreadOrder(n int) []int {
	out := make([]int, 0, n)
	lo, hi := 0, n-1
	for lo <= hi {
		out = append(out, lo)
		if lo != hi {
			out = append(out, hi)
		}
		lo++
		hi--
	}
	return out
}

func assignSolo(pal []string, players []PlayerInput, claimed map[int]bool, out map[string]string) {
	spread := SpreadOrder(len(pal))
	for i, p := range players {
		if idx, ok := paletteIndex(pal, p.PreferredColor); ok && !claimed[idx] {
			claimed[idx] = true
			out[p.ID] = pal[idx]
			continue
		}
		assigned := false
		for _, idx := range spread {
			if !claimed[idx] {
				claimed[idx] = true
				out[p.ID] = pal[idx]
				assigned = true
				break
			}
		}
		if !assigned {
			out[p.ID] = pal[spread[i%len(spread)]]
		}
	}
}

type teamBucket struct {
	id      string
	members []PlayerInput
}

func groupTeams(ordered []PlayerInput) []teamBucket {
	byID := map[string]*teamBucket{}
	ids := []string{}
	for _, p := range ordered {
		tid := strings.TrimSpace(p.TeamID)
		if tid == "" {
			continue
		}
		b, ok := byID[tid]
		if !ok {
			b = &teamBucket{id: tid}
			byID[tid] = b
			ids = append(ids, tid)
		}
		b.members = append(b.members, p)
	}
	sort.Strings(ids)
	out := make([]teamBucket, 0, len(ids))
	for _, id := range ids {
		out = append(out, *byID[id])
	}
	return out
}

// teamColorLists returns, per team, palette indices anchor-first then by
// increasing distance to the anchor.
func teamColorLists(pal []string, teams []teamBucket) [][]int {
	labs := paletteLabs(pal)
	anchors := SelectAnchors(labs, len(teams))

	quota := make([]int, len(teams))
	for i, t := range teams {
		quota[i] = len(t.members) - 1
	}
	isAnchor := map[int]bool{}
	for _, a := range anchors {
		isAnchor[a] = true
	}

	type candidate struct {
		idx     int
		nearest float64
	}
	candidates := []candidate{}
	for idx := range pal {
		if isAnchor[idx] {
			continue
		}
		nearest := -1.0
		for _, a := range anchors {
			d := Distance(labs[idx], labs[a])
			if nearest < 0 || d < nearest {
				nearest = d
			}
		}
		candidates = append(candidates, candidate{idx: idx, nearest: nearest})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].nearest != candidates[j].nearest {
			return candidates[i].nearest < candidates[j].nearest
		}
		return candidates[i].idx < candidates[j].idx
	})

	members := make([][]int, len(teams))
	for _, c := range candidates {
		best := -1
		bestDist := 0.0
		for ti, a := range anchors {
			if quota[ti] <= 0 {
				continue
			}
			d := Distance(labs[c.idx], labs[a])
			if best < 0 || d < bestDist {
				best, bestDist = ti, d
			}
		}
		if best < 0 {
			continue
		}
		quota[best]--
		members[best] = append(members[best], c.idx)
	}

	lists := make([][]int, len(teams))
	for ti, a := range anchors {
		ms := members[ti]
		sort.SliceStable(ms, func(i, j int) bool {
			di, dj := Distance(labs[ms[i]], labs[a]), Distance(labs[ms[j]], labs[a])
			if di != dj {
				return di < dj
			}
			return ms[i] < ms[j]
		})
		lists[ti] = append([]int{a}, ms...)
	}
	return lists
}

// SelectAnchors searches every k-combination of palette indices and keeps the
// one with the largest minimum pairwise distance, breaking ties by the largest
// mean pairwise distance and then by lexicographic index order.
func SelectAnchors(labs []colorful.Color, k int) []int {
	n := len(labs)
	if k <= 0 || k > n {
		return nil
	}
	if k == 1 {
		return []int{0}
	}
	var best []int
	bestMin, bestMean := -1.0, -1.0
	combo := make([]int, k)
	for i := range combo {
		combo[i] = i
	}
	for {
		minD, meanD := pairwiseStats(labs, combo)
		if minD > bestMin+epsilon || (minD > bestMin-epsilon && meanD > bestMean+epsilon) {
			best = append(best[:0], combo...)
			bestMin, bestMean = minD, meanD
		}
		if !nextCombination(combo, n) {
			break
		}
	}
	return best
}

func pairwiseStats(labs []colorful.Color, idx []int) (float64, float64) {
	minD := -1.0
	sum := 0.0
	pairs := 0
	for i := 0; i < len(idx); i++ {
		for j := i + 1; j < len(idx); j++ {
			d := Distance(labs[idx[i]], labs[idx[j]])
			if minD < 0 || d < minD {
				minD = d
			}
			sum += d
			pairs++
		}
	}
	if pairs == 0 {
		return 0, 0
	}
	return minD, sum / float64(pairs)
}

func nextCombination(c []int, n int) bool {
	k := len(c)
	i := k - 1
	for i >= 0 && c[i] == n-k+i {
		i--
	}
	if i < 0 {
		return false
	}
	c[i]++
	for j := i + 1; j < k; j++ {
		c[j] = c[j-1] + 1
	}
	return true
}

func paletteIndex(pal []string, color string) (int, bool) {
	c := strings.ToLower(strings.TrimSpace(color))
	if c == "" {
		return 0, false
	}
	for i, p := range pal {
		if strings.ToLower(p) == c {
			return i, true
		}
	}
	return 0, false
}

func indexOf(players []PlayerInput, id string) int {
	for i, p := range players {
		if p.ID == id {
			return i
		}
	}
	return len(players)
}

// Valid reports whether color is a palette entry.
func Valid(color string) bool {
	_, ok := paletteIndex(Default, color)
	return ok
}
