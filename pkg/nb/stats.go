package nb

// Stats summarizes a neighbour relation: area and link counts, the
// cardinality range, and connectivity. Link counts unordered pairs;
// Directed counts recorded directions (twice Links for a symmetric
// relation).
type Stats struct {
	Areas      int     `json:"areas"`
	Links      int     `json:"links"`
	Directed   int     `json:"directed"`
	MinCard    int     `json:"min_card"`
	MaxCard    int     `json:"max_card"`
	MeanCard   float64 `json:"mean_card"`
	Isolated   int     `json:"isolated"`
	Components int     `json:"components"`
	Symmetric  bool    `json:"symmetric"`
}

// Stats computes summary statistics for the relation.
// Runs in O(N+E) plus the pair sort.
func (r *Relation) Stats() Stats {
	s := Stats{
		Areas:     len(r.list),
		Symmetric: r.Symmetric(),
	}
	for i, row := range r.list {
		card := len(row)
		s.Directed += card
		if card == 0 {
			s.Isolated++
		}
		if i == 0 || card < s.MinCard {
			s.MinCard = card
		}
		if card > s.MaxCard {
			s.MaxCard = card
		}
	}
	if s.Areas > 0 {
		s.MeanCard = float64(s.Directed) / float64(s.Areas)
	}

	pairs := r.Pairs()
	s.Links = len(pairs)
	s.Components = components(s.Areas, pairs)
	return s
}

// components counts connected components of the undirected adjacency
// graph, isolated areas included.
func components(n int, pairs [][2]int) int {
	if n == 0 {
		return 0
	}
	adj := make([][]int, n)
	for _, p := range pairs {
		adj[p[0]] = append(adj[p[0]], p[1])
		adj[p[1]] = append(adj[p[1]], p[0])
	}

	seen := make([]bool, n)
	count := 0
	for start := 0; start < n; start++ {
		if seen[start] {
			continue
		}
		count++
		queue := []int{start}
		seen[start] = true
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, next := range adj[cur] {
				if !seen[next] {
					seen[next] = true
					queue = append(queue, next)
				}
			}
		}
	}
	return count
}
