package grabcut

import "math"

const flowEpsilon = 1e-9

// graph сеть для поиска минимального разреза (алгоритм Диница).
// Ребро e и обратное ему e^1 хранятся парой.
type graph struct {
	head   []int32
	next   []int32
	to     []int32
	cap    []float64
	level  []int32
	iter   []int32
	queue  []int32
	source int
	sink   int
}

func newGraph(vertices, edgeHint int) *graph {
	n := vertices + 2
	g := &graph{
		head:   make([]int32, n),
		next:   make([]int32, 0, edgeHint*2),
		to:     make([]int32, 0, edgeHint*2),
		cap:    make([]float64, 0, edgeHint*2),
		level:  make([]int32, n),
		iter:   make([]int32, n),
		queue:  make([]int32, 0, n),
		source: vertices,
		sink:   vertices + 1,
	}
	for i := range g.head {
		g.head[i] = -1
	}
	return g
}

func (g *graph) link(u, v int, c float64) {
	g.to = append(g.to, int32(v))
	g.cap = append(g.cap, c)
	g.next = append(g.next, g.head[u])
	g.head[u] = int32(len(g.to) - 1)
}

// addEdge добавляет ребро u->v с пропускной способностью w и v->u с rw.
func (g *graph) addEdge(u, v int, w, rw float64) {
	g.link(u, v, w)
	g.link(v, u, rw)
}

// addTermWeights связывает вершину с истоком и стоком. Общая часть весов
// одинаково режет любой разрез, поэтому остаётся только разность.
func (g *graph) addTermWeights(v int, fromSource, toSink float64) {
	switch d := fromSource - toSink; {
	case d > 0:
		g.addEdge(g.source, v, d, 0)
	case d < 0:
		g.addEdge(v, g.sink, -d, 0)
	}
}

func (g *graph) bfs() bool {
	for i := range g.level {
		g.level[i] = -1
	}
	g.queue = g.queue[:0]
	g.level[g.source] = 0
	g.queue = append(g.queue, int32(g.source))
	for qi := 0; qi < len(g.queue); qi++ {
		u := g.queue[qi]
		for e := g.head[u]; e != -1; e = g.next[e] {
			v := g.to[e]
			if g.cap[e] > flowEpsilon && g.level[v] < 0 {
				g.level[v] = g.level[u] + 1
				g.queue = append(g.queue, v)
			}
		}
	}
	return g.level[g.sink] >= 0
}

func (g *graph) dfs(u int, f float64) float64 {
	if u == g.sink {
		return f
	}
	var pushed float64
	for ; g.iter[u] != -1; g.iter[u] = g.next[g.iter[u]] {
		e := g.iter[u]
		v := int(g.to[e])
		if g.cap[e] <= flowEpsilon || g.level[v] != g.level[u]+1 {
			continue
		}
		d := g.dfs(v, math.Min(f-pushed, g.cap[e]))
		if d <= 0 {
			continue
		}
		g.cap[e] -= d
		g.cap[e^1] += d
		pushed += d
		if f-pushed <= flowEpsilon {
			return pushed
		}
	}
	return pushed
}

// maxFlow насыщает сеть. После вызова level описывает остаточную сеть.
func (g *graph) maxFlow() float64 {
	var flow float64
	for g.bfs() {
		copy(g.iter, g.head)
		flow += g.dfs(g.source, math.Inf(1))
	}
	return flow
}

// inSourceSegment сообщает, что вершина достижима из истока в остаточной сети.
func (g *graph) inSourceSegment(v int) bool {
	return g.level[v] >= 0
}
