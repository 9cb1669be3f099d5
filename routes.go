package nocgen

// routes.go converts a built topology into a graph and measures it with shortest paths

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/stat"
)

// The general approach is to convert the routers and internal links of a TopoCfg
// into the data structures used by a graph package that has built-in path discovery algorithms.
// Weighting each edge by 1, a shortest path minimizes the number of hops.  The link weights
// recorded in the topology bias the host's own table routing and are not used here.
//
//   The Dijkstra algorithm we call computes a tree of shortest paths from a named router,
// so the shortest path from src to dst is looked up in a cached tree rooted in src,
// computing and caching that tree if need be.

// RouteGraph is the graph form of a topology's routers and internal links
type RouteGraph struct {
	numRouters int
	g          *simple.WeightedDirectedGraph

	// cachedSP saves the result of computing shortest-path trees.
	// The key is the router id of the path source
	cachedSP map[int]path.Shortest
}

// CreateRouteGraph builds the graph of tc.  Every router is a node, every internal link
// a directed edge of weight 1.  Links from a router to itself (a one-router ring) carry no hop.
func CreateRouteGraph(tc *TopoCfg) (*RouteGraph, error) {
	rg := &RouteGraph{
		numRouters: len(tc.Routers),
		g:          simple.NewWeightedDirectedGraph(0, math.Inf(1)),
		cachedSP:   make(map[int]path.Shortest),
	}

	for id := 0; id < rg.numRouters; id++ {
		rg.g.AddNode(simple.Node(id))
	}

	for _, il := range tc.IntLinks {
		if !rg.valid(il.SrcNode) || !rg.valid(il.DstNode) {
			return nil, fmt.Errorf("internal link %d joins %d->%d, outside 0..%d",
				il.LinkID, il.SrcNode, il.DstNode, rg.numRouters-1)
		}
		if il.SrcNode == il.DstNode {
			continue
		}
		weightedEdge := simple.WeightedEdge{F: simple.Node(il.SrcNode), T: simple.Node(il.DstNode), W: 1.0}
		rg.g.SetWeightedEdge(weightedEdge)
	}
	return rg, nil
}

func (rg *RouteGraph) valid(id int) bool {
	return 0 <= id && id < rg.numRouters
}

// getSPTree returns the shortest path tree rooted in router 'from'.
// If the tree is found in the cache it is returned, if not it is computed, saved, and returned.
func (rg *RouteGraph) getSPTree(from int) path.Shortest {
	spTree, present := rg.cachedSP[from]
	if present {
		return spTree
	}

	spTree = path.DijkstraFrom(simple.Node(from), rg.g)
	rg.cachedSP[from] = spTree
	return spTree
}

// Hops returns the number of links on a shortest path from src to dst, and
// whether dst can be reached at all
func (rg *RouteGraph) Hops(src, dst int) (int, bool) {
	if !rg.valid(src) || !rg.valid(dst) {
		return 0, false
	}
	weight := rg.getSPTree(src).WeightTo(int64(dst))
	if math.IsInf(weight, 1) {
		return 0, false
	}
	return int(weight), true
}

// Route returns the router ids of a shortest path from src to dst, both included
func (rg *RouteGraph) Route(src, dst int) ([]int, error) {
	if !rg.valid(src) || !rg.valid(dst) {
		return nil, fmt.Errorf("route %d->%d names a router outside 0..%d", src, dst, rg.numRouters-1)
	}
	nodeSeq, weight := rg.getSPTree(src).To(int64(dst))
	if math.IsInf(weight, 1) || len(nodeSeq) == 0 {
		return nil, fmt.Errorf("router %d cannot reach router %d", src, dst)
	}
	return convertNodeSeq(nodeSeq), nil
}

// convertNodeSeq extracts router ids from a sequence of graph nodes
func convertNodeSeq(nsQ []graph.Node) []int {
	rtn := make([]int, len(nsQ))
	for idx, node := range nsQ {
		rtn[idx] = int(node.ID())
	}
	return rtn
}

// ShowRoute returns a string that lists the names of the routers on a route, comma separated
func ShowRoute(route []int, routers []RouterDesc) string {
	names := make([]string, len(route))
	for idx, id := range route {
		if 0 <= id && id < len(routers) {
			names[idx] = routers[id].Name
		} else {
			names[idx] = DefaultRouterName(id)
		}
	}
	return strings.Join(names, ",")
}

// Analysis summarizes the shape of a topology
type Analysis struct {
	Name              string  `json:"name" yaml:"name" toml:"name"`
	Routers           int     `json:"routers" yaml:"routers" toml:"routers"`
	ExtLinks          int     `json:"extlinks" yaml:"extlinks" toml:"extlinks"`
	IntLinks          int     `json:"intlinks" yaml:"intlinks" toml:"intlinks"`
	Components        int     `json:"components" yaml:"components" toml:"components"`
	StronglyConnected bool    `json:"stronglyconnected" yaml:"stronglyconnected" toml:"stronglyconnected"`
	Diameter          int     `json:"diameter" yaml:"diameter" toml:"diameter"`
	MeanHops          float64 `json:"meanhops" yaml:"meanhops" toml:"meanhops"`
	OutDegree         []int   `json:"outdegree" yaml:"outdegree" toml:"outdegree"`
	InDegree          []int   `json:"indegree" yaml:"indegree" toml:"indegree"`
	Attached          []int   `json:"attached" yaml:"attached" toml:"attached"`
}

// AnalyzeTopology counts the strongly connected components of the router graph and,
// over every ordered pair of distinct routers that can reach each other, the longest
// (Diameter) and mean shortest hop counts.  Degrees count internal links as listed,
// Attached counts controllers per router.
func AnalyzeTopology(tc *TopoCfg) (*Analysis, error) {
	rg, err := CreateRouteGraph(tc)
	if err != nil {
		return nil, err
	}

	an := &Analysis{
		Name:      tc.Name,
		Routers:   rg.numRouters,
		ExtLinks:  len(tc.ExtLinks),
		IntLinks:  len(tc.IntLinks),
		OutDegree: make([]int, rg.numRouters),
		InDegree:  make([]int, rg.numRouters),
		Attached:  make([]int, rg.numRouters),
	}

	for _, il := range tc.IntLinks {
		an.OutDegree[il.SrcNode] += 1
		an.InDegree[il.DstNode] += 1
	}
	for _, el := range tc.ExtLinks {
		if !rg.valid(el.IntNode) {
			return nil, fmt.Errorf("external link %d names router %d, outside 0..%d",
				el.LinkID, el.IntNode, rg.numRouters-1)
		}
		an.Attached[el.IntNode] += 1
	}

	an.Components = len(topo.TarjanSCC(rg.g))
	an.StronglyConnected = an.Components <= 1

	hops := make([]float64, 0, rg.numRouters*rg.numRouters)
	for src := 0; src < rg.numRouters; src++ {
		for dst := 0; dst < rg.numRouters; dst++ {
			if src == dst {
				continue
			}
			h, reached := rg.Hops(src, dst)
			if !reached {
				continue
			}
			hops = append(hops, float64(h))
			if h > an.Diameter {
				an.Diameter = h
			}
		}
	}
	if len(hops) > 0 {
		an.MeanHops = stat.Mean(hops, nil)
	}

	logger.WithField("topology", tc.Name).Debugf("analyzed: %d components, diameter %d, mean hops %.3f",
		an.Components, an.Diameter, an.MeanHops)
	return an, nil
}

// WriteToFile stores the Analysis to the file whose name is given.
func (an *Analysis) WriteToFile(filename string) error {
	return writeDescFile(filename, an)
}
