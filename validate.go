package nocgen

// file validate.go checks the structural properties every built topology has,
// so that description files read back from disk can be trusted by the host

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// intLinkKey identifies an internal link by everything but its id
type intLinkKey struct {
	src, dst        int
	outport, inport PortDirection
	latency, weight int
}

func (k intLinkKey) reverse() intLinkKey {
	return intLinkKey{src: k.dst, dst: k.src, outport: k.inport, inport: k.outport,
		latency: k.latency, weight: k.weight}
}

// compareIntLinkKeys orders keys by source, destination, then ports and costs
func compareIntLinkKeys(a, b intLinkKey) int {
	pairs := [][2]int{
		{a.src, b.src}, {a.dst, b.dst},
		{int(a.outport), int(b.outport)}, {int(a.inport), int(b.inport)},
		{a.latency, b.latency}, {a.weight, b.weight},
	}
	for _, pair := range pairs {
		if pair[0] != pair[1] {
			if pair[0] < pair[1] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Validate checks that
//   - routers are numbered 0..N-1 in list order and match the recorded grid,
//   - link ids run 0,1,2,... with the external links before the internal ones,
//   - every internal link joins routers that exist, through opposite ports,
//     and has a twin running the other way with the same weight and latency,
//   - every controller position is attached by exactly one external link.
//
// Controllers are identified by position, so unnamed or repeated names are fine.
//
// All problems found are reported together.
func (tc *TopoCfg) Validate() error {
	errs := make([]error, 0)

	numRouters := len(tc.Routers)
	for idx, rtr := range tc.Routers {
		if rtr.ID != idx {
			errs = append(errs, fmt.Errorf("router at position %d has id %d", idx, rtr.ID))
		}
	}
	if tc.Dims.Size() != numRouters {
		errs = append(errs, fmt.Errorf("grid %s holds %d routers, topology has %d", tc.Dims, tc.Dims.Size(), numRouters))
	}

	nextID := 0
	attached := make([]int, len(tc.Endpts))
	for _, el := range tc.ExtLinks {
		if el.LinkID != nextID {
			errs = append(errs, fmt.Errorf("external link to %s has id %d, expected %d", el.ExtNode, el.LinkID, nextID))
		}
		nextID += 1
		if el.IntNode < 0 || el.IntNode >= numRouters {
			errs = append(errs, fmt.Errorf("external link %d names router %d, outside 0..%d", el.LinkID, el.IntNode, numRouters-1))
		}
		if el.ExtIndex < 0 || el.ExtIndex >= len(tc.Endpts) {
			errs = append(errs, fmt.Errorf("external link %d attaches controller %d, outside 0..%d", el.LinkID, el.ExtIndex, len(tc.Endpts)-1))
			continue
		}
		attached[el.ExtIndex] += 1
		ep := tc.Endpts[el.ExtIndex]
		if ep.Name != el.ExtNode || ep.Type != el.ExtType {
			errs = append(errs, fmt.Errorf("external link %d records controller %d as %q (%s), list has %q (%s)",
				el.LinkID, el.ExtIndex, el.ExtNode, el.ExtType, ep.Name, ep.Type))
		}
	}

	keyCount := make(map[intLinkKey]int)
	for _, il := range tc.IntLinks {
		if il.LinkID != nextID {
			errs = append(errs, fmt.Errorf("internal link %d->%d has id %d, expected %d", il.SrcNode, il.DstNode, il.LinkID, nextID))
		}
		nextID += 1

		if il.SrcNode < 0 || il.SrcNode >= numRouters || il.DstNode < 0 || il.DstNode >= numRouters {
			errs = append(errs, fmt.Errorf("internal link %d joins %d->%d, outside 0..%d", il.LinkID, il.SrcNode, il.DstNode, numRouters-1))
		}
		if !il.SrcOutport.Valid() || il.DstInport != il.SrcOutport.Opposite() {
			errs = append(errs, fmt.Errorf("internal link %d leaves through %s but arrives on %s", il.LinkID, il.SrcOutport, il.DstInport))
		}
		keyCount[intLinkKey{src: il.SrcNode, dst: il.DstNode, outport: il.SrcOutport, inport: il.DstInport,
			latency: il.Latency, weight: il.Weight}] += 1
	}

	unmatched := make([]intLinkKey, 0)
	for key, cnt := range keyCount {
		if keyCount[key.reverse()] != cnt {
			unmatched = append(unmatched, key)
		}
	}
	slices.SortFunc(unmatched, compareIntLinkKeys)
	for _, key := range unmatched {
		errs = append(errs, fmt.Errorf("internal link %d->%d (%s) has no matching reverse link", key.src, key.dst, key.outport))
	}

	for idx, cnt := range attached {
		if cnt != 1 {
			errs = append(errs, fmt.Errorf("controller %d (%q) attached by %d external links", idx, tc.Endpts[idx].Name, cnt))
		}
	}

	return ReportErrs(errs)
}
