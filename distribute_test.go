package nocgen

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// placed is the part of an Assignment the tests compare
type placed struct {
	Name   string
	Router int
	Level  int
}

func placedOf(asgns []Assignment) []placed {
	rtn := make([]placed, len(asgns))
	for idx, asgn := range asgns {
		rtn[idx] = placed{Name: asgn.Endpt.EndptName(), Router: asgn.Router, Level: asgn.Level}
	}
	return rtn
}

// controllers makes numL1 L1 cache controllers followed by numDMA DMA controllers
func controllers(numL1, numDMA int) []Endpoint {
	endpts := make([]Endpoint, 0, numL1+numDMA)
	for i := 0; i < numL1; i++ {
		endpts = append(endpts, CreateEndpt(fmt.Sprintf("l1_cntrl%d", i), L1CacheControllerType))
	}
	for i := 0; i < numDMA; i++ {
		endpts = append(endpts, CreateEndpt(fmt.Sprintf("dma_cntrl%d", i), DMAControllerType))
	}
	return endpts
}

func TestDistribute(t *testing.T) {
	testCases := []struct {
		desc         string
		endpts       []Endpoint
		numRouters   int
		wantPer      int
		wantRegular  []placed
		wantLeftover []placed
	}{
		{
			desc:        "one round",
			endpts:      controllers(4, 0),
			numRouters:  4,
			wantPer:     1,
			wantRegular: []placed{{"l1_cntrl0", 0, 0}, {"l1_cntrl1", 1, 0}, {"l1_cntrl2", 2, 0}, {"l1_cntrl3", 3, 0}},
		},
		{
			desc:       "two rounds",
			endpts:     controllers(8, 0),
			numRouters: 4,
			wantPer:    2,
			wantRegular: []placed{
				{"l1_cntrl0", 0, 0}, {"l1_cntrl1", 1, 0}, {"l1_cntrl2", 2, 0}, {"l1_cntrl3", 3, 0},
				{"l1_cntrl4", 0, 1}, {"l1_cntrl5", 1, 1}, {"l1_cntrl6", 2, 1}, {"l1_cntrl7", 3, 1},
			},
		},
		{
			desc:         "left-over DMA goes to router 0",
			endpts:       controllers(4, 1),
			numRouters:   4,
			wantPer:      1,
			wantRegular:  []placed{{"l1_cntrl0", 0, 0}, {"l1_cntrl1", 1, 0}, {"l1_cntrl2", 2, 0}, {"l1_cntrl3", 3, 0}},
			wantLeftover: []placed{{"dma_cntrl0", 0, 1}},
		},
		{
			desc:         "fewer controllers than routers",
			endpts:       controllers(0, 3),
			numRouters:   4,
			wantPer:      0,
			wantLeftover: []placed{{"dma_cntrl0", 0, 0}, {"dma_cntrl1", 0, 1}, {"dma_cntrl2", 0, 2}},
		},
		{
			desc:       "no controllers",
			numRouters: 2,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			p, err := Distribute(tc.endpts, tc.numRouters)
			if err != nil {
				t.Fatalf("Distribute(): %v", err)
			}
			if p.PerRouter != tc.wantPer {
				t.Errorf("PerRouter = %d, want %d", p.PerRouter, tc.wantPer)
			}
			if diff := cmp.Diff(tc.wantRegular, placedOf(p.Regular), cmpEmpty); diff != "" {
				t.Errorf("regular mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.wantLeftover, placedOf(p.Leftover), cmpEmpty); diff != "" {
				t.Errorf("leftover mismatch (-want +got):\n%s", diff)
			}
			if got := len(p.Assignments()); got != len(tc.endpts) {
				t.Errorf("%d assignments for %d controllers", got, len(tc.endpts))
			}
		})
	}
}

// cmpEmpty treats nil and empty slices alike
var cmpEmpty = cmp.FilterValues(func(x, y []placed) bool {
	return len(x) == 0 && len(y) == 0
}, cmp.Ignore())

func TestDistributeRejectsNonDMALeftover(t *testing.T) {
	endpts := append(controllers(4, 0), CreateEndpt("dir_cntrl0", DirectoryControllerType))

	_, err := Distribute(endpts, 4)
	var typeErr *EndpointTypeError
	if !errors.As(err, &typeErr) {
		t.Fatalf("Distribute() error = %v, want *EndpointTypeError", err)
	}
	if typeErr.Index != 4 || typeErr.Name != "dir_cntrl0" {
		t.Errorf("error names controller %d (%s), want 4 (dir_cntrl0)", typeErr.Index, typeErr.Name)
	}
}

func TestDistributeRejectsNoRouters(t *testing.T) {
	_, err := Distribute(controllers(2, 0), 0)
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Distribute() error = %v, want *ConfigError", err)
	}
}

func TestIsDMA(t *testing.T) {
	if !IsDMA(CreateEndpt("dma_cntrl0", DMAControllerType)) {
		t.Errorf("IsDMA() = false for a %s", DMAControllerType)
	}
	if IsDMA(CreateEndpt("dma_cntrl0", L1CacheControllerType)) {
		t.Errorf("IsDMA() = true for a %s named like a DMA controller", L1CacheControllerType)
	}
}
