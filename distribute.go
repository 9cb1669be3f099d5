package nocgen

// file distribute.go spreads the controllers handed to a topology builder across its routers

// Assignment places one controller on one router
type Assignment struct {
	Index  int      // position of the controller in the input list
	Endpt  Endpoint // the controller
	Router int      // id of the router it attaches to
	Level  int      // how many controllers precede it on that router
}

// Placement is the outcome of spreading controllers over routers.
// Regular holds the evenly spread controllers, Leftover the ones that did not
// fill a whole round and so are attached to router 0.
type Placement struct {
	PerRouter int
	Remainder int
	Regular   []Assignment
	Leftover  []Assignment
}

// Assignments lists regular then left-over assignments, the order external links are built in
func (p *Placement) Assignments() []Assignment {
	all := make([]Assignment, 0, len(p.Regular)+len(p.Leftover))
	all = append(all, p.Regular...)
	return append(all, p.Leftover...)
}

// Distribute spreads endpts over numRouters routers.  The first len-remainder controllers
// go round-robin in rounds of numRouters (controller i on router i mod numRouters),
// the remaining ones must be DMA controllers and all go on router 0.
func Distribute(endpts []Endpoint, numRouters int) (*Placement, error) {
	if numRouters <= 0 {
		return nil, &ConfigError{Topology: "distribute", Reason: "router count must be positive"}
	}

	perRouter, remainder := len(endpts)/numRouters, len(endpts)%numRouters
	numRegular := len(endpts) - remainder

	p := &Placement{
		PerRouter: perRouter,
		Remainder: remainder,
		Regular:   make([]Assignment, 0, numRegular),
		Leftover:  make([]Assignment, 0, remainder),
	}

	for idx := 0; idx < numRegular; idx++ {
		level, router := idx/numRouters, idx%numRouters
		if level >= perRouter {
			return nil, &DistributionError{Index: idx, Level: level, PerRouter: perRouter}
		}
		p.Regular = append(p.Regular, Assignment{Index: idx, Endpt: endpts[idx], Router: router, Level: level})
	}

	for idx := numRegular; idx < len(endpts); idx++ {
		ep := endpts[idx]
		if !IsDMA(ep) {
			return nil, &EndpointTypeError{Index: idx, Name: ep.EndptName(), Type: ep.EndptType()}
		}
		p.Leftover = append(p.Leftover, Assignment{Index: idx, Endpt: ep, Router: 0, Level: perRouter + idx - numRegular})
	}

	return p, nil
}
