package nocgen

import "fmt"

// ConfigError reports options that cannot describe a topology, e.g. a mesh
// whose rows and columns do not tile the router count. Nothing is built when one is returned.
type ConfigError struct {
	Topology string
	Reason   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: invalid configuration: %s", e.Topology, e.Reason)
}

// DistributionError reports a controller whose computed level on its router
// reaches the number of controllers each router should carry
type DistributionError struct {
	Index     int
	Level     int
	PerRouter int
}

func (e *DistributionError) Error() string {
	return fmt.Sprintf("controller %d placed at level %d, but routers carry %d controllers each",
		e.Index, e.Level, e.PerRouter)
}

// EndpointTypeError reports a left-over controller that is not a DMA controller
type EndpointTypeError struct {
	Index int
	Name  string
	Type  string
}

func (e *EndpointTypeError) Error() string {
	return fmt.Sprintf("left-over controller %d (%s) has type %q, only %s may be attached to router 0",
		e.Index, e.Name, e.Type, DMAControllerType)
}
