package sink

import "github.com/lmercat/socsim/core/factory"

var sinkRegistry = factory.NewRegistry[ResultSink]()

// Register adds a result sink factory identified by name.
func Register(name string, f factory.Factory[ResultSink]) error {
	return sinkRegistry.Register(name, f)
}

// New creates a ResultSink from the provided configuration: none configured
// yields a NopSink, a single entry its sink, several a MultiSink.
func New(cfgs []factory.ModuleConfig) (ResultSink, error) {
	if len(cfgs) == 0 {
		return NopSink{}, nil
	}
	if len(cfgs) == 1 {
		return sinkRegistry.Create(cfgs[0])
	}
	sinks := make([]ResultSink, len(cfgs))
	for i, c := range cfgs {
		s, err := sinkRegistry.Create(c)
		if err != nil {
			return nil, err
		}
		sinks[i] = s
	}
	return NewMultiSink(sinks...), nil
}
