// Package factory provides a small generic registry used to instantiate
// modules from configuration. Modules are defined by a type string and a map
// of raw settings. Factories decode the settings into typed structs and
// return the concrete implementation. Result sinks use it so a config file
// can select exporters without the core importing any of them.
//
// Example usage:
//
//	reg := factory.NewRegistry[sink.ResultSink]()
//	reg.Register("mqtt", func(conf map[string]any) (sink.ResultSink, error) {
//	    var c struct{ Broker string `json:"broker"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return NewMQTTSink(c.Broker)
//	})
//	s, err := reg.Create(factory.ModuleConfig{Type: "mqtt", Conf: map[string]any{"broker": "tcp://localhost:1883"}})
package factory
