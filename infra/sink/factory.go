package sink

import (
	"github.com/lmercat/socsim/core/factory"
	coresink "github.com/lmercat/socsim/core/sink"
)

// init registers the built-in result sinks.
func init() {
	_ = coresink.Register("nop", func(map[string]any) (coresink.ResultSink, error) {
		return coresink.NopSink{}, nil
	})

	_ = coresink.Register("prometheus", func(conf map[string]any) (coresink.ResultSink, error) {
		var c struct {
			Listen string `json:"listen"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		// Listen is consumed by StartPromServer; the sink itself only
		// registers collectors.
		return NewPromSink()
	})

	_ = coresink.Register("influx", func(conf map[string]any) (coresink.ResultSink, error) {
		var c struct {
			URL    string `json:"url"`
			Token  string `json:"token"`
			Org    string `json:"org"`
			Bucket string `json:"bucket"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c.URL, c.Token, c.Org, c.Bucket), nil
	})

	_ = coresink.Register("mqtt", func(conf map[string]any) (coresink.ResultSink, error) {
		var c MQTTConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewMQTTSink(c)
	})

	_ = coresink.Register("history", func(conf map[string]any) (coresink.ResultSink, error) {
		var c struct {
			Path string `json:"path"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewHistorySink(c.Path)
	})
}
