package server

import (
	"github.com/joho/godotenv"
	"github.com/tao-philip/server-mcp/internal/apiclient"
	"github.com/tao-philip/server-mcp/internal/appconfig"
	"github.com/tao-philip/server-mcp/internal/endpoints"
	"github.com/tao-philip/server-mcp/internal/logging"
	"github.com/tao-philip/server-mcp/internal/metrics"
	"github.com/tao-philip/server-mcp/internal/weather"
	"github.com/tao-philip/server-mcp/mcp/tools"
)

// Runtime holds the components shared by every tool call.
type Runtime struct {
	Registry   *endpoints.Registry
	Dispatcher *apiclient.Dispatcher
	Router     *tools.Router
	Metrics    *metrics.Aggregator
}

// LoadEnvFile applies a dotenv file to the process environment. Variables
// already set win over the file; a missing file is not an error.
func LoadEnvFile(path string) {
	if path == "" {
		return
	}
	if err := godotenv.Load(path); err != nil {
		logging.LogEvent("INFO: No env file loaded from %s: %v", path, err)
	}
}

// Bootstrap wires registry, dispatcher, weather adapter and router from cfg.
// API keys are read through lookupEnv; nil means os.LookupEnv.
func Bootstrap(cfg appconfig.Config, lookupEnv func(string) (string, bool)) (*Runtime, error) {
	reg := endpoints.Default()
	agg := metrics.NewAggregator()
	d := apiclient.New(reg,
		apiclient.WithTimeout(cfg.RequestTimeout()),
		apiclient.WithUserAgent(cfg.UserAgentHeader()),
		apiclient.WithMetrics(agg),
	)
	for _, key := range d.LoadCredentialsFromEnv(lookupEnv) {
		logging.LogEvent("API key loaded from %s for endpoint: %s", apiclient.EnvVarName(key), key)
	}

	router, err := tools.NewRouter(d, weather.NewService(d), reg)
	if err != nil {
		return nil, err
	}
	return &Runtime{Registry: reg, Dispatcher: d, Router: router, Metrics: agg}, nil
}

// LogMetrics writes one summary line per endpoint that was called.
func (rt *Runtime) LogMetrics() {
	for _, m := range rt.Metrics.All() {
		logging.LogEvent("[METRICS] endpoint=%s requests=%d failures=%d latency_ms(mean=%.1f min=%.1f max=%.1f)",
			m.Endpoint, m.TotalRequests, m.Failures, m.LatencyMillis.Mean, m.LatencyMillis.Min, m.LatencyMillis.Max)
	}
}
