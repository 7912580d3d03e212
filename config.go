package plugrpc

import (
	"fmt"

	"github.com/joeshaw/envdecode"
)

// Transport selects which wire channel Run starts.
type Transport string

const (
	// TransportStdio serves newline-delimited JSON on stdin/stdout.
	TransportStdio Transport = "stdio"
	// TransportHTTP serves one envelope per authenticated POST.
	TransportHTTP Transport = "http"
)

// Config is the startup configuration consumed by Run. Its values normally
// come from the host via the environment (see ConfigFromEnv), but the source
// is the caller's concern.
type Config struct {
	// Transport is "stdio" or "http". ENV: PLUGIN_TRANSPORT
	Transport Transport `env:"PLUGIN_TRANSPORT,default=stdio"`
	// Port for the HTTP transport. ENV: PLUGIN_PORT
	Port int `env:"PLUGIN_PORT,default=0"`
	// Token is the static bearer secret for the HTTP transport. It is held
	// in memory for the process lifetime and never logged. ENV: PLUGIN_TOKEN
	Token string `env:"PLUGIN_TOKEN"`
}

// Validate reports configuration errors that would only surface at serve
// time otherwise.
func (c Config) Validate() error {
	switch c.Transport {
	case TransportStdio:
		return nil
	case TransportHTTP:
		if c.Port <= 0 {
			return fmt.Errorf("http transport requires a port")
		}
		if c.Token == "" {
			return fmt.Errorf("http transport requires a bearer token")
		}
		return nil
	default:
		return fmt.Errorf("unknown transport %q", c.Transport)
	}
}

// ConfigFromEnv populates a Config from the process environment using
// envdecode; defaults are provided via struct tags.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	_ = envdecode.Decode(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
