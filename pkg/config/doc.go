// Package config loads the client and CLI configuration.
//
// Sources, highest precedence first: command line flags, environment
// variables prefixed with THREADSAPI_, a .env file, a YAML config file,
// defaults.
//
//	cfg, err := config.Load("", map[string]interface{}{
//	    "platform":  "instagram",
//	    "log-level": "debug",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The configuration holds app registration settings only. Access tokens are
// never part of it.
package config
