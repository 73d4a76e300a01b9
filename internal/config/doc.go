// Package config provides configuration parsing for the tooltip server.
//
// The configuration is stored in tooltip.json. Delays are in
// milliseconds; keys that are absent keep their defaults.
//
// # Configuration File Structure
//
//	{
//	  "showDelay": 0,
//	  "hideDelay": 0,
//	  "touchendHideDelay": 1500,
//	  "position": "bottom",
//	  "direction": "ltr",
//	  "server": {
//	    "host": "localhost",
//	    "port": 8080,
//	    "metricsPath": "/metrics",
//	    "allowedOrigins": ["http://localhost:8080"]
//	  },
//	  "hosts": [
//	    {"id": "save", "message": "Save the document", "position": "top"}
//	  ]
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	opts := cfg.Options()
package config
