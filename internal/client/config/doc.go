// Package config loads runtime configuration for the PLMS CLI.
//
// Sources, later ones winning:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. PLMS_SERVER_URL.
//  4. Command-line flags: -a <base URL>, -t <timeout seconds>.
//
// JSON intervals accept "10s"-style strings or integer nanoseconds:
//
//	{
//	  "server_url": "https://plms.example.com",
//	  "request_timeout": "10s"
//	}
package config
