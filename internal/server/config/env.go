package config

import "github.com/dmitrijs2005/plms/internal/flagx"

// parseEnv overlays PLMS_* environment variables. The secret is usually
// supplied this way so it never shows up in a process listing.
func parseEnv(config *Config) error {
	flagx.EnvString("PLMS_HTTP_ADDR", &config.EndpointAddrHTTP)
	flagx.EnvString("PLMS_GRPC_ADDR", &config.EndpointAddrGRPC)
	flagx.EnvString("PLMS_DATABASE_DSN", &config.DatabaseDSN)
	flagx.EnvString("PLMS_SECRET_KEY", &config.SecretKey)
	flagx.EnvString("PLMS_ENV", &config.Environment)
	flagx.EnvString("PLMS_S3_ROOT_USER", &config.S3RootUser)
	flagx.EnvString("PLMS_S3_ROOT_PASSWORD", &config.S3RootPassword)
	flagx.EnvString("PLMS_S3_BUCKET", &config.S3Bucket)
	flagx.EnvString("PLMS_S3_REGION", &config.S3Region)
	flagx.EnvString("PLMS_S3_BASE_ENDPOINT", &config.S3BaseEndpoint)

	if err := flagx.EnvDuration("PLMS_SESSION_VALIDITY", &config.SessionValidityDuration); err != nil {
		return err
	}
	return flagx.EnvDuration("PLMS_HEALTH_CHECK_INTERVAL", &config.HealthCheckInterval)
}
