package constants

// Viper configuration keys.
const (
	ViperKeyListenAddr     = "listen_addr"
	ViperKeyDataSource     = "data_source" // "remote" or "fixture"
	ViperKeyBaseURL        = "upstream.base_url"
	ViperKeyInternalOrigin = "upstream.internal_origin"
	ViperKeyInternalPrefix = "upstream.internal_path_prefix"
	ViperKeyRatePerSecond  = "upstream.rate_per_second"
	ViperKeyFixtureDir     = "fixture.dir"
	ViperKeyCORSOrigins    = "cors.allow_origins"
	ViperKeyLogDevelopment = "log.development"
)

// Data source selection values.
const (
	DataSourceRemote  = "remote"
	DataSourceFixture = "fixture"
)
