package config

const (
	DefaultHTTPPort       = 8080
	DefaultWorkerCount    = 3
	DefaultBatchSize      = 50
	DefaultClaimSchedule  = "@every 1m"
	DefaultPollIntervalMS = 2000
	DefaultProviderName   = "renderfarm"
)
