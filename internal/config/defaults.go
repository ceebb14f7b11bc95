package config

import "time"

// defaults returns the lowest priority layer of the configuration.
func defaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			LogLevel: "info",
		},
		Server: Server{
			HTTPAddress:    "localhost:8080",
			RequestTimeout: 15 * time.Second,
		},
		Adapter: Adapter{
			Mode:           ModeLedger,
			HTTPAddress:    "localhost:8080",
			RequestTimeout: 10 * time.Second,
			Chain: Chain{
				ReceiptPollInterval: 2 * time.Second,
			},
			Memory: Memory{
				Latency: time.Second,
			},
		},
		Workers: Workers{
			PollInterval:     15 * time.Second,
			FetchTimeout:     10 * time.Second,
			WriteTimeout:     2 * time.Minute,
			RetryMaxAttempts: 5,
			RetryBaseDelay:   500 * time.Millisecond,
			RetryCeiling:     30 * time.Second,
			PendingGrace:     2 * time.Minute,
			MatchWindow:      10 * time.Minute,
			MatchTolerance:   1,
			ResubscribeDelay: 2 * time.Second,
		},
	}
}
