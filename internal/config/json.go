package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig is the on-disk shape of the JSON config file.
type StructuredJSONConfig struct {
	App struct {
		Author   string `json:"author"`
		HashKey  string `json:"hash_key"`
		Version  string `json:"version"`
		LogLevel string `json:"log_level"`
		LogFile  string `json:"log_file"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Cache struct {
			DSN string `json:"dsn"`
		} `json:"cache,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Adapter struct {
		Mode           string   `json:"mode"`
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`

		Chain struct {
			RPCURL              string   `json:"rpc_url"`
			Contract            string   `json:"contract"`
			PrivateKey          string   `json:"private_key"`
			ReceiptPollInterval Duration `json:"receipt_poll_interval"`
		} `json:"chain,omitempty"`

		Memory struct {
			Latency   Duration `json:"latency"`
			FailEvery int      `json:"fail_every"`
		} `json:"memory,omitempty"`
	} `json:"adapter,omitempty"`

	Workers struct {
		PollInterval     Duration `json:"poll_interval"`
		FetchTimeout     Duration `json:"fetch_timeout"`
		WriteTimeout     Duration `json:"write_timeout"`
		RetryMaxAttempts int      `json:"retry_max_attempts"`
		RetryBaseDelay   Duration `json:"retry_base_delay"`
		RetryCeiling     Duration `json:"retry_ceiling"`
		PendingGrace     Duration `json:"pending_grace"`
		MatchWindow      Duration `json:"match_window"`
		MatchTolerance   float64  `json:"match_tolerance"`
		ResubscribeDelay Duration `json:"resubscribe_delay"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	a, w := jsonCfg.Adapter, jsonCfg.Workers
	cfg := &StructuredConfig{
		App: App{
			Author:   jsonCfg.App.Author,
			HashKey:  jsonCfg.App.HashKey,
			Version:  jsonCfg.App.Version,
			LogLevel: jsonCfg.App.LogLevel,
			LogFile:  jsonCfg.App.LogFile,
		},
		Storage: Storage{
			DB:    DB{DSN: jsonCfg.Storage.DB.DSN},
			Cache: Cache{DSN: jsonCfg.Storage.Cache.DSN},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Adapter: Adapter{
			Mode:           a.Mode,
			HTTPAddress:    a.HTTPAddress,
			RequestTimeout: time.Duration(a.RequestTimeout),
			Chain: Chain{
				RPCURL:              a.Chain.RPCURL,
				Contract:            a.Chain.Contract,
				PrivateKey:          a.Chain.PrivateKey,
				ReceiptPollInterval: time.Duration(a.Chain.ReceiptPollInterval),
			},
			Memory: Memory{
				Latency:   time.Duration(a.Memory.Latency),
				FailEvery: a.Memory.FailEvery,
			},
		},
		Workers: Workers{
			PollInterval:     time.Duration(w.PollInterval),
			FetchTimeout:     time.Duration(w.FetchTimeout),
			WriteTimeout:     time.Duration(w.WriteTimeout),
			RetryMaxAttempts: w.RetryMaxAttempts,
			RetryBaseDelay:   time.Duration(w.RetryBaseDelay),
			RetryCeiling:     time.Duration(w.RetryCeiling),
			PendingGrace:     time.Duration(w.PendingGrace),
			MatchWindow:      time.Duration(w.MatchWindow),
			MatchTolerance:   w.MatchTolerance,
			ResubscribeDelay: time.Duration(w.ResubscribeDelay),
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
