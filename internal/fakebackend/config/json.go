package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/recipekeeper/internal/flagx"
	"github.com/dmitrijs2005/recipekeeper/internal/timex"
)

// JsonConfig mirrors Config for JSON decoding; nil means "not set".
type JsonConfig struct {
	Addr           *string         `json:"addr"`
	SecretKey      *string         `json:"secret_key"`
	TokenValidity  *timex.Duration `json:"token_validity"`
	Subject        *string         `json:"subject"`
	InitialBalance *int            `json:"initial_balance"`
	ImportDelay    *timex.Duration `json:"import_delay"`
	LogLevel       *string         `json:"log_level"`
}

func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigFile(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.Addr != nil {
		cfg.Addr = *jc.Addr
	}
	if jc.SecretKey != nil {
		cfg.SecretKey = *jc.SecretKey
	}
	if jc.TokenValidity != nil {
		cfg.TokenValidity = jc.TokenValidity.Duration
	}
	if jc.Subject != nil {
		cfg.Subject = *jc.Subject
	}
	if jc.InitialBalance != nil {
		cfg.InitialBalance = *jc.InitialBalance
	}
	if jc.ImportDelay != nil {
		cfg.ImportDelay = jc.ImportDelay.Duration
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
}
