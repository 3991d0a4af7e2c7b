package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/todoauth/internal/flagx"
	"github.com/dmitrijs2005/todoauth/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON configuration file. Durations
// use timex.Duration so both "5m" and integer nanoseconds are accepted.
// CookieSecure is a pointer so that an explicit false can be told apart from
// an absent key.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	CSRFSecretKey               string         `json:"csrf_secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	CSRFTokenValidityDuration   timex.Duration `json:"csrf_token_validity_duration"`
	BcryptCost                  int            `json:"bcrypt_cost"`
	CORSAllowedOrigins          string         `json:"cors_allowed_origins"`
	CookieSecure                *bool          `json:"cookie_secure"`
	GinMode                     string         `json:"gin_mode"`
}

// parseJson loads the file named by -c/-config, if any, and copies every
// value present in it over the provided Config. Keys missing from the file
// leave the current values untouched. A file that cannot be read or parsed
// makes the function panic, since the server must not start half-configured.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.CSRFSecretKey, c.CSRFSecretKey)
	setString(&config.CORSAllowedOrigins, c.CORSAllowedOrigins)
	setString(&config.GinMode, c.GinMode)

	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.CSRFTokenValidityDuration.Duration != 0 {
		config.CSRFTokenValidityDuration = c.CSRFTokenValidityDuration.Duration
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.CookieSecure != nil {
		config.CookieSecure = *c.CookieSecure
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
