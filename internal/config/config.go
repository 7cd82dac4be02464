package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultAPIURL    = "https://api.github.com/"
	DefaultUserAgent = "Jekyll-Site/1.0"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	APIURL        string
	UserAgent     string
	DebugMode     bool
	DelayMin      time.Duration
	DelayMax      time.Duration
	NoDelay       bool
	HTTPTimeout   time.Duration
	CacheFailures bool
}

// FromEnvironment creates a Config from environment variables.
func FromEnvironment() Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("GITHUB_API_URL", DefaultAPIURL)
	v.SetDefault("USER_AGENT", DefaultUserAgent)
	v.SetDefault("STARS_DELAY_MIN", 500*time.Millisecond)
	v.SetDefault("STARS_DELAY_MAX", 1500*time.Millisecond)
	v.SetDefault("HTTP_TIMEOUT", 30*time.Second)
	v.SetDefault("CACHE_FAILURES", true)

	return Config{
		APIURL:        v.GetString("GITHUB_API_URL"),
		UserAgent:     v.GetString("USER_AGENT"),
		DebugMode:     truthy(v.GetString("DEBUG")),
		DelayMin:      v.GetDuration("STARS_DELAY_MIN"),
		DelayMax:      v.GetDuration("STARS_DELAY_MAX"),
		HTTPTimeout:   v.GetDuration("HTTP_TIMEOUT"),
		CacheFailures: v.GetBool("CACHE_FAILURES"),
	}
}

func truthy(s string) bool {
	return s != "" && s != "0" && strings.ToLower(s) != "false"
}
