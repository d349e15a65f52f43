package config

import (
	"fmt"
	"net/url"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a cleaned-up copy plus anything worth
// telling the user about before the engine runs with it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	out.API.BaseURL = strings.TrimRight(strings.TrimSpace(out.API.BaseURL), "/")
	out.UI.Origin = strings.TrimRight(strings.TrimSpace(out.UI.Origin), "/")

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	if out.API.BaseURL == "" {
		res.addErr("api.base_url is required")
	} else if u, err := url.Parse(out.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		res.addErr("api.base_url is not a valid absolute URL: %q", out.API.BaseURL)
	}

	if out.API.TimeoutSeconds <= 0 {
		res.addErr("api.timeout_seconds must be > 0")
	} else if out.API.TimeoutSeconds > 120 {
		res.addWarn("api.timeout_seconds is very high (%d); hung requests hold isLoading that long.", out.API.TimeoutSeconds)
	}

	if out.API.RatePerSec <= 0 {
		res.addErr("api.rate_per_sec must be > 0")
	}
	if out.API.Burst <= 0 {
		res.addErr("api.burst must be > 0")
	}

	if out.AutoSave.IntervalSeconds <= 0 {
		res.addErr("autosave.interval_seconds must be > 0")
	} else if out.AutoSave.IntervalSeconds < 5 {
		res.addWarn("autosave.interval_seconds is very low (%d) and may hammer the backend.", out.AutoSave.IntervalSeconds)
	}

	if out.UI.Origin == "" {
		res.addWarn("ui.origin is empty; CORS will echo any Origin header back.")
	}

	return out, res
}
