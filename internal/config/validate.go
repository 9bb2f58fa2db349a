package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/heartmarshall/anime-ingest/internal/domain"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
// CLI flag overrides should be followed by another Validate call.
func (c *Config) Validate() error {
	var errs []domain.FieldError

	if err := c.Jikan.validate(); err != nil {
		errs = append(errs, err...)
	}

	switch c.Lookup.Source {
	case LookupSourceFile:
		if c.Lookup.StudioMapPath == "" && c.Lookup.StudioScriptPath == "" {
			errs = append(errs, domain.FieldError{Field: "lookup.studio_*", Message: "a map or script path is required"})
		}
		if c.Lookup.TagMapPath == "" && c.Lookup.TagScriptPath == "" {
			errs = append(errs, domain.FieldError{Field: "lookup.tag_*", Message: "a map or script path is required"})
		}
	case LookupSourceDB:
	default:
		errs = append(errs, domain.FieldError{Field: "lookup.source", Message: fmt.Sprintf("must be %q or %q (got %q)", LookupSourceFile, LookupSourceDB, c.Lookup.Source)})
	}

	if strings.TrimSpace(c.Output.ScriptPath) == "" {
		errs = append(errs, domain.FieldError{Field: "output.script_path", Message: "required"})
	}
	if strings.TrimSpace(c.Output.SkipLogPath) == "" {
		errs = append(errs, domain.FieldError{Field: "output.skip_log_path", Message: "required"})
	}

	if c.NeedsDatabase() && strings.TrimSpace(c.Database.DSN) == "" {
		errs = append(errs, domain.FieldError{Field: "database.dsn", Message: "required for apply or db lookups"})
	}

	switch len(errs) {
	case 0:
		return nil
	case 1:
		return domain.NewValidationError(errs[0].Field, errs[0].Message)
	default:
		return domain.NewValidationErrors(errs)
	}
}

func (j *JikanConfig) validate() []domain.FieldError {
	var errs []domain.FieldError

	if u, err := url.Parse(j.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, domain.FieldError{Field: "jikan.base_url", Message: fmt.Sprintf("invalid URL %q", j.BaseURL)})
	}
	if j.Concurrency <= 0 {
		errs = append(errs, domain.FieldError{Field: "jikan.concurrency", Message: fmt.Sprintf("must be > 0 (got %d)", j.Concurrency)})
	}
	if j.MaxRateLimitRetries <= 0 {
		errs = append(errs, domain.FieldError{Field: "jikan.max_rate_limit_retries", Message: fmt.Sprintf("must be > 0 (got %d)", j.MaxRateLimitRetries)})
	}
	if j.Cooldown < 0 || j.PolitenessDelay < 0 {
		errs = append(errs, domain.FieldError{Field: "jikan.cooldown", Message: "delays must be >= 0"})
	}
	if j.MaxCooldown < j.Cooldown {
		errs = append(errs, domain.FieldError{Field: "jikan.max_cooldown", Message: "must be >= cooldown"})
	}
	if j.MaxPages < 0 {
		errs = append(errs, domain.FieldError{Field: "jikan.max_pages", Message: fmt.Sprintf("must be >= 0 (got %d)", j.MaxPages)})
	}

	return errs
}
