package config

import (
	"time"
)

// Config is the root configuration of the ingest tool.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Jikan    JikanConfig    `yaml:"jikan"`
	Lookup   LookupConfig   `yaml:"lookup"`
	Output   OutputConfig   `yaml:"output"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// DatabaseConfig holds PostgreSQL connection settings.
// DSN is only required for direct apply, migrations and database-backed lookups.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"4"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	ApplyChunkSize  int           `yaml:"apply_chunk_size"   env:"DATABASE_APPLY_CHUNK_SIZE"   env-default:"500"`
}

// JikanConfig holds catalog API fetch settings.
type JikanConfig struct {
	BaseURL             string        `yaml:"base_url"               env:"JIKAN_BASE_URL"               env-default:"https://api.jikan.moe/v4"`
	Concurrency         int           `yaml:"concurrency"            env:"JIKAN_CONCURRENCY"            env-default:"3"`
	Cooldown            time.Duration `yaml:"cooldown"               env:"JIKAN_COOLDOWN"               env-default:"1s"`
	MaxCooldown         time.Duration `yaml:"max_cooldown"           env:"JIKAN_MAX_COOLDOWN"           env-default:"30s"`
	MaxRateLimitRetries int           `yaml:"max_rate_limit_retries" env:"JIKAN_MAX_RATE_LIMIT_RETRIES" env-default:"8"`
	PolitenessDelay     time.Duration `yaml:"politeness_delay"       env:"JIKAN_POLITENESS_DELAY"       env-default:"1s"`
	Timeout             time.Duration `yaml:"timeout"                env:"JIKAN_TIMEOUT"                env-default:"15s"`
	SafeContent         bool          `yaml:"safe_content"           env:"JIKAN_SAFE_CONTENT"           env-default:"false"`
	MaxPages            int           `yaml:"max_pages"              env:"JIKAN_MAX_PAGES"              env-default:"0"`
	UserAgent           string        `yaml:"user_agent"             env:"JIKAN_USER_AGENT"             env-default:"anime-ingest/1.0"`
}

// LookupConfig describes where the studio and tag maps come from.
// Source "file" reads map files first and falls back to insert scripts;
// source "db" reads the studios and tags tables.
type LookupConfig struct {
	Source           string `yaml:"source"             env:"LOOKUP_SOURCE"             env-default:"file"`
	StudioMapPath    string `yaml:"studio_map_path"    env:"LOOKUP_STUDIO_MAP_PATH"    env-default:"studio_map.txt"`
	StudioScriptPath string `yaml:"studio_script_path" env:"LOOKUP_STUDIO_SCRIPT_PATH" env-default:"insert_studios.sql"`
	TagMapPath       string `yaml:"tag_map_path"       env:"LOOKUP_TAG_MAP_PATH"       env-default:"tag_map.txt"`
	TagScriptPath    string `yaml:"tag_script_path"    env:"LOOKUP_TAG_SCRIPT_PATH"    env-default:"insert_tags.sql"`
}

// OutputConfig holds output file settings.
type OutputConfig struct {
	ScriptPath  string `yaml:"script_path"   env:"OUTPUT_SCRIPT_PATH"   env-default:"anime_insert.sql"`
	SkipLogPath string `yaml:"skip_log_path" env:"OUTPUT_SKIP_LOG_PATH" env-default:"skipped_log.txt"`
	Progress    bool   `yaml:"progress"      env:"OUTPUT_PROGRESS"      env-default:"true"`
	Apply       bool   `yaml:"apply"         env:"OUTPUT_APPLY"         env-default:"false"`
}

// NeedsDatabase reports whether the configuration requires a database connection.
func (c *Config) NeedsDatabase() bool {
	return c.Output.Apply || c.Lookup.Source == LookupSourceDB
}

// Lookup sources.
const (
	LookupSourceFile = "file"
	LookupSourceDB   = "db"
)
