package config

import (
	"os"
	"testing"
)

func TestConfigDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != defaultServerPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, defaultServerPort)
	}
	if cfg.Server.Host != defaultServerHost {
		t.Errorf("Server.Host = %s, want %s", cfg.Server.Host, defaultServerHost)
	}

	if cfg.Database.Path != defaultDatabasePath {
		t.Errorf("Database.Path = %s, want %s", cfg.Database.Path, defaultDatabasePath)
	}
	if !cfg.Database.EnableWAL {
		t.Errorf("Database.EnableWAL = false, want true")
	}

	if cfg.Logging.Level != defaultLogLevel {
		t.Errorf("Logging.Level = %s, want %s", cfg.Logging.Level, defaultLogLevel)
	}
	if cfg.Logging.Pretty != defaultLogPretty {
		t.Errorf("Logging.Pretty = %v, want %v", cfg.Logging.Pretty, defaultLogPretty)
	}

	if cfg.Media.BaseURL != defaultMediaBaseURL {
		t.Errorf("Media.BaseURL = %s, want %s", cfg.Media.BaseURL, defaultMediaBaseURL)
	}

	if cfg.Schedule.SeedFile != "" {
		t.Errorf("Schedule.SeedFile = %s, want empty", cfg.Schedule.SeedFile)
	}
	if cfg.Schedule.BoundaryBufferMs != defaultBoundaryBufferMs {
		t.Errorf("Schedule.BoundaryBufferMs = %d, want %d", cfg.Schedule.BoundaryBufferMs, defaultBoundaryBufferMs)
	}
}

func TestConfigValidation(t *testing.T) {
	valid := Config{
		Server: ServerConfig{
			Port:         8080,
			Host:         "0.0.0.0",
			ReadTimeout:  defaultReadTimeout,
			WriteTimeout: defaultWriteTimeout,
		},
		Database: DatabaseConfig{
			Path:              "./data/airwave.db",
			ConnectionTimeout: defaultDatabaseConnectionTimeout,
			EnableWAL:         true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Media: MediaConfig{
			BaseURL: "/media",
		},
		Schedule: ScheduleConfig{
			BoundaryBufferMs: defaultBoundaryBufferMs,
		},
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "invalid server port (too low)",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: true,
		},
		{
			name:    "invalid server port (too high)",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "invalid read timeout",
			mutate:  func(c *Config) { c.Server.ReadTimeout = 0 },
			wantErr: true,
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Logging.Level = "invalid" },
			wantErr: true,
		},
		{
			name:    "negative boundary buffer",
			mutate:  func(c *Config) { c.Schedule.BoundaryBufferMs = -1 },
			wantErr: true,
		},
		{
			name:    "zero boundary buffer is allowed",
			mutate:  func(c *Config) { c.Schedule.BoundaryBufferMs = 0 },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigEnvVars(t *testing.T) {
	_ = os.Setenv("AIRWAVE_SERVER_PORT", "9090")
	_ = os.Setenv("AIRWAVE_MEDIA_BASEURL", "https://cdn.example.com/media")
	_ = os.Setenv("AIRWAVE_SCHEDULE_SEEDFILE", "./channels.yaml")
	_ = os.Setenv("AIRWAVE_SCHEDULE_BOUNDARYBUFFERMS", "2000")
	defer func() {
		_ = os.Unsetenv("AIRWAVE_SERVER_PORT")
		_ = os.Unsetenv("AIRWAVE_MEDIA_BASEURL")
		_ = os.Unsetenv("AIRWAVE_SCHEDULE_SEEDFILE")
		_ = os.Unsetenv("AIRWAVE_SCHEDULE_BOUNDARYBUFFERMS")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Media.BaseURL != "https://cdn.example.com/media" {
		t.Errorf("Media.BaseURL = %s, want https://cdn.example.com/media", cfg.Media.BaseURL)
	}
	if cfg.Schedule.SeedFile != "./channels.yaml" {
		t.Errorf("Schedule.SeedFile = %s, want ./channels.yaml", cfg.Schedule.SeedFile)
	}
	if cfg.Schedule.BoundaryBufferMs != 2000 {
		t.Errorf("Schedule.BoundaryBufferMs = %d, want 2000", cfg.Schedule.BoundaryBufferMs)
	}
}

func TestContains(t *testing.T) {
	tests := []struct {
		name  string
		slice []string
		item  string
		want  bool
	}{
		{
			name:  "item exists",
			slice: []string{"one", "two", "three"},
			item:  "two",
			want:  true,
		},
		{
			name:  "item does not exist",
			slice: []string{"one", "two", "three"},
			item:  "four",
			want:  false,
		},
		{
			name:  "empty slice",
			slice: []string{},
			item:  "one",
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := contains(tt.slice, tt.item)
			if got != tt.want {
				t.Errorf("contains() = %v, want %v", got, tt.want)
			}
		})
	}
}
