package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	NATS      NATSConfig      `yaml:"nats"`
	MinIO     MinIOConfig     `yaml:"minio"`
	FaceIndex FaceIndexConfig `yaml:"face_index"`
	Vision    VisionConfig    `yaml:"vision"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	MaxConns int    `yaml:"max_conns"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

type NATSConfig struct {
	URL string `yaml:"url"`
}

type MinIOConfig struct {
	// Enabled selects whether profile photos are kept in object storage.
	// When false, enrollment indexes raw photo bytes and photo URLs stay empty.
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type FaceIndexConfig struct {
	Collection string `yaml:"collection"`
	// ResetPolicy is "create-if-absent" (default) or "recreate-if-exists".
	// The recreate policy deletes every enrolled template on startup and must
	// never be enabled against a populated deployment.
	ResetPolicy string `yaml:"reset_policy"`
	// DedupThreshold is the 0-100 similarity above which a registration
	// attempt is rejected as already enrolled.
	DedupThreshold float64 `yaml:"dedup_threshold"`
	// SerializeEnrollment takes a process-wide lock across the
	// dedup-search-then-enroll sequence so concurrent registrations of the
	// same face cannot both pass the dedup check.
	SerializeEnrollment bool `yaml:"serialize_enrollment"`
}

type VisionConfig struct {
	ModelsDir          string  `yaml:"models_dir"`
	DetectionThreshold float64 `yaml:"detection_threshold"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads config from YAML file and applies environment variable overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(cfg)
	setDefaults(cfg)

	if cfg.FaceIndex.ResetPolicy != ResetPolicyCreateIfAbsent && cfg.FaceIndex.ResetPolicy != ResetPolicyRecreate {
		return nil, fmt.Errorf("invalid face_index.reset_policy %q", cfg.FaceIndex.ResetPolicy)
	}

	return cfg, nil
}

// Collection reset policies, see FaceIndexConfig.ResetPolicy.
const (
	ResetPolicyCreateIfAbsent = "create-if-absent"
	ResetPolicyRecreate       = "recreate-if-exists"
)

func setDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = 20
	}
	if cfg.FaceIndex.Collection == "" {
		cfg.FaceIndex.Collection = "faceauth"
	}
	if cfg.FaceIndex.ResetPolicy == "" {
		cfg.FaceIndex.ResetPolicy = ResetPolicyCreateIfAbsent
	}
	if cfg.FaceIndex.DedupThreshold == 0 {
		cfg.FaceIndex.DedupThreshold = 80
	}
	if cfg.Vision.DetectionThreshold == 0 {
		cfg.Vision.DetectionThreshold = 0.5
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FA_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("FA_API_KEY"); v != "" {
		cfg.Server.APIKey = v
	}
	if v := os.Getenv("FA_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("FA_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("FA_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("FA_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("FA_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("FA_NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("FA_MINIO_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.MinIO.Enabled = b
		}
	}
	if v := os.Getenv("FA_MINIO_ENDPOINT"); v != "" {
		cfg.MinIO.Endpoint = v
	}
	if v := os.Getenv("FA_MINIO_ACCESS_KEY"); v != "" {
		cfg.MinIO.AccessKey = v
	}
	if v := os.Getenv("FA_MINIO_SECRET_KEY"); v != "" {
		cfg.MinIO.SecretKey = v
	}
	if v := os.Getenv("FA_MINIO_BUCKET"); v != "" {
		cfg.MinIO.Bucket = v
	}
	if v := os.Getenv("FA_COLLECTION"); v != "" {
		cfg.FaceIndex.Collection = v
	}
	if v := os.Getenv("FA_COLLECTION_RESET_POLICY"); v != "" {
		cfg.FaceIndex.ResetPolicy = v
	}
	if v := os.Getenv("FA_MODELS_DIR"); v != "" {
		cfg.Vision.ModelsDir = v
	}
}
