// Package config holds the explicitly constructed configuration shared by
// the recorder, evaluator, report and server binaries. No package keeps
// ambient credential globals: secrets are read from the environment once,
// here, and passed down.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type DatasetConfig struct {
	Dir          string `yaml:"dir"`
	SamplesDir   string `yaml:"samples_dir"`
	MetadataFile string `yaml:"metadata_file"`
	AudioDir     string `yaml:"audio_dir"`
}

type ResultsConfig struct {
	Dir string `yaml:"dir"`
}

type TranscriptionConfig struct {
	Vendor         string  `yaml:"vendor"` // "fireworks", "deepgram" or "mock"
	Endpoint       string  `yaml:"endpoint"`
	Model          string  `yaml:"model"`
	Temperature    float64 `yaml:"temperature"`
	VADModel       string  `yaml:"vad_model"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	Retries        int     `yaml:"retries"`
	APIKeyEnv      string  `yaml:"api_key_env"`

	// APIKey is resolved from the environment at load time, never from the
	// config file.
	APIKey string `yaml:"-"`
}

type RecorderConfig struct {
	SampleRate          int    `yaml:"sample_rate"`
	Channels            int    `yaml:"channels"`
	PreferredMic        string `yaml:"preferred_microphone"`
	UploadToObjectStore bool   `yaml:"upload_to_object_store"`
}

type ObjectStoreConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
	AccessKey string `yaml:"-"` // EVAL_MINIO_ACCESS_KEY
	SecretKey string `yaml:"-"` // EVAL_MINIO_SECRET_KEY
}

type ServerConfig struct {
	Bind      string `yaml:"bind"`
	Port      int    `yaml:"port"`
	AuthToken string `yaml:"-"` // EVAL_SERVER_TOKEN
}

type Config struct {
	Dataset       DatasetConfig       `yaml:"dataset"`
	Results       ResultsConfig       `yaml:"results"`
	Transcription TranscriptionConfig `yaml:"transcription"`
	Recorder      RecorderConfig      `yaml:"recorder"`
	ObjectStore   ObjectStoreConfig   `yaml:"object_store"`
	Server        ServerConfig        `yaml:"server"`
}

func Default() Config {
	return Config{
		Dataset: DatasetConfig{
			Dir:          "./dataset",
			SamplesDir:   "./samples",
			MetadataFile: "metadata.jsonl",
			AudioDir:     "audio",
		},
		Results: ResultsConfig{
			Dir: "./results",
		},
		Transcription: TranscriptionConfig{
			Vendor:         "fireworks",
			Endpoint:       "https://audio-prod.api.fireworks.ai/v1/audio/transcriptions",
			Model:          "whisper-v3",
			Temperature:    0,
			VADModel:       "silero",
			TimeoutSeconds: 60,
			Retries:        1,
			APIKeyEnv:      "FIREWORKS_API_KEY",
		},
		Recorder: RecorderConfig{
			SampleRate:   16000, // 16kHz mono, what Whisper expects
			Channels:     1,
			PreferredMic: "Samson Q2U",
		},
		ObjectStore: ObjectStoreConfig{
			Enabled: false,
			UseSSL:  false,
		},
		Server: ServerConfig{
			Bind: "0.0.0.0",
			Port: 8080,
		},
	}
}

// Load reads the optional YAML config file, applies EVAL_* environment
// overrides, resolves secrets from the environment and validates the
// result. An empty path loads pure defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return cfg, fmt.Errorf("config file not found: %w", err)
			}
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	resolveSecrets(&cfg)

	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.Dataset.Dir, "EVAL_DATASET_DIR")
	overrideString(&cfg.Dataset.SamplesDir, "EVAL_SAMPLES_DIR")
	overrideString(&cfg.Dataset.MetadataFile, "EVAL_METADATA_FILE")
	overrideString(&cfg.Results.Dir, "EVAL_RESULTS_DIR")
	overrideString(&cfg.Transcription.Vendor, "EVAL_TRANSCRIPTION_VENDOR")
	overrideString(&cfg.Transcription.Endpoint, "EVAL_TRANSCRIPTION_ENDPOINT")
	overrideString(&cfg.Transcription.Model, "EVAL_TRANSCRIPTION_MODEL")
	overrideString(&cfg.Transcription.VADModel, "EVAL_TRANSCRIPTION_VAD_MODEL")
	overrideInt(&cfg.Transcription.TimeoutSeconds, "EVAL_TRANSCRIPTION_TIMEOUT_SECONDS")
	overrideInt(&cfg.Transcription.Retries, "EVAL_TRANSCRIPTION_RETRIES")
	overrideString(&cfg.Recorder.PreferredMic, "EVAL_PREFERRED_MICROPHONE")
	overrideBool(&cfg.ObjectStore.Enabled, "EVAL_MINIO_ENABLED")
	overrideString(&cfg.ObjectStore.Endpoint, "EVAL_MINIO_ENDPOINT")
	overrideString(&cfg.ObjectStore.Bucket, "EVAL_MINIO_BUCKET")
	overrideBool(&cfg.ObjectStore.UseSSL, "EVAL_MINIO_USE_SSL")
	overrideString(&cfg.Server.Bind, "EVAL_SERVER_BIND")
	overrideInt(&cfg.Server.Port, "EVAL_SERVER_PORT")
}

func resolveSecrets(cfg *Config) {
	if cfg.Transcription.APIKeyEnv != "" {
		cfg.Transcription.APIKey = os.Getenv(cfg.Transcription.APIKeyEnv)
	}
	cfg.ObjectStore.AccessKey = os.Getenv("EVAL_MINIO_ACCESS_KEY")
	cfg.ObjectStore.SecretKey = os.Getenv("EVAL_MINIO_SECRET_KEY")
	cfg.Server.AuthToken = os.Getenv("EVAL_SERVER_TOKEN")
}

func validate(cfg Config) error {
	switch cfg.Transcription.Vendor {
	case "fireworks", "deepgram", "mock":
	default:
		return fmt.Errorf("unknown transcription vendor: %q", cfg.Transcription.Vendor)
	}
	if cfg.Transcription.TimeoutSeconds <= 0 {
		return fmt.Errorf("transcription timeout_seconds must be positive, got %d", cfg.Transcription.TimeoutSeconds)
	}
	if cfg.Transcription.Retries < 0 {
		return fmt.Errorf("transcription retries must not be negative, got %d", cfg.Transcription.Retries)
	}
	if cfg.Recorder.SampleRate <= 0 || cfg.Recorder.Channels <= 0 {
		return fmt.Errorf("recorder sample_rate and channels must be positive")
	}
	if cfg.ObjectStore.Enabled {
		if cfg.ObjectStore.Endpoint == "" || cfg.ObjectStore.Bucket == "" {
			return fmt.Errorf("object_store.endpoint and object_store.bucket must be set when the object store is enabled")
		}
		if cfg.ObjectStore.AccessKey == "" || cfg.ObjectStore.SecretKey == "" {
			return fmt.Errorf("EVAL_MINIO_ACCESS_KEY and EVAL_MINIO_SECRET_KEY must be set when the object store is enabled")
		}
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server port out of range: %d", cfg.Server.Port)
	}
	return nil
}

// RequireAPIKey enforces the fatal-at-startup credential rule for vendors
// that call a remote API. The mock vendor needs no credential.
func (c TranscriptionConfig) RequireAPIKey() error {
	if c.Vendor == "mock" {
		return nil
	}
	if c.APIKey == "" {
		return fmt.Errorf("%s not found in environment", c.APIKeyEnv)
	}
	return nil
}

func overrideString(target *string, env string) {
	if v, ok := os.LookupEnv(env); ok && v != "" {
		*target = v
	}
}

func overrideInt(target *int, env string) {
	if v, ok := os.LookupEnv(env); ok && v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			*target = parsed
		}
	}
}

func overrideBool(target *bool, env string) {
	if v, ok := os.LookupEnv(env); ok && v != "" {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			*target = parsed
		}
	}
}
