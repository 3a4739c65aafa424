// Package config provides application-wide configuration.
// Precedence: built-in defaults, then the optional mercury.yml file, then
// environment variables. Credentials are env-only and never read from YAML.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration for the Mercury server.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Audio  AudioConfig  `yaml:"audio"`
	Agent  AgentConfig  `yaml:"agent"`
	Auth   AuthConfig   `yaml:"auth"`

	// Families maps a backend family name to its per-family flags.
	Families map[string]FamilyConfig `yaml:"families"`

	// Credentials, environment-only.
	NVIDIAAPIKey string `yaml:"-"` // NVIDIA_API_KEY
	OpenAIAPIKey string `yaml:"-"` // OPENAI_API_KEY
}

// ServerConfig configures the HTTP server and local storage paths.
type ServerConfig struct {
	Host       string `yaml:"host"`        // default "0.0.0.0"
	Port       int    `yaml:"port"`        // PORT — default 5000
	PublicDir  string `yaml:"public_dir"`  // static front-end, default "public"
	UploadsDir string `yaml:"uploads_dir"` // default "uploads"
	DBPath     string `yaml:"db_path"`     // MERCURY_DB — default "mercury.db"
}

// AudioConfig configures the capture, transcription, and synthesis tools.
type AudioConfig struct {
	CaptureCommand string `yaml:"capture_command"` // default "sox"
	CaptureFile    string `yaml:"capture_file"`    // default "/tmp/mercury_recording.wav"
	SampleRateHz   int    `yaml:"sample_rate_hz"`  // default 16000
	SettleDelayMS  int    `yaml:"settle_delay_ms"` // wait for the file flush after kill, default 1000

	ASRCommand    string `yaml:"asr_command"`     // default "python"
	ASRScript     string `yaml:"asr_script"`      // riva transcribe_file.py path
	ASRServer     string `yaml:"asr_server"`      // default "grpc.nvcf.nvidia.com:443"
	ASRFunctionID string `yaml:"asr_function_id"` // riva NVCF function id
	LanguageCode  string `yaml:"language_code"`   // default "en-US"

	TTSCommand      string `yaml:"tts_command"`        // default "python3"
	TTSScript       string `yaml:"tts_script"`         // riva talk.py path
	TTSServer       string `yaml:"tts_server"`         // default "0.0.0.0:50051"
	TTSVoice        string `yaml:"tts_voice"`          // default voice when the request omits one
	TTSSampleRateHz int    `yaml:"tts_sample_rate_hz"` // default 22050

	ConcatCommand string `yaml:"concat_command"` // default "sox"
}

// AgentConfig configures the external mercury-agent CLI.
type AgentConfig struct {
	Command    string `yaml:"command"`     // default "aiq"
	ConfigFile string `yaml:"config_file"` // YAML workflow config passed to the agent
}

// AuthConfig configures the optional operator login. Auth is enabled only when
// both the signing secret and the password hash are present.
type AuthConfig struct {
	JWTSecret    string `yaml:"-"`             // JWT_SECRET
	PasswordHash string `yaml:"password_hash"` // MERCURY_PASSWORD_HASH overrides
	TokenTTLHrs  int    `yaml:"token_ttl_hours"`
}

// FamilyConfig holds per-backend-family flags.
type FamilyConfig struct {
	// MarkdownHint attaches the shared markdown-formatting system instruction
	// to requests for this family.
	MarkdownHint bool `yaml:"markdown_hint"`
}

const (
	envNVIDIAKey    = "NVIDIA_API_KEY"
	envOpenAIKey    = "OPENAI_API_KEY"
	envPort         = "PORT"
	envJWTSecret    = "JWT_SECRET"
	envPasswordHash = "MERCURY_PASSWORD_HASH"
	envDBPath       = "MERCURY_DB"
)

// DefaultConfigPath is where Load looks when no explicit path is given.
const DefaultConfigPath = "mercury.yml"

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Host:       "0.0.0.0",
			Port:       5000,
			PublicDir:  "public",
			UploadsDir: "uploads",
			DBPath:     "mercury.db",
		},
		Audio: AudioConfig{
			CaptureCommand: "sox",
			CaptureFile:    "/tmp/mercury_recording.wav",
			SampleRateHz:   16000,
			SettleDelayMS:  1000,
			ASRCommand:     "python",
			ASRScript:      "riva_client/scripts/asr/transcribe_file.py",
			ASRServer:      "grpc.nvcf.nvidia.com:443",
			ASRFunctionID:  "e6fa172c-79bf-4b9c-bb37-14fe17b4226c",
			LanguageCode:   "en-US",
			TTSCommand:     "python3",
			TTSScript:      "riva_client/scripts/tts/talk.py",
			TTSServer:      "0.0.0.0:50051",
			TTSVoice:       "Magpie-Multilingual.ES-US.Diego.Happy",
			TTSSampleRateHz: 22050,
			ConcatCommand:  "sox",
		},
		Agent: AgentConfig{
			Command:    "aiq",
			ConfigFile: "mercury_agent/configs/config.yml",
		},
		Auth: AuthConfig{
			TokenTTLHrs: 24,
		},
		Families: map[string]FamilyConfig{},
	}
}

// Load reads configuration from path (or DefaultConfigPath when path is
// empty), then applies environment overrides. A missing default file is fine;
// a missing explicit file is an error.
func Load(path string) (Config, error) {
	cfg := Defaults()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if unmarshalErr := yaml.Unmarshal(data, &cfg); unmarshalErr != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, unmarshalErr)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file — defaults + env are enough.
	default:
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.NVIDIAAPIKey = os.Getenv(envNVIDIAKey)
	cfg.OpenAIAPIKey = os.Getenv(envOpenAIKey)
	cfg.Auth.JWTSecret = os.Getenv(envJWTSecret)

	if v := os.Getenv(envPasswordHash); v != "" {
		cfg.Auth.PasswordHash = v
	}
	if v := os.Getenv(envDBPath); v != "" {
		cfg.Server.DBPath = v
	}
	if v := os.Getenv(envPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			cfg.Server.Port = port
		}
	}
}

// AuthEnabled reports whether operator login and the bearer-token gate on
// /api routes should be active.
func (c Config) AuthEnabled() bool {
	return c.Auth.JWTSecret != "" && c.Auth.PasswordHash != ""
}

// Family returns the flags for the named family, zero-valued when unset.
func (c Config) Family(name string) FamilyConfig {
	return c.Families[name]
}
