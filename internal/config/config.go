package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/genricoloni/nowplaying/internal/domain"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	envPrefix  = "NOWPLAYING"
	configName = "config"
	appDirName = "nowplaying"

	defaultBackend         = "auto"
	defaultIdentity        = "Now Playing"
	defaultLookupTimeoutMs = 5000
	defaultMaxArtSize      = 512
	defaultSinkBuffer      = 16
)

// settings mirrors the configuration file
type settings struct {
	Backend  string `mapstructure:"backend"`
	Enabled  bool   `mapstructure:"enabled"`
	AppID    string `mapstructure:"app_id"`
	Identity string `mapstructure:"identity"`
	BusName  string `mapstructure:"bus_name"`
	Artwork  struct {
		LookupTimeoutMs int    `mapstructure:"lookup_timeout_ms"`
		CacheRemote     bool   `mapstructure:"cache_remote"`
		CacheDir        string `mapstructure:"cache_dir"`
		MaxSizePx       int    `mapstructure:"max_size_px"`
	} `mapstructure:"artwork"`
	Sink struct {
		Buffer int `mapstructure:"buffer"`
	} `mapstructure:"sink"`
	Capabilities struct {
		Play        bool `mapstructure:"play"`
		Pause       bool `mapstructure:"pause"`
		Next        bool `mapstructure:"next"`
		Previous    bool `mapstructure:"previous"`
		FastForward bool `mapstructure:"fast_forward"`
		Rewind      bool `mapstructure:"rewind"`
		Stop        bool `mapstructure:"stop"`
	} `mapstructure:"capabilities"`
}

func (s settings) capabilities() domain.CapabilityConfig {
	return domain.CapabilityConfig{
		PlayEnabled:        s.Capabilities.Play,
		PauseEnabled:       s.Capabilities.Pause,
		NextEnabled:        s.Capabilities.Next,
		PreviousEnabled:    s.Capabilities.Previous,
		FastForwardEnabled: s.Capabilities.FastForward,
		RewindEnabled:      s.Capabilities.Rewind,
		StopEnabled:        s.Capabilities.Stop,
	}
}

func (s settings) validate() error {
	if s.Artwork.LookupTimeoutMs < 0 {
		return fmt.Errorf("artwork.lookup_timeout_ms must not be negative, got %d", s.Artwork.LookupTimeoutMs)
	}
	if s.Artwork.MaxSizePx <= 0 {
		return fmt.Errorf("artwork.max_size_px must be positive, got %d", s.Artwork.MaxSizePx)
	}
	if s.Sink.Buffer < 0 {
		return fmt.Errorf("sink.buffer must not be negative, got %d", s.Sink.Buffer)
	}
	return nil
}

// AppConfig holds application configuration.
// Only the capability section is reloaded when the file changes; every
// other setting is fixed for the lifetime of the process.
type AppConfig struct {
	logger *zap.Logger
	v      *viper.Viper

	mu      sync.RWMutex
	current settings
	changes chan domain.CapabilityConfig
}

// NewAppConfig reads configuration from defaults, the optional file at
// $XDG_CONFIG_HOME/nowplaying/config.yaml and NOWPLAYING_* environment
// variables, in increasing order of precedence
func NewAppConfig(logger *zap.Logger) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	if dir := configDir(); dir != "" {
		v.AddConfigPath(dir)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		fileFound = false
	}

	s, err := decode(v)
	if err != nil {
		return nil, err
	}

	c := &AppConfig{
		logger:  logger,
		v:       v,
		current: s,
		changes: make(chan domain.CapabilityConfig, 1),
	}

	if fileFound {
		v.OnConfigChange(c.reload)
		v.WatchConfig()
	}

	logger.Info("Configuration loaded",
		zap.String("file", v.ConfigFileUsed()),
		zap.String("backend", s.Backend),
		zap.Bool("enabled", s.Enabled),
		zap.String("identity", s.Identity),
		zap.Int("lookupTimeoutMs", s.Artwork.LookupTimeoutMs),
		zap.Bool("cacheRemoteArt", s.Artwork.CacheRemote),
		zap.Int("sinkBuffer", s.Sink.Buffer))

	return c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend", defaultBackend)
	v.SetDefault("enabled", true)
	v.SetDefault("app_id", "")
	v.SetDefault("identity", defaultIdentity)
	v.SetDefault("bus_name", "")
	v.SetDefault("artwork.lookup_timeout_ms", defaultLookupTimeoutMs)
	v.SetDefault("artwork.cache_remote", false)
	v.SetDefault("artwork.cache_dir", defaultCacheDir())
	v.SetDefault("artwork.max_size_px", defaultMaxArtSize)
	v.SetDefault("sink.buffer", defaultSinkBuffer)
	v.SetDefault("capabilities.play", true)
	v.SetDefault("capabilities.pause", true)
	v.SetDefault("capabilities.next", true)
	v.SetDefault("capabilities.previous", true)
	v.SetDefault("capabilities.fast_forward", false)
	v.SetDefault("capabilities.rewind", false)
	v.SetDefault("capabilities.stop", true)
}

func decode(v *viper.Viper) (settings, error) {
	var s settings
	if err := v.Unmarshal(&s); err != nil {
		return settings{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := s.validate(); err != nil {
		return settings{}, fmt.Errorf("invalid config: %w", err)
	}
	s.Artwork.CacheDir = expandPath(s.Artwork.CacheDir)
	return s, nil
}

// reload picks up new capability flags after the file changed.
// A file that no longer parses keeps the previous settings.
func (c *AppConfig) reload(e fsnotify.Event) {
	s, err := decode(c.v)
	if err != nil {
		c.logger.Warn("Ignoring invalid config change", zap.String("file", e.Name), zap.Error(err))
		return
	}

	c.mu.Lock()
	changed := s.Capabilities != c.current.Capabilities
	c.current.Capabilities = s.Capabilities
	c.mu.Unlock()

	if !changed {
		return
	}
	c.logger.Info("Capabilities reloaded", zap.String("file", e.Name))

	// Keep only the newest value for a slow consumer
	caps := s.capabilities()
	select {
	case c.changes <- caps:
	default:
		select {
		case <-c.changes:
		default:
		}
		select {
		case c.changes <- caps:
		default:
		}
	}
}

// CapabilityChanges delivers capability flags whenever the config file changes them
func (c *AppConfig) CapabilityChanges() <-chan domain.CapabilityConfig {
	return c.changes
}

func (c *AppConfig) get() settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// GetBackend returns the native backend selection
func (c *AppConfig) GetBackend() string {
	return c.get().Backend
}

// GetEnabled reports whether the session starts visible
func (c *AppConfig) GetEnabled() bool {
	return c.get().Enabled
}

// GetAppID returns the application media id
func (c *AppConfig) GetAppID() string {
	return c.get().AppID
}

// GetIdentity returns the player name shown by the OS
func (c *AppConfig) GetIdentity() string {
	return c.get().Identity
}

// GetBusName returns the D-Bus name suffix
func (c *AppConfig) GetBusName() string {
	return c.get().BusName
}

// GetLookupTimeout bounds local artwork lookups
func (c *AppConfig) GetLookupTimeout() time.Duration {
	return time.Duration(c.get().Artwork.LookupTimeoutMs) * time.Millisecond
}

// GetCacheRemoteArt reports whether remote artwork is cached locally
func (c *AppConfig) GetCacheRemoteArt() bool {
	return c.get().Artwork.CacheRemote
}

// GetCacheDir returns the artwork cache directory
func (c *AppConfig) GetCacheDir() string {
	return c.get().Artwork.CacheDir
}

// GetMaxArtSize returns the longest edge of cached artwork
func (c *AppConfig) GetMaxArtSize() int {
	return c.get().Artwork.MaxSizePx
}

// GetSinkBuffer returns the event channel buffer size
func (c *AppConfig) GetSinkBuffer() int {
	return c.get().Sink.Buffer
}

// GetCapabilities returns the current capability flags
func (c *AppConfig) GetCapabilities() domain.CapabilityConfig {
	return c.get().capabilities()
}

// configDir follows the XDG standard, falling back to ~/.config
func configDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, appDirName)
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appDirName, "artwork")
	}
	return filepath.Join(dir, appDirName, "artwork")
}

// expandPath expands environment variables and a leading ~
func expandPath(path string) string {
	path = os.ExpandEnv(path)
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[1:])
		}
	}
	return path
}
