package config

import (
	"fmt"
	"net"
	appErrors "shutdownassistant/internal/pkg/errors"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Keys of the process settings. With AutomaticEnv each key is also read from
// the upper-cased environment variable (HOST, PORT, API_KEY, ...).
const (
	KeyHost       = "host"
	KeyPort       = "port"
	KeyAPIKey     = "api_key"
	KeyDBPath     = "assistant_db_path"
	KeyConfigFile = "assistant_config_file"
	// KeyAllowedOrigins is a comma-separated list of browser origins.
	KeyAllowedOrigins = "allowed_origins"
)

// Settings are the process-level options of the assistant. Flags win over
// the environment, which wins over the defaults.
type Settings struct {
	Host       string
	Port       int
	APIKey     string
	DBPath     string
	ConfigFile string
	// AllowedOrigins are granted CORS access to the API. Empty by default.
	AllowedOrigins []string
}

// NewViper returns a viper instance with the defaults and environment
// lookup configured.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyHost, "127.0.0.1")
	v.SetDefault(KeyPort, 8080)
	v.AutomaticEnv()
	return v
}

// BindFlags binds the named flags of fs to their settings keys. Flags that
// do not exist in fs are skipped.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet, keysByFlag map[string]string) error {
	for flag, key := range keysByFlag {
		f := fs.Lookup(flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("%w: bind flag %s: %v", appErrors.ErrConfig, flag, err)
		}
	}
	return nil
}

// LoadSettings reads Settings from v. An empty config file path is filled
// with the per-user default for appName. DBPath may stay empty.
func LoadSettings(v *viper.Viper, appName string) (*Settings, error) {
	portStr := v.GetString(KeyPort)
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return nil, fmt.Errorf("%w: invalid port %q", appErrors.ErrConfig, portStr)
	}

	s := &Settings{
		Host:       v.GetString(KeyHost),
		Port:       port,
		APIKey:     v.GetString(KeyAPIKey),
		DBPath:     v.GetString(KeyDBPath),
		ConfigFile: v.GetString(KeyConfigFile),
	}
	for _, o := range strings.Split(v.GetString(KeyAllowedOrigins), ",") {
		if o = strings.TrimSpace(o); o != "" {
			s.AllowedOrigins = append(s.AllowedOrigins, o)
		}
	}
	if s.ConfigFile == "" {
		if s.ConfigFile, err = DefaultPath(appName); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Addr is the HTTP listen address.
func (s *Settings) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
