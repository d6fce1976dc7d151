package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/barbeariaprime/primeapp/pkg/common"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host   string `yaml:"host" json:"host"`
	Port   int    `yaml:"port" json:"port"`
	Secret string `yaml:"secret" json:"secret"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

// CacheConfig tunes the sync cache: where the durable snapshot file lives,
// how long a remote call may take before the local fallback path is used,
// and how often the background refresh re-loads collections.
type CacheConfig struct {
	Path            string `yaml:"path" json:"path"`
	RemoteTimeout   int    `yaml:"remote_timeout" json:"remote_timeout"`
	RefreshInterval string `yaml:"refresh_interval" json:"refresh_interval"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig   `yaml:"system" json:"system"`
	Web      WebConfig   `yaml:"web" json:"web"`
	Database DBConfig    `yaml:"database" json:"database"`
	Cache    CacheConfig `yaml:"cache" json:"cache"`
	Logger   LogConfig   `yaml:"logger" json:"logger"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "BarbeariaPrime",
		Location: "America/Bahia",
		Workdir:  "/var/primeapp",
		Debug:    true,
	},
	Web: WebConfig{
		Host:   "0.0.0.0",
		Port:   1816,
		Secret: "9b6de5cc-0731-1203-xxtx-0f568ac9da37",
	},
	Database: DBConfig{
		Type:     "sqlite",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "primeapp",
		User:     "postgres",
		Passwd:   "",
		MaxConn:  100,
		IdleConn: 10,
		Debug:    false,
	},
	Cache: CacheConfig{
		Path:            "",
		RemoteTimeout:   10,
		RefreshInterval: "@every 5m",
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/primeapp/primeapp.log",
	},
}

// LoadConfig reads the YAML config file if present and applies environment
// overrides. A missing file yields the defaults.
func LoadConfig(cfile string) *AppConfig {
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig
	if cfile != "" && common.FileExists(cfile) {
		if data, err := os.ReadFile(cfile); err == nil {
			_ = yaml.Unmarshal(data, cfg)
		}
	}
	setEnvValue("PRIMEAPP_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvBoolValue("PRIMEAPP_SYSTEM_DEBUG", &cfg.System.Debug)
	setEnvValue("PRIMEAPP_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("PRIMEAPP_WEB_PORT", &cfg.Web.Port)
	setEnvValue("PRIMEAPP_WEB_SECRET", &cfg.Web.Secret)
	setEnvValue("PRIMEAPP_DB_TYPE", &cfg.Database.Type)
	setEnvValue("PRIMEAPP_DB_HOST", &cfg.Database.Host)
	setEnvIntValue("PRIMEAPP_DB_PORT", &cfg.Database.Port)
	setEnvValue("PRIMEAPP_DB_NAME", &cfg.Database.Name)
	setEnvValue("PRIMEAPP_DB_USER", &cfg.Database.User)
	setEnvValue("PRIMEAPP_DB_PWD", &cfg.Database.Passwd)
	setEnvValue("PRIMEAPP_CACHE_PATH", &cfg.Cache.Path)
	setEnvIntValue("PRIMEAPP_CACHE_REMOTE_TIMEOUT", &cfg.Cache.RemoteTimeout)
	setEnvValue("PRIMEAPP_CACHE_REFRESH_INTERVAL", &cfg.Cache.RefreshInterval)
	setEnvValue("PRIMEAPP_LOGGER_MODE", &cfg.Logger.Mode)

	if cfg.Cache.Path == "" {
		cfg.Cache.Path = filepath.Join(cfg.System.Workdir, "primecache.db")
	}
	return cfg
}

func setEnvValue(name string, val *string) {
	evalue := os.Getenv(name)
	if evalue != "" {
		*val = evalue
	}
}

func setEnvBoolValue(name string, val *bool) {
	evalue := os.Getenv(name)
	if evalue != "" {
		*val = cast.ToBool(evalue)
	}
}

func setEnvIntValue(name string, val *int) {
	evalue := os.Getenv(name)
	if evalue == "" {
		return
	}
	*val = cast.ToInt(evalue)
}
