package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/rebeliceyang/cotable/internal/models"
)

// Config holds all application configuration
type Config struct {
	UI          UIConfig          `mapstructure:"ui"`
	Data        DataConfig        `mapstructure:"data"`
	Search      SearchConfig      `mapstructure:"search"`
	Log         LogConfig         `mapstructure:"log"`
	Performance PerformanceConfig `mapstructure:"performance"`
	Columns     []ColumnConfig    `mapstructure:"columns"`
}

type UIConfig struct {
	Theme            string `mapstructure:"theme"`
	MouseEnabled     bool   `mapstructure:"mouse_enabled"`
	ShowFilters      bool   `mapstructure:"show_filters"`
	ShowPagination   bool   `mapstructure:"show_pagination"`
	ShowGlobalSearch bool   `mapstructure:"show_global_search"`
	FilterStyle      string `mapstructure:"filter_style"`
	ClassName        string `mapstructure:"class_name"`
	MaxColumnWidth   int    `mapstructure:"max_column_width"`
	StringsFile      string `mapstructure:"strings_file"`
}

type DataConfig struct {
	Source          string `mapstructure:"source"`
	Locale          string `mapstructure:"locale"`
	PageSize        int    `mapstructure:"page_size"`
	PageSizeOptions []int  `mapstructure:"page_size_options"`
	ExportDir       string `mapstructure:"export_dir"`
}

type SearchConfig struct {
	DebounceMs int `mapstructure:"debounce_ms"`
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type PerformanceConfig struct {
	LoadTimeoutMs int `mapstructure:"load_timeout_ms"`
	MaxRows       int `mapstructure:"max_rows"`
}

// ColumnConfig declares a column in the config file
type ColumnConfig struct {
	Accessor      string `mapstructure:"accessor"`
	Header        string `mapstructure:"header"`
	Filter        string `mapstructure:"filter"`
	Width         int    `mapstructure:"width"`
	DisableSort   bool   `mapstructure:"disable_sort"`
	DisableFilter bool   `mapstructure:"disable_filter"`
}

// Filter styles
const (
	FilterStyleInline  = "inline"
	FilterStylePopover = "popover"
)

// GetDefaults returns a Config with all default values
func GetDefaults() *Config {
	return &Config{
		UI: UIConfig{
			Theme:            "default",
			MouseEnabled:     true,
			ShowFilters:      true,
			ShowPagination:   true,
			ShowGlobalSearch: true,
			FilterStyle:      FilterStyleInline,
			ClassName:        "",
			MaxColumnWidth:   40,
		},
		Data: DataConfig{
			Source:          "",
			Locale:          "tr",
			PageSize:        models.DefaultPageSize,
			PageSizeOptions: append([]int(nil), models.DefaultPageSizeOptions...),
			ExportDir:       ".",
		},
		Search: SearchConfig{
			DebounceMs: 300,
		},
		Log: LogConfig{
			File:       "",
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Performance: PerformanceConfig{
			LoadTimeoutMs: 30000,
			MaxRows:       100000,
		},
	}
}

// flagKeys maps command line flags to config keys
var flagKeys = map[string]string{
	"source":       "data.source",
	"theme":        "ui.theme",
	"locale":       "data.locale",
	"page-size":    "data.page_size",
	"filter-style": "ui.filter_style",
	"log-file":     "log.file",
	"log-level":    "log.level",
}

func setDefaults(v *viper.Viper) {
	d := GetDefaults()
	v.SetDefault("ui.theme", d.UI.Theme)
	v.SetDefault("ui.mouse_enabled", d.UI.MouseEnabled)
	v.SetDefault("ui.show_filters", d.UI.ShowFilters)
	v.SetDefault("ui.show_pagination", d.UI.ShowPagination)
	v.SetDefault("ui.show_global_search", d.UI.ShowGlobalSearch)
	v.SetDefault("ui.filter_style", d.UI.FilterStyle)
	v.SetDefault("ui.class_name", d.UI.ClassName)
	v.SetDefault("ui.max_column_width", d.UI.MaxColumnWidth)
	v.SetDefault("ui.strings_file", d.UI.StringsFile)
	v.SetDefault("data.source", d.Data.Source)
	v.SetDefault("data.locale", d.Data.Locale)
	v.SetDefault("data.page_size", d.Data.PageSize)
	v.SetDefault("data.page_size_options", d.Data.PageSizeOptions)
	v.SetDefault("data.export_dir", d.Data.ExportDir)
	v.SetDefault("search.debounce_ms", d.Search.DebounceMs)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age_days", d.Log.MaxAgeDays)
	v.SetDefault("performance.load_timeout_ms", d.Performance.LoadTimeoutMs)
	v.SetDefault("performance.max_rows", d.Performance.MaxRows)
}

// Load loads configuration from files. An explicit configFile must exist;
// otherwise config.yaml is searched in the user config directory, the
// current directory and ./config. Flags that were set override the file.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		if configDir, err := GetConfigPath(); err == nil {
			v.AddConfigPath(configDir)
		}
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("COTABLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		// unset flags must not shadow the file with their zero defaults
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("error binding flag %s: %w", name, err)
				}
			}
		}
		if f := flags.Lookup("no-mouse"); f != nil && f.Changed {
			v.Set("ui.mouse_enabled", false)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail later
func (c *Config) Validate() error {
	if c.Data.PageSize <= 0 {
		return fmt.Errorf("invalid page size %d: must be positive", c.Data.PageSize)
	}
	for _, size := range c.Data.PageSizeOptions {
		if size <= 0 {
			return fmt.Errorf("invalid page size option %d: must be positive", size)
		}
	}
	switch c.UI.FilterStyle {
	case FilterStyleInline, FilterStylePopover:
	default:
		return fmt.Errorf("invalid filter style %q: must be %s or %s", c.UI.FilterStyle, FilterStyleInline, FilterStylePopover)
	}
	for i, col := range c.Columns {
		if col.Accessor == "" {
			return fmt.Errorf("column %d: accessor is required", i)
		}
		if col.Filter != "" && !models.FilterKind(col.Filter).Valid() {
			return fmt.Errorf("column %s: unknown filter kind %q", col.Accessor, col.Filter)
		}
	}
	return nil
}

// ColumnDescriptors converts configured columns into column descriptors
func (c *Config) ColumnDescriptors() []models.Column {
	cols := make([]models.Column, 0, len(c.Columns))
	for _, cc := range c.Columns {
		cols = append(cols, models.Column{
			Accessor:      cc.Accessor,
			Header:        cc.Header,
			Filter:        models.FilterKind(cc.Filter),
			Width:         cc.Width,
			DisableSort:   cc.DisableSort,
			DisableFilter: cc.DisableFilter,
		})
	}
	return cols
}

// GetConfigPath returns the user config directory path
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "cotable"), nil
}
