// Package config 读取 folio.toml 配置文件。
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// DefaultFile 是命令行在未指定 --config 时尝试读取的文件名。
const DefaultFile = "folio.toml"

// Config 对应配置文件的全部段落。
type Config struct {
	Render RenderConfig `toml:"render"`
	Debug  DebugConfig  `toml:"debug"`
	Log    LogConfig    `toml:"log"`
	Data   DataConfig   `toml:"data"`
}

type RenderConfig struct {
	Out        string  `toml:"out"`
	BaseDir    string  `toml:"base_dir"`
	Compress   bool    `toml:"compress"`
	PointScale float64 `toml:"point_scale"`
}

type DebugConfig struct {
	// LayoutJSON 非空时输出布局几何快照。
	LayoutJSON string `toml:"layout_json"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type DataConfig struct {
	File string `toml:"file"`
}

// Default 返回未读取任何文件时的配置。
func Default() Config {
	return Config{
		Render: RenderConfig{
			Out:        "output/document.pdf",
			Compress:   true,
			PointScale: 1,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load 在默认配置之上解码 path，文件中未出现的字段保持默认值。
// 未识别的键视为错误，避免拼写错误被静默忽略。
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("配置文件 %s 含未知的配置项：%s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("配置文件 %s: %w", path, err)
	}
	return cfg, nil
}

// Validate 检查取值范围。
func (c Config) Validate() error {
	if c.Render.PointScale < 0 {
		return fmt.Errorf("render.point_scale 不能为负数：%g", c.Render.PointScale)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel 解析日志级别，空字符串视为 info。
func (c Config) LogLevel() (log.Level, error) {
	if strings.TrimSpace(c.Log.Level) == "" {
		return log.InfoLevel, nil
	}
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("log.level 无效：%w", err)
	}
	return level, nil
}
