package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ByLCY/folio/binding"
	"github.com/ByLCY/folio/compose"
	"github.com/ByLCY/folio/config"
	"github.com/ByLCY/folio/dsl"
	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/renderer"
	canvasrenderer "github.com/ByLCY/folio/renderer/canvas"
)

type renderFlags struct {
	input      string
	output     string
	data       string
	configPath string
	debug      string
}

func newRenderCmd(state *cliState) *cobra.Command {
	var flags renderFlags
	cmd := &cobra.Command{
		Use:   "render [file.folio]",
		Short: "解析 DSL、计算布局并输出 PDF",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				flags.input = args[0]
			}
			if flags.input == "" {
				return fmt.Errorf("缺少 DSL 文件，请通过参数或 --in 指定")
			}
			cfg, err := loadConfig(flags.configPath, flags.input)
			if err != nil {
				return err
			}
			applyFlags(cmd, flags, &cfg)

			level, err := cfg.LogLevel()
			if err != nil {
				return err
			}
			logger := state.newLogger(level)
			return runRender(cmd.Context(), flags.input, cfg, logger)
		},
	}
	cmd.Flags().StringVar(&flags.input, "in", "", "DSL 文件路径")
	cmd.Flags().StringVarP(&flags.output, "out", "o", "", "PDF 输出路径")
	cmd.Flags().StringVar(&flags.data, "data", "", "绑定到 DSL 的数据文件（.json 或 .toml）")
	cmd.Flags().StringVar(&flags.configPath, "config", "", "配置文件路径，默认读取 DSL 同目录下的 "+config.DefaultFile)
	cmd.Flags().StringVar(&flags.debug, "debug", "", "布局调试 JSON 输出路径")
	return cmd
}

// loadConfig 读取显式指定的配置文件；未指定时尝试 DSL 同目录下的 folio.toml。
func loadConfig(path, input string) (config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	candidate := filepath.Join(filepath.Dir(input), config.DefaultFile)
	if _, err := os.Stat(candidate); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config.Default(), nil
		}
		return config.Config{}, err
	}
	return config.Load(candidate)
}

// applyFlags 用显式传入的命令行参数覆盖配置文件。
func applyFlags(cmd *cobra.Command, flags renderFlags, cfg *config.Config) {
	if cmd.Flags().Changed("out") {
		cfg.Render.Out = flags.output
	}
	if cmd.Flags().Changed("data") {
		cfg.Data.File = flags.data
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug.LayoutJSON = flags.debug
	}
	if cfg.Render.BaseDir == "" {
		cfg.Render.BaseDir = filepath.Dir(flags.input)
	}
}

// runRender 串联解析、转换、布局与渲染。
func runRender(ctx context.Context, inputPath string, cfg config.Config, logger *log.Logger) error {
	start := time.Now()
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("无法打开 DSL 文件 %s: %w", inputPath, err)
	}
	defer file.Close()

	ast, err := dsl.Parse(file)
	if err != nil {
		return fmt.Errorf("解析 DSL 失败: %w", err)
	}

	var data any
	if cfg.Data.File != "" {
		if data, err = binding.LoadFile(cfg.Data.File); err != nil {
			return err
		}
	}

	doc, err := compose.Build(ast, compose.Options{Data: data, Logger: logger})
	if err != nil {
		return fmt.Errorf("转换 DSL 失败: %w", err)
	}

	lopts := layout.DefaultOptions()
	lopts.PointScaleFactor = cfg.Render.PointScale
	lopts.Logger = logger
	lopts.Debug = cfg.Debug.LayoutJSON != ""

	var r renderer.Renderer = canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
		BaseDir:  cfg.Render.BaseDir,
		Compress: cfg.Render.Compress,
		Logger:   logger,
		Layout:   lopts,
	})
	pdfBytes, err := r.Render(ctx, doc)
	if err != nil {
		return fmt.Errorf("渲染 PDF 失败: %w", err)
	}

	if err := writeFile(cfg.Render.Out, pdfBytes); err != nil {
		return err
	}
	if cfg.Debug.LayoutJSON != "" {
		if err := writeDebug(doc, cfg.Debug.LayoutJSON); err != nil {
			return err
		}
	}
	logger.Info("已生成 PDF", "out", cfg.Render.Out, "pages", len(doc.Pages()), "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	return nil
}

func writeDebug(doc *layout.Document, debugPath string) error {
	snap, err := doc.Snapshot()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(snap, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
