package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomob/gemroll/internal/config"
	"github.com/tomob/gemroll/internal/gemini"
	"github.com/tomob/gemroll/internal/logger"
	"github.com/tomob/gemroll/internal/pipeline"
	"github.com/tomob/gemroll/internal/roll"
)

const longHelp = `gemroll 读取 Gemini capsule 订阅列表，依次抓取每个 capsule 的
首页，提取带日期的条目，聚合后写成 gemtext 文档。

订阅列表每行一个 capsule：
  => gemini://a.gemini.capsule "订阅描述" 可选的日期格式

日期格式是 strptime 风格，默认 %Y-%m-%d。`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gemroll", "config.yaml")
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		byDate     bool
		byFeed     bool
		byDay      bool
		header     string
		footer     string
		num        int
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:          "gemroll <订阅列表> <输出文件>",
		Short:        "聚合 Gemini capsule 订阅，生成 gemlog roll",
		Long:         longHelp,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			logLevel := cfg.Log.Level
			if verbose {
				logLevel = "debug"
			}
			if err := logger.Init(logger.Config{
				Level:      logLevel,
				File:       cfg.Log.File,
				MaxSize:    cfg.Log.MaxSize,
				MaxBackups: cfg.Log.MaxBackups,
				MaxAge:     cfg.Log.MaxAge,
			}); err != nil {
				return err
			}
			defer logger.Sync()

			// 配置文件提供默认值，命令行参数优先
			opts := roll.Options{
				Mode:   roll.ByDate,
				Limit:  cfg.Roll.Items,
				Header: cfg.Roll.Header,
				Footer: cfg.Roll.Footer,
			}
			switch {
			case byFeed:
				opts.Mode = roll.ByFeed
			case byDay:
				opts.Mode = roll.ByDay
			}
			if cmd.Flags().Changed("num") {
				opts.Limit = num
			}
			if cmd.Flags().Changed("header") {
				opts.Header = header
			}
			if cmd.Flags().Changed("footer") {
				opts.Footer = footer
			}

			in, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("打开订阅列表失败: %w", err)
			}
			defer in.Close()

			out, err := os.Create(args[1])
			if err != nil {
				return fmt.Errorf("创建输出文件失败: %w", err)
			}

			client := gemini.NewClient(
				time.Duration(cfg.Fetch.TimeoutSeconds)*time.Second,
				cfg.Fetch.MaxRedirects,
			)
			if err := pipeline.Run(cmd.Context(), client, in, out, opts); err != nil {
				out.Close()
				return err
			}
			return out.Close()
		},
	}

	cmd.Flags().StringVar(&configPath, "config", defaultConfigPath(), "配置文件路径")
	cmd.Flags().BoolVarP(&byDate, "by-date", "d", false, "所有条目按日期倒序平铺")
	cmd.Flags().BoolVarP(&byFeed, "by-feed", "f", false, "按订阅源分组")
	cmd.Flags().BoolVarP(&byDay, "by-day", "g", false, "按日历日分组")
	cmd.Flags().StringVarP(&header, "header", "H", "", "输出文件页眉，支持 \\n 转义")
	cmd.Flags().StringVarP(&footer, "footer", "F", "", "输出文件页脚")
	cmd.Flags().IntVarP(&num, "num", "n", 5, "每个订阅源保留的条目数")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "输出每个被跳过的行和订阅源")
	cmd.MarkFlagsMutuallyExclusive("by-date", "by-feed", "by-day")
	cmd.MarkFlagsOneRequired("by-date", "by-feed", "by-day")

	return cmd
}
