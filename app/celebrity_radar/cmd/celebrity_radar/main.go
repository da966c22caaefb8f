package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/config"
	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/engine"
	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/logger"
	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/model"
	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/radar"
	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/sentiment"
	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/storage"
	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/validator"
)

var (
	confPath   = flag.String("conf", "configs/config.yaml", "配置文件路径")
	seedPath   = flag.String("seed", "", "名人名单 JSON，默认使用配置中的 pipeline.seed_file")
	limit      = flag.Int("limit", -1, "最多处理的名人数，-1 表示使用配置")
	workers    = flag.Int("workers", 0, "并行 worker 数，0 表示使用配置或自动估算")
	sequential = flag.Bool("sequential", false, "顺序处理")
	validate   = flag.Bool("validate", false, "只校验名单并写回通过的名人")
	recent     = flag.Int("recent", 0, "打印最近 N 条记录后退出")
	schedule   = flag.String("schedule", "", "cron 表达式，设置后按计划持续运行")
)

func main() {
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.LoadConfig(*confPath)
	if err != nil {
		log.Fatalf("无法加载配置文件: %v", err)
	}

	// 2. 初始化日志
	if err = logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		log.Fatalf("无法初始化日志: %v", err)
	}
	logger.Log.Info("启动名人雷达...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *seedPath == "" {
		*seedPath = cfg.Pipeline.SeedFile
	}

	// 校验模式不需要数据库
	if *validate {
		r, err := radar.New(ctx, cfg, nil)
		if err != nil {
			logger.Log.Fatalf("初始化失败: %v", err)
		}
		if err := runValidate(ctx, r.Validator, *seedPath); err != nil {
			logger.Log.Fatalf("校验失败: %v", err)
		}
		return
	}

	// 3. 初始化数据库连接池，所有 worker 共享
	store, err := storage.NewStorage(cfg.DB)
	if err != nil {
		logger.Log.Fatalf("无法连接数据库: %v", err)
	}
	defer store.Close()
	logger.Log.Info("已成功连接到数据库")

	r, err := radar.New(ctx, cfg, store)
	if err != nil {
		logger.Log.Fatalf("初始化失败: %v", err)
	}

	if *recent > 0 {
		printRecent(os.Stdout, r.Pipeline.GetRecent(ctx, *recent))
		return
	}

	entities, err := validator.LoadSeedList(*seedPath)
	if err != nil {
		logger.Log.Fatalf("无法加载名人名单: %v", err)
	}
	logger.Log.Infof("已加载 %d 位名人", len(entities))

	opts := batchOptions(cfg.Pipeline)

	spec := *schedule
	if spec == "" {
		spec = cfg.Pipeline.Schedule
	}
	if spec == "" {
		if err := runBatch(ctx, r.Engine, entities, opts); err != nil {
			logger.Log.Fatalf("批处理失败: %v", err)
		}
		return
	}

	if err := runScheduled(ctx, spec, func() {
		if err := runBatch(ctx, r.Engine, entities, opts); err != nil {
			logger.Log.Errorf("批处理失败: %v", err)
		}
	}); err != nil {
		logger.Log.Fatalf("定时任务启动失败: %v", err)
	}
}

// batchOptions 配置默认值，命令行参数优先
func batchOptions(p config.PipelineConfig) engine.BatchOptions {
	opts := radar.Options(p)
	if *limit >= 0 {
		opts.Limit = *limit
	}
	if *workers > 0 {
		opts.MaxWorkers = *workers
	}
	if *sequential {
		opts.Sequential = true
	}
	return opts
}

func runBatch(ctx context.Context, e *engine.Engine, entities []model.Entity, opts engine.BatchOptions) error {
	summary, err := e.ProcessBatch(ctx, entities, opts)
	if err != nil {
		return err
	}
	printSummary(os.Stdout, summary)
	return nil
}

// runScheduled 按 cron 表达式运行，直到收到退出信号。上一次未结束时跳过本次
func runScheduled(ctx context.Context, spec string, job func()) error {
	cronLogger := cron.PrintfLogger(logger.Log)
	c := cron.New(
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger), cron.Recover(cronLogger)),
	)
	if _, err := c.AddFunc(spec, job); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}

	c.Start()
	logger.Log.Infof("定时任务已启动: %s", spec)

	<-ctx.Done()
	logger.Log.Info("收到退出信号，等待当前任务结束...")
	<-c.Stop().Done()
	return nil
}

func runValidate(ctx context.Context, v *validator.Validator, path string) error {
	entities, err := validator.LoadSeedList(path)
	if err != nil {
		return err
	}

	validated := v.ValidateBatch(ctx, entities)
	for _, r := range validated {
		fmt.Printf("  - %s: %d mentions\n", r.Name, r.MentionCount)
	}

	passed := make([]model.Entity, 0, len(validated))
	for _, r := range validated {
		passed = append(passed, model.Entity{Name: r.Name})
	}
	return validator.SaveSeedList(path, passed)
}

func printSummary(w io.Writer, s *model.BatchSummary) {
	fmt.Fprintln(w, "Results:")
	fmt.Fprintf(w, "  Total attempted: %d\n", s.TotalAttempted)
	fmt.Fprintf(w, "  Successful: %d\n", s.Successful)
	fmt.Fprintf(w, "  Failed: %d\n", s.Failed)
	fmt.Fprintf(w, "  Success rate: %.1f%%\n", s.SuccessRate)

	if s.Successful > 0 {
		fmt.Fprintln(w, "\n✓ Successfully processed celebrities:")
		for _, p := range s.Processed {
			fmt.Fprintf(w, "  - %s: %.2f (%s)\n", p.Name, p.Sentiment, sentiment.Classify(p.Sentiment))
		}
	}
	if s.Failed > 0 {
		fmt.Fprintln(w, "\n✗ Failed celebrities:")
		for _, name := range s.FailedNames {
			fmt.Fprintf(w, "  - %s\n", name)
		}
	}
}

func printRecent(w io.Writer, records []model.RecentRecord) {
	for _, r := range records {
		fmt.Fprintf(w, "[%s] %s %.2f %s\n", r.CreatedAt.Format("2006-01-02 15:04"), r.Name, r.Sentiment, r.TextPreview)
	}
}
