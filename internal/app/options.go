package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/foodhub-next/internal/config"
	"github.com/foodhub-next/internal/logger"

	"go.uber.org/zap"
)

// 运行模式
const (
	ModeAll    = "all"    // API + Worker + 自动完成扫描
	ModeAPI    = "api"    // 仅 HTTP
	ModeWorker = "worker" // 仅异步任务与扫描
)

const defaultShutdownTimeout = 10 * time.Second

// Options 应用启动选项
type Options struct {
	Config          *config.Config
	Logger          *zap.SugaredLogger
	Signals         []os.Signal
	ShutdownTimeout time.Duration
	Mode            string
}

// ParseMode 解析运行模式，空值视为 all
func ParseMode(raw string) (string, error) {
	mode := strings.ToLower(strings.TrimSpace(raw))
	switch mode {
	case "":
		return ModeAll, nil
	case ModeAll, ModeAPI, ModeWorker:
		return mode, nil
	}
	return "", fmt.Errorf("unknown mode: %s", raw)
}

func (o Options) runsHTTP() bool {
	return o.Mode == ModeAll || o.Mode == ModeAPI
}

func (o Options) runsWorker() bool {
	return o.Mode == ModeAll || o.Mode == ModeWorker
}

func normalizeOptions(opts Options) Options {
	if opts.Logger == nil {
		opts.Logger = logger.S()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}
	if opts.Mode == "" {
		opts.Mode = ModeAll
	}
	return opts
}
