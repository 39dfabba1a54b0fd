package bootstrap

import (
	"io"
	"os"
	"strings"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"

	"github.com/PicardRaphael/todo-api-go/pkg/config"
	log "github.com/PicardRaphael/todo-api-go/pkg/logger"
)

// hostHook stamps every entry with the host (container) name.
type hostHook struct {
	host string
}

func (h *hostHook) Levels() []log.Level {
	return log.AllLevels
}

func (h *hostHook) Fire(entry *log.Entry) error {
	entry.Data["host"] = h.host
	return nil
}

func detectHost() string {
	if hostname, err := os.Hostname(); err == nil && hostname != "" {
		return hostname
	}
	if data, err := os.ReadFile("/etc/hostname"); err == nil {
		if hostname := strings.TrimSpace(string(data)); hostname != "" {
			return hostname
		}
	}
	return "unknown"
}

// InitLogger configures the shared logger: format, level, caller
// reporting and, when enabled, rotated file output next to stdout.
func InitLogger(cfg config.LogConfig, serviceName string) error {
	switch cfg.Format {
	case "text":
		log.SetFormatter(&log.TextFormatter{})
	default:
		log.SetFormatter(&log.JSONFormatter{})
	}

	if lvl, err := log.ParseLevel(cfg.Level); err == nil {
		log.SetLevel(lvl)
	} else {
		log.SetLevel(log.InfoLevel)
		log.Warnf("invalid log level %q, fallback to info", cfg.Level)
	}

	log.SetReportCaller(cfg.ReportCaller)
	log.AddHook(&hostHook{host: detectHost()})

	if cfg.File.Enabled {
		if err := setupFileOutput(cfg.File, serviceName); err != nil {
			return err
		}
	}
	return nil
}

func setupFileOutput(cfg config.LogFileConfig, serviceName string) error {
	base := cfg.Path
	if base == "" {
		base = "./logs/" + serviceName
	}
	if dir := dirOf(base); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	writer, err := rotatelogs.New(
		base+".%Y%m%d.log",
		rotatelogs.WithLinkName(base+".log"),
		rotatelogs.WithMaxAge(time.Duration(cfg.MaxAgeDays)*24*time.Hour),
		rotatelogs.WithRotationTime(time.Duration(cfg.RotateHours)*time.Hour),
	)
	if err != nil {
		return err
	}

	log.SetOutput(io.MultiWriter(os.Stdout, writer))
	return nil
}

func dirOf(path string) string {
	if i := strings.LastIndex(path, "/"); i > 0 {
		return path[:i]
	}
	return ""
}
