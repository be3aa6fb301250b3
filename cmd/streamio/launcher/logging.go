package launcher

import (
	"fmt"

	"github.com/evalphobia/logrus_sentry"
	"github.com/sirupsen/logrus"
)

// setupLogging configures the standard logrus logger. Logs go to stderr so
// they never mix with pipeline output on stdout.
func setupLogging(logger *logrus.Logger, cfg LoggingConfig) error {
	switch cfg.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			ForceColors:   cfg.Color,
			DisableColors: !cfg.Color,
			FullTimestamp: true,
		})
	}
	logger.SetLevel(verbosityLevel(cfg.Verbosity))

	if cfg.SentryDSN != "" {
		hook, err := logrus_sentry.NewSentryHook(cfg.SentryDSN, []logrus.Level{
			logrus.PanicLevel,
			logrus.FatalLevel,
			logrus.ErrorLevel,
		})
		if err != nil {
			return fmt.Errorf("sentry hook: %w", err)
		}
		hook.StacktraceConfiguration.Enable = true
		logger.AddHook(hook)
	}
	return nil
}

// verbosityLevel maps 0=fatal .. 5=trace onto logrus levels, clamping outliers.
func verbosityLevel(v int) logrus.Level {
	if v < 0 {
		v = 0
	}
	if v > 5 {
		v = 5
	}
	return logrus.Level(v + 1)
}
