package main

import (
	"fmt"
	"os"

	"fjacquet/cashflow/cmd/analyze"
	"fjacquet/cashflow/cmd/forecast"
	"fjacquet/cashflow/cmd/recurring"
	"fjacquet/cashflow/cmd/root"
	"fjacquet/cashflow/cmd/rules"
	"fjacquet/cashflow/cmd/safespend"
	"fjacquet/cashflow/cmd/subscriptions"
	"fjacquet/cashflow/internal/config"
	"fjacquet/cashflow/internal/logging"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func init() {
	// Load .env silently before any logger exists
	loadEnvSilently()

	// Set the process-wide level before the first log line
	logging.SetAllLogLevels(logLevelFromEnv())

	root.Init()

	root.Cmd.AddCommand(recurring.Cmd)
	root.Cmd.AddCommand(subscriptions.Cmd)
	root.Cmd.AddCommand(forecast.Cmd)
	root.Cmd.AddCommand(safespend.Cmd)
	root.Cmd.AddCommand(analyze.Cmd)
	root.Cmd.AddCommand(rules.Cmd)
}

// loadEnvSilently loads .env from the current or parent directory without logging
func loadEnvSilently() {
	for _, envFile := range []string{".env", "../.env"} {
		if _, err := os.Stat(envFile); err == nil {
			_ = godotenv.Load(envFile)
			return
		}
	}
}

// logLevelFromEnv reads LOG_LEVEL, falling back to info
func logLevelFromEnv() logrus.Level {
	level, err := logrus.ParseLevel(config.GetEnv("LOG_LEVEL", "info"))
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
