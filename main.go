package main

import (
	"fmt"
	"os"
	"strings"

	"fjacquet/swift-mt/cmd/batch"
	"fjacquet/swift-mt/cmd/convert"
	"fjacquet/swift-mt/cmd/parse"
	"fjacquet/swift-mt/cmd/root"
	"fjacquet/swift-mt/cmd/serve"
	"fjacquet/swift-mt/cmd/validate"
	"fjacquet/swift-mt/internal/config"
	"fjacquet/swift-mt/internal/logging"

	"github.com/sirupsen/logrus"
)

func init() {
	// 1. Load .env before anything reads the environment
	config.LoadEnv(nil)

	// 2. Force the level on every logger created so far and from now on
	logging.SetAllLogLevels(configureLogLevelDirectly().String())

	// 3. Flags, then subcommands
	root.Init()
	root.Cmd.AddCommand(parse.Cmd)
	root.Cmd.AddCommand(validate.Cmd)
	root.Cmd.AddCommand(convert.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(serve.Cmd)
}

// configureLogLevelDirectly sets the global logrus level from SWIFTMT_LOG_LEVEL
// and returns it
func configureLogLevelDirectly() logrus.Level {
	logLevel, err := logrus.ParseLevel(strings.ToLower(config.GetEnv("SWIFTMT_LOG_LEVEL", "info")))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	return logLevel
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
