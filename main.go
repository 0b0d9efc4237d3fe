package main

import (
	logger "github.com/Easy-Infra-Ltd/easy-logger"

	"github.com/mattstanbrell/amped/src/cli"
)

func main() {
	log := logger.CreateLoggerFromEnv(nil, "blue").With("process", "amped")
	cli.Execute(log)
}
