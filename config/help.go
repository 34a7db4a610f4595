package config

import (
	"flag"
	"fmt"
)

const HelpMessage = `
Auth service.

Usage:
  auth [flags]

Flags:
  -config-path string   path to a yaml file with environment variables
  -help                 show this message

Configuration is read from the environment. The most relevant variables:

  SERVER_PORT             HTTP listen port (default 3000)
  MONGO_HOST, MONGO_PORT  user store location
  REDIS_HOST, REDIS_PORT  session store location
  RABBITMQ_ENABLED        publish auth events to RabbitMQ (default false)
  AUTH_ACCESS_SECRET      HMAC secret for access tokens
  AUTH_REFRESH_SECRET     HMAC secret for refresh tokens
  LOG_LEVEL               DEBUG, INFO, WARN or ERROR (default INFO)
`

func PrintHelp() {
	if HelpMessage != "" {
		fmt.Printf("%s", HelpMessage)
	} else {
		flag.Usage()
	}
}
