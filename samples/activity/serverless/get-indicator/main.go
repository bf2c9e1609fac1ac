package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/weegigs/wee-indicator-go/support"
)

func main() {
	cfg, err := support.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	handler, err := live(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure handler")
	}

	lambda.Start(handler)
}
