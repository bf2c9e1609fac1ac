package main

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/goccy/go-json"
	"github.com/google/wire"
	"github.com/rs/zerolog/log"

	"github.com/weegigs/wee-indicator-go/sinks/ds"
	"github.com/weegigs/wee-indicator-go/support"
	"github.com/weegigs/wee-indicator-go/wi"
)

type GatewayHandler = func(ctx context.Context, event events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error)

type StatusLoader interface {
	Load(ctx context.Context) (wi.State, error)
}

// Loaders builds a status reader for the source named in the request path.
type Loaders = func(source string) StatusLoader

func statusLoaders(client *dynamodb.Client, table ds.StatusTableName) Loaders {
	return func(source string) StatusLoader {
		return ds.NewStatusSink(client, table, ds.StatusKey("indicator#"+source))
	}
}

func createHandler(loaders Loaders) GatewayHandler {
	return func(ctx context.Context, event events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		source := event.PathParameters["source"]
		if source == "" {
			return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusBadRequest}, nil
		}

		state, err := loaders(source).Load(ctx)
		if err != nil {
			log.Error().Err(err).Str("source", source).Msg("failed to load indicator status")
			return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusInternalServerError}, nil
		}

		if !state.Initialized() {
			return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusNotFound}, nil
		}

		body, err := json.MarshalContext(ctx, state)
		if err != nil {
			return events.APIGatewayV2HTTPResponse{}, err
		}

		return events.APIGatewayV2HTTPResponse{
			StatusCode: http.StatusOK,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       string(body),
		}, nil
	}
}

func StatusTable(cfg *support.Config) ds.StatusTableName {
	return ds.StatusTableName(cfg.TableName)
}

var Live = wire.NewSet(createHandler, statusLoaders, StatusTable, support.AWSConfig, ds.Client)
