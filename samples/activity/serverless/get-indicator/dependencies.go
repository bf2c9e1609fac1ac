//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/weegigs/wee-indicator-go/support"
)

func live(ctx context.Context, cfg *support.Config) (GatewayHandler, error) {
	panic(wire.Build(Live))
}
