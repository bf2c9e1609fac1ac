//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/weegigs/wee-indicator-go/support"
)

func live(ctx context.Context, cfg *support.Config) (*Application, func(), error) {
	panic(wire.Build(Live))
}

func local(ctx context.Context, cfg *support.Config) (*Application, func(), error) {
	panic(wire.Build(Local))
}

func memory(cfg *support.Config) *Application {
	panic(wire.Build(Memory))
}
