package main

import (
	"context"
	"flag"

	"go.uber.org/zap"

	"github.com/nastyazhadan/order-settlement/orderService/internal/application/order"
	"github.com/nastyazhadan/order-settlement/shared/config"
	zapLogger "github.com/nastyazhadan/order-settlement/shared/logger/zap"
)

func main() {
	envPath := flag.String("env", ".env", "path to an optional .env file")
	flag.Parse()

	cfg, err := config.Load(*envPath)
	if err != nil {
		_ = zapLogger.Init("info", true)
		zapLogger.Fatal(context.Background(), "failed to load config",
			zap.Error(err))
	}

	order.Run(context.Background(), *cfg)
}
