package main

import (
	"context"
	"os"

	"github.com/dalemusser/bloodbank/internal/app/bootstrap"
	"github.com/dalemusser/waffle/logging"
)

func main() {
	boot := logging.BootstrapLogger()
	code := bootstrap.Run(context.Background(), bootstrap.Hooks, boot)
	_ = boot.Sync()
	os.Exit(code)
}
