package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/walleto/walleto/internal/app"
)

func main() {
	application, err := app.New(app.LoadConfig())
	if err != nil {
		slog.Error("startup failed", "error", err)
		os.Exit(1)
	}

	if err := application.Run(context.Background()); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}
