package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"text2phenotype.com/postag/app"
	"text2phenotype.com/postag/logger"
)

func main() {
	logger.SetupLogging()
	fdlLogger := logger.NewLogger("Main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.NewCodeCommand().ExecuteContext(ctx); err != nil {
		stop()
		fdlLogger.Fatal().Stack().Err(err).Msg("Code tagging failed")
	}
}
