package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("coinshop command encountered an error")
		os.Exit(1)
	}
}
