package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/SenaryLabs/identity-binding/cmd/env"
	"github.com/SenaryLabs/identity-binding/cmd/probe"
	"github.com/SenaryLabs/identity-binding/cmd/server"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("Failed to load .env file")
	}

	rootCmd := &cobra.Command{
		Use:   "identity-binding",
		Short: "Identity binding core service",
		Long:  "Assembles Cardano/KERI binding proofs and drains IPEX exchange notifications.",
	}

	rootCmd.AddCommand(
		server.New(),
		env.New(),
		probe.New(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("Failed to execute command")
	}
}
