package env

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/SenaryLabs/identity-binding/internal/config"
)

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Prints the resolved server configuration",
		Run: func(_ *cobra.Command, _ []string) {
			printEnv()
		},
	}
}

func printEnv() {
	cfg := config.DefaultServerConfigFromEnv()

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal server config")
	}

	fmt.Println(string(data))
}
