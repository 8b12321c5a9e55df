// Package probe implements the readiness and liveness subcommands used as
// container health probes against the management endpoints.
package probe

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/SenaryLabs/identity-binding/internal/config"
	"github.com/SenaryLabs/identity-binding/internal/util"
	"github.com/SenaryLabs/identity-binding/internal/util/command"
)

const probeTimeout = 5 * time.Second

func New() *cobra.Command {
	return command.NewSubcommandGroup("probe",
		newReadiness(),
		newLiveness(),
	)
}

func newReadiness() *cobra.Command {
	return &cobra.Command{
		Use:   "readiness",
		Short: "Checks the readiness management endpoint",
		Run: func(_ *cobra.Command, _ []string) {
			runProbe("/-/ready")
		},
	}
}

func newLiveness() *cobra.Command {
	return &cobra.Command{
		Use:   "liveness",
		Short: "Checks the healthy management endpoint",
		Run: func(_ *cobra.Command, _ []string) {
			runProbe("/-/healthy")
		},
	}
}

func runProbe(path string) {
	cfg := config.DefaultServerConfigFromEnv()

	probeURL := util.GetEnv("SERVER_PROBE_BASE_URL", "http://localhost"+cfg.Echo.ListenAddress) + path
	if cfg.Management.Secret != "" {
		probeURL += "?mgmt-secret=" + url.QueryEscape(cfg.Management.Secret)
	}

	client := &http.Client{Timeout: probeTimeout}
	resp, err := client.Get(probeURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Print(string(body))

	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}
