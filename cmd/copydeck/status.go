package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/copydeck/internal/platform"
	"github.com/aretw0/copydeck/internal/topology"
	"github.com/aretw0/copydeck/pkg/core"
)

var statusMermaid bool

type statusReport struct {
	ConfigPath string `json:"config_path"`
	DataDir    string `json:"data_dir"`
	Service    any    `json:"service"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the resolved configuration and store state as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveDataDir()
		if err != nil {
			return err
		}
		svc, err := openService(cmd)
		if err != nil {
			return err
		}

		if statusMermaid {
			state, _ := svc.State().(core.ServiceState)
			fmt.Fprintln(cmd.OutOrStdout(), topology.Mermaid(state))
			return nil
		}

		path := configPath
		if path == "" {
			path = platform.DefaultConfigPath()
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(statusReport{
			ConfigPath: path,
			DataDir:    dir,
			Service:    svc.State(),
		})
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusMermaid, "mermaid", false, "Print the store topology as a Mermaid diagram")
	rootCmd.AddCommand(statusCmd)
}
