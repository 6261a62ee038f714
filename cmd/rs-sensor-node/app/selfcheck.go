package app

import (
	"fmt"
	"io"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
	genericapiserver "k8s.io/apiserver/pkg/server"

	"github.com/autopeer-io/roadsense/cmd/rs-sensor-node/app/options"
	"github.com/autopeer-io/roadsense/internal/node/peripheral"
	"github.com/autopeer-io/roadsense/pkg/log"
)

func newSelfCheckCommand(opts *options.SensorNodeOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "selfcheck",
		Short: "Set up and heartbeat every peripheral, then exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := genericapiserver.SetupSignalContext()

			log.Init(opts.Log)
			defer func() { _ = log.Sync() }()

			cfg, err := opts.Config()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			n, err := cfg.NewNode()
			if err != nil {
				return fmt.Errorf("failed to create sensor node: %w", err)
			}

			report, setupErr := n.SelfCheck(ctx)
			printReport(cmd.OutOrStdout(), report, setupErr)

			if setupErr != nil {
				return setupErr
			}
			for _, st := range report {
				if !st.Healthy {
					return fmt.Errorf("peripheral %s is unhealthy", st.Slot)
				}
			}
			return nil
		},
	}
}

func printReport(w io.Writer, report []peripheral.Status, setupErr error) {
	table := uitable.New()
	table.MaxColWidth = 60
	table.Wrap = true
	table.AddRow("SLOT", "STATUS", "ERROR")
	for _, st := range report {
		status := "healthy"
		if !st.Healthy {
			status = "unhealthy"
		}
		msg := "-"
		if st.Err != nil {
			msg = st.Err.Error()
		}
		table.AddRow(st.Slot.String(), status, msg)
	}
	fmt.Fprintln(w, table)

	if setupErr != nil {
		fmt.Fprintf(w, "\nsetup failed: %v\n", setupErr)
	}
}
