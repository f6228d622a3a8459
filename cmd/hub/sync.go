package main

import (
	"github.com/spf13/cobra"
)

func newSyncCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Sync the catalog from Notion once",
		Long: `Loads the stored catalog, then runs one sync. Without Notion credentials
the bundled dataset is re-stamped instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := rt.container
			c.LoadCatalog(cmd.Context())

			res := c.Sync.Sync(cmd.Context())
			if err := rt.print(cmd, res, func() string { return c.Formatter.FormatSyncResult(res) }); err != nil {
				return err
			}
			return res.Err
		},
	}
}
