package main

import (
	"github.com/spf13/cobra"

	"github.com/kapu/affiliate-hub-go/internal/command"
	"github.com/kapu/affiliate-hub-go/internal/domain"
)

func newQueryCmd(rt *runtime) *cobra.Command {
	var search, category, minRating string

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Filter the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt.container.LoadCatalog(cmd.Context())
			return rt.dispatch(cmd, nil, command.CommandEvent{
				Type: domain.CommandQuery,
				Params: map[string]any{
					"search":    search,
					"category":  category,
					"minRating": minRating,
				},
			})
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive text in name or description")
	cmd.Flags().StringVarP(&category, "category", "c", domain.CategoryAll, "category, All or Favorites")
	cmd.Flags().StringVarP(&minRating, "min-rating", "r", "", "minimum rating, 0 to 5")
	return cmd
}

func newStatsCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show category and pricing breakdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt.container.LoadCatalog(cmd.Context())
			return rt.dispatch(cmd, nil, command.CommandEvent{Type: domain.CommandStats})
		},
	}
}

func newFavoriteCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "favorite <id>",
		Short: "Toggle a tool in the favorites list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt.container.LoadCatalog(cmd.Context())
			return rt.dispatch(cmd, nil, command.CommandEvent{
				Type:   domain.CommandFavorite,
				Params: map[string]any{"id": args[0]},
			})
		},
	}
}
