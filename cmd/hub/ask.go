package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/kapu/affiliate-hub-go/internal/chat"
	"github.com/kapu/affiliate-hub-go/internal/command"
	"github.com/kapu/affiliate-hub-go/internal/domain"
)

func newAskCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the AI concierge for a recommendation",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := rt.container
			c.LoadCatalog(cmd.Context())

			session := chat.NewSession(c.Recommender, rt.logger)
			return rt.dispatch(cmd, session, command.CommandEvent{
				Type:   domain.CommandAsk,
				Params: map[string]any{"text": strings.Join(args, " ")},
			})
		},
	}
}
