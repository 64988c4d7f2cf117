// Package core holds the commands every deployment carries.
package core

import (
	"context"

	"github.com/keshon/remindme/pkg/cmd"
)

// Ping replies "Pong!" so members can check the bot is alive.
func Ping() *cmd.Command {
	return cmd.MustNew(cmd.Options{
		Aliases:     []string{"ping"},
		Description: "Check that the bot is alive",
		Run: func(ctx context.Context, msg cmd.Message, _ string) error {
			return msg.Reply(ctx, cmd.Text("Pong!"))
		},
	})
}
