package main

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/slipstream/torbox"
	"github.com/slipstream/torbox/types"
)

func newUserCommand(ctx *commandContext) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Inspect the TorBox account",
	}
	userCmd.AddCommand(newUserMeCommand(ctx))
	return userCmd
}

func newUserMeCommand(ctx *commandContext) *cobra.Command {
	var settings bool
	cmd := &cobra.Command{
		Use:   "me",
		Short: "Show the authenticated user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *torbox.Client) error {
				resp, err := client.User.Me(cmd.Context(), settings)
				if err != nil {
					return err
				}
				return ctx.render(cmd, resp.Data, func() string { return userTable(resp.Data) })
			})
		},
	}
	cmd.Flags().BoolVar(&settings, "settings", false, "Include account settings")
	return cmd
}

func userTable(u types.User) string {
	rows := [][]string{
		{"ID", strconv.Itoa(u.ID)},
		{"Email", u.Email},
		{"Plan", strconv.Itoa(u.Plan)},
		{"Subscribed", yesNo(u.IsSubscribed)},
		{"Premium expires", formatTime(u.PremiumExpiresAt)},
		{"Downloaded", formatBytes(u.TotalBytesDownloaded)},
		{"Uploaded", formatBytes(u.TotalBytesUploaded)},
		{"Torrents", strconv.Itoa(u.TorrentsDownloaded)},
		{"Usenet", strconv.Itoa(u.UsenetDownloadsDownloaded)},
	}
	return renderTable([]string{"Field", "Value"}, rows, nil)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format(time.RFC3339)
}
