package main

import (
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/slipstream/torbox"
	"github.com/slipstream/torbox/torrents"
	"github.com/slipstream/torbox/types"
)

func newTorrentsCommand(ctx *commandContext) *cobra.Command {
	torrentsCmd := &cobra.Command{
		Use:   "torrents",
		Short: "Manage torrents",
	}

	torrentsCmd.AddCommand(newTorrentsListCommand(ctx))
	torrentsCmd.AddCommand(newTorrentsQueuedCommand(ctx))
	torrentsCmd.AddCommand(newTorrentsInfoCommand(ctx))
	torrentsCmd.AddCommand(newTorrentsAddCommand(ctx))
	torrentsCmd.AddCommand(newTorrentsMagnetCommand(ctx))
	torrentsCmd.AddCommand(newTorrentsControlCommand(ctx))
	torrentsCmd.AddCommand(newTorrentsCachedCommand(ctx))
	torrentsCmd.AddCommand(newTorrentsDownloadCommand(ctx))

	return torrentsCmd
}

func newTorrentsListCommand(ctx *commandContext) *cobra.Command {
	var skipCache bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List torrents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *torbox.Client) error {
				list, err := client.Torrents.List(cmd.Context(), skipCache)
				if err != nil {
					return err
				}
				return ctx.render(cmd, list, func() string { return torrentTable(list) })
			})
		},
	}
	cmd.Flags().BoolVar(&skipCache, "skip-cache", false, "Bypass the server-side list cache")
	return cmd
}

func newTorrentsQueuedCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "queued",
		Short: "List queued torrents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *torbox.Client) error {
				list, err := client.Torrents.Queued(cmd.Context())
				if err != nil {
					return err
				}
				return ctx.render(cmd, list, func() string { return torrentTable(list) })
			})
		},
	}
}

func newTorrentsInfoCommand(ctx *commandContext) *cobra.Command {
	var skipCache bool
	cmd := &cobra.Command{
		Use:   "info <id|hash>",
		Short: "Show a torrent by numeric ID or hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *torbox.Client) error {
				var info *types.TorrentInfo
				var err error
				if id, convErr := strconv.Atoi(args[0]); convErr == nil {
					info, err = client.Torrents.InfoByID(cmd.Context(), id, skipCache)
				} else {
					info, err = client.Torrents.InfoByHash(cmd.Context(), args[0], skipCache)
				}
				if err != nil {
					return err
				}
				return ctx.render(cmd, info, func() string { return torrentDetail(info) })
			})
		},
	}
	cmd.Flags().BoolVar(&skipCache, "skip-cache", false, "Bypass the server-side list cache")
	return cmd
}

func addTorrentFlags(cmd *cobra.Command, opts *torrents.AddOptions) {
	cmd.Flags().IntVar(&opts.Seeding, "seeding", opts.Seeding, "Seeding preference (1 auto, 2 seed, 3 don't seed)")
	cmd.Flags().BoolVar(&opts.AllowZip, "allow-zip", opts.AllowZip, "Allow the download to be zipped")
	cmd.Flags().StringVar(&opts.Name, "name", opts.Name, "Name for the torrent")
}

func newTorrentsAddCommand(ctx *commandContext) *cobra.Command {
	opts := torrents.DefaultAddOptions()
	cmd := &cobra.Command{
		Use:   "add <file.torrent>",
		Short: "Upload a .torrent file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read torrent file: %w", err)
			}
			return ctx.withClient(func(client *torbox.Client) error {
				resp, err := client.Torrents.AddFile(cmd.Context(), data, opts)
				if err != nil {
					return err
				}
				return ctx.render(cmd, resp, func() string { return torrentAddTable(resp) })
			})
		},
	}
	addTorrentFlags(cmd, &opts)
	return cmd
}

func newTorrentsMagnetCommand(ctx *commandContext) *cobra.Command {
	opts := torrents.DefaultAddOptions()
	cmd := &cobra.Command{
		Use:   "magnet <uri>",
		Short: "Add a torrent from a magnet link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *torbox.Client) error {
				resp, err := client.Torrents.AddMagnet(cmd.Context(), args[0], opts)
				if err != nil {
					return err
				}
				return ctx.render(cmd, resp, func() string { return torrentAddTable(resp) })
			})
		},
	}
	addTorrentFlags(cmd, &opts)
	return cmd
}

func newTorrentsControlCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "control <hash> <reannounce|delete|resume|pause>",
		Short: "Apply an operation to a torrent",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOperation(args[1], torrents.OperationReannounce, torrents.OperationDelete, torrents.OperationResume, torrents.OperationPause); err != nil {
				return err
			}
			return ctx.withClient(func(client *torbox.Client) error {
				resp, err := client.Torrents.Control(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				return ctx.render(cmd, controlResult(resp), func() string {
					return messageOr(resp.Detail, fmt.Sprintf("Torrent %s: %s requested", args[0], args[1])) + "\n"
				})
			})
		},
	}
}

func newTorrentsCachedCommand(ctx *commandContext) *cobra.Command {
	var listFiles bool
	cmd := &cobra.Command{
		Use:   "cached <hash>",
		Short: "Check whether a torrent is cached",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *torbox.Client) error {
				resp, err := client.Torrents.Availability(cmd.Context(), args[0], listFiles)
				if err != nil {
					return err
				}
				return ctx.render(cmd, resp.Data, func() string {
					if len(resp.Data) == 0 {
						return "Not cached\n"
					}
					rows := make([][]string, 0, len(resp.Data))
					for _, t := range resp.Data {
						rows = append(rows, []string{t.Hash, t.Name, formatBytes(t.Size), strconv.Itoa(len(t.Files))})
					}
					return renderTable([]string{"Hash", "Name", "Size", "Files"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight, alignRight})
				})
			})
		},
	}
	cmd.Flags().BoolVar(&listFiles, "files", false, "Include the file list")
	return cmd
}

func newTorrentsDownloadCommand(ctx *commandContext) *cobra.Command {
	var fileID int
	var zip bool
	var save string
	var quiet bool
	cmd := &cobra.Command{
		Use:   "download <torrent-id>",
		Short: "Request a download link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid torrent id %q", args[0])
			}
			var file *int
			if cmd.Flags().Changed("file") {
				file = &fileID
			}
			return ctx.withClient(func(client *torbox.Client) error {
				resp, err := client.Torrents.RequestDownload(cmd.Context(), id, file, zip)
				if err != nil {
					return err
				}
				if save == "" {
					return ctx.render(cmd, resp, func() string { return resp.Data + "\n" })
				}
				target, n, err := fetchLink(cmd.Context(), http.DefaultClient, resp.Data, save, progressWriter(cmd, quiet))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %s to %s\n", formatBytes(n), target)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&fileID, "file", 0, "Single file ID")
	cmd.Flags().StringVar(&save, "save", "", "Download the file to this path or directory instead of printing the link")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Hide the progress bar")
	cmd.Flags().BoolVar(&zip, "zip", false, "Request a zip of the whole torrent")
	return cmd
}

func torrentTable(list []types.TorrentInfo) string {
	if len(list) == 0 {
		return "No torrents\n"
	}
	rows := make([][]string, 0, len(list))
	for _, t := range list {
		rows = append(rows, []string{
			strconv.Itoa(t.ID),
			t.Name,
			t.DownloadState,
			formatProgress(t.Progress),
			formatBytes(t.Size),
			yesNo(t.Cached),
		})
	}
	return renderTable(
		[]string{"ID", "Name", "State", "Progress", "Size", "Cached"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	)
}

func torrentDetail(t *types.TorrentInfo) string {
	rows := [][]string{
		{"ID", strconv.Itoa(t.ID)},
		{"Name", t.Name},
		{"Hash", t.Hash},
		{"State", t.DownloadState},
		{"Progress", formatProgress(t.Progress)},
		{"Size", formatBytes(t.Size)},
		{"Seeds/Peers", fmt.Sprintf("%d/%d", t.Seeds, t.Peers)},
		{"Finished", yesNo(t.DownloadFinished)},
		{"Files", strconv.Itoa(len(t.Files))},
	}
	return renderTable([]string{"Field", "Value"}, rows, nil)
}

func torrentAddTable(resp *types.Response[types.TorrentAddResult]) string {
	if resp.Data.TorrentID == 0 && resp.Data.Hash == "" {
		return messageOr(resp.Detail, "Torrent submitted") + "\n"
	}
	return renderTable(
		[]string{"Torrent ID", "Hash", "Detail"},
		[][]string{{strconv.Itoa(resp.Data.TorrentID), resp.Data.Hash, resp.Detail}},
		[]columnAlignment{alignRight},
	)
}
