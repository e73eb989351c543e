package main

import (
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/slipstream/torbox"
	"github.com/slipstream/torbox/types"
	"github.com/slipstream/torbox/usenet"
)

func newUsenetCommand(ctx *commandContext) *cobra.Command {
	usenetCmd := &cobra.Command{
		Use:   "usenet",
		Short: "Manage usenet downloads",
	}

	usenetCmd.AddCommand(newUsenetListCommand(ctx))
	usenetCmd.AddCommand(newUsenetInfoCommand(ctx))
	usenetCmd.AddCommand(newUsenetAddCommand(ctx))
	usenetCmd.AddCommand(newUsenetLinkCommand(ctx))
	usenetCmd.AddCommand(newUsenetControlCommand(ctx))
	usenetCmd.AddCommand(newUsenetCachedCommand(ctx))
	usenetCmd.AddCommand(newUsenetDownloadCommand(ctx))

	return usenetCmd
}

func newUsenetListCommand(ctx *commandContext) *cobra.Command {
	var skipCache bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List usenet downloads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *torbox.Client) error {
				list, err := client.Usenet.List(cmd.Context(), skipCache)
				if err != nil {
					return err
				}
				return ctx.render(cmd, list, func() string { return usenetTable(list) })
			})
		},
	}
	cmd.Flags().BoolVar(&skipCache, "skip-cache", false, "Bypass the server-side list cache")
	return cmd
}

func newUsenetInfoCommand(ctx *commandContext) *cobra.Command {
	var skipCache bool
	cmd := &cobra.Command{
		Use:   "info <id|hash>",
		Short: "Show a usenet download by numeric ID or hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *torbox.Client) error {
				var info *types.UsenetInfo
				var err error
				if id, convErr := strconv.Atoi(args[0]); convErr == nil {
					info, err = client.Usenet.InfoByID(cmd.Context(), id, skipCache)
				} else {
					info, err = client.Usenet.InfoByHash(cmd.Context(), args[0], skipCache)
				}
				if err != nil {
					return err
				}
				return ctx.render(cmd, info, func() string {
					rows := [][]string{
						{"ID", strconv.Itoa(info.ID)},
						{"Name", info.Name},
						{"Hash", info.Hash},
						{"State", info.DownloadState},
						{"Progress", formatProgress(info.Progress)},
						{"Size", formatBytes(info.Size)},
						{"Finished", yesNo(info.DownloadFinished)},
						{"Files", strconv.Itoa(len(info.Files))},
					}
					return renderTable([]string{"Field", "Value"}, rows, nil)
				})
			})
		},
	}
	cmd.Flags().BoolVar(&skipCache, "skip-cache", false, "Bypass the server-side list cache")
	return cmd
}

func addUsenetFlags(cmd *cobra.Command, opts *usenet.AddOptions) {
	cmd.Flags().IntVar(&opts.PostProcessing, "post-processing", opts.PostProcessing, "Post-processing level (-1 uses the account default)")
	cmd.Flags().StringVar(&opts.Name, "name", opts.Name, "Name for the download")
	cmd.Flags().StringVar(&opts.Password, "password", opts.Password, "Archive password")
}

func newUsenetAddCommand(ctx *commandContext) *cobra.Command {
	opts := usenet.DefaultAddOptions()
	cmd := &cobra.Command{
		Use:   "add <file.nzb>",
		Short: "Upload an NZB file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read nzb file: %w", err)
			}
			return ctx.withClient(func(client *torbox.Client) error {
				resp, err := client.Usenet.AddFile(cmd.Context(), data, opts)
				if err != nil {
					return err
				}
				return ctx.render(cmd, resp, func() string { return usenetAddTable(resp) })
			})
		},
	}
	addUsenetFlags(cmd, &opts)
	return cmd
}

func newUsenetLinkCommand(ctx *commandContext) *cobra.Command {
	opts := usenet.DefaultAddOptions()
	cmd := &cobra.Command{
		Use:   "link <nzb-url>",
		Short: "Add a usenet download from an NZB link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *torbox.Client) error {
				resp, err := client.Usenet.AddLink(cmd.Context(), args[0], opts)
				if err != nil {
					return err
				}
				return ctx.render(cmd, resp, func() string { return usenetAddTable(resp) })
			})
		},
	}
	addUsenetFlags(cmd, &opts)
	return cmd
}

func newUsenetControlCommand(ctx *commandContext) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "control [hash] <delete|resume|pause>",
		Short: "Apply an operation to a usenet download, or to all with --all",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var hash, op string
			switch {
			case all && len(args) == 1:
				op = args[0]
			case !all && len(args) == 2:
				hash, op = args[0], args[1]
			default:
				return fmt.Errorf("expected <hash> <operation>, or --all <operation>")
			}
			if err := validateOperation(op, usenet.OperationDelete, usenet.OperationResume, usenet.OperationPause); err != nil {
				return err
			}
			return ctx.withClient(func(client *torbox.Client) error {
				resp, err := client.Usenet.Control(cmd.Context(), hash, op, all)
				if err != nil {
					return err
				}
				return ctx.render(cmd, controlResult(resp), func() string {
					target := hash
					if all {
						target = "all downloads"
					}
					return messageOr(resp.Detail, fmt.Sprintf("Usenet %s: %s requested", target, op)) + "\n"
				})
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Apply to every usenet download")
	return cmd
}

func newUsenetCachedCommand(ctx *commandContext) *cobra.Command {
	var listFiles bool
	cmd := &cobra.Command{
		Use:   "cached <hash>",
		Short: "Check whether a usenet download is cached",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *torbox.Client) error {
				resp, err := client.Usenet.Availability(cmd.Context(), args[0], listFiles)
				if err != nil {
					return err
				}
				return ctx.render(cmd, resp.Data, func() string {
					if len(resp.Data) == 0 {
						return "Not cached\n"
					}
					rows := make([][]string, 0, len(resp.Data))
					for _, u := range resp.Data {
						rows = append(rows, []string{u.Hash, u.Name, formatBytes(u.Size)})
					}
					return renderTable([]string{"Hash", "Name", "Size"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight})
				})
			})
		},
	}
	cmd.Flags().BoolVar(&listFiles, "files", false, "Include the file list")
	return cmd
}

func newUsenetDownloadCommand(ctx *commandContext) *cobra.Command {
	var fileID int
	var zip bool
	var save string
	var quiet bool
	cmd := &cobra.Command{
		Use:   "download <usenet-id>",
		Short: "Request a download link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid usenet id %q", args[0])
			}
			var file *int
			if cmd.Flags().Changed("file") {
				file = &fileID
			}
			return ctx.withClient(func(client *torbox.Client) error {
				resp, err := client.Usenet.RequestDownload(cmd.Context(), id, file, zip)
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
	cmd.Flags().BoolVar(&zip, "zip", false, "Request a zip of the whole download")
	return cmd
}

func usenetTable(list []types.UsenetInfo) string {
	if len(list) == 0 {
		return "No usenet downloads\n"
	}
	rows := make([][]string, 0, len(list))
	for _, u := range list {
		rows = append(rows, []string{
			strconv.Itoa(u.ID),
			u.Name,
			u.DownloadState,
			formatProgress(u.Progress),
			formatBytes(u.Size),
			yesNo(u.Cached),
		})
	}
	return renderTable(
		[]string{"ID", "Name", "State", "Progress", "Size", "Cached"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	)
}

func usenetAddTable(resp *types.Response[types.UsenetAddResult]) string {
	if resp.Data.UsenetDownloadID == 0 && resp.Data.Hash == "" {
		return messageOr(resp.Detail, "NZB submitted") + "\n"
	}
	return renderTable(
		[]string{"Usenet ID", "Hash", "Detail"},
		[][]string{{strconv.Itoa(resp.Data.UsenetDownloadID), resp.Data.Hash, resp.Detail}},
		[]columnAlignment{alignRight},
	)
}
