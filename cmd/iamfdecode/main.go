package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"

	"github.com/iamfgo/iamf/internal/cli"
)

var version = "dev"

const helpBanner = "" +
	"                                                                   \n" +
	"██╗ █████╗ ███╗   ███╗███████╗██████╗ ███████╗ ██████╗ ██████╗ ███████╗\n" +
	"██║██╔══██╗████╗ ████║██╔════╝██╔══██╗██╔════╝██╔════╝██╔═══██╗██╔════╝\n" +
	"██║███████║██╔████╔██║█████╗  ██║  ██║█████╗  ██║     ██║   ██║█████╗  \n" +
	"██║██╔══██║██║╚██╔╝██║██╔══╝  ██║  ██║██╔══╝  ██║     ██║   ██║██╔══╝  \n" +
	"██║██║  ██║██║ ╚═╝ ██║██║     ██████╔╝███████╗╚██████╗╚██████╔╝███████╗\n" +
	"╚═╝╚═╝  ╚═╝╚═╝     ╚═╝╚═╝     ╚═════╝ ╚══════╝ ╚═════╝ ╚═════╝ ╚══════╝"

const helpTemplate = helpBanner + `

{{with or .Long .Short}}{{. | trimTrailingWhitespaces}}

{{end}}{{if or .Runnable .HasSubCommands}}{{.UsageString}}{{end}}`

var rootCmd = &cobra.Command{
	Use:          "iamfdecode",
	Short:        "Streaming decoder core for the IAMF bitstream.",
	SilenceUsage: true,
}

var decodeOpts cli.DecodeOptions
var mixIDFlag string

var decodeCmd = &cobra.Command{
	Use:   "decode <input.iamf>",
	Short: "Decode an IAMF file to raw interleaved PCM",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		decodeOpts.Input = args[0]
		mixID, err := cli.ParseMixID(mixIDFlag)
		if err != nil {
			return err
		}
		decodeOpts.MixID = mixID
		os.Exit(cli.RunDecode(decodeOpts, cmd.OutOrStdout(), cmd.ErrOrStderr()))
		return nil
	},
}

var probeCmd = &cobra.Command{
	Use:   "probe <input.iamf>",
	Short: "Print descriptor metadata without decoding temporal units",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		decodeOpts.Input = args[0]
		mixID, err := cli.ParseMixID(mixIDFlag)
		if err != nil {
			return err
		}
		decodeOpts.MixID = mixID
		os.Exit(cli.RunProbe(decodeOpts, cmd.OutOrStdout(), cmd.ErrOrStderr()))
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update iamfdecode",
	Long:  "Update iamfdecode to latest version (release builds only).",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSelfUpdate(cmd.Context())
	},
	DisableFlagsInUseLine: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print iamfdecode version information",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cli.Version(cmd.OutOrStdout())
		return nil
	},
	DisableFlagsInUseLine: true,
}

func init() {
	resolvedVersion := resolveVersion()
	cli.SetVersion(resolvedVersion)

	for _, c := range []*cobra.Command{decodeCmd, probeCmd} {
		c.Flags().StringVar(&decodeOpts.Output, "output", "", "write PCM to this file instead of stdout")
		c.Flags().StringVar(&mixIDFlag, "mix-id", "", "prefer the mix presentation with this id")
		c.Flags().StringVar(&decodeOpts.OutputLayout, "output-layout", "", "prefer this sound system (A..J, 10..13)")
		c.Flags().StringSliceVar(&decodeOpts.Profiles, "profile", nil, "restrict selection to this profile (repeatable)")
		c.Flags().StringVar(&decodeOpts.ChannelOrdering, "channel-ordering", "", "iamf (default) or android")
		c.Flags().StringVar(&decodeOpts.SampleType, "sample-type", "", "int16 or int32 (default int32)")
		c.Flags().StringVar(&decodeOpts.Config, "config", "", "YAML settings file; flags override its values")
	}

	rootCmd.SetOut(os.Stdout)
	rootCmd.SetErr(os.Stderr)
	rootCmd.SetHelpTemplate(helpTemplate)
	rootCmd.AddCommand(decodeCmd, probeCmd, updateCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func runSelfUpdate(ctx context.Context) error {
	if version == "" || version == "dev" {
		return errors.New("self-update is only available in release builds")
	}

	if _, err := semver.ParseTolerant(version); err != nil {
		return fmt.Errorf("could not parse version: %w", err)
	}

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug("iamfgo/iamf"))
	if err != nil {
		return fmt.Errorf("error occurred while detecting version: %w", err)
	}
	if !found {
		return fmt.Errorf("latest version for iamfgo/iamf/%s could not be found from github repository", version)
	}

	if latest.LessOrEqual(version) {
		fmt.Printf("Current binary is the latest version: %s\n", version)
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("could not locate executable path: %w", err)
	}

	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("error occurred while updating binary: %w", err)
	}

	fmt.Printf("Successfully updated to version: %s\n", latest.Version())
	return nil
}

func resolveVersion() string {
	if version != "" && version != "dev" {
		return normalizeVersion(version)
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return normalizeVersion(info.Main.Version)
		}
	}
	return "dev"
}

func normalizeVersion(value string) string {
	return strings.TrimPrefix(value, "v")
}
