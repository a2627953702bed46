package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/binser/cmd/bench"
	"github.com/ValentinKolb/binser/cmd/file"
	"github.com/ValentinKolb/binser/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "binser",
		Short: "generic binary serialization",
		Long: fmt.Sprintf(`binser (v%s)

A generic binary serialization library for Go. Values are encoded by
their structure, without schemas, code generation or per-type boilerplate.
This tool benchmarks the native format against other codecs and reads and
writes binser archives.`, Version),
		SilenceUsage: true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of binser",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("binser v%s\n", Version)
		},
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add Commands
	RootCmd.AddCommand(bench.BenchCmd)
	RootCmd.AddCommand(file.FileCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	util.SetupCodecFlags(RootCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
