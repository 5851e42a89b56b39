// ispcc drives the rispc pipeline from a TOML build manifest, for builds
// that are not orchestrated by a Go build script.
package main

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

var manifestPath string

var rootCmd = &cobra.Command{
	Use:           "ispcc",
	Short:         "ispcc compiles ispc SPMD modules into a static archive",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compile the sources described by the build manifest",
	Args:  cobra.NoArgs,
	RunE:  runBuild,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the ispcc version",
	Run: func(cmd *cobra.Command, args []string) {
		pterm.Info.Println("ispcc " + version)
	},
}

func init() {
	buildCmd.Flags().StringVarP(&manifestPath, "file", "f", "ispc.toml", "path to the build manifest")
	rootCmd.AddCommand(buildCmd, versionCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	m, err := loadManifest(manifestPath)
	if err != nil {
		return err
	}
	cfg, err := m.config()
	if err != nil {
		return err
	}

	pterm.DefaultSection.Printfln("building %s from %d source file(s)", m.Output, len(m.Files))
	if err := cfg.Compile(m.Output); err != nil {
		return err
	}
	pterm.Success.Printfln("wrote %s", m.Output)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}
