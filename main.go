package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const appName = "dmap-saas-request"

var envFile string

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "DMAP SaaS offer - cloud resource request intake",
	Long: `Collects cloud resource requests through a web form, emails the
administrator and records each request as a tags block in the terraform
repository on a per-requester branch.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.AddCommand(serveCmd, submitCmd, branchNameCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
