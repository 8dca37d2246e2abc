package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/newtglobalgit/dmap-saas-request/pkg/models"
	"github.com/newtglobalgit/dmap-saas-request/pkg/utils"
)

var submitReq models.ResourceRequest

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit one request from the command line, bypassing the web form",
	Example: `  dmap-saas-request submit --full-name "Jane Doe" --email jane@acme.com \
      --company Acme --designation Engineer`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer func() { _ = a.logger.Sync() }()

		out := a.submission.Submit(cmd.Context(), submitReq)
		fmt.Fprintln(cmd.OutOrStdout(), out.Message)
		if !out.OK() {
			return fmt.Errorf("%s failed (request %s)", out.Stage, out.RequestID)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "branch: %s\ncommit: %s\n", out.Branch, out.CommitSHA)
		return nil
	},
}

var branchNameCmd = &cobra.Command{
	Use:   "branch-name FULL NAME",
	Short: "Print the branch a requester's name maps to",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args, " ")
		if utils.BranchStem(name) == "" {
			return fmt.Errorf("full name %q has no letter or digit usable in a branch name", name)
		}
		fmt.Fprintln(cmd.OutOrStdout(), utils.BranchName(name))
		return nil
	},
}

func init() {
	f := submitCmd.Flags()
	f.StringVar(&submitReq.FullName, "full-name", "", "requester full name (required)")
	f.StringVar(&submitReq.Email, "email", "", "requester office email (required)")
	f.StringVar(&submitReq.Phone, "phone", "", "phone number with country code")
	f.StringVar(&submitReq.Company, "company", "", "company name (required)")
	f.StringVar(&submitReq.Designation, "designation", "", "current role (required)")
}
