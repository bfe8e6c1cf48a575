package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veilbox/veil/internal/consent"
	"github.com/veilbox/veil/internal/ui"
	"github.com/veilbox/veil/internal/workflows"
)

var requestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "List consent requests on your items",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting requests command")

		sess, err := currentSession()
		if err != nil {
			return Logger.ErrorfAndReturn("Not logged in: run `veil vault register` or `veil vault import-key` first")
		}

		backend, err := openBackend()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to reach server: %v", err)
		}

		result, err := workflows.ListRequests(cmd.Context(), workflows.ListRequestsOptions{
			Provider: sess.Username,
			Backend:  backend,
		})
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to list requests: %v", err)
		}

		if len(result.Requests) == 0 {
			cmd.Println("No consent requests")
			return nil
		}

		for _, r := range result.Requests {
			line := fmt.Sprintf("%s  %s wants %s  [%s]",
				ui.Muted.Sprint(r.ID), ui.Highlight.Sprint(r.Seeker), r.ItemID, statusText(r.Status))
			if r.AllowedViews > 0 {
				line += fmt.Sprintf("  views left: %d", r.ViewsLeft)
			}
			if !r.ExpiresAt.IsZero() {
				line += "  expires: " + r.ExpiresAt.Format("2006-01-02 15:04")
			}
			cmd.Println(line)
		}
		return nil
	},
}

func statusText(s consent.Status) string {
	switch s {
	case consent.Approved:
		return ui.Success.Sprint(s.String())
	case consent.Pending:
		return ui.Warning.Sprint(s.String())
	case consent.Rejected, consent.Revoked, consent.Expired, consent.CountExhausted:
		return ui.Error.Sprint(s.String())
	}
	return s.String()
}

var approveCmd = &cobra.Command{
	Use:   "approve <request-id>",
	Short: "Approve a consent request and mint the seeker's wrapped key",
	Long: `Approves a pending request. Your client unwraps the item's content key
with your private key and re-wraps it under the seeker's public key; the
server stores only the resulting blob.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return decide(cmd, args[0], consent.Approved)
	},
}

var rejectCmd = &cobra.Command{
	Use:   "reject <request-id>",
	Short: "Reject a consent request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return decide(cmd, args[0], consent.Rejected)
	},
}

var revokeCmd = &cobra.Command{
	Use:   "revoke <request-id>",
	Short: "Revoke a previously approved grant",
	Long: `Revokes a grant. The server stops releasing the seeker's wrapped key; no
keys are rotated. Data the seeker already decrypted stays decrypted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return decide(cmd, args[0], consent.Revoked)
	},
}

func decide(cmd *cobra.Command, requestID string, status consent.Status) error {
	Logger.Infof("Deciding request %s: %s", requestID, status)

	sess, err := currentSession()
	if err != nil {
		return Logger.ErrorfAndReturn("Not logged in: run `veil vault register` or `veil vault import-key` first")
	}

	backend, err := openBackend()
	if err != nil {
		return Logger.ErrorfAndReturn("Failed to reach server: %v", err)
	}

	store, err := openCustody()
	if err != nil {
		return Logger.ErrorfAndReturn("Failed to open custody store: %v", err)
	}
	defer store.Close()

	result, err := workflows.Decide(cmd.Context(), workflows.DecideOptions{
		RequestID: requestID,
		Provider:  sess.Username,
		Status:    status,
		Backend:   backend,
		Custody:   store,
	})
	if err != nil {
		return Logger.ErrorfAndReturn("Failed to decide request: %v", err)
	}

	msg := ui.Success.Sprint("✓") + " Request " + ui.Muted.Sprint(requestID) + " " + result.Status.String()
	if result.WrappedKeyMinted {
		msg += " " + ui.Muted.Sprint("wrapped key minted for the seeker")
	}
	cmd.Println(msg)
	return nil
}
