package cli

import (
	"fmt"

	"school/internal/events"
	"school/internal/service/impl"

	"github.com/spf13/cobra"
)

func newSessionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect and revoke login sessions",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "revoke <token>",
			Short: "Deactivate a session; unknown or inactive tokens are a no-op",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				st, err := a.openStore()
				if err != nil {
					return err
				}
				svc := impl.NewSessionServiceImpl(st, nil, nil, events.NewLogPublisher(a.logger), a.logger)
				if err := svc.Logout(cmd.Context(), args[0]); err != nil {
					return fmt.Errorf("revoke session: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "session %s... inactive\n", events.TokenPrefix(args[0]))
				return nil
			},
		},
		&cobra.Command{
			Use:   "show <token>",
			Short: "Print the owner and state of a session",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				st, err := a.openStore()
				if err != nil {
					return err
				}
				s, err := st.Sessions().FindByToken(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("find session: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "token=%s... user=%s active=%t created=%s\n",
					events.TokenPrefix(s.Token), s.UserID, s.Active, s.CreatedAt.Format("2006-01-02T15:04:05Z07:00"))
				return nil
			},
		},
	)
	return cmd
}
