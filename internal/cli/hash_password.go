package cli

import (
	"bufio"
	"fmt"
	"strings"

	"school/internal/service/impl"

	"github.com/spf13/cobra"
)

func newHashPasswordCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print the bcrypt hash of a password",
		Long:  "Print the bcrypt hash of a password. Without an argument the first line of stdin is used.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			hash, err := impl.NewPasswordServiceBcrypt(a.opts.cost).Hash(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
