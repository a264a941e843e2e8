package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"school/internal/domain"
	"school/internal/service/impl"
	"school/internal/store"

	"github.com/spf13/cobra"
)

func newSeedCmd(a *app) *cobra.Command {
	var (
		email     string
		password  string
		firstName string
		lastName  string
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the standard roles and an initial admin user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("SCHOOL_ADMIN_PASSWORD")
			}
			email = strings.ToLower(strings.TrimSpace(email))
			if email == "" || password == "" {
				return errors.New("--admin-email and --admin-password (or SCHOOL_ADMIN_PASSWORD) are required")
			}
			if len(password) < impl.MinPasswordLength {
				return impl.ErrPasswordLength
			}

			st, err := a.openStore()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := st.Migrate(ctx); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}

			hash, err := impl.NewPasswordServiceBcrypt(a.opts.cost).Hash(password)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			return st.WithTx(ctx, func(tx *store.Store) error {
				var admin *domain.Role
				for _, name := range []string{domain.RoleAdmin, domain.RoleParent, domain.RoleTeacher} {
					role, err := tx.Roles().Ensure(ctx, name)
					if err != nil {
						return fmt.Errorf("ensure role %s: %w", name, err)
					}
					if name == domain.RoleAdmin {
						admin = role
					}
				}

				if existing, err := tx.Users().GetByEmail(ctx, email); err == nil {
					fmt.Fprintf(out, "admin %s already exists (%s)\n", existing.Email, existing.ID)
					return nil
				} else if !errors.Is(err, store.ErrRecordNotFound) {
					return err
				}

				u := &domain.User{
					FirstName:    firstName,
					LastName:     lastName,
					Email:        email,
					PasswordHash: hash,
					Status:       domain.UserStatusActive,
				}
				if err := tx.Users().Create(ctx, u); err != nil {
					return fmt.Errorf("create admin: %w", err)
				}
				if err := tx.Users().AssignRole(ctx, u, admin); err != nil {
					return fmt.Errorf("assign admin role: %w", err)
				}
				a.logger.Info("admin user created", "user_id", u.ID, "email", u.Email)
				fmt.Fprintf(out, "created admin %s (%s)\n", u.Email, u.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "admin-email", "", "email of the initial admin")
	cmd.Flags().StringVar(&password, "admin-password", "", "password of the initial admin (or SCHOOL_ADMIN_PASSWORD env)")
	cmd.Flags().StringVar(&firstName, "first-name", "School", "admin first name")
	cmd.Flags().StringVar(&lastName, "last-name", "Admin", "admin last name")
	return cmd
}
