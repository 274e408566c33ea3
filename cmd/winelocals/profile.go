package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gauthierbraillon/winelocals/internal/account"
	"github.com/gauthierbraillon/winelocals/internal/catalog"
	"github.com/gauthierbraillon/winelocals/internal/display"
)

// EnvPassword supplies the login password without a prompt.
const EnvPassword = "WINELOCALS_PASSWORD"

// newLoginCmd creates the login subcommand.
func newLoginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login <email>",
		Short: "Sign in to your Wine Locals account",
		Long:  "Sign in and store the session in the config directory. The password is read from " + EnvPassword + " or standard input.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			password := os.Getenv(EnvPassword)
			if password == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Senha: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}

			ctx, cancel := a.timeout()
			defer cancel()

			sess, err := a.accounts().Login(ctx, args[0], password)
			if err != nil {
				return err
			}
			store, err := a.sessions()
			if err != nil {
				return err
			}
			if err := store.Update(sess); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", sess.User.DisplayName())
			return nil
		},
	}
}

// newLogoutCmd creates the logout subcommand.
func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and remove the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			store, err := a.sessions()
			if err != nil {
				return err
			}
			if err := store.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

// newOrdersCmd creates the orders subcommand.
func newOrdersCmd(a *app) *cobra.Command {
	var orderType string

	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List your orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, err := account.ParseOrderType(orderType)
			if err != nil {
				return err
			}
			if err := a.load(); err != nil {
				return err
			}
			jwt, err := a.token()
			if err != nil {
				return err
			}

			ctx, cancel := a.timeout()
			defer cancel()

			orders, err := a.accounts().Orders(ctx, jwt, typ)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), display.NewTerminalFormatter().FormatOrders(typ, orders))
			return nil
		},
	}

	cmd.Flags().StringVarP(&orderType, "type", "t", string(account.OrdersActive), "Order list (active, canceled)")

	return cmd
}

// newVouchersCmd creates the vouchers subcommand.
func newVouchersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "vouchers",
		Short: "List your vouchers",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			jwt, err := a.token()
			if err != nil {
				return err
			}

			ctx, cancel := a.timeout()
			defer cancel()

			vouchers, err := a.accounts().Vouchers(ctx, jwt)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), display.NewTerminalFormatter().FormatVouchers(vouchers))
			return nil
		},
	}
}

// newPasswdCmd creates the passwd subcommand.
func newPasswdCmd(a *app) *cobra.Command {
	var form account.PasswordChange

	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Change your password",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Invalid forms never reach the API.
			if err := form.Validate(); err != nil {
				return err
			}
			if err := a.load(); err != nil {
				return err
			}
			jwt, err := a.token()
			if err != nil {
				return err
			}

			ctx, cancel := a.timeout()
			defer cancel()

			if err := a.accounts().ChangePassword(ctx, jwt, form); err != nil {
				return fmt.Errorf("%s: %w", account.MsgPasswordFailed, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), account.MsgPasswordChanged)
			return nil
		},
	}

	cmd.Flags().StringVar(&form.Current, "current", "", "Current password")
	cmd.Flags().StringVar(&form.New, "new", "", "New password")
	cmd.Flags().StringVar(&form.Confirm, "confirm", "", "New password again")

	return cmd
}

// newRegionsCmd creates the regions subcommand.
func newRegionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "regions [region]",
		Short: "List wine regions, or the experiences of one region",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			ctx, cancel := a.timeout()
			defer cancel()

			client := a.catalog()
			formatter := display.NewTerminalFormatter()
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				regions, err := client.Regions(ctx)
				if err != nil || len(regions) == 0 {
					products, perr := client.MapProducts(ctx)
					if perr != nil {
						if err != nil {
							return err
						}
						return perr
					}
					regions = catalog.RegionsOf(products)
				}
				fmt.Fprint(out, formatter.FormatRegions(regions))
				return nil
			}

			products, err := client.MapProducts(ctx)
			if err != nil {
				return err
			}
			region := args[0]
			b := catalog.BoundsFor(region)
			fmt.Fprintf(out, "%s (%.3f, %.3f, %.3f, %.3f)\n\n", region, b[0], b[1], b[2], b[3])
			fmt.Fprint(out, formatter.FormatMapProducts(catalog.FilterByRegion(products, region)))
			return nil
		},
	}
}
