package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshsymonds/dealflow/internal/auth"
	"github.com/joshsymonds/dealflow/internal/common"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage authentication",
	}

	cmd.AddCommand(signupCmd())
	cmd.AddCommand(loginCmd())
	cmd.AddCommand(logoutCmd())
	cmd.AddCommand(whoamiCmd())

	return cmd
}

func signupCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a new account and sign in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			provider := auth.NewProvider(store)
			user, err := provider.SignUp(ctx, email, password)
			if err != nil {
				if common.IsAuthError(err) {
					return common.NewUserError("sign-up failed", err)
				}
				return err
			}

			fmt.Printf("Signed up and logged in as %s\n", user.Email)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to an existing account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			provider := auth.NewProvider(store)
			user, err := provider.SignIn(ctx, email, password)
			if err != nil {
				if common.IsAuthError(err) {
					return common.NewUserError("sign-in failed", err)
				}
				return err
			}

			fmt.Printf("Logged in as %s\n", user.Email)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out of the current account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			provider := auth.NewProvider(store)
			if err := provider.SignOut(ctx); err != nil {
				return err
			}

			fmt.Println("Logged out")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			accountID, err := requireAccount(ctx, store)
			if err != nil {
				return err
			}

			user, err := store.GetUser(ctx, accountID)
			if err != nil {
				return err
			}

			fmt.Println(user.Email)
			return nil
		},
	}
}
