package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshsymonds/dealflow/internal/engine"
	"github.com/joshsymonds/dealflow/internal/model"
	"github.com/joshsymonds/dealflow/internal/service"
)

func investorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "investors",
		Short: "Manage the master investor list",
	}

	cmd.AddCommand(investorsListCmd())
	cmd.AddCommand(investorsAddCmd())
	cmd.AddCommand(investorsEditCmd())
	cmd.AddCommand(investorsRemoveCmd())

	return cmd
}

// investorFlags binds the editable investor fields onto a command.
func investorFlags(cmd *cobra.Command, inv *model.Investor) {
	cmd.Flags().StringVar(&inv.Classification, "classification", inv.Classification, "classification tag (e.g. VC, Angel)")
	cmd.Flags().StringVar(&inv.Type, "type", inv.Type, "type tag")
	cmd.Flags().StringVar(&inv.Sector, "sector", inv.Sector, "sector tag")
	cmd.Flags().StringVar(&inv.CreditEquity, "credit-equity", inv.CreditEquity, "credit/equity tag")
	cmd.Flags().IntVar(&inv.Rating, "rating", inv.Rating, "overall rating 0-5")
	cmd.Flags().StringVar(&inv.Justification, "justification", inv.Justification, "free-text justification")
	cmd.Flags().StringVar(&inv.Email, "email", inv.Email, "primary email")
	cmd.Flags().StringVar(&inv.Email2, "email2", inv.Email2, "secondary email")
	cmd.Flags().StringVar(&inv.Phone, "phone", inv.Phone, "phone number")
	cmd.Flags().StringVar(&inv.ProfileURL, "link", inv.ProfileURL, "external profile link")
}

func investorsListCmd() *cobra.Command {
	var classification, sector string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List master investors",
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

			investors, err := store.GetInvestors(ctx, accountID)
			if err != nil {
				return err
			}

			filter := service.InvestorFilter{Classification: classification, Sector: sector}
			shown := 0
			for i := range investors {
				if !filter.Matches(&investors[i]) {
					continue
				}
				inv := &investors[i]
				fmt.Printf("%s  %-30s %-12s %-15s rating=%d\n",
					inv.ID, inv.Name, inv.Classification, inv.Sector, inv.Rating)
				shown++
			}

			if shown == 0 {
				fmt.Println("No investors match")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&classification, "classification", "", "filter by classification tag")
	cmd.Flags().StringVar(&sector, "sector", "", "filter by sector tag")

	return cmd
}

func investorsAddCmd() *cobra.Command {
	var inv model.Investor

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add an investor to the master list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			inv.Name = args[0]
			inv.AccountID = accountID

			created, err := engine.New(store).CreateInvestor(ctx, &inv)
			if err != nil {
				return err
			}

			fmt.Printf("Added investor %s (%s)\n", created.Name, created.ID)
			return nil
		},
	}

	investorFlags(cmd, &inv)

	return cmd
}

func investorsEditCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "edit [investor-id]",
		Short: "Edit a master investor record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if _, err := requireAccount(ctx, store); err != nil {
				return err
			}

			inv, err := store.GetInvestor(ctx, args[0])
			if err != nil {
				return err
			}

			// Only flags the user actually set are applied.
			if name != "" {
				inv.Name = name
			}
			applyFlagEdits(cmd, inv)

			if err := engine.New(store).UpdateInvestor(ctx, inv); err != nil {
				return err
			}

			fmt.Printf("Updated investor %s\n", inv.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	registerEditFlags(cmd)

	return cmd
}

// registerEditFlags declares the editable field flags for the edit command.
func registerEditFlags(cmd *cobra.Command) {
	cmd.Flags().String("classification", "", "classification tag (e.g. VC, Angel)")
	cmd.Flags().String("type", "", "type tag")
	cmd.Flags().String("sector", "", "sector tag")
	cmd.Flags().String("credit-equity", "", "credit/equity tag")
	cmd.Flags().Int("rating", 0, "overall rating 0-5")
	cmd.Flags().String("justification", "", "free-text justification")
	cmd.Flags().String("email", "", "primary email")
	cmd.Flags().String("email2", "", "secondary email")
	cmd.Flags().String("phone", "", "phone number")
	cmd.Flags().String("link", "", "external profile link")
}

// applyFlagEdits copies each explicitly set flag onto the record.
func applyFlagEdits(cmd *cobra.Command, inv *model.Investor) {
	if cmd.Flags().Changed("classification") {
		inv.Classification, _ = cmd.Flags().GetString("classification")
	}
	if cmd.Flags().Changed("type") {
		inv.Type, _ = cmd.Flags().GetString("type")
	}
	if cmd.Flags().Changed("sector") {
		inv.Sector, _ = cmd.Flags().GetString("sector")
	}
	if cmd.Flags().Changed("credit-equity") {
		inv.CreditEquity, _ = cmd.Flags().GetString("credit-equity")
	}
	if cmd.Flags().Changed("rating") {
		inv.Rating, _ = cmd.Flags().GetInt("rating")
	}
	if cmd.Flags().Changed("justification") {
		inv.Justification, _ = cmd.Flags().GetString("justification")
	}
	if cmd.Flags().Changed("email") {
		inv.Email, _ = cmd.Flags().GetString("email")
	}
	if cmd.Flags().Changed("email2") {
		inv.Email2, _ = cmd.Flags().GetString("email2")
	}
	if cmd.Flags().Changed("phone") {
		inv.Phone, _ = cmd.Flags().GetString("phone")
	}
	if cmd.Flags().Changed("link") {
		inv.ProfileURL, _ = cmd.Flags().GetString("link")
	}
}

func investorsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm [investor-id]",
		Short: "Delete a master investor (irreversible)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if _, err := requireAccount(ctx, store); err != nil {
				return err
			}

			if err := engine.New(store).DeleteInvestor(ctx, args[0]); err != nil {
				return err
			}

			fmt.Println("Investor deleted")
			return nil
		},
	}
}
