package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joshsymonds/dealflow/internal/engine"
	"github.com/joshsymonds/dealflow/internal/join"
	"github.com/joshsymonds/dealflow/internal/model"
	"github.com/joshsymonds/dealflow/internal/service"
)

func pipelineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Manage a project's investor pipeline",
	}

	cmd.AddCommand(pipelineShowCmd())
	cmd.AddCommand(pipelineAddCmd())
	cmd.AddCommand(pipelineCandidatesCmd())
	cmd.AddCommand(pipelineRemoveCmd())
	cmd.AddCommand(pipelineStatusCmd())
	cmd.AddCommand(pipelinePriorityCmd())
	cmd.AddCommand(pipelineLogCmd())

	return cmd
}

func pipelineShowCmd() *cobra.Command {
	var projectFlag string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the project's pipeline, grouped by status",
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

			projectID, err := resolveProject(ctx, store, accountID, projectFlag)
			if err != nil {
				return err
			}

			investors, err := store.GetInvestors(ctx, accountID)
			if err != nil {
				return err
			}
			entries, err := store.GetPipelineEntries(ctx, projectID)
			if err != nil {
				return err
			}

			joined := join.Join(investors, entries)
			if len(joined) == 0 {
				fmt.Println("Pipeline is empty")
				return nil
			}

			byStatus := make(map[model.PipelineStatus][]model.ProjectInvestor)
			for _, pi := range joined {
				byStatus[pi.Status] = append(byStatus[pi.Status], pi)
			}

			for _, status := range model.PipelineStatuses() {
				group := byStatus[status]
				if len(group) == 0 {
					continue
				}
				fmt.Printf("%s (%d)\n", status, len(group))
				for _, pi := range group {
					fmt.Printf("  %s  %-30s priority=%d interactions=%d\n",
						pi.ID, pi.Name, pi.Priority, len(pi.Interactions))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&projectFlag, "project", "", "project id (default: first project)")

	return cmd
}

func pipelineAddCmd() *cobra.Command {
	var projectFlag string

	cmd := &cobra.Command{
		Use:   "add [investor-id...]",
		Short: "Add investors to the project's pipeline",
		Long: `Add one or more master investors to the project's pipeline as a single
atomic batch. New entries start at priority 3 with status "Not Contacted".
Re-adding an investor overwrites its entry rather than duplicating it.`,
		Args: cobra.MinimumNArgs(1),
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

			projectID, err := resolveProject(ctx, store, accountID, projectFlag)
			if err != nil {
				return err
			}

			if err := engine.New(store).AddToPipeline(ctx, projectID, args); err != nil {
				return err
			}

			fmt.Printf("Added %d investors to pipeline\n", len(args))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectFlag, "project", "", "project id (default: first project)")

	return cmd
}

func pipelineCandidatesCmd() *cobra.Command {
	var projectFlag, classification, sector string

	cmd := &cobra.Command{
		Use:   "candidates",
		Short: "List investors not yet in the project's pipeline",
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

			projectID, err := resolveProject(ctx, store, accountID, projectFlag)
			if err != nil {
				return err
			}

			filter := service.InvestorFilter{Classification: classification, Sector: sector}
			candidates, err := engine.New(store).Candidates(ctx, accountID, projectID, filter)
			if err != nil {
				return err
			}

			if len(candidates) == 0 {
				fmt.Println("No candidates match")
				return nil
			}

			for _, inv := range candidates {
				fmt.Printf("%s  %-30s %-12s %s\n", inv.ID, inv.Name, inv.Classification, inv.Sector)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&projectFlag, "project", "", "project id (default: first project)")
	cmd.Flags().StringVar(&classification, "classification", "", "filter by classification tag")
	cmd.Flags().StringVar(&sector, "sector", "", "filter by sector tag")

	return cmd
}

func pipelineRemoveCmd() *cobra.Command {
	var projectFlag string

	cmd := &cobra.Command{
		Use:   "rm [investor-id]",
		Short: "Remove an investor from the project's pipeline",
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

			projectID, err := resolveProject(ctx, store, accountID, projectFlag)
			if err != nil {
				return err
			}

			if err := engine.New(store).RemoveFromPipeline(ctx, projectID, args[0]); err != nil {
				return err
			}

			fmt.Println("Removed from pipeline")
			return nil
		},
	}

	cmd.Flags().StringVar(&projectFlag, "project", "", "project id (default: first project)")

	return cmd
}

func pipelineStatusCmd() *cobra.Command {
	var projectFlag string

	cmd := &cobra.Command{
		Use:   "status [investor-id] [status]",
		Short: "Set an entry's pipeline status",
		Long: `Set an investor's pipeline status. Valid statuses:
  "Not Contacted", "Contacted", "Meeting Scheduled", "Under Review",
  "Invested", "Rejected"

Any status may be set from any other.`,
		Args: cobra.ExactArgs(2),
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

			projectID, err := resolveProject(ctx, store, accountID, projectFlag)
			if err != nil {
				return err
			}

			status := model.PipelineStatus(args[1])
			if err := engine.New(store).UpdateStatus(ctx, projectID, args[0], status); err != nil {
				return err
			}

			fmt.Printf("Status set to %s\n", status)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectFlag, "project", "", "project id (default: first project)")

	return cmd
}

func pipelinePriorityCmd() *cobra.Command {
	var projectFlag string

	cmd := &cobra.Command{
		Use:   "priority [investor-id] [1-5]",
		Short: "Set an entry's priority rating",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			priority, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("priority must be a number: %w", err)
			}

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			accountID, err := requireAccount(ctx, store)
			if err != nil {
				return err
			}

			projectID, err := resolveProject(ctx, store, accountID, projectFlag)
			if err != nil {
				return err
			}

			if err := engine.New(store).UpdatePriority(ctx, projectID, args[0], priority); err != nil {
				return err
			}

			fmt.Printf("Priority set to %d\n", priority)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectFlag, "project", "", "project id (default: first project)")

	return cmd
}

func pipelineLogCmd() *cobra.Command {
	var projectFlag, interactionType, notes string

	cmd := &cobra.Command{
		Use:   "log [investor-id]",
		Short: "Log an interaction with an investor",
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

			projectID, err := resolveProject(ctx, store, accountID, projectFlag)
			if err != nil {
				return err
			}

			err = engine.New(store).LogInteraction(ctx, projectID, args[0], model.InteractionType(interactionType), notes)
			if err != nil {
				return err
			}

			fmt.Println("Interaction logged")
			return nil
		},
	}

	cmd.Flags().StringVar(&projectFlag, "project", "", "project id (default: first project)")
	cmd.Flags().StringVarP(&interactionType, "type", "t", "Other", "interaction type (Email, Call, Meeting, LinkedIn, Other)")
	cmd.Flags().StringVarP(&notes, "notes", "n", "", "free-text notes")

	return cmd
}
