package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshsymonds/dealflow/internal/engine"
)

func projectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Manage fundraising projects",
	}

	cmd.AddCommand(projectsListCmd())
	cmd.AddCommand(projectsAddCmd())
	cmd.AddCommand(projectsRemoveCmd())

	return cmd
}

func projectsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your projects",
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

			projects, err := store.GetProjects(ctx, accountID)
			if err != nil {
				return err
			}

			if len(projects) == 0 {
				fmt.Println("No projects yet")
				return nil
			}

			for _, project := range projects {
				fmt.Printf("%s  %s", project.ID, project.Name)
				if project.Description != "" {
					fmt.Printf("  - %s", project.Description)
				}
				fmt.Println()
			}
			return nil
		},
	}
}

func projectsAddCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Create a new project",
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

			project, err := engine.New(store).CreateProject(ctx, accountID, args[0], description)
			if err != nil {
				return err
			}

			fmt.Printf("Created project %s (%s)\n", project.Name, project.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "project description")

	return cmd
}

func projectsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm [project-id]",
		Short: "Delete a project and its pipeline",
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

			if err := engine.New(store).DeleteProject(ctx, args[0]); err != nil {
				return err
			}

			fmt.Println("Project deleted")
			return nil
		},
	}
}
