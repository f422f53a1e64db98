package main

import (
	"fmt"
	"strconv"

	"atelier/cmd"
	"atelier/internal/core/application/usecases/commands"
	"atelier/internal/core/application/usecases/queries"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/worker"

	"github.com/spf13/cobra"
)

func newWorkerCommand(ctx *commandContext) *cobra.Command {
	workerCmd := &cobra.Command{
		Use:   "worker",
		Short: "Manage the worker directory",
	}

	workerCmd.AddCommand(newWorkerAddCommand(ctx))
	workerCmd.AddCommand(newWorkerListCommand(ctx))
	workerCmd.AddCommand(newWorkerActiveCommand(ctx, "deactivate", false))
	workerCmd.AddCommand(newWorkerActiveCommand(ctx, "activate", true))
	return workerCmd
}

// withApp runs fn against a composition root that lives for one command.
func withApp(ctx *commandContext, fn func(app *cmd.CompositionRoot) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	db, err := ctx.openDB()
	if err != nil {
		return err
	}
	app := cmd.NewCompositionRoot(cfg, db, ctx.logger())
	defer app.Close()
	return fn(app)
}

func newWorkerAddCommand(ctx *commandContext) *cobra.Command {
	var roleName string

	command := &cobra.Command{
		Use:   "add NAME",
		Short: "Register a worker",
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			role, err := worker.ParseRole(roleName)
			if err != nil {
				return err
			}
			registration, err := commands.NewRegisterWorkerCommand(args[0], role, worker.Operator())
			if err != nil {
				return err
			}
			return withApp(ctx, func(app *cmd.CompositionRoot) error {
				w, err := app.CreateRegisterWorkerCommandHandler().Handle(command.Context(), registration)
				if err != nil {
					return err
				}
				fmt.Fprintf(command.OutOrStdout(), "Registered %s (%s) with id %s\n", w.Name(), w.Role(), w.ID())
				return nil
			})
		},
	}
	command.Flags().StringVarP(&roleName, "role", "r", "", "cutter, tailor, finisher or admin")
	_ = command.MarkFlagRequired("role")
	return command
}

func newWorkerListCommand(ctx *commandContext) *cobra.Command {
	var roleName string

	command := &cobra.Command{
		Use:   "list",
		Short: "List registered workers",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			var role *worker.Role
			if roleName != "" {
				r, err := worker.ParseRole(roleName)
				if err != nil {
					return err
				}
				role = &r
			}
			query, err := queries.NewListWorkersQuery(worker.Operator(), role)
			if err != nil {
				return err
			}
			return withApp(ctx, func(app *cmd.CompositionRoot) error {
				workers, err := app.CreateListWorkersQueryHandler().Handle(command.Context(), query)
				if err != nil {
					return err
				}
				fmt.Fprint(command.OutOrStdout(), renderWorkers(workers))
				return nil
			})
		},
	}
	command.Flags().StringVarP(&roleName, "role", "r", "", "Only list workers with this role")
	return command
}

func newWorkerActiveCommand(ctx *commandContext, use string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " WORKER_ID",
		Short: "Set whether a worker may act on orders",
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			id, err := kernel.UUIDFromString(args[0])
			if err != nil {
				return err
			}
			change, err := commands.NewSetWorkerActiveCommand(id, active, worker.Operator())
			if err != nil {
				return err
			}
			return withApp(ctx, func(app *cmd.CompositionRoot) error {
				w, err := app.CreateSetWorkerActiveCommandHandler().Handle(command.Context(), change)
				if err != nil {
					return err
				}
				fmt.Fprintf(command.OutOrStdout(), "%s is now %s\n", w.Name(), activity(w.Active()))
				return nil
			})
		},
	}
}

func activity(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}

func renderWorkers(workers []queries.WorkerResponse) string {
	if len(workers) == 0 {
		return "No workers registered\n"
	}
	rows := make([][]string, 0, len(workers))
	for _, w := range workers {
		rows = append(rows, []string{w.ID.String(), w.Name, w.Role.String(), strconv.FormatBool(w.Active)})
	}
	return renderTable([]string{"ID", "Name", "Role", "Active"}, rows) + "\n"
}
