package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"studymate/internal/domain"
	"studymate/internal/sqlinline"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the reference schema (idempotent)",
		RunE: func(cmd *cobra.Command, args []string) error {
			sql, err := ctx.db(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := sql.Exec(cmd.Context(), sqlinline.QSchema); err != nil {
				return fmt.Errorf("apply schema: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema applied")
			return nil
		},
	}
}

func newUsersCommand(ctx *commandContext) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List users with their note counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := ctx.userRepo(cmd.Context())
			if err != nil {
				return err
			}
			items, err := users.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no users")
				return nil
			}
			rows := lo.Map(items, func(u domain.UserSummary, _ int) []string {
				return []string{u.ID, u.Username, u.Email, string(u.Role), string(u.Plan), strconv.Itoa(u.NoteCount), u.CreatedAt.Format("2006-01-02")}
			})
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Username", "Email", "Role", "Plan", "Notes", "Joined"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum users to list")
	return cmd
}

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show platform totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := ctx.statsRepo(cmd.Context())
			if err != nil {
				return err
			}
			s, err := stats.AdminStats(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Metric", "Value"},
				[][]string{
					{"Users", strconv.Itoa(s.TotalUsers)},
					{"Pro users", strconv.Itoa(s.ProUsers)},
					{"Free users", strconv.Itoa(s.FreeUsers)},
					{"Notes", strconv.Itoa(s.TotalNotes)},
					{"Revenue (INR)", strconv.FormatInt(s.Revenue, 10)},
				},
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}
}

func newSetPlanCommand(ctx *commandContext) *cobra.Command {
	var id, email, plan string
	cmd := &cobra.Command{
		Use:   "set-plan",
		Short: "Change a user's plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, email = strings.TrimSpace(id), strings.TrimSpace(email)
			if (id == "") == (email == "") {
				return errors.New("exactly one of --id or --email is required")
			}
			p, err := parsePlanFlag(plan)
			if err != nil {
				return err
			}
			users, err := ctx.userRepo(cmd.Context())
			if err != nil {
				return err
			}
			if id != "" {
				err = users.SetPlan(cmd.Context(), id, p)
			} else {
				id, err = users.SetPlanByEmail(cmd.Context(), email, p)
			}
			if errors.Is(err, domain.ErrNotFound) {
				return errors.New("user not found")
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user %s is now on the %s plan\n", id, p)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "User ID")
	cmd.Flags().StringVar(&email, "email", "", "User email")
	cmd.Flags().StringVar(&plan, "plan", "pro", "Plan to assign (free or pro)")
	return cmd
}

func newDeleteUserCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-user <id>",
		Short: "Delete a user and everything they own (admins are protected)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := ctx.userRepo(cmd.Context())
			if err != nil {
				return err
			}
			err = users.Delete(cmd.Context(), args[0])
			if errors.Is(err, domain.ErrNotFound) {
				return errors.New("user not found or is an admin")
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user %s deleted\n", args[0])
			return nil
		},
	}
}

func parsePlanFlag(s string) (domain.UserPlan, error) {
	switch p := domain.UserPlan(strings.ToLower(strings.TrimSpace(s))); p {
	case domain.UserPlanFree, domain.UserPlanPro:
		return p, nil
	default:
		return "", fmt.Errorf("unsupported plan %q", s)
	}
}
