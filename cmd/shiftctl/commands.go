package main

import (
	"context"
	"encoding/json"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/app"
	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/domain"
	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/lifecycle"
	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/service"
	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/trust"
)

const systemActorID = "shiftctl"

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(header table.Row) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(header)
	return tw
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := initApp(cmd.Context(), true)
			return err
		},
	}
}

func scoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score <user-id>",
		Short: "Show a user's trust score and category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				score := a.Trust.TrustScore(ctx, args[0])
				category := trust.ScoreCategory(score)
				if jsonOutput {
					return printJSON(map[string]any{
						"user_id":    args[0],
						"score":      score,
						"level":      category.Level,
						"label":      category.Label,
						"blocked":    a.Trust.IsUserBlocked(ctx, args[0]),
						"suspicious": a.Trust.IsUserSuspicious(ctx, args[0]),
					})
				}
				tw := newTable(table.Row{"User", "Score", "Level", "Blocked", "Suspicious"})
				tw.AppendRow(table.Row{
					args[0], score, category.Label,
					a.Trust.IsUserBlocked(ctx, args[0]),
					a.Trust.IsUserSuspicious(ctx, args[0]),
				})
				tw.Render()
				return nil
			})
		},
	}
}

func historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history <user-id>",
		Short: "List a user's most recent trust events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				if limit <= 0 {
					limit = a.Config.Trust.HistoryDefaultLimit
				}
				events := a.Trust.EventHistory(ctx, args[0], limit)
				if jsonOutput {
					return printJSON(events)
				}
				tw := newTable(table.Row{"Created", "Type", "Severity", "Impact", "Shift"})
				for _, e := range events {
					shift := ""
					if e.ShiftID != nil {
						shift = *e.ShiftID
					}
					tw.AppendRow(table.Row{e.CreatedAt.Format("2006-01-02 15:04"), e.EventType, e.Severity, e.Impact, shift})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "number of events (default from TRUST_HISTORY_DEFAULT_LIMIT)")
	return cmd
}

func suspiciousCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suspicious",
		Short: "Review accounts flagged as suspicious",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List flagged accounts with their scores",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				users, err := a.Trust.SuspiciousUsers(ctx)
				if err != nil {
					return err
				}
				if jsonOutput {
					return printJSON(users)
				}
				tw := newTable(table.Row{"User", "Name", "Role", "Score", "Blocked", "Flagged"})
				for _, u := range users {
					tw.AppendRow(table.Row{u.UserID, u.Name, u.Role, u.TrustScore, u.IsBlocked, u.FlaggedAt.Format("2006-01-02 15:04")})
				}
				tw.Render()
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear <user-id>",
		Short: "Clear the suspicious flag after review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Trust.ClearSuspiciousFlag(ctx, args[0]); err != nil {
					return err
				}
				cmd.Printf("cleared suspicious flag for %s\n", args[0])
				return nil
			})
		},
	})
	return cmd
}

func unblockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unblock <user-id>",
		Short: "Lift a moderation block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Trust.UnblockUser(ctx, args[0]); err != nil {
					return err
				}
				cmd.Printf("unblocked %s\n", args[0])
				return nil
			})
		},
	}
}

func transitionCmd() *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:   "transition <shift-id> <status>",
		Short: "Apply a shift transition as the system actor",
		Long:  "Used by schedulers to start shifts once workers check in and to complete them.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				outcome, err := a.Shifts.Transition(ctx, service.TransitionInput{
					ShiftID: args[0],
					To:      domain.ShiftStatus(args[1]),
					Reason:  reason,
					Actor:   service.Actor{ID: systemActorID, Role: domain.ActorSystem},
				})
				if err != nil {
					return err
				}
				if jsonOutput {
					return printJSON(map[string]any{
						"shift_id": outcome.Shift.ID,
						"status":   outcome.Shift.Status,
						"effects":  len(outcome.Effects),
					})
				}
				tw := newTable(table.Row{"#", "Effect"})
				for i, e := range outcome.Effects {
					tw.AppendRow(table.Row{strconv.Itoa(i + 1), e.Kind()})
				}
				tw.Render()
				cmd.Printf("shift %s is now %s\n", outcome.Shift.ID, lifecycle.StatusLabel(outcome.Shift.Status))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "reason recorded in shift history")
	return cmd
}
