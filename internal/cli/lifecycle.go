package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/coolair/coolair-backend/internal/models"
	"github.com/coolair/coolair-backend/internal/services"
)

func newAppointmentsCmd(backend func() *Backend, format func() string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "appointments",
		Short: "Operator actions on appointments",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a scheduled appointment as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid appointment id %q", args[0])
			}
			b := backend()
			appt, err := services.NewAppointmentService(b.DB, b.Events).Complete(context.Background(), id)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), format(), appt, func() *table {
				t := newTable("ID", "USER", "DATE", "SLOT", "STATUS")
				t.addRow(appt.ID.String(), appt.UserID.String(),
					time.Time(appt.AppointmentDate).Format("2006-01-02"), appt.TimeSlot, string(appt.Status))
				return t
			})
		},
	})
	return cmd
}

func newSubscriptionsCmd(backend func() *Backend, format func() string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subscriptions",
		Short: "Operator actions on subscriptions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "expire <id>",
		Short: "Mark an active subscription as expired",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid subscription id %q", args[0])
			}
			b := backend()
			sub, err := services.NewSubscriptionService(b.DB, b.Events).Expire(context.Background(), id)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), format(), sub, func() *table {
				return subscriptionTable([]models.Subscription{*sub})
			})
		},
	})

	var asOf string
	overdue := &cobra.Command{
		Use:   "overdue",
		Short: "List active subscriptions past their end date (read-only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now().UTC()
			if asOf != "" {
				t, err := time.Parse("2006-01-02", asOf)
				if err != nil {
					return fmt.Errorf("invalid --as-of date %q, want YYYY-MM-DD", asOf)
				}
				now = t
			}
			b := backend()
			subs, err := services.NewSubscriptionService(b.DB, b.Events).Overdue(context.Background(), now)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), format(), subs, func() *table {
				return subscriptionTable(subs)
			})
		},
	}
	overdue.Flags().StringVar(&asOf, "as-of", "", "evaluate as of this date (YYYY-MM-DD) instead of now")
	cmd.AddCommand(overdue)

	return cmd
}

func subscriptionTable(subs []models.Subscription) *table {
	t := newTable("ID", "USER", "PLAN", "START", "END", "STATUS")
	for _, s := range subs {
		plan := fmt.Sprintf("%d", s.PlanID)
		if s.Plan != nil {
			plan = s.Plan.Title
		}
		t.addRow(s.ID.String(), s.UserID.String(), plan,
			s.StartDate.Format("2006-01-02"), s.EndDate.Format("2006-01-02"), string(s.Status))
	}
	return t
}
