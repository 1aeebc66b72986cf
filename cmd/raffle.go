package cmd

import (
	"fmt"
	"time"

	"raffler/models"

	"github.com/spf13/cobra"
)

func raffleCommand() *cobra.Command {
	raffleCmd := &cobra.Command{
		Use:   "raffle",
		Short: "Start, inspect and stop raffles",
	}

	var name, description string
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start a raffle unless one is already running",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				result, err := a.raffles.CreateRaffle(cmd.Context(), name, description)
				if err != nil {
					return err
				}
				if result.Status == models.RaffleCreationStatusOngoingExists {
					return fmt.Errorf("raffle %d %q is already running", result.Raffle.ID, result.Raffle.Name)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "started raffle %d %q\n", result.Raffle.ID, result.Raffle.Name)
				return nil
			})
		},
	}
	startCmd.Flags().StringVar(&name, "name", "", "raffle name")
	startCmd.Flags().StringVar(&description, "description", "", "stored verbatim and shown by clients")
	_ = startCmd.MarkFlagRequired("name")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the running raffle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				raffle, err := a.raffles.GetOngoingRaffle(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if raffle == nil {
					fmt.Fprintln(out, "no raffle is running")
					return nil
				}
				fmt.Fprintln(out, describeRaffle(raffle))
				if raffle.Description != "" {
					fmt.Fprintln(out, raffle.Description)
				}
				return nil
			})
		},
	}

	var winners int
	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the running raffle, pick winners and reset the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("winners") {
				winners = loadedConfig.DefaultWinnerCount
			}
			return withApp(cmd.Context(), func(a *app) error {
				picked, err := a.raffles.StopRaffle(cmd.Context(), winners)
				if err != nil {
					return err
				}
				printRanking(cmd, picked)
				return nil
			})
		},
	}
	stopCmd.Flags().IntVar(&winners, "winners", 1, "number of winners to pick")

	winnersCmd := &cobra.Command{
		Use:   "winners ID",
		Short: "Show the recorded winners of a raffle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raffleID, err := parseID("raffle ID", args[0])
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), func(a *app) error {
				raffle, err := a.raffles.GetRaffle(cmd.Context(), raffleID)
				if err != nil {
					return err
				}
				if raffle == nil {
					return fmt.Errorf("raffle %d does not exist", raffleID)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, describeRaffle(raffle))
				if raffle.IsOngoing() {
					return nil
				}

				recorded, err := a.raffles.GetRaffleWinners(cmd.Context(), raffleID)
				if err != nil {
					return err
				}
				if len(recorded) == 0 {
					fmt.Fprintln(out, "no winners recorded")
					return nil
				}
				for _, w := range recorded {
					fmt.Fprintf(out, "%d. %d - %d point(s)\n", w.Position+1, w.UserID, w.Priority)
				}
				return nil
			})
		},
	}

	raffleCmd.AddCommand(startCmd, statusCmd, stopCmd, winnersCmd)
	return raffleCmd
}

func printRanking(cmd *cobra.Command, participants []*models.Participant) {
	out := cmd.OutOrStdout()
	if len(participants) == 0 {
		fmt.Fprintln(out, "no participants")
		return
	}
	for i, p := range participants {
		fmt.Fprintf(out, "%d. %d - %d point(s)\n", i+1, p.UserID, p.Priority)
	}
}

func describeRaffle(raffle *models.Raffle) string {
	if raffle.IsOngoing() {
		return fmt.Sprintf("raffle %d %q running since %s", raffle.ID, raffle.Name, raffle.StartedWhen.Format(time.RFC3339))
	}
	return fmt.Sprintf("raffle %d %q ended %s", raffle.ID, raffle.Name, raffle.EndedWhen.Format(time.RFC3339))
}
