package cmd

import (
	"fmt"

	"raffler/models"

	"github.com/spf13/cobra"
)

func participantsCommand() *cobra.Command {
	var limit int
	participantsCmd := &cobra.Command{
		Use:   "participants",
		Short: "Show the current ranking",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				if limit > 0 {
					board, err := a.participants.GetLeaderboard(cmd.Context(), limit)
					if err != nil {
						return err
					}
					printRanking(cmd, board.Entries)
					fmt.Fprintf(cmd.OutOrStdout(), "%d participant(s) in total\n", board.TotalParticipants)
					return nil
				}

				all, err := a.participants.GetParticipants(cmd.Context())
				if err != nil {
					return err
				}
				printRanking(cmd, all)
				return nil
			})
		},
	}
	participantsCmd.Flags().IntVar(&limit, "limit", 0, "show only the top N participants")
	return participantsCmd
}

func joinCommand() *cobra.Command {
	var referrer int64
	joinCmd := &cobra.Command{
		Use:   "join USER_ID",
		Short: "Register a participant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseID("user ID", args[0])
			if err != nil {
				return err
			}
			var referrerID *int64
			if cmd.Flags().Changed("referrer") {
				referrerID = &referrer
			}
			return withApp(cmd.Context(), func(a *app) error {
				result, err := a.participants.Register(cmd.Context(), userID, referrerID)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if !result.IsRegistered() {
					fmt.Fprintf(out, "%d is already registered\n", userID)
					return nil
				}
				fmt.Fprintf(out, "registered %d with %d point(s)\n", userID, result.Participant.Priority)
				if referrerID != nil && !result.Referred {
					fmt.Fprintf(out, "referral by %d was not recorded\n", *referrerID)
				}
				return nil
			})
		},
	}
	joinCmd.Flags().Int64Var(&referrer, "referrer", 0, "user ID of the participant who referred this user")
	return joinCmd
}

func leaveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "leave USER_ID",
		Short: "Remove a participant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseID("user ID", args[0])
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), func(a *app) error {
				removed, err := a.participants.Remove(cmd.Context(), userID)
				if err != nil {
					return err
				}
				if !removed {
					fmt.Fprintf(cmd.OutOrStdout(), "%d is not a participant\n", userID)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %d\n", userID)
				return nil
			})
		},
	}
}

func redeemCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "redeem USER_ID CODE",
		Short: "Redeem a code for a participant",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseID("user ID", args[0])
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), func(a *app) error {
				validation, err := a.codes.ValidateCode(cmd.Context(), args[1])
				if err != nil {
					return err
				}
				if !validation.Valid {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[1], validation.Reason)
					return nil
				}

				result, err := a.codes.RedeemCode(cmd.Context(), userID, validation.CodeID)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), redeemMessage(result))
				return nil
			})
		},
	}
}

func redeemMessage(result models.RedeemResult) string {
	switch result {
	case models.RedeemResultRedeemed:
		return "code redeemed"
	case models.RedeemResultAlreadyRedeemed:
		return "code was already redeemed by this user"
	case models.RedeemResultNonExistingUser:
		return "user is not a participant"
	case models.RedeemResultNonExistingCode:
		return "code does not exist"
	default:
		return string(result)
	}
}
