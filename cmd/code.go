package cmd

import (
	"fmt"

	"raffler/models"

	"github.com/spf13/cobra"
)

func codeCommand() *cobra.Command {
	codeCmd := &cobra.Command{
		Use:   "code",
		Short: "Generate, validate and delete redeemable codes",
	}

	var uses int
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a new redeemable code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := usePolicy(uses)
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), func(a *app) error {
				code, err := a.codes.GenerateCode(cmd.Context(), policy)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (id %d, %s)\n", code.Code, code.ID, policy)
				return nil
			})
		},
	}
	generateCmd.Flags().IntVar(&uses, "uses", 1, "number of redemptions allowed, -1 for unlimited")

	validateCmd := &cobra.Command{
		Use:   "validate CODE",
		Short: "Check whether a code exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				validation, err := a.codes.ValidateCode(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if validation.Valid {
					fmt.Fprintf(cmd.OutOrStdout(), "valid (id %d)\n", validation.CodeID)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "not valid: %s\n", validation.Reason)
				}
				return nil
			})
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a code by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codeID, err := parseID("code ID", args[0])
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), func(a *app) error {
				deleted, err := a.codes.DeleteCode(cmd.Context(), codeID)
				if err != nil {
					return err
				}
				if !deleted {
					return fmt.Errorf("code %d does not exist", codeID)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted code %d\n", codeID)
				return nil
			})
		},
	}

	codeCmd.AddCommand(generateCmd, validateCmd, deleteCmd)
	return codeCmd
}

// usePolicy maps the --uses flag onto a code use policy
func usePolicy(uses int) (models.CodeUsePolicy, error) {
	var policy models.CodeUsePolicy
	switch {
	case uses == models.UnlimitedUses:
		policy = models.UseUnlimited()
	case uses == 1:
		policy = models.UseOnce()
	default:
		policy = models.UseCounted(uses)
	}
	if err := policy.Validate(); err != nil {
		return models.CodeUsePolicy{}, err
	}
	return policy, nil
}
