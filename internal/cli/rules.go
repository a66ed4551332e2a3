package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spec-kit/helpdesk-service/internal/client"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/editor"
	"github.com/spec-kit/helpdesk-service/internal/view"
)

// RulesCmd manages escalation rules.
func RulesCmd(api *client.Client) *cobra.Command {
	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage escalation rules",
	}

	rulesCmd.AddCommand(rulesListCmd(api))
	rulesCmd.AddCommand(rulesGetCmd(api))
	rulesCmd.AddCommand(rulesCreateCmd(api))
	rulesCmd.AddCommand(rulesUpdateCmd(api))
	rulesCmd.AddCommand(rulesDeleteCmd(api))

	return rulesCmd
}

func rulesListCmd(api *client.Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List escalation rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			expand, _ := cmd.Flags().GetBool("expand")

			rules, err := api.ListRules(cmd.Context())
			if err != nil {
				return err
			}

			list := view.NewRuleList(rules)
			if expand {
				for i := range list.Cards {
					list.Toggle(i)
				}
			}
			list.Render(cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().Bool("expand", false, "show tier details for every rule")
	return cmd
}

func rulesGetCmd(api *client.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one escalation rule with its tiers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rule, err := api.GetRule(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			card := view.RuleCard{Rule: *rule}
			card.Toggle()
			card.Render(cmd.OutOrStdout())
			return nil
		},
	}
}

func rulesCreateCmd(api *client.Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an escalation rule",
		Long: `Create an escalation rule from flags. Repeat --tier to add tiers;
each takes roleId:slaHours and levels are assigned in order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			description, _ := cmd.Flags().GetString("description")
			priority, _ := cmd.Flags().GetString("priority")
			threshold, _ := cmd.Flags().GetInt("threshold")
			tiers, _ := cmd.Flags().GetStringArray("tier")

			ed := editor.NewRuleEditor(api)
			ed.SetName(name)
			ed.SetDescription(description)
			ed.SetPriority(domain.Priority(priority))
			ed.SetTimeThreshold(threshold)
			for _, spec := range tiers {
				roleID, sla, err := parseTierFlag(spec)
				if err != nil {
					return err
				}
				idx := ed.AddTier()
				if err := ed.SetTier(idx, roleID, sla); err != nil {
					return err
				}
			}

			rule, err := ed.Submit(cmd.Context())
			if err != nil {
				return submitError(ed, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created rule %s: %s\n", rule.ID, rule.Name)
			return nil
		},
	}
	cmd.Flags().String("name", "", "rule name")
	cmd.Flags().String("description", "", "rule description")
	cmd.Flags().String("priority", "", "one of low, medium, high, urgent")
	cmd.Flags().Int("threshold", 0, "time threshold in minutes")
	cmd.Flags().StringArray("tier", nil, "tier as roleId:slaHours, repeatable")
	return cmd
}

func rulesUpdateCmd(api *client.Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an escalation rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			existing, err := api.GetRule(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			ed := editor.NewRuleEditorFor(api, *existing)
			if cmd.Flags().Changed("name") {
				name, _ := cmd.Flags().GetString("name")
				ed.SetName(name)
			}
			if cmd.Flags().Changed("description") {
				description, _ := cmd.Flags().GetString("description")
				ed.SetDescription(description)
			}
			if cmd.Flags().Changed("priority") {
				priority, _ := cmd.Flags().GetString("priority")
				ed.SetPriority(domain.Priority(priority))
			}
			if cmd.Flags().Changed("threshold") {
				threshold, _ := cmd.Flags().GetInt("threshold")
				ed.SetTimeThreshold(threshold)
			}
			if tiers, _ := cmd.Flags().GetStringArray("tier"); len(tiers) > 0 {
				for i := len(existing.Tiers); i > 1; i-- {
					if err := ed.RemoveTier(1); err != nil {
						return err
					}
				}
				for i, spec := range tiers {
					roleID, sla, err := parseTierFlag(spec)
					if err != nil {
						return err
					}
					idx := 0
					if i > 0 || len(existing.Tiers) == 0 {
						idx = ed.AddTier()
					}
					if err := ed.SetTier(idx, roleID, sla); err != nil {
						return err
					}
				}
			}

			rule, err := ed.Submit(cmd.Context())
			if err != nil {
				return submitError(ed, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated rule %s: %s\n", rule.ID, rule.Name)
			return nil
		},
	}
	cmd.Flags().String("name", "", "rule name")
	cmd.Flags().String("description", "", "rule description")
	cmd.Flags().String("priority", "", "one of low, medium, high, urgent")
	cmd.Flags().Int("threshold", 0, "time threshold in minutes")
	cmd.Flags().StringArray("tier", nil, "replacement tier set as roleId:slaHours, repeatable")
	return cmd
}

func rulesDeleteCmd(api *client.Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an escalation rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				fmt.Fprintf(cmd.OutOrStdout(), "Delete escalation rule %s? [y/N]: ", args[0])
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				answer = strings.ToLower(strings.TrimSpace(answer))
				if answer != "y" && answer != "yes" {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}
			if err := api.DeleteRule(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted rule %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().Bool("yes", false, "skip the confirmation prompt")
	return cmd
}

func parseTierFlag(spec string) (string, float64, error) {
	roleID, slaPart, ok := strings.Cut(spec, ":")
	if !ok || strings.TrimSpace(roleID) == "" {
		return "", 0, fmt.Errorf("invalid tier %q, expected roleId:slaHours", spec)
	}
	sla, err := strconv.ParseFloat(strings.TrimSpace(slaPart), 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid SLA hours in tier %q: %w", spec, err)
	}
	return strings.TrimSpace(roleID), sla, nil
}

func submitError(ed *editor.RuleEditor, err error) error {
	if !errors.Is(err, editor.ErrInvalidDraft) {
		return err
	}
	encoded, jsonErr := json.MarshalIndent(ed.ValidationErrors(), "", "  ")
	if jsonErr != nil {
		return err
	}
	return fmt.Errorf("%w:\n%s", err, encoded)
}
