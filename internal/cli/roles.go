package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spec-kit/helpdesk-service/internal/client"
)

// RolesCmd manages the assignee role directory.
func RolesCmd(api *client.Client) *cobra.Command {
	rolesCmd := &cobra.Command{
		Use:   "roles",
		Short: "Manage assignee roles",
	}

	rolesCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List assignee roles",
		RunE: func(cmd *cobra.Command, args []string) error {
			roles, err := api.ListRoles(cmd.Context())
			if err != nil {
				return err
			}
			if len(roles) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No roles configured.")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
			for _, role := range roles {
				fmt.Fprintf(w, "%s\t%s\t%s\n", role.ID, role.Name, role.Description)
			}
			return w.Flush()
		},
	})

	return rolesCmd
}
