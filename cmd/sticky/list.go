package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/sticky"
	"github.com/aretw0/sticky/pkg/gateway"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Show the board",
	Long: `List prints the notes in board order. --query keeps notes whose title,
content or checklist contains the text, ignoring case.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		query, _ := cmd.Flags().GetString("query")
		asJSON, _ := cmd.Flags().GetBool("json")
		asYAML, _ := cmd.Flags().GetBool("yaml")

		return withSession(cmd, func(ctx context.Context, s *sticky.Session) error {
			notes := s.Notes().Search(query)

			var codec gateway.Codec
			switch {
			case asJSON:
				codec = gateway.JSONCodec{Indent: true}
			case asYAML:
				codec = gateway.YAMLCodec{}
			default:
				renderBoard(cmd.OutOrStdout(), notes, query, time.Now())
				return nil
			}

			data, err := s.Gateway().Export(notes, codec)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		})
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringP("query", "q", "", "Filter notes by text")
	listCmd.Flags().Bool("json", false, "Output in JSON format")
	listCmd.Flags().Bool("yaml", false, "Output in YAML format")
	listCmd.MarkFlagsMutuallyExclusive("json", "yaml")
}
