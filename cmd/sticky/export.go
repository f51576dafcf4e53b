package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/aretw0/sticky"
	"github.com/aretw0/sticky/pkg/gateway"
)

// codecFor picks a codec from an explicit format or the file extension.
func codecFor(format, path string) (gateway.Codec, error) {
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(path), ".")
	}
	if format == "" {
		format = "json"
	}
	codec, ok := gateway.Codecs()[strings.ToLower(format)]
	if !ok {
		return nil, fmt.Errorf("unsupported format %q (want json or yaml)", format)
	}
	return codec, nil
}

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write the board to a file or stdout",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		var path string
		if len(args) == 1 {
			path = args[0]
		}
		codec, err := codecFor(format, path)
		if err != nil {
			return err
		}
		if c, ok := codec.(gateway.JSONCodec); ok {
			c.Indent = true
			codec = c
		}

		return withSession(cmd, func(ctx context.Context, s *sticky.Session) error {
			notes := s.Notes().List()
			data, err := s.Gateway().Export(notes, codec)
			if err != nil {
				return err
			}
			if path == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			if err := os.WriteFile(path, data, 0644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d notes to %s (%s)\n",
				len(notes), path, humanize.Bytes(uint64(len(data))))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("format", "f", "", "Output format: json or yaml (default from extension, else json)")
}
