// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/docconv/internal/client"
	"github.com/pdiddy/docconv/pkg/types"
)

const defaultClientTimeout = 5 * time.Minute

var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Convert files through a running docconv service",
	Long: `Convert uploads each file to a running docconv service and saves the
converted result in --out-dir under the name the service returns. The
conversion type follows the file extension (.pdf becomes DOCX, .docx becomes
PDF) unless --type is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("server", client.DefaultBaseURL, "base URL of the conversion service")
	convertCmd.Flags().String("type", "", "conversion type: pdf-to-docx or docx-to-pdf (default: from extension)")
	convertCmd.Flags().String("out-dir", ".", "directory for converted files")
	convertCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 5m)")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	baseURL, _ := cmd.Flags().GetString("server")
	typeFlag, _ := cmd.Flags().GetString("type")
	outDir, _ := cmd.Flags().GetString("out-dir")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultClientTimeout
	}

	c := client.New(baseURL)
	c.HTTP = &http.Client{Timeout: timeout}

	failed := 0
	for _, src := range args {
		t, err := conversionTypeFor(src, typeFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s: %v\n", src, err)
			failed++
			continue
		}
		res, err := c.Convert(cmd.Context(), src, t, outDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s: %v\n", src, err)
			failed++
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%d bytes)\n", src, res.Path, res.Size)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed conversion", failed, len(args))
	}
	return nil
}

// conversionTypeFor returns the explicit type when set, otherwise the type
// whose source extension matches path.
func conversionTypeFor(path, explicit string) (types.ConversionType, error) {
	if explicit != "" {
		return types.ParseConversionType(explicit)
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, t := range types.ConversionTypes {
		if t.SourceExt() == ext {
			return t, nil
		}
	}
	return 0, fmt.Errorf("cannot infer conversion type from extension %q; use --type", ext)
}
