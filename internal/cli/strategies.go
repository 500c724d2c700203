package cli

import (
	"fmt"
	"io"
	"strings"

	"video-cutter/internal/fetcher"
	"video-cutter/internal/startup"

	"github.com/spf13/cobra"
)

var strategiesYAML bool

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "Show the fetch fallback order",
	Long: `Show the yt-dlp strategies tried, in order, for remote sources. With
--yaml the list is printed in the STRATEGIES_FILE format, which is a
convenient starting point for a custom file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := startup.ReadConfig().StrategiesFile
		if cmd.Flags().Changed("file") {
			path = strategiesFile
		}

		strategies, err := loadStrategies(path)
		if err != nil {
			return err
		}
		return PrintStrategies(cmd.OutOrStdout(), strategies, strategiesYAML)
	},
}

func init() {
	rootCmd.AddCommand(strategiesCmd)
	strategiesCmd.Flags().StringVar(&strategiesFile, "file", "", "YAML file with fetch strategies (default: STRATEGIES_FILE or built-in)")
	strategiesCmd.Flags().BoolVar(&strategiesYAML, "yaml", false, "print as YAML")
}

// PrintStrategies writes strategies to out as a numbered list or as YAML.
func PrintStrategies(out io.Writer, strategies []fetcher.Strategy, asYAML bool) error {
	if asYAML {
		data, err := fetcher.MarshalStrategies(strategies)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	}

	fmt.Fprintln(out, headerStyle.Render("Fetch strategies"))
	for i, s := range strategies {
		fmt.Fprintf(out, "%2d. %s %s\n", i+1, nameStyle.Render(s.Name), dimStyle.Render(strings.Join(s.Args(), " ")))
	}
	return nil
}
