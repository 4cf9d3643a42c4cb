package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/sessiongrade/internal/config"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Print the effective keyword pack as TOML",
	Long: `Keywords prints the task, approval, and limitation keyword lists the
parser will use, after applying the config file and any --keywords pack.
Save the output, edit it, and pass it back with --keywords to swap the
heuristics without touching the config file.`,
	Args: cobra.NoArgs,
	RunE: runKeywords,
}

func init() {
	rootCmd.AddCommand(keywordsCmd)
}

func runKeywords(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	pack := config.PackFromConfig(e.cfg.Keywords)
	if path := e.cfg.Keywords.Pack; path != "" {
		overlay, err := config.LoadKeywordPack(path)
		if err != nil {
			return err
		}
		// A pack with a bad pattern fails here rather than at scoring time.
		if _, err := e.cfg.KeywordSet(); err != nil {
			return err
		}
		pack = overlay.Overlay(pack)
	}

	if e.format != formatText {
		return encode(e.out, e.format, pack)
	}
	if err := config.WriteKeywordPack(e.out, pack); err != nil {
		return fmt.Errorf("printing keywords: %w", err)
	}
	return nil
}
