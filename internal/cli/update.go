package cli

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/guiyumin/srt-translator/internal/core/i18n"
	"github.com/guiyumin/srt-translator/internal/updater"
)

var checkOnly bool

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update translator to the latest release",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t := i18n.T(uiLanguage())
		ctx := cmd.Context()

		fmt.Println(t.Update.Checking)
		check, err := updater.CheckUpdate(ctx)
		if errors.Is(err, updater.ErrDevBuild) {
			fmt.Println(color.YellowString("%s", t.Update.DevBuild))
			return nil
		}
		if err != nil {
			return err
		}

		latest := check.Latest.Version()
		if !check.Newer {
			fmt.Println(color.GreenString(t.Update.UpToDate, check.Current))
			return nil
		}
		fmt.Println(color.CyanString(t.Update.Available, latest, check.Current))
		if checkOnly {
			return nil
		}

		if err := updater.Update(ctx, check); err != nil {
			return err
		}
		fmt.Println(color.GreenString(t.Update.Updated, latest))
		return nil
	},
}

func init() {
	updateCmd.Flags().BoolVar(&checkOnly, "check", false, "only report whether a newer release exists")
	rootCmd.AddCommand(updateCmd)
}
