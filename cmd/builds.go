package main

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var buildsLimit int

var buildsCmd = &cobra.Command{
	Use:   "builds",
	Short: "List persisted summary builds",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		builds, err := st.ListBuilds(ctx, buildsLimit)
		if err != nil {
			return eris.Wrap(err, "builds: list")
		}
		if len(builds) == 0 {
			fmt.Println("no builds")
			return nil
		}

		for _, b := range builds {
			fmt.Printf("%s  %s  rows=%d  depths=[%s]\n",
				b.ID,
				b.CreatedAt.Format("2006-01-02 15:04:05"),
				b.Rows,
				strings.Join(b.DepthLevels, ", "),
			)
		}
		return nil
	},
}

func init() {
	buildsCmd.Flags().IntVar(&buildsLimit, "limit", 20, "max builds to list")
	rootCmd.AddCommand(buildsCmd)
}
