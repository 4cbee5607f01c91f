package main

import (
	"os"
	"strings"
	"time"

	"wordbook/internal/apiclient"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "List vocabulary through the API, newest first",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		take, _ := cmd.Flags().GetInt("take")

		sess, err := openSession()
		if err != nil {
			return err
		}
		if !sess.LoggedIn() {
			printWarning("Not logged in, listing without an identity")
		}

		client := apiclient.New(cfg.APIURL, sess)
		words, err := client.ListVocab(cmd.Context(), strings.Join(args, " "), take)
		if err != nil {
			return err
		}

		if len(words) == 0 {
			printWarning("No words found")
			return nil
		}
		return printWords(os.Stdout, words, time.Now())
	},
}

func init() {
	listCmd.Flags().Int("take", 0, "maximum number of records (server default 200, max 500)")
}
