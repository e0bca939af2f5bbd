package main

import (
	"github.com/spf13/cobra"

	"trilang/internal/langdb"
)

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Copy a language database into another format",
		Args:  cobra.ExactArgs(2),
		RunE:  convertExecution,
	}
	cmd.Flags().String("to", "auto", "output format (auto|msgpack|sqlite); auto picks by extension")
	return cmd
}

func convertExecution(cmd *cobra.Command, args []string) (err error) {
	toValue, _ := cmd.Flags().GetString("to")
	to, err := langdb.ParseFormat(toValue)
	if err != nil {
		return err
	}

	s, err := startSession(cmd)
	if err != nil {
		return err
	}
	defer func() { err = s.finish(err) }()

	from, err := langdb.ParseFormat(s.flagString("db-format", ""))
	if err != nil {
		return err
	}
	db, err := langdb.Open(s.ctx, args[0], from)
	if err != nil {
		return err
	}
	if err := langdb.Write(s.ctx, args[1], db, to); err != nil {
		return err
	}
	s.info("converted %d languages to %s", db.Len(), args[1])
	return nil
}
