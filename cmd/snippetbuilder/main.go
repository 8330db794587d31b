package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/snippetbuilder/cmd/snippetbuilder/commands"
	ferrors "git.home.luguber.info/inful/snippetbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/snippetbuilder/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("snippetbuilder"),
		kong.Description("Ingest snippet content and plan the pages of a snippet site."),
		kong.Vars{"version": version.String()},
	)

	err := parser.Run(&commands.Global{Logger: slog.Default()}, cli)
	ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
