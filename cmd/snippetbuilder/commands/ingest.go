package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"git.home.luguber.info/inful/snippetbuilder/internal/build"
)

// IngestCmd implements the 'ingest' command.
type IngestCmd struct {
	Files bool `short:"f" help:"List every ingested file"`
}

func (i *IngestCmd) Run(_ *Global, root *CLI) error {
	cfg, _, err := loadConfig(root.Config)
	if err != nil {
		return err
	}
	report, err := build.Ingest(context.Background(), cfg, nil)
	if report != nil {
		PrintIngestReport(os.Stdout, report, i.Files)
	}
	return err
}

// PrintIngestReport writes a per-collection summary of report to w.
func PrintIngestReport(w io.Writer, report *build.IngestReport, files bool) {
	p := message.NewPrinter(language.English)
	_, _ = p.Fprintf(w, "Metadata source: %s\n", report.MetadataSource)
	for _, c := range report.Collections {
		_, _ = p.Fprintf(w, "%-10s %6d records %4d failed  %s\n", c.Name, len(c.Records), len(c.Failures), c.Dir)
		if files {
			for _, r := range c.Records {
				_, _ = fmt.Fprintf(w, "  %s  first seen %s  last updated %s\n",
					r.FileName, r.FirstSeen.Format("2006-01-02"), r.LastUpdated.Format("2006-01-02"))
			}
		}
		for _, f := range c.Failures {
			_, _ = fmt.Fprintf(w, "  FAILED %s: %v\n", f.FileName, f.Err)
		}
	}
}
