package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"
	_ "time/tzdata"

	"sp500-dashboard/src/cache"
	"sp500-dashboard/src/config"
	"sp500-dashboard/src/dashboard"
	"sp500-dashboard/src/data_source/wikipedia"
	"sp500-dashboard/src/data_source/yahoo"
	"sp500-dashboard/src/grpc_control"
	"sp500-dashboard/src/logger"
	"sp500-dashboard/src/models"
	"sp500-dashboard/src/network"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func main() {
	app := cli.NewApp()
	app.Name = "snapshot"
	app.Usage = "Print the company record, range summary and chart bounds for one index member"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "symbol, s", Usage: "index symbol, e.g. AAPL"},
		cli.StringFlag{Name: "window, w", Value: models.DefaultWindowLabel, Usage: "time window label"},
		cli.StringFlag{Name: "csv", Usage: "write the raw history to this file"},
		cli.StringFlag{Name: "config, c", Usage: "path to config file (defaults when empty)"},
		cli.StringFlag{Name: "grpc", Usage: "query a running dashboard's control service instead"},
		cli.BoolFlag{Name: "json", Usage: "print the full view as JSON"},
		cli.DurationFlag{Name: "timeout", Value: time.Minute},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// -----------------------------------------------------------------------------

func run(c *cli.Context) error {
	symbol := c.String("symbol")
	if symbol == "" {
		cli.ShowAppHelpAndExit(c, 2)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.Duration("timeout"))
	defer cancel()

	if addr := c.String("grpc"); addr != "" {
		return runRemote(ctx, addr, symbol, c.String("window"))
	}

	conf, err := loadConfig(c.String("config"))
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	if err := logger.Configure(models.MLogConfig{Level: "warning", Output: "stderr"}); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	nm := network.NewAsyncNetworkManager(conf.MConfig, logger.NewLogger("NetworkManager"))
	catalog := cache.NewCatalogCache(cache.NewMemoryStore(), wikipedia.NewWikipediaSource(conf.Catalog.URL, nm, nil), 0, nil)
	svc := dashboard.NewService(catalog, yahoo.NewYahooFinanceSource(conf.MConfig, nm, nil), models.DefaultWindow())

	snap, err := svc.Snapshot(ctx, symbol, c.String("window"))
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	if path := c.String("csv"); path != "" {
		data, err := snap.CSV()
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		fmt.Fprintf(os.Stderr, "wrote %d rows to %s\n", snap.History.Len(), path)
	}

	if c.Bool("json") {
		return printJSON(os.Stdout, snap.View)
	}
	printView(os.Stdout, snap.View)
	return nil
}

// -----------------------------------------------------------------------------

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.NewConfig(path)
	}
	conf, err := config.Parse(nil)
	if err != nil {
		return nil, err
	}
	return conf, conf.ApplyEnv(os.Getenv)
}

// -----------------------------------------------------------------------------

func runRemote(ctx context.Context, addr, symbol, window string) error {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	defer conn.Close()

	view, err := grpc_control.NewDashboardControlClient(conn).GetView(ctx, symbol, window)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	return printJSON(os.Stdout, view.AsMap())
}

// -----------------------------------------------------------------------------

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// -----------------------------------------------------------------------------

func printView(w io.Writer, view *models.MDashboardView) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintf(tw, "Information for %s\n\n", view.Symbol)
	for _, f := range view.Company.Fields {
		fmt.Fprintf(tw, "%s\t%s\n", f.Name, f.Value)
	}

	s := view.Summary
	fmt.Fprintf(tw, "\n%s Summary (%s)\n\n", view.Window.Label, s.Label)
	fmt.Fprintf(tw, "High\t%s\n", humanize.FormatFloat("#,###.##", s.High))
	fmt.Fprintf(tw, "Low\t%s\n", humanize.FormatFloat("#,###.##", s.Low))
	fmt.Fprintf(tw, "Max Volume\t%s\n", humanize.Comma(int64(s.MaxVolume)))
	fmt.Fprintf(tw, "Min Volume\t%s\n", humanize.Comma(int64(s.MinVolume)))
	fmt.Fprintf(tw, "Max Dividends\t%.4f\n", s.MaxDividends)
	fmt.Fprintf(tw, "Split Occurred\t%t\n", s.SplitOccurred)

	fmt.Fprintf(tw, "\n%s: %d points, y-axis %.2f to %.2f\n", view.Chart.Heading, len(view.Chart.Series), view.Chart.YRange.Low, view.Chart.YRange.High)
	fmt.Fprintf(tw, "%s (%s)\n", view.Download.Label, view.Download.FileName)
}
