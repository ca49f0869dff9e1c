// Command quote queries a FinQuote server.
//
//	quote [-server URL] quote AAPL
//	quote quotes AAPL,MSFT,005930
//	quote history 005930 -period 3mo
//	quote news AAPL
//	quote search samsung
//	quote all AAPL
//	quote decision AAPL -period 6mo
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"FinQuote/internal/client"
	"FinQuote/internal/domain/models"
	applogger "FinQuote/pkg/logger"
)

func main() {
	server := flag.String("server", envOr("FINQUOTE_SERVER", "http://localhost:8080"), "server base URL")
	apiKey := flag.String("key", os.Getenv("FINQUOTE_API_KEY"), "bearer token")
	timeout := flag.Duration("timeout", 30*time.Second, "request timeout")
	verbose := flag.Bool("v", false, "log request failures")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) < 2 {
		usage()
		os.Exit(2)
	}
	cmd, arg := args[0], args[1]

	sub := flag.NewFlagSet(cmd, flag.ExitOnError)
	period := sub.String("period", string(models.DefaultPeriod), "history period")
	_ = sub.Parse(args[2:])

	logger := applogger.Nop()
	if *verbose {
		if l, err := applogger.New(&applogger.Config{Level: "debug", Format: "console", Output: "stderr"}); err == nil {
			logger = l
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	c := client.New(*server, client.WithAPIKey(*apiKey), client.WithLogger(logger))

	out, err := run(ctx, c, cmd, arg, models.NormalizePeriod(*period))
	if err != nil {
		fmt.Fprintf(os.Stderr, "quote: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	_ = enc.Encode(out)
}

func run(ctx context.Context, c *client.Client, cmd, arg string, period models.Period) (interface{}, error) {
	switch cmd {
	case "quote":
		return c.Quote(ctx, arg)
	case "quotes":
		return c.Quotes(ctx, strings.Split(arg, ","))
	case "history":
		return c.History(ctx, arg, period)
	case "news":
		return c.News(ctx, arg)
	case "search":
		return c.Search(ctx, arg)
	case "all":
		return c.All(ctx, arg), nil
	case "decision":
		return c.Decision(ctx, arg, period)
	default:
		return nil, fmt.Errorf("unknown command %q", cmd)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: quote [flags] quote|quotes|history|news|search|all|decision ARG [-period P]\n")
	flag.PrintDefaults()
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
