package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/codec"
	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/dispatch"
	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/httptransport"
	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/intpolicy"
	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/log"
	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/request"
)

// Version is overridden at build-time.
var Version = "dev"

func main() {
	baseURL := flag.String("url", "http://localhost:7474/db/neo4j/query/v2", "Query API endpoint")
	token := flag.String("token", "", "auth token")
	timeout := flag.Duration("timeout", 10*time.Second, "per-request timeout")
	showVer := flag.Bool("version", false, "print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "queryapi-demo %s\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\nOptions:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVer {
		fmt.Printf("queryapi-demo %s\n", Version)
		os.Exit(0)
	}

	log.Logger = log.Logger.Level(zerolog.InfoLevel).With().
		Str("version", Version).
		Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	statements := []string{
		"RETURN 1 AS n",
		"RETURN 'hello' AS s",
		"RETURN datetime() AS now",
	}

	doer := httptransport.NewFastHTTPDoer(*timeout)
	c := codec.New(intpolicy.Default())

	g, gctx := errgroup.WithContext(ctx)
	for i, stmt := range statements {
		i, stmt := i, stmt
		g.Go(func() error {
			return runStatement(gctx, doer, c, *baseURL, *token, i, stmt)
		})
	}
	if err := g.Wait(); err != nil {
		log.Logger.Fatal().Err(err).Msg("fatal")
	}
	log.Logger.Info().Msg("shutdown complete")
}

func runStatement(ctx context.Context, doer *httptransport.FastHTTPDoer, c *codec.Codec, baseURL, token string, idx int, stmt string) error {
	enc := request.NewEncoder(token, stmt, nil, request.Config{}, nil)
	resp, err := doer.Do(ctx, baseURL, enc)
	if err != nil {
		log.Logger.Error().Int("statement", idx).Err(err).Msg("request failed")
		return err
	}
	reader, err := dispatch.Dispatch(resp, c)
	if err != nil {
		log.Logger.Error().Int("statement", idx).Err(err).Msg("dispatch failed")
		return err
	}
	keys, err := reader.Keys()
	if err != nil {
		log.Logger.Error().Int("statement", idx).Err(err).Msg("keys failed")
		return err
	}
	rows := 0
	it := reader.Stream()
	for {
		row, err := it.Next()
		if err != nil {
			break
		}
		rows++
		log.Logger.Debug().Int("statement", idx).Interface("row", row).Msg("received row")
	}
	meta, err := reader.Meta()
	if err != nil {
		log.Logger.Error().Int("statement", idx).Err(err).Msg("meta failed")
		return err
	}
	log.Logger.Info().
		Int("statement", idx).
		Strs("keys", keys).
		Int("rows", rows).
		Strs("bookmarks", meta.Bookmarks).
		Msg("statement complete")
	return nil
}
