package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/yesilw0rks/airnote"
	"github.com/yesilw0rks/airnote/pkg/adapters/memory"
	"github.com/yesilw0rks/airnote/pkg/core"
)

func main() {
	count := flag.Int("count", 1000, "Number of notes to generate")
	ext := flag.String("ext", ".json", "Cache format (.json or .yaml)")
	keep := flag.Bool("keep", false, "Keep the benchmark cache after running")
	flag.Parse()

	benchDir, err := os.MkdirTemp("", "airnote_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	remote := memory.NewRemote()

	// 1. Save through the full stack; uploads go to an in-memory remote.
	client, err := airnote.New(benchDir,
		airnote.WithLogger(logger),
		airnote.WithCacheExt(*ext),
		airnote.WithRemoteStore(remote),
		airnote.WithWelcomeSeed(false),
	)
	if err != nil {
		panic(err)
	}
	if err := client.Start(ctx); err != nil {
		panic(err)
	}
	if err := client.Reconciler().SwitchToGuest(ctx); err != nil {
		panic(err)
	}

	fmt.Printf("Saving %d notes to %s...\n", *count, benchDir)
	start := time.Now()
	for i := 0; i < *count; i++ {
		_, err := client.Reconciler().Save(ctx, core.Draft{
			Title:   fmt.Sprintf("Note %d", i),
			Content: fmt.Sprintf("## Benchmark %d\n- **bold** and *italic*\n- -done- _later_", i),
			Tags:    []string{"benchmark"},
		})
		if err != nil {
			panic(err)
		}
	}
	fmt.Printf("Save took: %v (%v/op)\n", time.Since(start), time.Since(start)/time.Duration(max(*count, 1)))

	start = time.Now()
	if err := client.Reconciler().Flush(ctx); err != nil {
		panic(err)
	}
	fmt.Printf("Upload took: %v (%d remote notes)\n", time.Since(start), remote.Len())
	_ = client.Close()

	// 2. Cold read from the cache with the remote down.
	offline := memory.NewRemote()
	offline.SetOffline(true)
	cold, err := airnote.New(benchDir,
		airnote.WithLogger(logger),
		airnote.WithCacheExt(*ext),
		airnote.WithRemoteStore(offline),
	)
	if err != nil {
		panic(err)
	}
	defer cold.Close()

	start = time.Now()
	_ = cold.Reconciler().Refresh(ctx, true)
	notes := cold.Reconciler().Notes()
	fmt.Printf("Cold cache read took: %v (%d notes)\n", time.Since(start), len(notes))

	// 3. Render every body.
	start = time.Now()
	var size int
	for _, n := range notes {
		size += len(airnote.Render(n.Content))
	}
	fmt.Printf("Render took: %v (%d bytes of HTML)\n", time.Since(start), size)

	if len(notes) != *count {
		fmt.Fprintf(os.Stderr, "expected %d notes, got %d\n", *count, len(notes))
		os.Exit(1)
	}
	fmt.Println(strings.Repeat("-", 40))
	fmt.Println("OK")
}
