package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	tiercache "github.com/karuvi/tiercache"
	"github.com/karuvi/tiercache/api"
	"github.com/karuvi/tiercache/config"
	"github.com/karuvi/tiercache/durable"
	"github.com/karuvi/tiercache/metrics"
	"github.com/karuvi/tiercache/types"
)

func main() {
	ctx := context.Background()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	dir, err := os.MkdirTemp("", "tiercache-demo")
	if err != nil {
		logger.Fatal("tempdir", zap.Error(err))
	}
	defer os.RemoveAll(dir)

	store, err := durable.OpenSQLite(filepath.Join(dir, "cache.db"))
	if err != nil {
		logger.Fatal("open durable store", zap.Error(err))
	}
	defer store.Close()

	cfg := config.Default()
	prom := metrics.NewPrometheus("demo")

	cache, err := tiercache.New(cfg,
		tiercache.WithDurableStore(store),
		tiercache.WithMetrics(prom),
		tiercache.WithObserver(types.NewZapObserver(logger)),
	)
	if err != nil {
		logger.Fatal("build cache", zap.Error(err))
	}
	defer cache.Close()

	fmt.Println("==================== ROUTING ====================")
	cache.Set(ctx, "student:42", map[string]any{"name": "Asha", "grade": 9})
	cache.Set(ctx, "ui:sidebar", "collapsed", api.SessionOnly())
	cache.Set(ctx, "permissions:42", []string{"payments.read"}, api.WithPriority(types.PriorityHigh))
	printTiers(cache)

	fmt.Println("\n==================== PROMOTION ====================")
	for i := 0; i < 6; i++ {
		cache.Get(ctx, "student:42")
	}
	printTiers(cache) // student:42 now served from hot

	fmt.Println("\n==================== TAG INVALIDATION ====================")
	cache.Set(ctx, "view:student:42:summary", "…", api.WithTags("student:42"))
	cache.Set(ctx, "view:student:42:fees", "…", api.WithTags("student:42"))
	n := cache.InvalidateByTag("student:42")
	fmt.Printf("invalidated %d entries for tag student:42\n", n)

	fmt.Println("\n==================== TTL ====================")
	cache.Set(ctx, "otp:42", "991224", api.WithTTL(500*time.Millisecond))
	time.Sleep(time.Second)
	if _, ok := cache.Get(ctx, "otp:42"); !ok {
		fmt.Println("otp:42 expired as expected")
	}

	fmt.Println("\n==================== TYPED ACCESS ====================")
	type Product struct {
		SKU   string
		Price int
	}
	p, err := tiercache.GetOrSetAs(ctx, cache, "product:77", func(context.Context) (Product, error) {
		return Product{SKU: "NB-77", Price: 1250}, nil
	})
	if err != nil {
		logger.Fatal("getOrSet", zap.Error(err))
	}
	fmt.Printf("product:77 = %+v\n", p)

	fmt.Println("\n==================== STATS ====================")
	printTiers(cache)
	s := cache.Stats()
	fmt.Printf("hits=%d misses=%d\n", s.Hits, s.Misses)
}

func printTiers(c *tiercache.TieredCache) {
	s := c.Stats()
	for _, name := range []types.TierName{types.TierHot, types.TierSession, types.TierDurable} {
		t := s.Tiers[name]
		fmt.Printf("%-8s entries=%-3d used=%-6d cap=%d\n", name, t.Entries, t.SizeBytes, t.CapacityBytes)
	}
}
