package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the documentation cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached document model",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache location and size",
	Args:  cobra.NoArgs,
	RunE:  runCacheStats,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
}

func openCache() (*engine, error) {
	cfg := GetConfig()
	if !cfg.Cache.Enabled {
		return nil, fmt.Errorf("cache is disabled in the configuration")
	}
	return newEngine(cfg, GetRootDir(), true)
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	eng, err := openCache()
	if err != nil {
		return err
	}
	defer eng.Close()

	if err := eng.store.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	fmt.Printf("Cache cleared: %s\n", GetConfig().CachePath(GetRootDir()))
	return nil
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	eng, err := openCache()
	if err != nil {
		return err
	}
	defer eng.Close()

	stats, err := eng.store.Stats()
	if err != nil {
		return fmt.Errorf("failed to read cache stats: %w", err)
	}

	fmt.Printf("Backend: %s\n", cfg.Cache.Backend)
	if cfg.Cache.Backend != "memory" {
		fmt.Printf("Path:    %s\n", cfg.CachePath(GetRootDir()))
	}
	fmt.Printf("Marker:  %s\n", eng.cache.Marker())
	fmt.Printf("Entries: %d\n", stats.Entries)
	fmt.Printf("Bytes:   %d\n", stats.Bytes)
	return nil
}
