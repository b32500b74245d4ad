// Package config defines ribezal's command-line surface: a single cobra
// flag set covering the fifo path, pool capacity, read buffer size, and log
// level.
package config

import "github.com/spf13/cobra"

// Config is the resolved set of runtime knobs.
type Config struct {
	FifoPath        string
	PoolCapacity    int
	ReadBufCapacity int
	LogLevel        string
}

// Default returns ribezal's out-of-the-box configuration.
func Default() Config {
	return Config{
		FifoPath:        "input-fifo",
		PoolCapacity:    24,
		ReadBufCapacity: 64,
		LogLevel:        "info",
	}
}

// RegisterFlags binds cfg's fields to cmd's persistent flags, in place.
func RegisterFlags(cmd *cobra.Command, cfg *Config) {
	def := Default()
	cmd.PersistentFlags().StringVar(&cfg.FifoPath, "fifo-path", def.FifoPath,
		"path of the named pipe the REPL reads commands from")
	cmd.PersistentFlags().IntVar(&cfg.PoolCapacity, "pool-capacity", def.PoolCapacity,
		"fixed number of task slots in the allocator pool")
	cmd.PersistentFlags().IntVar(&cfg.ReadBufCapacity, "read-buf-capacity", def.ReadBufCapacity,
		"size of the fifo read buffer; not applied: the REPL always reads up to 64 bytes per poll tick")
	cmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", def.LogLevel,
		"log level: debug, info, warn, or error")
}
