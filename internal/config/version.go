package config

// Version is injected at build time via ldflags.
//
// Build with:
//
//	go build -ldflags "-X 'github.com/slipstream/torbox/internal/config.Version=1.2.3'" ./cmd/torbox
var Version = "dev"
