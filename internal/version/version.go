package version

// Version is overridden at build time:
//
//	go build -ldflags "-X github.com/bnema/spo-contact-sync/internal/version.Version=v1.0.0" ./cmd/csync
var Version = "dev"
