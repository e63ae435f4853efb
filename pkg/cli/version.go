package cli

// Version is stamped at build time with
// -ldflags "-X github.com/luli45/photo-filter/pkg/cli.Version=v1.2.3".
var Version = "dev"
