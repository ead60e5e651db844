package version

// Value is overridden at build time with -ldflags "-X contentboard/internal/version.Value=...".
var Value = "dev"
