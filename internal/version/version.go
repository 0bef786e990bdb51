package version

// Name identifies the service in logs, traces, and the NATS client name.
const Name = "tourd"

// Version is overridden at build time via -ldflags.
var Version = "dev"
