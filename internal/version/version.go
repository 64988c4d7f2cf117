package version

// AppName is shown in logs and help output.
const AppName = "Remindme"

// Version is overridden at build time with -ldflags "-X .../version.Version=...".
var Version = "dev"
