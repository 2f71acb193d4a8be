package main

import "github.com/Retsomm/Elon-Musk-Web-sub000/cmd"

// Populated by goreleaser via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, date)
	cmd.Execute()
}
