package portnet

import _ "embed"

// Version is the release version of portnet, embedded from version.txt.
//
//go:embed version.txt
var Version string
