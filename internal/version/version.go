package version

import (
	"fmt"

	"github.com/fatih/color"
)

const Version = "v0.1.0"

// asciiArt is the nsqliteseed banner.
const asciiArt = `    _   _______ ____    __    _ __          _____               __
   / | / / ___// __ \  / /   (_) /____     / ___/___  ___  ____/ /
  /  |/ /\__ \/ / / / / /   / / __/ _ \    \__ \/ _ \/ _ \/ __  /
 / /|  /___/ / /_/ / / /___/ / /_/  __/   ___/ /  __/  __/ /_/ /
/_/ |_//____/\___\_\/_____/_/\__/\___/   /____/\___/\___/\__,_/`

// Banner returns the colored banner with the current version.
func Banner() string {
	art := color.New(color.FgCyan, color.Bold).Sprint(asciiArt)
	return fmt.Sprintf(
		"%s\n%s\nFor more information visit https://github.com/nsqlite/nsqliteseed",
		art, color.New(color.FgCyan).Sprint("Seed "+Version),
	)
}
