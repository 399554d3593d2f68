package main

import (
	"fmt"
	"os"
	"regexp"

	"github.com/wuggawugga/adventurebot/pkg/gamedata"
)

// validate loads a theme directory and reports every structural problem
// it finds. Run it in CI before shipping theme changes.
func main() {
	if len(os.Args) < 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s <data-dir> <theme-name>\n", os.Args[0])
		os.Exit(1)
	}

	dataDir, themeName := os.Args[1], os.Args[2]

	if !isValidThemeName(themeName) {
		fmt.Fprintf(os.Stderr, "Theme name %q must be lowercase snake_case (e.g., default, high_seas)\n", themeName)
		os.Exit(1)
	}

	fmt.Printf("Validating theme %q in %s...\n", themeName, dataDir)

	theme, err := gamedata.LoadTheme(dataDir, themeName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed:\n%v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Theme is valid: %d monsters, %d attributes, %d pets.\n",
		len(theme.Monsters), len(theme.Attributes), len(theme.Pets))
}

var themeNameRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

func isValidThemeName(name string) bool {
	return themeNameRe.MatchString(name)
}
