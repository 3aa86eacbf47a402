package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner shown when an interactive
// session starts.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	// Phosphor-green gradient, darkest at the top
	s1 := termenv.String("   __ _ _ __ _   _  ___ ").Foreground(p.Color("#15803d"))
	s2 := termenv.String("  / _` | '__| | | |/ _ \\").Foreground(p.Color("#16a34a"))
	s3 := termenv.String(" | (_| | |  | |_| |  __/").Foreground(p.Color("#22c55e"))
	s4 := termenv.String("  \\__, |_|   \\__,_|\\___|").Foreground(p.Color("#4ade80"))
	s5 := termenv.String("   __/ |                ").Foreground(p.Color("#86efac"))
	s6 := termenv.String("  |___/                 ").Foreground(p.Color("#bbf7d0"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println(s6)
	fmt.Println(termenv.String("  "+version).Foreground(p.Color("#6b7280")).Italic())
	fmt.Println()
}

// Prompt returns the styled input prompt.
func Prompt() string {
	p := termenv.ColorProfile()
	return termenv.String("> ").Foreground(p.Color("#22c55e")).Bold().String()
}
