// Command vpxinfo inspects VPX table containers from the terminal: table
// metadata, custom properties, and the embedded script, with an optional
// interactive browser.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/surtarso/vpxinfo/extract"
	"github.com/surtarso/vpxinfo/vpx"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#98FB98"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
)

func main() {
	var (
		asJSON      = flag.Bool("json", false, "Print the table-info document as JSON")
		code        = flag.Bool("code", false, "Print the embedded script source")
		interactive = flag.Bool("i", false, "Interactive browser")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: vpxinfo [-json | -code | -i] <table.vpx>")
		os.Exit(1)
	}
	path := flag.Arg(0)

	var err error
	switch {
	case *interactive:
		err = runInteractive(path)
	case *asJSON:
		err = printJSON(path)
	case *code:
		err = printCode(path)
	default:
		err = printInfo(path)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}

func printJSON(path string) error {
	doc, err := extract.New().TableInfoJSON(path)
	if err != nil {
		return err
	}
	fmt.Println(doc)
	return nil
}

func printCode(path string) error {
	code, err := extract.New().GameDataCode(path)
	if err != nil {
		return err
	}
	fmt.Print(code)
	return nil
}

func printInfo(path string) error {
	f, err := vpx.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.ReadTableInfo()
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("VPX Table") + " " + path)
	fmt.Println()
	for _, row := range infoRows(info) {
		fmt.Printf("  %s %s\n", keyStyle.Render(fmt.Sprintf("%-17s", row[0])), row[1])
	}

	if len(info.Properties) > 0 {
		fmt.Println()
		fmt.Println(sectionStyle.Render("Properties"))
		for _, k := range sortedKeys(info.Properties) {
			fmt.Printf("  %s %s\n", keyStyle.Render(fmt.Sprintf("%-17s", k)), info.Properties[k])
		}
	}
	return nil
}

// infoRows returns the fixed fields in display order.
func infoRows(info *vpx.TableInfo) [][2]string {
	return [][2]string{
		{"Name", info.TableName},
		{"Version", info.TableVersion},
		{"Author", info.AuthorName},
		{"Email", info.AuthorEmail},
		{"Website", info.AuthorWebSite},
		{"Release date", info.ReleaseDate},
		{"Save date", info.TableSaveDate},
		{"Save revision", info.TableSaveRev},
		{"Blurb", info.TableBlurb},
		{"Rules", info.TableRules},
		{"Description", info.TableDescription},
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
