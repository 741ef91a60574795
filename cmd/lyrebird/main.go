// Command lyrebird converts song notation (ABC, MusicXML) into canonical
// OpenLyrics documents and manages a local songbook catalog.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/Lyrebird/core/convert"
	"github.com/FocuswithJustin/Lyrebird/core/song"
	"github.com/FocuswithJustin/Lyrebird/internal/fileutil"
	"github.com/FocuswithJustin/Lyrebird/internal/logging"
	"github.com/FocuswithJustin/Lyrebird/internal/songbook"
)

const version = "0.1.0"

// CLI defines the command-line interface for lyrebird.
var CLI struct {
	// Global flags
	Verbose bool `name:"verbose" short:"v" help:"Enable debug logging"`
	LogJSON bool `name:"log-json" help:"Emit logs as JSON"`

	Convert ConvertCmd   `cmd:"" help:"Convert a notation file to OpenLyrics"`
	Detect  DetectCmd    `cmd:"" help:"Detect the notation format of a file"`
	Print   PrintCmd     `cmd:"" help:"Convert and print lyrics as plain text"`
	Catalog CatalogGroup `cmd:"" help:"Songbook catalog operations"`
	Version VersionCmd   `cmd:"" help:"Print version information"`
}

// CatalogGroup contains songbook catalog operations.
type CatalogGroup struct {
	DB string `name:"db" help:"Songbook database path" default:"songbook.db" type:"path"`

	Add    CatalogAddCmd    `cmd:"" help:"Convert a file and add it to the catalog"`
	List   CatalogListCmd   `cmd:"" help:"List cataloged songs"`
	Show   CatalogShowCmd   `cmd:"" help:"Print a cataloged song's OpenLyrics document"`
	Remove CatalogRemoveCmd `cmd:"" help:"Remove a song from the catalog"`
}

// ConvertCmd converts one notation file to OpenLyrics XML.
type ConvertCmd struct {
	Path   string `arg:"" help:"Path to the notation file" type:"existingfile"`
	Output string `name:"output" short:"o" help:"Output path (default stdout)" type:"path"`
	Format string `name:"format" short:"f" help:"Force input format (abc, musicxml, openlyrics)" enum:"auto,abc,musicxml,openlyrics" default:"auto"`
}

func (c *ConvertCmd) Run() error {
	result, err := convertFile(c.Path, c.Format)
	if err != nil {
		return err
	}
	reportDiagnostics(result)

	data, err := song.Write(result.Song)
	if err != nil {
		return err
	}
	if c.Output == "" || c.Output == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(c.Output, data, 0o644)
}

// DetectCmd prints the detected notation format.
type DetectCmd struct {
	Path string `arg:"" help:"Path to the notation file" type:"existingfile"`
}

func (c *DetectCmd) Run() error {
	raw, err := fileutil.ReadInput(c.Path)
	if err != nil {
		return err
	}
	format := convert.Detect(string(raw))
	fmt.Println(format)
	return nil
}

// PrintCmd converts a file and prints title, credits and verse text.
type PrintCmd struct {
	Path   string `arg:"" help:"Path to the notation file" type:"existingfile"`
	Chords bool   `name:"chords" help:"Include chord annotations inline"`
}

func (c *PrintCmd) Run() error {
	result, err := convertFile(c.Path, "auto")
	if err != nil {
		return err
	}
	reportDiagnostics(result)
	printSong(result.Song, c.Chords)
	return nil
}

func printSong(s *song.Song, chords bool) {
	fmt.Println(s.PrimaryTitle())
	for _, a := range s.Properties.Authors {
		if a.Type != "" {
			fmt.Printf("%s: %s\n", a.Type, a.Value)
		} else {
			fmt.Println(a.Value)
		}
	}
	for _, v := range s.Verses {
		fmt.Printf("\n[%s]\n", v.Name)
		if chords {
			fmt.Println(renderChorded(v.Lines))
		} else {
			fmt.Println(v.Lines.Text())
		}
	}
}

// renderChorded renders lines with chords inline in square brackets, the
// way chord-over-lyrics songbooks inline them.
func renderChorded(lines song.Lines) string {
	var b strings.Builder
	for _, c := range lines.Content {
		switch c.Kind {
		case song.Text:
			b.WriteString(c.Text)
		case song.Chord:
			b.WriteString("[" + c.Chord + "]")
		case song.Break:
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// CatalogAddCmd converts a file and stores it in the songbook.
type CatalogAddCmd struct {
	Path string `arg:"" help:"Path to the notation file" type:"existingfile"`
}

func (c *CatalogAddCmd) Run(group *CatalogGroup) error {
	result, err := convertFile(c.Path, "auto")
	if err != nil {
		return err
	}
	reportDiagnostics(result)

	data, err := song.Write(result.Song)
	if err != nil {
		return err
	}

	store, err := songbook.Open(group.DB)
	if err != nil {
		return err
	}
	defer store.Close()

	entry, err := store.Add(context.Background(), result.Song.PrimaryTitle(),
		result.Format.String(), result.Fingerprint, len(result.Song.Verses), data)
	if err != nil {
		return err
	}
	fmt.Printf("%s  %s\n", entry.ID, entry.Title)
	return nil
}

// CatalogListCmd lists the cataloged songs.
type CatalogListCmd struct{}

func (c *CatalogListCmd) Run(group *CatalogGroup) error {
	store, err := songbook.Open(group.DB)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(context.Background())
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Printf("%s  %-10s %2d verses  %s\n", e.ID, e.Format, e.Verses, e.Title)
	}
	return nil
}

// CatalogShowCmd prints one cataloged song's document.
type CatalogShowCmd struct {
	ID string `arg:"" help:"Song id"`
}

func (c *CatalogShowCmd) Run(group *CatalogGroup) error {
	store, err := songbook.Open(group.DB)
	if err != nil {
		return err
	}
	defer store.Close()

	entry, err := store.Get(context.Background(), c.ID)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(entry.Document)
	return err
}

// CatalogRemoveCmd removes one song from the catalog.
type CatalogRemoveCmd struct {
	ID string `arg:"" help:"Song id"`
}

func (c *CatalogRemoveCmd) Run(group *CatalogGroup) error {
	store, err := songbook.Open(group.DB)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Remove(context.Background(), c.ID)
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("lyrebird version %s\n", version)
	return nil
}

// Helper functions

func convertFile(path, format string) (*convert.Result, error) {
	raw, err := fileutil.ReadInput(path)
	if err != nil {
		return nil, err
	}
	opts := convert.Options{Format: parseFormat(format)}
	result, err := convert.Convert(raw, opts)
	if err != nil {
		logging.ConversionError(format, path, err)
		return nil, err
	}
	logging.Conversion(result.Format.String(), result.Song.PrimaryTitle(),
		len(result.Song.Verses), len(result.Diagnostics))
	return result, nil
}

func parseFormat(s string) convert.Format {
	switch s {
	case "abc":
		return convert.FormatABC
	case "musicxml":
		return convert.FormatMusicXML
	case "openlyrics":
		return convert.FormatOpenLyrics
	}
	return convert.FormatUnknown
}

// reportDiagnostics prints conversion warnings to stderr so the converted
// document on stdout stays clean.
func reportDiagnostics(result *convert.Result) {
	for _, d := range result.Diagnostics {
		if d.Line > 0 {
			fmt.Fprintf(os.Stderr, "%s: line %d: %s\n", d.Severity, d.Line, d.Message)
		} else {
			fmt.Fprintf(os.Stderr, "%s: %s\n", d.Severity, d.Message)
		}
	}
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("lyrebird"),
		kong.Description("Song notation converter - ABC and MusicXML to OpenLyrics"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	level := logging.LevelWarn
	if CLI.Verbose {
		level = logging.LevelDebug
	}
	format := logging.FormatText
	if CLI.LogJSON {
		format = logging.FormatJSON
	}
	logging.InitLogger(level, format)

	err := ctx.Run(&CLI.Catalog)
	ctx.FatalIfErrorf(err)
}
