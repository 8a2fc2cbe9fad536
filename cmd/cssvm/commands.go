package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"cssvm/common"
	"cssvm/config"
	"cssvm/dom"
	"cssvm/snapshot"
	"cssvm/state"
)

const valueHelp = `
PROPERTY:
    name of supported property, for example "font-size"

TEXT:
    property value as it would appear in a declaration, for example "larger"

Prints canonical CSS text of the value, its kind and primitive type separated
by tabs.
`

func valueCommand() *cli.Command {
	return &cli.Command{
		Name:               "value",
		Usage:              "Parses property value and prints its canonical form",
		ArgsUsage:          "PROPERTY TEXT",
		OnUsageError:       usageErrorHandler,
		Action:             parseValue,
		CustomHelpTemplate: cli.CommandHelpTemplate + valueHelp,
	}
}

const computeHelp = `
SOURCE:
    path to document, files with .html or .htm extension are read as HTML,
    anything else as XML

DESTINATION:
    file name to write snapshot to, if absent - STDOUT
`

func computeCommand() *cli.Command {
	return &cli.Command{
		Name:         "compute",
		Usage:        "Computes style of every element of HTML or XML/SVG document",
		ArgsUsage:    "SOURCE [DESTINATION]",
		OnUsageError: usageErrorHandler,
		Action:       computeStyles,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"},
				Usage: "snapshot `FORMAT` (" + strings.Join(common.SnapshotFormatNames(), ", ") + "), overrides configuration"},
			&cli.StringSliceFlag{Name: "pseudo", Aliases: []string{"p"},
				Usage: "also compute `PSEUDO` element (before, after) style, may be repeated, overrides configuration"},
			&cli.StringFlag{Name: "medium", Aliases: []string{"m"},
				Usage: "select @media blocks for `MEDIUM`, overrides configuration"},
			&cli.BoolFlag{Name: "by-path", Usage: "order elements by path instead of document order"},
		},
		CustomHelpTemplate: cli.CommandHelpTemplate + computeHelp,
	}
}

const dumpConfigHelp = `
DESTINATION:
    file name to write configuration to, if absent - STDOUT

Writes configuration in effect: embedded defaults merged with the file given
by --config. With --default only the embedded defaults are written.
`

func dumpConfigCommand() *cli.Command {
	return &cli.Command{
		Name:         "dumpconfig",
		Usage:        "Dumps either default or actual configuration (YAML)",
		ArgsUsage:    "DESTINATION",
		OnUsageError: usageErrorHandler,
		Action:       outputConfiguration,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
		},
		CustomHelpTemplate: cli.CommandHelpTemplate + dumpConfigHelp,
	}
}

// destination returns the named file or the application writer when name
// is empty. The returned close function must be called.
func destination(cmd *cli.Command, name string) (io.Writer, func() error, error) {
	if len(name) == 0 {
		return cmd.Root().Writer, func() error { return nil }, nil
	}
	f, err := os.Create(name)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to create destination file '%s': %w", name, err)
	}
	return f, f.Close, nil
}

func parseValue(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	if cmd.Args().Len() != 2 {
		return errors.New("property name and value text are expected")
	}
	property, text := cmd.Args().Get(0), cmd.Args().Get(1)

	v, err := env.Factories().CreateValue(property, text)
	if err != nil {
		return fmt.Errorf("unable to create value: %w", err)
	}
	env.Log.Debug("Value created", zap.String("property", property), zap.String("text", text), zap.Stringer("value", v))

	_, err = fmt.Fprintf(cmd.Root().Writer, "%s\t%s\t%s\n", v.CSSText(), v.Kind(), v.PrimitiveType())
	return err
}

func computeStyles(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	if cmd.Args().Len() == 0 {
		return errors.New("no input document has been specified")
	}
	if cmd.Args().Len() > 2 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}
	src, dst := cmd.Args().Get(0), cmd.Args().Get(1)

	format := env.Cfg.Snapshot.Format
	if name := cmd.String("format"); len(name) > 0 {
		if format, err = common.ParseSnapshotFormat(name); err != nil {
			return err
		}
	}
	pseudos := env.Cfg.Snapshot.PseudoElements
	if p := cmd.StringSlice("pseudo"); len(p) > 0 {
		pseudos = p
	}
	if medium := cmd.String("medium"); len(medium) > 0 {
		env.Cfg.Engine.Medium = medium
	}

	doc, err := dom.Load(src)
	if err != nil {
		return fmt.Errorf("unable to load '%s': %w", src, err)
	}
	if err := env.Rpt.StoreCopy(config.ReportName("input", src), src); err != nil {
		env.Log.Warn("Unable to copy input document into report", zap.String("source", src), zap.Error(err))
	}

	v, err := env.NewView(doc)
	if err != nil {
		return fmt.Errorf("unable to prepare view: %w", err)
	}
	defer v.Dispose()

	env.Log.Info("Computing styles", zap.String("source", src), zap.Stringer("view", v.ID()),
		zap.Stringer("format", format), zap.Strings("pseudo", pseudos))

	snap, err := snapshot.Take(v, pseudos...)
	if err != nil {
		return err
	}

	if cmd.Bool("by-path") {
		snap.SortByPath()
	}

	rejected := 0
	for _, el := range snap.Elements {
		rejected += len(el.Errors)
	}
	if rejected > 0 {
		env.Log.Warn("Some declarations were rejected", zap.Int("count", rejected))
	}

	var buf bytes.Buffer
	if err := snap.Write(&buf, format); err != nil {
		return err
	}
	env.Rpt.StoreData("snapshot"+format.Ext(), buf.Bytes())

	out, closeOut, err := destination(cmd, dst)
	if err != nil {
		return err
	}
	defer func() {
		if e := closeOut(); e != nil && err == nil {
			err = e
		}
	}()
	if _, err := buf.WriteTo(out); err != nil {
		return fmt.Errorf("unable to write snapshot: %w", err)
	}

	env.Log.Info("Styles computed", zap.Int("entries", len(snap.Elements)), zap.Duration("elapsed", env.Uptime()))
	return nil
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}
	fname := cmd.Args().Get(0)

	var data []byte
	kind := "actual"
	if cmd.Bool("default") {
		kind = "default"
		data, err = config.Prepare()
	} else {
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	out, closeOut, err := destination(cmd, fname)
	if err != nil {
		return err
	}
	defer func() {
		if e := closeOut(); e != nil && err == nil {
			err = e
		}
	}()

	if len(fname) == 0 {
		fname = "STDOUT"
	}
	env.Log.Info("Writing configuration", zap.String("state", kind), zap.String("file", fname))

	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
