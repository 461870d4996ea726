package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dekarrin/dbval"
	"github.com/dekarrin/dbval/internal/config"
	"github.com/dekarrin/dbval/internal/logging"
	"github.com/dekarrin/dbval/sqlite"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

// blobPreviewLen is how many bytes of a BLOB are shown in inspect output.
const blobPreviewLen = 16

type command struct {
	db  *sql.DB
	cfg config.Config
	log logging.Logger
	out io.Writer
}

func (cmd command) inspect(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("inspect takes exactly one QUERY argument")
	}

	result, err := sqlite.Query(ctx, cmd.db, args[0])
	if err != nil {
		return err
	}
	cmd.log.Debugf("Query returned %d row(s)", len(result.Rows))

	if cmd.cfg.Output == config.OutputYAML {
		return cmd.outputYAML(result)
	}
	return cmd.outputTable(result)
}

func (cmd command) outputTable(result sqlite.Table) error {
	var table = tablewriter.NewWriter(cmd.out)
	table.Header(result.Columns)

	for i, r := range result.Rows {
		var row []string
		for _, v := range r {
			row = append(row, describe(v))
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("render result: %w", err)
	}
	return nil
}

type yamlCell struct {
	Class string `yaml:"class"`
	Value string `yaml:"value"`
}

func (cmd command) outputYAML(result sqlite.Table) error {
	rows := make([]map[string]yamlCell, 0, len(result.Rows))
	for _, r := range result.Rows {
		m := map[string]yamlCell{}
		for i, v := range r {
			m[result.Columns[i]] = yamlCell{Class: v.Class().String(), Value: v.String()}
		}
		rows = append(rows, m)
	}

	data, err := yaml.Marshal(rows)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	_, err = cmd.out.Write(data)
	return err
}

// describe gives the class and literal of v, with long BLOBs cut short.
func describe(v dbval.Value) string {
	b, ok := v.AsBlob()
	if !ok {
		return v.Class().String() + " " + v.String()
	}

	size := humanize.Bytes(uint64(len(b)))
	if len(b) > blobPreviewLen {
		return fmt.Sprintf("blob %s... (%s)", dbval.Blob(b[:blobPreviewLen]).String(), size)
	}
	return fmt.Sprintf("blob %s (%s)", v.String(), size)
}

func (cmd command) typeof(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("typeof needs at least one VALUE argument")
	}

	for _, arg := range args {
		v, err := parseLiteral(arg)
		if err != nil {
			return err
		}

		class, err := sqlite.Typeof(ctx, cmd.db, v)
		if err != nil {
			return err
		}

		if class != v.Class() {
			cmd.log.Warnf("%s was bound as %s but engine reports %s", arg, v.Class(), class)
		}
		fmt.Fprintf(cmd.out, "%s\t%s\n", v.String(), class)
	}
	return nil
}

// parseLiteral reads a command-line argument as the most specific storage
// value it can be.
func parseLiteral(s string) (dbval.Value, error) {
	if strings.EqualFold(s, "null") {
		return dbval.Null(), nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return dbval.Integer(i), nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return dbval.Real(f), nil
	}
	return dbval.NewText(s)
}

func (cmd command) dump(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("dump takes TABLE and FILE arguments")
	}
	tableName, file := args[0], args[1]

	t, err := sqlite.ReadTable(ctx, cmd.db, tableName)
	if err != nil {
		return err
	}

	data, err := t.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encode %s: %w", tableName, err)
	}

	if err := os.WriteFile(file, data, 0660); err != nil {
		return fmt.Errorf("write %s: %w", file, err)
	}

	cmd.log.Infof("Dumped %d row(s) of %s to %s (%s)", len(t.Rows), tableName, file, humanize.Bytes(uint64(len(data))))
	return nil
}

func (cmd command) restore(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("restore takes exactly one FILE argument")
	}
	file := args[0]

	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read %s: %w", file, err)
	}

	var t sqlite.Table
	if err := t.UnmarshalBinary(data); err != nil {
		return fmt.Errorf("decode %s: %w", file, err)
	}

	if err := sqlite.WriteTable(ctx, cmd.db, t); err != nil {
		return err
	}

	cmd.log.Infof("Restored %d row(s) into %s", len(t.Rows), t.Name)
	return nil
}
