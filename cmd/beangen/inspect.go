package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/toyz/beangen/internal/cli"
)

// renderReports prints one table per entity listing its properties
func renderReports(w io.Writer, reports []cli.EntityReport) {
	for _, r := range reports {
		identity := "injected"
		if r.Native {
			identity = "native"
		}
		fmt.Fprintf(w, "%s.%s -> %s (identity: %s)\n", r.Package, r.Entity, r.StructName, identity)

		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Property", "Type", "Getters", "Setter", "Field", "Inherited"})

		for _, p := range r.Properties {
			var getters []string
			for _, g := range p.Getters() {
				getters = append(getters, g.Name)
			}
			setter := "-"
			if p.Setter != nil {
				setter = p.Setter.Name
			}
			t.AppendRow(table.Row{p.Name, p.Type.Name, dash(strings.Join(getters, ", ")), setter, p.Field, p.Inherited})
		}

		t.Render()
		fmt.Fprintln(w)
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
