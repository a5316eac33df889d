package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xlab/treeprint"

	"github.com/yakschuss/dialkit-rails/internal/controlspec"
	"github.com/yakschuss/dialkit-rails/internal/dom"
	"github.com/yakschuss/dialkit-rails/internal/registry"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <page.html>",
	Short: "Print the control tree of every marked element",
	Long: `Print the normalized control tree of every element carrying a
data-dial-kit marker, without opening the panel.

Elements whose marker is malformed or unsupported are listed as warnings
and the command exits non-zero.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadPage(args[0])
		if err != nil {
			return err
		}
		warnings, err := inspectPage(cmd.OutOrStdout(), doc)
		if err != nil {
			return err
		}
		if warnings > 0 {
			return fmt.Errorf("%d element(s) skipped", warnings)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

// inspectPage writes the control tree for doc to w and returns the number of
// elements that could not be registered.
func inspectPage(w io.Writer, doc *dom.Document) (int, error) {
	els, err := doc.QueryAll("[" + dom.MarkerAttr + "]")
	if err != nil {
		return 0, fmt.Errorf("scan for markers: %w", err)
	}

	reg := registry.New()
	defer reg.Close()

	tree := treeprint.New()
	tree.SetValue(fmt.Sprintf("%d marked element(s)", len(els)))

	var warnings []string
	for _, el := range els {
		s, err := reg.Register(el)
		if err != nil {
			warnings = append(warnings, describeSkip(el, err))
			continue
		}
		if s == nil {
			continue
		}
		addSpecs(tree.AddBranch(s.Name), s.Spec)
	}

	if _, err := fmt.Fprint(w, tree.String()); err != nil {
		return 0, err
	}
	for _, warn := range warnings {
		if _, err := fmt.Fprintf(w, "warning: %s\n", warn); err != nil {
			return 0, err
		}
	}
	return len(warnings), nil
}

func describeSkip(el *dom.Element, err error) string {
	var parseErr *registry.MarkerParseError
	if errors.As(err, &parseErr) {
		return fmt.Sprintf("%s: malformed marker %q", parseErr.Name, parseErr.Payload)
	}
	var cfgErr *controlspec.ConfigError
	if errors.As(err, &cfgErr) {
		return fmt.Sprintf("%s: %v", registry.DisplayName(el), cfgErr)
	}
	return fmt.Sprintf("%s: %v", registry.DisplayName(el), err)
}

func addSpecs(branch treeprint.Tree, m controlspec.Map) {
	for _, e := range m {
		if g, ok := e.Spec.(controlspec.Group); ok {
			addSpecs(branch.AddMetaBranch(string(g.Kind()), e.Key), g.Controls)
			continue
		}
		branch.AddMetaNode(string(e.Spec.Kind()), e.Key+" "+describeSpec(e.Spec))
	}
}

func describeSpec(spec controlspec.Spec) string {
	switch s := spec.(type) {
	case controlspec.Slider:
		return fmt.Sprintf("%s [%s..%s step %s]",
			controlspec.FormatNumber(s.Default), controlspec.FormatNumber(s.Min),
			controlspec.FormatNumber(s.Max), controlspec.FormatNumber(s.Step))
	case controlspec.Toggle:
		return fmt.Sprintf("%t", s.Default)
	case controlspec.Color:
		return s.Default
	case controlspec.Select:
		labels := make([]string, len(s.Options))
		for i, opt := range s.Options {
			labels[i] = opt.Label
		}
		return fmt.Sprintf("%s of {%s}", controlspec.OptionLabel(s.Default, s.Options), strings.Join(labels, ", "))
	case controlspec.Text:
		if s.Placeholder != "" {
			return fmt.Sprintf("%q (placeholder %q)", s.Default, s.Placeholder)
		}
		return fmt.Sprintf("%q", s.Default)
	case controlspec.Action:
		return fmt.Sprintf("%q", s.Label)
	default:
		return ""
	}
}
