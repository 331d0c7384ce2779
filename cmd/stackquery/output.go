package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/klothoplatform/stackquery/pkg/tiers"
	"github.com/klothoplatform/stackquery/pkg/workspace"
	"gopkg.in/yaml.v3"
)

type outputFormat string

const (
	outputText outputFormat = "text"
	outputJSON outputFormat = "json"
	outputYAML outputFormat = "yaml"
)

func parseOutputFormat(s string) (outputFormat, error) {
	switch f := outputFormat(s); f {
	case outputText, outputJSON, outputYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected text, json or yaml)", s)
	}
}

func encode(w io.Writer, v any, format outputFormat) error {
	switch format {
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}

func printStacks(w io.Writer, stacks []workspace.StackSummary, format outputFormat) error {
	if stacks == nil {
		stacks = []workspace.StackSummary{}
	}
	if format != outputText {
		return encode(w, stacks, format)
	}

	name := color.New(color.FgCyan, color.Bold).SprintFunc()
	current := color.New(color.FgGreen).SprintFunc()
	for _, s := range stacks {
		line := name(s.Name)
		if s.Current {
			line += " " + current("(current)")
		}
		if s.UpdateInProgress {
			line += " " + color.YellowString("[updating]")
		}
		if s.LastUpdate != "" {
			line += "  last update " + s.LastUpdate
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func printDetails(w io.Writer, details tiers.StackDetails, format outputFormat) error {
	if format != outputText {
		return encode(w, details, format)
	}

	heading := color.New(color.Bold).SprintFunc()
	secret := color.New(color.FgRed).Sprint("[secret]")
	fmt.Fprintln(w, heading("Config"))
	for _, k := range sortedKeys(details.Config) {
		v := details.Config[k]
		if v.Secret {
			fmt.Fprintf(w, "  %s: %s\n", k, secret)
			continue
		}
		fmt.Fprintf(w, "  %s: %s\n", k, v.Value)
	}
	fmt.Fprintln(w, heading("Outputs"))
	for _, k := range sortedKeys(details.Output) {
		v := details.Output[k]
		if v.Secret {
			fmt.Fprintf(w, "  %s: %s\n", k, secret)
			continue
		}
		fmt.Fprintf(w, "  %s: %v\n", k, v.Value)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
