package main

import (
	"fmt"
	"maps"
	"slices"

	"github.com/fwojciec/quizdoc"
	"github.com/fwojciec/quizdoc/yaml"
)

// Run executes the sites command.
func (c *SitesCmd) Run(deps *Dependencies) error {
	if c.Dump {
		if err := yaml.EncodeRegistry(deps.Stdout, deps.Registry); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", quizdoc.ErrorMessage(err))
			return err
		}
		return nil
	}

	for _, host := range slices.Sorted(maps.Keys(deps.Registry)) {
		fmt.Fprintf(deps.Stdout, "%s  %s\n", host, deps.Registry[host].Container)
	}
	return nil
}
