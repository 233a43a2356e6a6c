package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexshd/emulsion"
)

type catalogEntry struct {
	Role       string     `json:"role"`
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	HSP        [3]float64 `json:"hsp"`
	Density    float64    `json:"density,omitempty"`
	FlashPoint float64    `json:"flash_point,omitempty"`
	EACN       float64    `json:"eacn,omitempty"`
	FHLD       float64    `json:"f_hld,omitempty"`
	CC         float64    `json:"cc,omitempty"`
	Ionic      string     `json:"ionic,omitempty"`
	Price      float64    `json:"price,omitempty"`
	R0         float64    `json:"r0,omitempty"`
}

func newCatalogCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "catalog [solvent|cosolvent|surfactant|cosurfactant|aqueous|resin]",
		Short:     "List catalog records",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"solvent", "cosolvent", "surfactant", "cosurfactant", "aqueous", "resin"},
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := ""
			if len(args) == 1 {
				filter = args[0]
				if _, err := emulsion.ParseRole(filter); err != nil && filter != "resin" {
					return err
				}
			}

			entries, err := a.catalogEntries(filter)
			if err != nil {
				return err
			}

			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), entries)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ROLE\tID\tNAME\tδD\tδP\tδH\tDETAIL")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%.1f\t%.1f\t%.1f\t%s\n",
					e.Role, e.ID, e.Name, e.HSP[0], e.HSP[1], e.HSP[2], e.detail())
			}
			return tw.Flush()
		},
	}
}

func (a *app) catalogEntries(filter string) ([]catalogEntry, error) {
	var entries []catalogEntry

	for _, role := range emulsion.Roles {
		if filter != "" && filter != role.String() {
			continue
		}
		for _, id := range a.catalog.IDs(role) {
			c, err := a.catalog.Component(role, id)
			if err != nil {
				return nil, err
			}
			e := catalogEntry{
				Role:       role.String(),
				ID:         id,
				Name:       a.catalog.Name(role, id),
				HSP:        c.HSP,
				Density:    c.Density,
				FlashPoint: c.FlashPoint,
				EACN:       c.EACN,
				FHLD:       c.FHLD,
				CC:         c.CC,
				Price:      c.Price,
			}
			if role == emulsion.RoleSurfactant {
				e.Ionic = c.Ionic.String()
			}
			entries = append(entries, e)
		}
	}

	if filter == "" || filter == "resin" {
		for _, id := range a.catalog.ResinIDs() {
			r, err := a.catalog.Resin(id)
			if err != nil {
				return nil, err
			}
			entries = append(entries, catalogEntry{
				Role: "resin",
				ID:   id,
				Name: a.catalog.ResinName(id),
				HSP:  r.HSP,
				R0:   r.R0,
			})
		}
	}
	return entries, nil
}

func (e catalogEntry) detail() string {
	switch e.Role {
	case "resin":
		return fmt.Sprintf("r0=%.1f", e.R0)
	case "solvent":
		return fmt.Sprintf("ρ=%.0f fp=%.0f EACN=%.1f", e.Density, e.FlashPoint, e.EACN)
	case "cosolvent":
		return fmt.Sprintf("ρ=%.0f fp=%.0f f_HLD=%.1f", e.Density, e.FlashPoint, e.FHLD)
	case "surfactant":
		return fmt.Sprintf("ρ=%.0f fp=%.0f cc=%.1f %s", e.Density, e.FlashPoint, e.CC, e.Ionic)
	}
	return fmt.Sprintf("ρ=%.0f fp=%.0f", e.Density, e.FlashPoint)
}
