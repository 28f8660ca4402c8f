package main

import (
	"context"
	"fmt"

	"casino_loyalty/internal/catalogfile"
	"casino_loyalty/internal/domain"

	"github.com/spf13/cobra"
)

func seedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert currencies, tiers and levels from a YAML catalog file",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := catalogfile.Load(file)
			if err != nil {
				return fmt.Errorf("load %s: %w", file, err)
			}

			pool, err := openPool(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			tiers, err := seed(cmd.Context(), newServices(pool), f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d currencies, %d tiers\n", len(f.Currencies), tiers)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "catalog.yaml", "catalog file")
	return cmd
}

func seed(ctx context.Context, svc services, f *catalogfile.File) (int, error) {
	ids := map[string]string{}
	existing, err := svc.currencies.List(ctx)
	if err != nil {
		return 0, err
	}
	for _, c := range existing {
		ids[c.Code] = c.ID
	}

	for _, fc := range f.Currencies {
		c := &domain.Currency{Code: fc.Code, Name: fc.Name, Icon: fc.Icon}
		if id, ok := ids[c.Code]; ok {
			c.ID = id
		}
		if err := svc.currencies.Upsert(ctx, 0, c); err != nil {
			return 0, fmt.Errorf("currency %s: %w", fc.Code, err)
		}
		ids[c.Code] = c.ID
	}

	tiers, err := f.Domain(ids)
	if err != nil {
		return 0, err
	}
	if err := svc.catalog.Import(ctx, 0, tiers); err != nil {
		return 0, err
	}
	return len(tiers), nil
}
