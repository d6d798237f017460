package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	adminapp "campusfood/application/admin"
	"campusfood/domain/shared"
	"campusfood/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// menuSeed is the on-disk shape of a menu seed file.
type menuSeed struct {
	Items []seedItem `yaml:"items"`
}

type seedItem struct {
	Name          string `yaml:"name"`
	Description   string `yaml:"description"`
	Price         string `yaml:"price"`
	OriginalPrice string `yaml:"original_price"`
	Category      string `yaml:"category"`
	ImageURL      string `yaml:"image_url"`
	Available     *bool  `yaml:"available"`
}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load menu items from a YAML file",
		Long:  "Load menu items from a YAML file. Items whose name already exists are skipped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open seed file: %w", err)
			}
			defer f.Close()
			seed, err := decodeSeed(f)
			if err != nil {
				return err
			}

			return opts.withComponents(cmd.Context(), nil, func(ctx context.Context, c *Components) error {
				created, skipped, err := applySeed(ctx, c.Admin, seed)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %d menu items (%d already present)\n", created, skipped)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "menu seed file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func decodeSeed(r io.Reader) (*menuSeed, error) {
	var seed menuSeed
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("seed file is empty")
		}
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	if len(seed.Items) == 0 {
		return nil, errors.New("seed file has no items")
	}
	return &seed, nil
}

func (s seedItem) request() (adminapp.CreateMenuItemRequest, error) {
	req := adminapp.CreateMenuItemRequest{
		Name:        s.Name,
		Description: s.Description,
		Category:    s.Category,
		ImageURL:    s.ImageURL,
		Available:   s.Available,
	}
	price, err := shared.ParseMoney(s.Price)
	if err != nil {
		return req, fmt.Errorf("item %q: price: %w", s.Name, err)
	}
	req.Price = &price
	if s.OriginalPrice != "" {
		original, err := shared.ParseMoney(s.OriginalPrice)
		if err != nil {
			return req, fmt.Errorf("item %q: original_price: %w", s.Name, err)
		}
		req.OriginalPrice = &original
	}
	return req, nil
}

// applySeed creates every item not already on the menu, matching names case-insensitively.
func applySeed(ctx context.Context, admin *adminapp.ApplicationService, seed *menuSeed) (created, skipped int, err error) {
	existing, err := admin.ListMenu(ctx)
	if err != nil {
		return 0, 0, err
	}
	names := make(map[string]struct{}, len(existing))
	for _, item := range existing {
		names[strings.ToLower(item.Name)] = struct{}{}
	}

	for _, item := range seed.Items {
		key := strings.ToLower(strings.TrimSpace(item.Name))
		if _, ok := names[key]; ok {
			skipped++
			continue
		}
		req, err := item.request()
		if err != nil {
			return created, skipped, err
		}
		resp, err := admin.CreateMenuItem(ctx, req)
		if err != nil {
			return created, skipped, fmt.Errorf("item %q: %w", item.Name, err)
		}
		names[key] = struct{}{}
		created++
		logger.Debug("Menu item seeded", zap.Int64("menu_item_id", resp.ID), zap.String("name", resp.Name))
	}
	return created, skipped, nil
}
