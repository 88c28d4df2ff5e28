// Package catalog loads the store catalog and serves it from memory.
//
// The catalog is reference data: stores, menus and add-on groups change
// through a publishing pipeline, not through this service, so it is read
// once at startup either from an embedded seed or from a blob bucket.
package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"log/slog"

	"sabor/config"
	"sabor/internal/domain/entity"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// bucket driver
	_ "gocloud.dev/blob/gcsblob"  // gs:// bucket driver
)

//go:embed seed/stores.json
var seedCatalog []byte

const defaultCatalogKey = "stores.json"

// storeDocument is the on-disk shape of the catalog file.
type storeDocument struct {
	Stores []storeRecord `json:"stores"`
}

type storeRecord struct {
	ID              string        `json:"id"`
	Slug            string        `json:"slug"`
	Name            string        `json:"name"`
	Logo            string        `json:"logo"`
	Address         string        `json:"address"`
	Rating          float64       `json:"rating"`
	AvgDeliveryTime string        `json:"avgDeliveryTime"`
	DeliveryFee     string        `json:"deliveryFee"`
	FreeDelivery    bool          `json:"freeDelivery"`
	Latitude        float64       `json:"latitude"`
	Longitude       float64       `json:"longitude"`
	Hours           hoursRecord   `json:"hours"`
	Menu            []menuSection `json:"menu"`
}

type hoursRecord struct {
	OpensAt  string `json:"opensAt"`
	ClosesAt string `json:"closesAt"`
}

type menuSection struct {
	Category string       `json:"category"`
	Items    []itemRecord `json:"items"`
}

type itemRecord struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Price       decimal.Decimal `json:"price"`
	AddOnGroups []groupRecord   `json:"addOnGroups"`
}

type groupRecord struct {
	Title   string         `json:"title"`
	Min     int            `json:"min"`
	Max     int            `json:"max"`
	Options []optionRecord `json:"options"`
}

type optionRecord struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Load reads the catalog from the configured source. An empty source falls
// back to the embedded seed catalog, which keeps local development and tests
// free of external dependencies.
func Load(ctx context.Context, cfg *config.Config, logger *slog.Logger) ([]*entity.Store, error) {
	raw := seedCatalog

	if cfg.Catalog != nil && cfg.Catalog.Source != "" {
		bucket, err := blob.OpenBucket(ctx, cfg.Catalog.Source)
		if err != nil {
			return nil, errors.Wrapf(err, "open catalog bucket %s", cfg.Catalog.Source)
		}
		defer bucket.Close()

		key := cfg.Catalog.Key
		if key == "" {
			key = defaultCatalogKey
		}

		raw, err = bucket.ReadAll(ctx, key)
		if err != nil {
			return nil, errors.Wrapf(err, "read catalog object %s", key)
		}

		logger.Info("Catalog loaded from bucket",
			slog.String("source", cfg.Catalog.Source),
			slog.String("key", key),
		)
	} else {
		logger.Info("Catalog loaded from embedded seed")
	}

	return parseCatalog(raw)
}

func parseCatalog(raw []byte) ([]*entity.Store, error) {
	var doc storeDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(err, "parse catalog document")
	}

	stores := make([]*entity.Store, 0, len(doc.Stores))
	seenSlugs := make(map[string]struct{}, len(doc.Stores))

	for _, record := range doc.Stores {
		if record.Slug == "" {
			return nil, errors.Errorf("store %q has no slug", record.Name)
		}
		if _, dup := seenSlugs[record.Slug]; dup {
			return nil, errors.Errorf("duplicate store slug %q", record.Slug)
		}
		seenSlugs[record.Slug] = struct{}{}

		store, err := toStore(record)
		if err != nil {
			return nil, errors.Wrapf(err, "store %q", record.Slug)
		}

		stores = append(stores, store)
	}

	return stores, nil
}

func toStore(record storeRecord) (*entity.Store, error) {
	schedule, err := entity.NewStoreSchedule(record.Hours.OpensAt, record.Hours.ClosesAt)
	if err != nil {
		return nil, err
	}

	store := &entity.Store{
		ID:              record.ID,
		Slug:            record.Slug,
		Name:            record.Name,
		Logo:            record.Logo,
		Address:         record.Address,
		Rating:          record.Rating,
		AvgDeliveryTime: record.AvgDeliveryTime,
		DeliveryFee:     record.DeliveryFee,
		FreeDelivery:    record.FreeDelivery,
		Latitude:        record.Latitude,
		Longitude:       record.Longitude,
		Schedule:        schedule,
		Categories:      make([]entity.MenuCategory, 0, len(record.Menu)),
	}

	seenItems := make(map[string]struct{})
	for _, section := range record.Menu {
		category := entity.MenuCategory{
			Name:  section.Category,
			Items: make([]entity.MenuItem, 0, len(section.Items)),
		}

		for _, item := range section.Items {
			if _, dup := seenItems[item.ID]; dup {
				return nil, errors.Errorf("duplicate item ID %q", item.ID)
			}
			seenItems[item.ID] = struct{}{}

			menuItem, err := toMenuItem(item)
			if err != nil {
				return nil, err
			}

			category.Items = append(category.Items, menuItem)
		}

		store.Categories = append(store.Categories, category)
	}

	return store, nil
}

func toMenuItem(record itemRecord) (entity.MenuItem, error) {
	item := entity.MenuItem{
		ID:          record.ID,
		Name:        record.Name,
		Description: record.Description,
		Image:       record.Image,
		BasePrice:   record.Price,
		AddOnGroups: make([]entity.AddOnGroup, 0, len(record.AddOnGroups)),
	}

	seenKeys := make(map[string]struct{}, len(record.AddOnGroups))
	for _, group := range record.AddOnGroups {
		if group.Min < 0 || group.Max < 0 || (group.Max > 0 && group.Min > group.Max) {
			return entity.MenuItem{}, errors.Errorf("item %q group %q has invalid selection bounds", record.ID, group.Title)
		}

		converted := entity.AddOnGroup{
			Title:         group.Title,
			MinSelections: group.Min,
			MaxSelections: group.Max,
			Options:       make([]entity.AddOnOption, 0, len(group.Options)),
		}

		key := converted.Key()
		if key == "" {
			return entity.MenuItem{}, errors.Errorf("item %q has a group with an empty title", record.ID)
		}
		if _, dup := seenKeys[key]; dup {
			return entity.MenuItem{}, errors.Errorf("item %q has duplicate group key %q", record.ID, key)
		}
		seenKeys[key] = struct{}{}

		seenOptions := make(map[string]struct{}, len(group.Options))
		for _, option := range group.Options {
			if _, dup := seenOptions[option.Name]; dup {
				return entity.MenuItem{}, errors.Errorf("item %q group %q has duplicate option %q", record.ID, group.Title, option.Name)
			}
			seenOptions[option.Name] = struct{}{}

			converted.Options = append(converted.Options, entity.AddOnOption{
				Name:  option.Name,
				Price: option.Price,
			})
		}

		item.AddOnGroups = append(item.AddOnGroups, converted)
	}

	return item, nil
}
