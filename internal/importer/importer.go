// Package importer loads catalog CSV files: products keyed by SKU or
// categories keyed by slug.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/logger"
	productsvc "storefront/internal/service/product"
)

type Kind string

const (
	KindProducts   Kind = "products"
	KindCategories Kind = "categories"
)

type ProductWriter interface {
	Upsert(ctx context.Context, in productsvc.CreateInput) (*domain.Product, error)
}

type CategoryWriter interface {
	Get(ctx context.Context, ref string) (*domain.Category, error)
	Upsert(ctx context.Context, c domain.Category) (*domain.Category, error)
}

// CSVImporter reads a catalog CSV and upserts every row.
type CSVImporter struct {
	reader     *csv.Reader
	products   ProductWriter
	categories CategoryWriter
	logger     *zap.Logger

	categoryIDs map[string]string
}

func NewCSVImporter(r io.Reader, products ProductWriter, categories CategoryWriter, l *zap.Logger) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		products:    products,
		categories:  categories,
		logger:      logger.OrNop(l),
		categoryIDs: map[string]string{},
	}
}

// DetectKind tells a product file from a category file by its header row.
func DetectKind(r io.Reader) (Kind, error) {
	headers, err := csv.NewReader(r).Read()
	if err != nil {
		return "", fmt.Errorf("read headers: %w", err)
	}
	return kindOf(headerIndex(headers))
}

func kindOf(index map[string]int) (Kind, error) {
	if _, ok := index["sku"]; ok {
		return KindProducts, nil
	}
	if _, ok := index["slug"]; ok {
		if _, ok := index["name"]; ok {
			return KindCategories, nil
		}
	}
	return "", errors.New("unrecognised CSV: expected a sku column (products) or slug and name columns (categories)")
}

// Run detects the file kind from its headers and imports every row,
// returning the number of records written.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	kind, err := kindOf(index)
	if err != nil {
		return 0, err
	}
	if kind == KindCategories {
		return i.runCategories(ctx, index)
	}
	if i.products == nil {
		return 0, errors.New("product file given but no product writer configured")
	}
	return i.runProducts(ctx, index)
}

type productRow struct {
	line         int
	in           productsvc.CreateInput
	categorySlug string
}

func (i *CSVImporter) runProducts(ctx context.Context, index map[string]int) (int, error) {
	var (
		current  *productRow
		imported int
		line     = 1
	)
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return imported, fmt.Errorf("read row %d: %w", line, err)
		}

		sku := pick(record, index, "sku")
		image := pick(record, index, "image_url")
		if sku == "" {
			// Continuation rows (images) belong to the current product.
			if current != nil && image != "" {
				current.in.Images = append(current.in.Images, image)
			}
			continue
		}

		if current != nil {
			if err := i.saveProduct(ctx, current); err != nil {
				return imported, err
			}
			imported++
		}
		current, err = parseProduct(line, record, index)
		if err != nil {
			return imported, err
		}
	}

	if current != nil {
		if err := i.saveProduct(ctx, current); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}

func parseProduct(line int, record []string, index map[string]int) (*productRow, error) {
	row := &productRow{
		line: line,
		in: productsvc.CreateInput{
			SKU:         pick(record, index, "sku"),
			Name:        pick(record, index, "name"),
			Slug:        pick(record, index, "slug"),
			Description: pick(record, index, "description"),
			Currency:    pick(record, index, "currency"),
		},
		categorySlug: pick(record, index, "category"),
	}

	var err error
	if row.in.PriceCents, err = parseInt(pick(record, index, "price_cents")); err != nil {
		return nil, fmt.Errorf("row %d: price_cents: %w", line, err)
	}
	stock, err := parseInt(pick(record, index, "stock"))
	if err != nil {
		return nil, fmt.Errorf("row %d: stock: %w", line, err)
	}
	row.in.Stock = int(stock)
	if row.in.Featured, err = parseBool(pick(record, index, "featured")); err != nil {
		return nil, fmt.Errorf("row %d: featured: %w", line, err)
	}
	if row.in.Published, err = parseBool(pick(record, index, "published")); err != nil {
		return nil, fmt.Errorf("row %d: published: %w", line, err)
	}
	if image := pick(record, index, "image_url"); image != "" {
		row.in.Images = []string{image}
	}
	return row, nil
}

func (i *CSVImporter) saveProduct(ctx context.Context, row *productRow) error {
	if row.categorySlug != "" {
		id, err := i.ensureCategory(ctx, row.categorySlug)
		if err != nil {
			return fmt.Errorf("row %d: category %q: %w", row.line, row.categorySlug, err)
		}
		row.in.CategoryID = &id
	}
	p, err := i.products.Upsert(ctx, row.in)
	if err != nil {
		return fmt.Errorf("row %d: upsert product %q: %w", row.line, row.in.SKU, err)
	}
	i.logger.Debug("product imported", zap.String("sku", p.SKU), zap.String("slug", p.Slug))
	return nil
}

// ensureCategory resolves a category slug, creating a root category named
// after the slug when it does not exist yet.
func (i *CSVImporter) ensureCategory(ctx context.Context, slug string) (string, error) {
	if id, ok := i.categoryIDs[slug]; ok {
		return id, nil
	}
	c, err := i.categories.Get(ctx, slug)
	if errors.Is(err, domain.ErrNotFound) {
		c, err = i.categories.Upsert(ctx, domain.Category{Name: titleFromSlug(slug), Slug: slug})
		if err == nil {
			i.logger.Info("category created for product import", zap.String("slug", slug))
		}
	}
	if err != nil {
		return "", err
	}
	i.categoryIDs[slug] = c.ID
	return c.ID, nil
}

type categoryRow struct {
	line       int
	category   domain.Category
	parentSlug string
}

// runCategories writes every category first and links parents in a second
// pass, so a child may appear before its parent in the file.
func (i *CSVImporter) runCategories(ctx context.Context, index map[string]int) (int, error) {
	var (
		rows []categoryRow
		line = 1
	)
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return 0, fmt.Errorf("read row %d: %w", line, err)
		}
		slug := pick(record, index, "slug")
		name := pick(record, index, "name")
		if slug == "" && name == "" {
			continue
		}
		if name == "" {
			name = titleFromSlug(slug)
		}
		sortOrder, err := parseInt(pick(record, index, "sort_order"))
		if err != nil {
			return 0, fmt.Errorf("row %d: sort_order: %w", line, err)
		}
		rows = append(rows, categoryRow{
			line: line,
			category: domain.Category{
				Name:        name,
				Slug:        slug,
				Description: pick(record, index, "description"),
				ImageURL:    pick(record, index, "image_url"),
				SortOrder:   int(sortOrder),
			},
			parentSlug: pick(record, index, "parent"),
		})
	}

	for _, row := range rows {
		c, err := i.categories.Upsert(ctx, row.category)
		if err != nil {
			return 0, fmt.Errorf("row %d: upsert category %q: %w", row.line, row.category.Name, err)
		}
		i.categoryIDs[c.Slug] = c.ID
	}

	for _, row := range rows {
		if row.parentSlug == "" {
			continue
		}
		parentID, err := i.ensureCategory(ctx, row.parentSlug)
		if err != nil {
			return 0, fmt.Errorf("row %d: parent %q: %w", row.line, row.parentSlug, err)
		}
		row.category.ParentID = &parentID
		if _, err := i.categories.Upsert(ctx, row.category); err != nil {
			return 0, fmt.Errorf("row %d: link parent of %q: %w", row.line, row.category.Name, err)
		}
	}
	return len(rows), nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

func parseInt(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

func parseBool(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	switch strings.ToLower(s) {
	case "yes", "y":
		return true, nil
	case "no", "n":
		return false, nil
	}
	return strconv.ParseBool(s)
}

func titleFromSlug(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
