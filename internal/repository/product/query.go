package product

import (
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"

	"storefront/internal/domain"
)

var dialect = goqu.Dialect("postgres") //nolint: gochecknoglobals

// buildListQueries returns the page query and the matching count query for f.
func buildListQueries(f domain.ProductFilter) (string, []interface{}, string, []interface{}, error) {
	where := filterExpressions(f)

	base := dialect.From("products").Where(where...)

	listSQL, listArgs, err := base.
		Select(goqu.L(productColumns)).
		Order(orderFor(f.Sort)...).
		Limit(uint(f.Limit)).
		Offset(uint(f.Offset)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return "", nil, "", nil, err
	}

	countSQL, countArgs, err := base.Select(goqu.COUNT("*")).Prepared(true).ToSQL()
	if err != nil {
		return "", nil, "", nil, err
	}
	return listSQL, listArgs, countSQL, countArgs, nil
}

func filterExpressions(f domain.ProductFilter) []exp.Expression {
	var where []exp.Expression
	if !f.IncludeDrafts {
		where = append(where, goqu.I("published").IsTrue())
	}
	if len(f.CategoryIDs) > 0 {
		where = append(where, goqu.L("category_id::text").In(f.CategoryIDs))
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		pattern := "%" + escapeLike(q) + "%"
		where = append(where, goqu.Or(
			goqu.I("name").ILike(pattern),
			goqu.I("description").ILike(pattern),
		))
	}
	if f.Featured != nil {
		where = append(where, goqu.I("featured").Eq(*f.Featured))
	}
	if f.MinPriceCents != nil {
		where = append(where, goqu.I("price_cents").Gte(*f.MinPriceCents))
	}
	if f.MaxPriceCents != nil {
		where = append(where, goqu.I("price_cents").Lte(*f.MaxPriceCents))
	}
	return where
}

func orderFor(sort string) []exp.OrderedExpression {
	switch sort {
	case domain.SortPriceAsc:
		return []exp.OrderedExpression{goqu.I("price_cents").Asc(), goqu.I("name").Asc()}
	case domain.SortPriceDesc:
		return []exp.OrderedExpression{goqu.I("price_cents").Desc(), goqu.I("name").Asc()}
	case domain.SortName:
		return []exp.OrderedExpression{goqu.I("name").Asc()}
	default:
		return []exp.OrderedExpression{goqu.I("created_at").Desc(), goqu.I("id").Asc()}
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
