package blog

import (
	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"

	"storefront/internal/domain"
)

var dialect = goqu.Dialect("postgres") //nolint: gochecknoglobals

// buildListQueries returns the page query and the matching count query for f.
func buildListQueries(f domain.ContentFilter) (string, []interface{}, string, []interface{}, error) {
	base := dialect.From(goqu.T("contents").As("c")).Where(filterExpressions(f)...)

	listSQL, listArgs, err := base.
		Select(goqu.L(postColumns)).
		Order(
			goqu.I("c.published_at").Desc().NullsLast(),
			goqu.I("c.created_at").Desc(),
		).
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

func filterExpressions(f domain.ContentFilter) []exp.Expression {
	var where []exp.Expression
	if !f.IncludeDrafts {
		where = append(where, goqu.I("c.published").IsTrue())
	}
	if f.CategorySlug != "" {
		where = append(where, goqu.I("c.category_id").In(
			dialect.From("blog_categories").Select("id").Where(goqu.I("slug").Eq(f.CategorySlug)),
		))
	}
	if f.TagSlug != "" {
		where = append(where, goqu.I("c.id").In(
			dialect.From(goqu.T("content_tags").As("ct")).
				Join(goqu.T("blog_tags").As("t"), goqu.On(goqu.I("t.id").Eq(goqu.I("ct.tag_id")))).
				Select("ct.content_id").
				Where(goqu.I("t.slug").Eq(f.TagSlug)),
		))
	}
	return where
}
