// Package query turns raw listing parameters into a filter, an order,
// a page window and a field projection.
package query

// Params are the listing parameters as they arrive from the transport.
type Params struct {
	Category string
	Search   string
	Sort     string
	Fields   string
	Page     string
	Limit    string
}

type Query struct {
	Filter     Filter
	Order      Order
	Page       Page
	Projection Projection
}

func Build(p Params, d Defaults) Query {
	return Query{
		Filter:     NewFilter(p.Category, p.Search),
		Order:      Order{Direction: ParseDirection(p.Sort)},
		Page:       ParsePage(p.Page, p.Limit, d),
		Projection: ParseProjection(p.Fields),
	}
}
