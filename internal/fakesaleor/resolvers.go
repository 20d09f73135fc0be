package fakesaleor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"path"
	"strings"
	"time"

	graphql "github.com/graph-gophers/graphql-go"
)

const storefrontURL = "http://localhost:8000/products/"

type queryResolver struct {
	store *Store
	now   func() time.Time
}

type idArgs struct {
	ID graphql.ID
}

type forwardArgs struct {
	First *int32
	After *string
}

func (a forwardArgs) page() PageArgs {
	return PageArgs{First: a.First, After: a.After}
}

type sizeArgs struct {
	Size *int32
}

func (r *queryResolver) Products(ctx context.Context, args PageArgs) (*connectionResolver[*productResolver], error) {
	return newConnection(r.store.Products, func(p *Product) string { return p.ID }, r.wrapProduct, args)
}

func (r *queryResolver) Product(ctx context.Context, args idArgs) (*productResolver, error) {
	p, err := r.store.Product(string(args.ID))
	if err != nil {
		return nil, err
	}
	return r.wrapProduct(p), nil
}

func (r *queryResolver) ProductVariant(ctx context.Context, args idArgs) (*variantResolver, error) {
	v, err := r.store.Variant(string(args.ID))
	if err != nil {
		return nil, err
	}
	return &variantResolver{q: r, v: v}, nil
}

func (r *queryResolver) ProductTypes(args PageArgs) (*connectionResolver[*productTypeResolver], error) {
	return newConnection(r.store.ProductTypes, func(t *ProductType) string { return t.ID }, newProductTypeResolver, args)
}

func (r *queryResolver) Collections(args PageArgs) (*connectionResolver[*collectionResolver], error) {
	return newConnection(r.store.Collections, func(c *Collection) string { return c.ID }, newCollectionResolver, args)
}

func (r *queryResolver) Categories(args PageArgs) (*connectionResolver[*categoryResolver], error) {
	return newConnection(r.store.Categories, func(c *Category) string { return c.ID }, newCategoryResolver, args)
}

func (r *queryResolver) wrapProduct(p *Product) *productResolver {
	return &productResolver{q: r, p: p}
}

// connections

type connectionResolver[R any] struct {
	edges    []*edgeResolver[R]
	pageInfo *pageInfoResolver
	total    int32
}

type edgeResolver[R any] struct {
	node   R
	cursor string
}

func newConnection[M any, R any](items []M, idOf func(M) string, wrap func(M) R, args PageArgs) (*connectionResolver[R], error) {
	page, err := Paginate(items, idOf, args)
	if err != nil {
		return nil, err
	}
	c := &connectionResolver[R]{
		edges:    make([]*edgeResolver[R], 0, len(page.Items)),
		pageInfo: &pageInfoResolver{hasNext: page.HasNextPage, hasPrevious: page.HasPreviousPage},
		total:    int32(page.Total),
	}
	for i, item := range page.Items {
		c.edges = append(c.edges, &edgeResolver[R]{node: wrap(item), cursor: page.Cursors[i]})
	}
	if n := len(page.Cursors); n > 0 {
		c.pageInfo.start = &page.Cursors[0]
		c.pageInfo.end = &page.Cursors[n-1]
	}
	return c, nil
}

func (c *connectionResolver[R]) Edges() []*edgeResolver[R]   { return c.edges }
func (c *connectionResolver[R]) PageInfo() *pageInfoResolver { return c.pageInfo }
func (c *connectionResolver[R]) TotalCount() *int32          { return &c.total }

func (e *edgeResolver[R]) Node() R        { return e.node }
func (e *edgeResolver[R]) Cursor() string { return e.cursor }

type pageInfoResolver struct {
	hasNext, hasPrevious bool
	start, end           *string
}

func (p *pageInfoResolver) HasNextPage() bool     { return p.hasNext }
func (p *pageInfoResolver) HasPreviousPage() bool { return p.hasPrevious }
func (p *pageInfoResolver) StartCursor() *string  { return p.start }
func (p *pageInfoResolver) EndCursor() *string    { return p.end }

// scalars

type jsonString string

func (jsonString) ImplementsGraphQLType(name string) bool { return name == "JSONString" }

func (j *jsonString) UnmarshalGraphQL(input any) error {
	s, ok := input.(string)
	if !ok || !json.Valid([]byte(s)) {
		return errors.New("JSONString must be a string holding a JSON document")
	}
	*j = jsonString(s)
	return nil
}

type date struct {
	time.Time
}

func (date) ImplementsGraphQLType(name string) bool { return name == "Date" }

func (d *date) UnmarshalGraphQL(input any) error {
	s, ok := input.(string)
	if !ok {
		return fmt.Errorf("Date must be a string, got %T", input)
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(time.DateOnly))
}

// products

type productResolver struct {
	q *queryResolver
	p *Product
}

func (r *productResolver) ID() graphql.ID { return graphql.ID(r.p.ID) }
func (r *productResolver) Name() string   { return r.p.Name }
func (r *productResolver) Slug() string   { return r.p.Slug }

func (r *productResolver) DescriptionJSON() jsonString {
	return jsonString(r.p.DescriptionJSON)
}

func (r *productResolver) SeoTitle() *string       { return optional(r.p.SEOTitle) }
func (r *productResolver) SeoDescription() *string { return optional(r.p.SEODescription) }

func (r *productResolver) Category() *categoryResolver {
	return newCategoryResolver(r.p.Category)
}

func (r *productResolver) Collections() []*collectionResolver {
	out := make([]*collectionResolver, 0, len(r.p.Collections))
	for _, c := range r.p.Collections {
		out = append(out, newCollectionResolver(c))
	}
	return out
}

func (r *productResolver) Price() *moneyResolver {
	return &moneyResolver{r.p.Price}
}

func (r *productResolver) Margin() *marginResolver {
	price := r.p.Price.Amount
	// The highest purchase cost gives the lowest margin.
	return &marginResolver{
		start: marginPercent(price, r.p.PurchaseCost[1].Amount),
		stop:  marginPercent(price, r.p.PurchaseCost[0].Amount),
	}
}

func (r *productResolver) PurchaseCost() *moneyRangeResolver {
	return &moneyRangeResolver{start: r.p.PurchaseCost[0], stop: r.p.PurchaseCost[1]}
}

func (r *productResolver) IsAvailable() bool {
	if !r.p.IsPublished {
		return false
	}
	return r.p.AvailableOn == nil || !r.p.AvailableOn.After(r.q.now())
}

func (r *productResolver) IsPublished() bool { return r.p.IsPublished }

func (r *productResolver) AvailableOn() *date {
	if r.p.AvailableOn == nil {
		return nil
	}
	return &date{*r.p.AvailableOn}
}

func (r *productResolver) Attributes() []*selectedAttributeResolver {
	return newSelectedAttributes(r.p.Attributes)
}

func (r *productResolver) Availability() *availabilityResolver {
	return &availabilityResolver{available: r.IsAvailable()}
}

func (r *productResolver) Thumbnail(args sizeArgs) *imageResolver {
	if len(r.p.Images) == 0 {
		return nil
	}
	img := r.p.Images[0]
	return &imageResolver{url: sizedURL(img.URL, args.Size), alt: img.Alt}
}

func (r *productResolver) ImageByID(args struct{ ID *graphql.ID }) (*productImageResolver, error) {
	if args.ID == nil {
		return nil, nil
	}
	img := r.p.Image(string(*args.ID))
	if img == nil {
		return nil, fmt.Errorf("couldn't resolve to a node: %s", *args.ID)
	}
	return &productImageResolver{img}, nil
}

func (r *productResolver) Images(args forwardArgs) (*connectionResolver[*productImageResolver], error) {
	return newConnection(r.p.Images, func(img *Image) string { return img.ID }, newProductImageResolver, args.page())
}

func (r *productResolver) Variants(args forwardArgs) (*connectionResolver[*variantResolver], error) {
	wrap := func(v *Variant) *variantResolver { return &variantResolver{q: r.q, v: v} }
	return newConnection(r.p.Variants, func(v *Variant) string { return v.ID }, wrap, args.page())
}

func (r *productResolver) ProductType() *productTypeResolver {
	return newProductTypeResolver(r.p.ProductType)
}

func (r *productResolver) URL() string {
	return storefrontURL + r.p.Slug + "/"
}

type availabilityResolver struct {
	available bool
}

func (r *availabilityResolver) Available() bool { return r.available }

// variants

type variantResolver struct {
	q *queryResolver
	v *Variant
}

func (r *variantResolver) ID() graphql.ID { return graphql.ID(r.v.ID) }
func (r *variantResolver) SKU() string    { return r.v.SKU }
func (r *variantResolver) Name() string   { return r.v.Name }

func (r *variantResolver) Attributes() []*selectedAttributeResolver {
	return newSelectedAttributes(r.v.Attributes)
}

func (r *variantResolver) CostPrice() *moneyResolver     { return optionalMoney(r.v.CostPrice) }
func (r *variantResolver) PriceOverride() *moneyResolver { return optionalMoney(r.v.PriceOverride) }

func (r *variantResolver) Margin() *int32 {
	if r.v.CostPrice == nil {
		return nil
	}
	price := r.v.product.Price
	if r.v.PriceOverride != nil {
		price = *r.v.PriceOverride
	}
	return marginPercent(price.Amount, r.v.CostPrice.Amount)
}

func (r *variantResolver) Quantity() int32          { return int32(r.v.Quantity) }
func (r *variantResolver) QuantityAllocated() int32 { return int32(r.v.QuantityAllocated) }

func (r *variantResolver) StockQuantity() int32 {
	return int32(max(r.v.Quantity-r.v.QuantityAllocated, 0))
}

func (r *variantResolver) Images(args forwardArgs) (*connectionResolver[*productImageResolver], error) {
	images := make([]*Image, 0, len(r.v.Images))
	for _, id := range r.v.Images {
		if img := r.v.product.Image(id); img != nil {
			images = append(images, img)
		}
	}
	return newConnection(images, func(img *Image) string { return img.ID }, newProductImageResolver, args.page())
}

func (r *variantResolver) Product() *productResolver {
	return r.q.wrapProduct(r.v.product)
}

// images

type productImageResolver struct {
	img *Image
}

func newProductImageResolver(img *Image) *productImageResolver {
	return &productImageResolver{img}
}

func (r *productImageResolver) ID() graphql.ID   { return graphql.ID(r.img.ID) }
func (r *productImageResolver) Alt() string      { return r.img.Alt }
func (r *productImageResolver) SortOrder() int32 { return int32(r.img.SortOrder) }

func (r *productImageResolver) URL(args sizeArgs) string {
	return sizedURL(r.img.URL, args.Size)
}

type imageResolver struct {
	url, alt string
}

func (r *imageResolver) URL() string  { return r.url }
func (r *imageResolver) Alt() *string { return optional(r.alt) }

// sizedURL points at the square thumbnail of the given size, the way
// Saleor's versatile image field names them.
func sizedURL(url string, size *int32) string {
	if size == nil {
		return url
	}
	ext := path.Ext(url)
	return fmt.Sprintf("%s-thumbnail-%dx%d%s", strings.TrimSuffix(url, ext), *size, *size, ext)
}

// taxonomy

type categoryResolver struct{ c *Category }

func newCategoryResolver(c *Category) *categoryResolver { return &categoryResolver{c} }

func (r *categoryResolver) ID() graphql.ID { return graphql.ID(r.c.ID) }
func (r *categoryResolver) Name() string   { return r.c.Name }
func (r *categoryResolver) Slug() string   { return r.c.Slug }

type collectionResolver struct{ c *Collection }

func newCollectionResolver(c *Collection) *collectionResolver { return &collectionResolver{c} }

func (r *collectionResolver) ID() graphql.ID { return graphql.ID(r.c.ID) }
func (r *collectionResolver) Name() string   { return r.c.Name }
func (r *collectionResolver) Slug() string   { return r.c.Slug }

type productTypeResolver struct{ t *ProductType }

func newProductTypeResolver(t *ProductType) *productTypeResolver { return &productTypeResolver{t} }

func (r *productTypeResolver) ID() graphql.ID    { return graphql.ID(r.t.ID) }
func (r *productTypeResolver) Name() string      { return r.t.Name }
func (r *productTypeResolver) HasVariants() bool { return r.t.HasVariants }

func (r *productTypeResolver) ProductAttributes() []*attributeResolver {
	return newAttributes(r.t.ProductAttributes)
}

func (r *productTypeResolver) VariantAttributes() []*attributeResolver {
	return newAttributes(r.t.VariantAttributes)
}

// attributes

type attributeResolver struct{ a *Attribute }

func newAttributes(attrs []*Attribute) []*attributeResolver {
	out := make([]*attributeResolver, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, &attributeResolver{a})
	}
	return out
}

func (r *attributeResolver) ID() graphql.ID      { return graphql.ID(r.a.ID) }
func (r *attributeResolver) Slug() *string       { return optional(r.a.Slug) }
func (r *attributeResolver) Name() *string       { return optional(r.a.Name) }
func (r *attributeResolver) InputType() *string  { return optional(r.a.InputType) }
func (r *attributeResolver) ValueRequired() bool { return r.a.ValueRequired }

func (r *attributeResolver) Values() []*attributeValueResolver {
	return newAttributeValues(r.a.Values)
}

type attributeValueResolver struct{ v *AttributeValue }

func newAttributeValues(values []*AttributeValue) []*attributeValueResolver {
	out := make([]*attributeValueResolver, 0, len(values))
	for _, v := range values {
		out = append(out, &attributeValueResolver{v})
	}
	return out
}

func (r *attributeValueResolver) ID() graphql.ID { return graphql.ID(r.v.ID) }
func (r *attributeValueResolver) Name() *string  { return optional(r.v.Name) }
func (r *attributeValueResolver) Slug() *string  { return optional(r.v.Slug) }

type selectedAttributeResolver struct{ a AssignedAttribute }

func newSelectedAttributes(attrs []AssignedAttribute) []*selectedAttributeResolver {
	out := make([]*selectedAttributeResolver, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, &selectedAttributeResolver{a})
	}
	return out
}

func (r *selectedAttributeResolver) Attribute() *attributeResolver {
	return &attributeResolver{r.a.Attribute}
}

// Value is the first picked value, the only one for dropdown attributes.
func (r *selectedAttributeResolver) Value() *attributeValueResolver {
	if len(r.a.Values) == 0 {
		return nil
	}
	return &attributeValueResolver{r.a.Values[0]}
}

func (r *selectedAttributeResolver) Values() []*attributeValueResolver {
	return newAttributeValues(r.a.Values)
}

// money

type moneyResolver struct{ m Money }

func optionalMoney(m *Money) *moneyResolver {
	if m == nil {
		return nil
	}
	return &moneyResolver{*m}
}

func (r *moneyResolver) Amount() float64  { return r.m.Amount }
func (r *moneyResolver) Currency() string { return r.m.Currency }

type moneyRangeResolver struct {
	start, stop Money
}

func (r *moneyRangeResolver) Start() *moneyResolver { return &moneyResolver{r.start} }
func (r *moneyRangeResolver) Stop() *moneyResolver  { return &moneyResolver{r.stop} }

type marginResolver struct {
	start, stop *int32
}

func (r *marginResolver) Start() *int32 { return r.start }
func (r *marginResolver) Stop() *int32  { return r.stop }

func marginPercent(price, cost float64) *int32 {
	if price == 0 {
		return nil
	}
	m := int32(math.Round((price - cost) / price * 100))
	return &m
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
