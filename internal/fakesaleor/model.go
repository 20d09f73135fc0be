package fakesaleor

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// GlobalID builds the relay node id Saleor exposes, base64("Type:pk").
func GlobalID(typeName string, pk int) string {
	return base64.StdEncoding.EncodeToString([]byte(typeName + ":" + strconv.Itoa(pk)))
}

// ParseGlobalID splits a relay node id into its type name and primary key.
func ParseGlobalID(id string) (string, int, error) {
	raw, err := base64.StdEncoding.DecodeString(id)
	if err != nil {
		return "", 0, fmt.Errorf("couldn't resolve id: %s", id)
	}
	typeName, pk, ok := strings.Cut(string(raw), ":")
	if !ok {
		return "", 0, fmt.Errorf("couldn't resolve id: %s", id)
	}
	n, err := strconv.Atoi(pk)
	if err != nil {
		return "", 0, fmt.Errorf("couldn't resolve id: %s", id)
	}
	return typeName, n, nil
}

type Money struct {
	Amount   float64
	Currency string
}

type Category struct {
	ID   string
	Name string
	Slug string
}

type Collection struct {
	ID   string
	Name string
	Slug string
}

type AttributeValue struct {
	ID   string
	Name string
	Slug string
}

type Attribute struct {
	ID            string
	Slug          string
	Name          string
	InputType     string
	ValueRequired bool
	Values        []*AttributeValue
}

// AssignedAttribute is an attribute together with the values picked for one
// product or variant.
type AssignedAttribute struct {
	Attribute *Attribute
	Values    []*AttributeValue
}

type ProductType struct {
	ID                string
	Name              string
	HasVariants       bool
	ProductAttributes []*Attribute
	VariantAttributes []*Attribute
}

type Image struct {
	ID        string
	Alt       string
	SortOrder int
	URL       string
}

type Variant struct {
	ID                string
	SKU               string
	Name              string
	Attributes        []AssignedAttribute
	CostPrice         *Money
	PriceOverride     *Money
	Quantity          int
	QuantityAllocated int
	// Images holds ids of the owning product's images.
	Images []string

	product *Product
}

type Product struct {
	ID              string
	Name            string
	Slug            string
	DescriptionJSON string
	SEOTitle        string
	SEODescription  string
	Category        *Category
	Collections     []*Collection
	Price           Money
	PurchaseCost    [2]Money
	IsPublished     bool
	AvailableOn     *time.Time
	Attributes      []AssignedAttribute
	ProductType     *ProductType
	Images          []*Image
	Variants        []*Variant
}

// Image returns the product image with the given id.
func (p *Product) Image(id string) *Image {
	for _, img := range p.Images {
		if img.ID == id {
			return img
		}
	}
	return nil
}

// Store is the in-memory catalog served by the fake backend. It is read-only
// once built.
type Store struct {
	Categories   []*Category
	Collections  []*Collection
	ProductTypes []*ProductType
	Products     []*Product

	products map[string]*Product
	variants map[string]*Variant
}

// NewStore indexes products and links every variant back to its product.
func NewStore(categories []*Category, collections []*Collection, productTypes []*ProductType, products []*Product) *Store {
	s := &Store{
		Categories:   categories,
		Collections:  collections,
		ProductTypes: productTypes,
		Products:     products,
		products:     make(map[string]*Product, len(products)),
		variants:     map[string]*Variant{},
	}
	for _, p := range products {
		s.products[p.ID] = p
		for _, v := range p.Variants {
			v.product = p
			s.variants[v.ID] = v
		}
	}
	return s
}

// Product returns the product with the given global id.
func (s *Store) Product(id string) (*Product, error) {
	typeName, _, err := ParseGlobalID(id)
	if err != nil {
		return nil, err
	}
	if typeName != "Product" {
		return nil, fmt.Errorf("must receive a Product id")
	}
	p, ok := s.products[id]
	if !ok {
		return nil, fmt.Errorf("couldn't resolve to a node: %s", id)
	}
	return p, nil
}

// Variant returns the product variant with the given global id.
func (s *Store) Variant(id string) (*Variant, error) {
	typeName, _, err := ParseGlobalID(id)
	if err != nil {
		return nil, err
	}
	if typeName != "ProductVariant" {
		return nil, fmt.Errorf("must receive a ProductVariant id")
	}
	v, ok := s.variants[id]
	if !ok {
		return nil, fmt.Errorf("couldn't resolve to a node: %s", id)
	}
	return v, nil
}
