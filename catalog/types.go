package catalog

import (
	graphql "github.com/llehouerou/go-saleor-catalog"
)

// Connection is the relay connection envelope, edges only. Embed it next to
// PageInfo or totalCount when the document selects them.
type Connection[T any] struct {
	Edges []Edge[T] `json:"edges"`
}

type Edge[T any] struct {
	Node T `json:"node"`
}

// Nodes unwraps the edges.
func (c Connection[T]) Nodes() []T {
	out := make([]T, 0, len(c.Edges))
	for _, e := range c.Edges {
		out = append(out, e.Node)
	}
	return out
}

type PageInfo struct {
	HasPreviousPage bool    `json:"hasPreviousPage"`
	HasNextPage     bool    `json:"hasNextPage"`
	StartCursor     *string `json:"startCursor"`
	EndCursor       *string `json:"endCursor"`
}

// Fragment types.

// Money is the Money fragment.
type Money struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// ProductImage is the ProductImageFragment fragment.
type ProductImage struct {
	ID        graphql.ID `json:"id"`
	Alt       string     `json:"alt"`
	SortOrder int        `json:"sortOrder"`
	URL       string     `json:"url"`
}

// Product is the Product fragment.
type Product struct {
	ID              graphql.ID                        `json:"id"`
	Name            string                            `json:"name"`
	DescriptionJSON string                            `json:"descriptionJson"`
	SEOTitle        *string                           `json:"seoTitle"`
	SEODescription  *string                           `json:"seoDescription"`
	Category        NamedNode                         `json:"category"`
	Collections     []NamedNode                       `json:"collections"`
	Price           *Money                            `json:"price"`
	Margin          *Margin                           `json:"margin"`
	PurchaseCost    *MoneyRange                       `json:"purchaseCost"`
	IsAvailable     bool                              `json:"isAvailable"`
	IsPublished     bool                              `json:"isPublished"`
	AvailableOn     *string                           `json:"availableOn"`
	Attributes      []ProductAttribute                `json:"attributes"`
	Availability    Availability                      `json:"availability"`
	Images          Connection[ProductImage]          `json:"images"`
	Variants        Connection[ProductVariantSummary] `json:"variants"`
	ProductType     ProductTypeSummary                `json:"productType"`
	URL             string                            `json:"url"`
}

// ProductVariant is the ProductVariant fragment.
type ProductVariant struct {
	ID                graphql.ID                  `json:"id"`
	Attributes        []VariantAttributeSelection `json:"attributes"`
	CostPrice         *Money                      `json:"costPrice"`
	Images            Connection[ImageRef]        `json:"images"`
	Name              string                      `json:"name"`
	PriceOverride     *Money                      `json:"priceOverride"`
	Product           VariantProduct              `json:"product"`
	SKU               string                      `json:"sku"`
	Quantity          int                         `json:"quantity"`
	QuantityAllocated int                         `json:"quantityAllocated"`
}

// Shared selections.

// NamedNode is any node selected as {id name}.
type NamedNode struct {
	ID   graphql.ID `json:"id"`
	Name string     `json:"name"`
}

type ImageRef struct {
	ID graphql.ID `json:"id"`
}

type Thumbnail struct {
	URL string `json:"url"`
}

type Availability struct {
	Available bool `json:"available"`
}

// Margin is a percentage range.
type Margin struct {
	Start *int `json:"start"`
	Stop  *int `json:"stop"`
}

type MoneyRange struct {
	Start *Money `json:"start"`
	Stop  *Money `json:"stop"`
}

type AttributeInputType string

const (
	AttributeInputTypeDropdown    AttributeInputType = "DROPDOWN"
	AttributeInputTypeMultiselect AttributeInputType = "MULTISELECT"
)

type AttributeValue struct {
	ID   graphql.ID `json:"id"`
	Name *string    `json:"name"`
	Slug *string    `json:"slug"`
}

// Attribute is a product attribute with its possible values.
type Attribute struct {
	ID            graphql.ID          `json:"id"`
	Slug          *string             `json:"slug"`
	Name          *string             `json:"name"`
	InputType     *AttributeInputType `json:"inputType"`
	ValueRequired bool                `json:"valueRequired"`
	Values        []AttributeValue    `json:"values"`
}

// VariantAttribute is a variant attribute with its possible values.
// Variant attributes are always dropdowns so their input type is not read.
type VariantAttribute struct {
	ID            graphql.ID       `json:"id"`
	Name          *string          `json:"name"`
	Slug          *string          `json:"slug"`
	ValueRequired bool             `json:"valueRequired"`
	Values        []AttributeValue `json:"values"`
}

// ProductAttribute is an attribute with the values picked for a product.
type ProductAttribute struct {
	Attribute Attribute        `json:"attribute"`
	Values    []AttributeValue `json:"values"`
}

// VariantAttributeSelection is an attribute with the value picked for a
// variant.
type VariantAttributeSelection struct {
	Attribute VariantAttribute `json:"attribute"`
	Value     *AttributeValue  `json:"value"`
}

type ProductVariantSummary struct {
	ID                graphql.ID `json:"id"`
	SKU               string     `json:"sku"`
	Name              string     `json:"name"`
	PriceOverride     *Money     `json:"priceOverride"`
	Margin            *int       `json:"margin"`
	Quantity          int        `json:"quantity"`
	QuantityAllocated int        `json:"quantityAllocated"`
	StockQuantity     int        `json:"stockQuantity"`
}

type ProductTypeSummary struct {
	ID          graphql.ID `json:"id"`
	Name        string     `json:"name"`
	HasVariants bool       `json:"hasVariants"`
}

// VariantProduct is the parent product as seen from one of its variants.
type VariantProduct struct {
	ID        graphql.ID               `json:"id"`
	Images    Connection[ProductImage] `json:"images"`
	Name      string                   `json:"name"`
	Thumbnail *Thumbnail               `json:"thumbnail"`
	Variants  VariantSiblings          `json:"variants"`
}

type VariantSiblings struct {
	TotalCount *int `json:"totalCount"`
	Connection[VariantSibling]
}

type VariantSibling struct {
	ID    graphql.ID            `json:"id"`
	Name  string                `json:"name"`
	SKU   string                `json:"sku"`
	Image Connection[Thumbnail] `json:"image"`
}

// ProductList.

type ProductListVariables struct {
	First  *int    `json:"first,omitempty"`
	After  *string `json:"after,omitempty"`
	Last   *int    `json:"last,omitempty"`
	Before *string `json:"before,omitempty"`
}

type ProductListResult struct {
	Products ProductPage `json:"products"`
}

type ProductPage struct {
	Connection[ProductListItem]
	PageInfo PageInfo `json:"pageInfo"`
}

type ProductListItem struct {
	ID           graphql.ID   `json:"id"`
	Name         string       `json:"name"`
	Thumbnail    *Thumbnail   `json:"thumbnail"`
	Availability Availability `json:"availability"`
	Price        *Money       `json:"price"`
	ProductType  NamedNode    `json:"productType"`
}

// ProductDetails.

type ProductDetailsVariables struct {
	ID graphql.ID `json:"id"`
}

type ProductDetailsResult struct {
	Product     *Product              `json:"product"`
	Collections Connection[NamedNode] `json:"collections"`
	Categories  Connection[NamedNode] `json:"categories"`
}

// ProductVariantDetails.

type ProductVariantDetailsVariables struct {
	ID graphql.ID `json:"id"`
}

type ProductVariantDetailsResult struct {
	ProductVariant *ProductVariant `json:"productVariant"`
}

// ProductCreateData.

type ProductCreateDataVariables struct{}

type ProductCreateDataResult struct {
	ProductTypes Connection[ProductTypeWithAttributes] `json:"productTypes"`
	Collections  Connection[NamedNode]                 `json:"collections"`
	Categories   Connection[NamedNode]                 `json:"categories"`
}

type ProductTypeWithAttributes struct {
	ID                graphql.ID  `json:"id"`
	Name              string      `json:"name"`
	HasVariants       bool        `json:"hasVariants"`
	ProductAttributes []Attribute `json:"productAttributes"`
}

// ProductVariantCreateData.

type ProductVariantCreateDataVariables struct {
	// ID is the id of the product the variant is created for.
	ID graphql.ID `json:"id"`
}

type ProductVariantCreateDataResult struct {
	Product *VariantCreateProduct `json:"product"`
}

type VariantCreateProduct struct {
	ID          graphql.ID                        `json:"id"`
	Images      Connection[VariantCreateImage]    `json:"images"`
	ProductType VariantCreateProductType          `json:"productType"`
	Variants    Connection[VariantCreateExisting] `json:"variants"`
}

type VariantCreateImage struct {
	ID        graphql.ID `json:"id"`
	SortOrder int        `json:"sortOrder"`
	URL       string     `json:"url"`
}

type VariantCreateProductType struct {
	ID                graphql.ID         `json:"id"`
	VariantAttributes []VariantAttribute `json:"variantAttributes"`
}

type VariantCreateExisting struct {
	ID     graphql.ID           `json:"id"`
	Name   string               `json:"name"`
	SKU    string               `json:"sku"`
	Images Connection[ImageURL] `json:"images"`
}

type ImageURL struct {
	ID  graphql.ID `json:"id"`
	URL string     `json:"url"`
}

// ProductImageById.

type ProductImageByIDVariables struct {
	ProductID graphql.ID `json:"productId"`
	ImageID   graphql.ID `json:"imageId"`
}

type ProductImageByIDResult struct {
	Product *ImageProduct `json:"product"`
}

type ImageProduct struct {
	ID        graphql.ID           `json:"id"`
	MainImage *MainImage           `json:"mainImage"`
	Images    Connection[ImageURL] `json:"images"`
}

type MainImage struct {
	ID  graphql.ID `json:"id"`
	Alt string     `json:"alt"`
	URL string     `json:"url"`
}
