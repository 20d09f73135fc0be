package catalog

import (
	graphql "github.com/llehouerou/go-saleor-catalog"
)

// Operation names, as sent in the request's operationName.
const (
	ProductListName              = "ProductList"
	ProductDetailsName           = "ProductDetails"
	ProductVariantDetailsName    = "ProductVariantDetails"
	ProductCreateDataName        = "ProductCreateData"
	ProductVariantCreateDataName = "ProductVariantCreateData"
	ProductImageByIDName         = "ProductImageById"
)

// ProductListQuery pages through products. Pass first/after to move
// forward or last/before to move backward, not both pairs.
const ProductListQuery = MoneyFragment + `
  query ProductList($first: Int, $after: String, $last: Int, $before: String) {
    products(before: $before, after: $after, first: $first, last: $last) {
      edges {
        node {
          id
          name
          thumbnail {
            url
          }
          availability {
            available
          }
          price {
            ...Money
          }
          productType {
            id
            name
          }
        }
      }
      pageInfo {
        hasPreviousPage
        hasNextPage
        startCursor
        endCursor
      }
    }
  }
`

// ProductDetailsQuery loads a product along with every collection and
// category it may be moved to. An unknown id yields a null product and an
// error entry.
const ProductDetailsQuery = ProductFragment + `
  query ProductDetails($id: ID!) {
    product(id: $id) {
      ...Product
    }
    collections {
      edges {
        node {
          id
          name
        }
      }
    }
    categories {
      edges {
        node {
          id
          name
        }
      }
    }
  }
`

const ProductVariantDetailsQuery = ProductVariantFragment + `
  query ProductVariantDetails($id: ID!) {
    productVariant(id: $id) {
      ...ProductVariant
    }
  }
`

// ProductCreateDataQuery loads what the product creation form offers.
const ProductCreateDataQuery = `
  query ProductCreateData {
    productTypes {
      edges {
        node {
          id
          name
          hasVariants
          productAttributes {
            id
            slug
            name
            inputType
            valueRequired
            values {
              id
              name
              slug
            }
          }
        }
      }
    }
    collections {
      edges {
        node {
          id
          name
        }
      }
    }
    categories {
      edges {
        node {
          id
          name
        }
      }
    }
  }
`

// ProductVariantCreateDataQuery loads the product a new variant is added
// to. The image fields are selected inline rather than via
// ProductImageFragment.
const ProductVariantCreateDataQuery = `
  query ProductVariantCreateData($id: ID!) {
    product(id: $id) {
      id
      images {
        edges {
          node {
            id
            sortOrder
            url
          }
        }
      }
      productType {
        id
        variantAttributes {
          id
          slug
          name
          valueRequired
          values {
            id
            name
            slug
          }
        }
      }
      variants {
        edges {
          node {
            id
            name
            sku
            images(first: 1) {
              edges {
                node {
                  id
                  url
                }
              }
            }
          }
        }
      }
    }
  }
`

// ProductImageQuery resolves one image by id next to the first page of
// 48px thumbnails. mainImage does not depend on the thumbnail window.
const ProductImageQuery = `
  query ProductImageById($productId: ID!, $imageId: ID!) {
    product(id: $productId) {
      id
      mainImage: imageById(id: $imageId) {
        id
        alt
        url
      }
      images(first: 20) {
        edges {
          node {
            id
            url(size: 48)
          }
        }
      }
    }
  }
`

type (
	TypedProductListQuery              = graphql.TypedQuery[ProductListResult, ProductListVariables]
	TypedProductDetailsQuery           = graphql.TypedQuery[ProductDetailsResult, ProductDetailsVariables]
	TypedProductVariantDetailsQuery    = graphql.TypedQuery[ProductVariantDetailsResult, ProductVariantDetailsVariables]
	TypedProductCreateDataQuery        = graphql.TypedQuery[ProductCreateDataResult, ProductCreateDataVariables]
	TypedProductVariantCreateDataQuery = graphql.TypedQuery[ProductVariantCreateDataResult, ProductVariantCreateDataVariables]
	TypedProductImageByIDQuery         = graphql.TypedQuery[ProductImageByIDResult, ProductImageByIDVariables]
)

// Typed queries bound to their documents.
var (
	ProductList              TypedProductListQuery              = graphql.NewTypedQuery[ProductListResult, ProductListVariables](ProductListName, ProductListQuery)
	ProductDetails           TypedProductDetailsQuery           = graphql.NewTypedQuery[ProductDetailsResult, ProductDetailsVariables](ProductDetailsName, ProductDetailsQuery)
	ProductVariantDetails    TypedProductVariantDetailsQuery    = graphql.NewTypedQuery[ProductVariantDetailsResult, ProductVariantDetailsVariables](ProductVariantDetailsName, ProductVariantDetailsQuery)
	ProductCreateData        TypedProductCreateDataQuery        = graphql.NewTypedQuery[ProductCreateDataResult, ProductCreateDataVariables](ProductCreateDataName, ProductCreateDataQuery)
	ProductVariantCreateData TypedProductVariantCreateDataQuery = graphql.NewTypedQuery[ProductVariantCreateDataResult, ProductVariantCreateDataVariables](ProductVariantCreateDataName, ProductVariantCreateDataQuery)
	ProductImageByID         TypedProductImageByIDQuery         = graphql.NewTypedQuery[ProductImageByIDResult, ProductImageByIDVariables](ProductImageByIDName, ProductImageQuery)
)
