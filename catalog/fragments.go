package catalog

// Fragments that pull in other fragments carry them, so a document
// concatenating one fragment constant gets every definition it spreads.

// MoneyFragment is the selection used for every money value.
const MoneyFragment = `
  fragment Money on Money {
    amount
    currency
  }
`

const ProductImageFragment = `
  fragment ProductImageFragment on ProductImage {
    id
    alt
    sortOrder
    url
  }
`

// ProductFragment selects everything the product details page edits.
const ProductFragment = MoneyFragment + ProductImageFragment + `
  fragment Product on Product {
    id
    name
    descriptionJson
    seoTitle
    seoDescription
    category {
      id
      name
    }
    collections {
      id
      name
    }
    price {
      ...Money
    }
    margin {
      start
      stop
    }
    purchaseCost {
      start {
        ...Money
      }
      stop {
        ...Money
      }
    }
    isAvailable
    isPublished
    availableOn
    attributes {
      attribute {
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
      values {
        id
        name
        slug
      }
    }
    availability {
      available
    }
    images {
      edges {
        node {
          ...ProductImageFragment
        }
      }
    }
    variants {
      edges {
        node {
          id
          sku
          name
          priceOverride {
            ...Money
          }
          margin
          quantity
          quantityAllocated
          stockQuantity
        }
      }
    }
    productType {
      id
      name
      hasVariants
    }
    url
  }
`

// ProductVariantFragment selects a variant together with its siblings, which
// the variant page lists in its navigation.
const ProductVariantFragment = MoneyFragment + ProductImageFragment + `
  fragment ProductVariant on ProductVariant {
    id
    attributes {
      attribute {
        id
        name
        slug
        valueRequired
        values {
          id
          name
          slug
        }
      }
      value {
        id
        name
        slug
      }
    }
    costPrice {
      ...Money
    }
    images {
      edges {
        node {
          id
        }
      }
    }
    name
    priceOverride {
      ...Money
    }
    product {
      id
      images {
        edges {
          node {
            ...ProductImageFragment
          }
        }
      }
      name
      thumbnail {
        url
      }
      variants {
        totalCount
        edges {
          node {
            id
            name
            sku
            image: images(first: 1) {
              edges {
                node {
                  url
                }
              }
            }
          }
        }
      }
    }
    sku
    quantity
    quantityAllocated
  }
`
