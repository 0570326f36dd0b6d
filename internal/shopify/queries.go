package shopify

// GraphQL documents for the Storefront API operations the storefront
// consumes: live product lookup, catalog pagination, text search and cart
// creation.

const metafieldFragment = `
        value
        type
        reference { ... on Metaobject { fields { key value } } }
        references(first: 10) { nodes { ... on Metaobject { fields { key value } } } }
`

const liveProductQuery = `
  query getProductLivePricing($id: ID!) {
    product(id: $id) {
      id
      title
      descriptionHtml
      vendor
      tags
      productType

      pesoReal: metafield(namespace: "custom", key: "peso_real") { value type }
      anchoMm: metafield(namespace: "custom", key: "ancho_mm") { value type }
      material: metafield(namespace: "custom", key: "material") {` + metafieldFragment + `}
      shopifyColor: metafield(namespace: "shopify", key: "color-pattern") {` + metafieldFragment + `}
      shopifyAgeGroup: metafield(namespace: "shopify", key: "age-group") {` + metafieldFragment + `}
      shopifyGender: metafield(namespace: "shopify", key: "target-gender") {` + metafieldFragment + `}
      shopifyMaterial: metafield(namespace: "shopify", key: "jewelry-material") {` + metafieldFragment + `}
      shopifyJewelryType: metafield(namespace: "shopify", key: "jewelry-type") {` + metafieldFragment + `}
      shopifyNecklaceDesign: metafield(namespace: "shopify", key: "necklace-design") {` + metafieldFragment + `}

      variants(first: 50) {
        edges {
          node {
            id
            title
            sku
            availableForSale
            quantityAvailable
            price { amount currencyCode }
            compareAtPrice { amount currencyCode }
            selectedOptions { name value }
          }
        }
      }
    }
  }
`

const allProductsQuery = `
  query AllProducts($first: Int!, $cursor: String) {
    products(first: $first, after: $cursor) {
      pageInfo {
        hasNextPage
        endCursor
      }
      edges {
        node {
          id
          title
          handle
          description
          productType
          tags
          priceRange {
            minVariantPrice { amount currencyCode }
          }
          featuredImage { url altText width height }
          variants(first: 50) {
            edges {
              node {
                id
                title
                sku
                availableForSale
                quantityAvailable
                price { amount currencyCode }
                compareAtPrice { amount currencyCode }
                selectedOptions { name value }
              }
            }
          }
        }
      }
    }
  }
`

const searchProductsQuery = `
  query searchProducts($query: String!, $first: Int!) {
    products(first: $first, query: $query) {
      edges {
        node {
          id
          title
          handle
          priceRange {
            minVariantPrice { amount currencyCode }
          }
          featuredImage { url altText }
          variants(first: 1) {
            edges { node { id } }
          }
        }
      }
    }
  }
`

const cartCreateMutation = `
  mutation cartCreate($input: CartInput) {
    cartCreate(input: $input) {
      cart {
        id
        checkoutUrl
      }
      userErrors {
        field
        message
      }
    }
  }
`
