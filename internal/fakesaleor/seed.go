package fakesaleor

import (
	"fmt"
	"strings"
	"time"
)

const mediaURL = "http://localhost:8000/media/products/"

// Seed builds a small demo catalog: three categories, two collections, three
// product types and eight products. The "Saleor Cushion" product carries
// more images than one page of ProductImageById's thumbnail list.
func Seed() *Store {
	juices := &Category{ID: GlobalID("Category", 1), Name: "Juices", Slug: "juices"}
	apparel := &Category{ID: GlobalID("Category", 2), Name: "Apparel", Slug: "apparel"}
	homewares := &Category{ID: GlobalID("Category", 3), Name: "Homewares", Slug: "homewares"}

	summer := &Collection{ID: GlobalID("Collection", 1), Name: "Summer collection", Slug: "summer-collection"}
	winter := &Collection{ID: GlobalID("Collection", 2), Name: "Winter sale", Slug: "winter-sale"}

	values := newValueSeq()
	flavor := &Attribute{
		ID: GlobalID("Attribute", 1), Slug: "flavor", Name: "Flavor", InputType: "DROPDOWN", ValueRequired: true,
		Values: values.make("Apple", "Banana", "Bean", "Carrot", "Orange"),
	}
	bottleSize := &Attribute{
		ID: GlobalID("Attribute", 2), Slug: "bottle-size", Name: "Bottle size", InputType: "DROPDOWN", ValueRequired: true,
		Values: values.make("0.5l", "1l", "2l"),
	}
	material := &Attribute{
		ID: GlobalID("Attribute", 3), Slug: "material", Name: "Material", InputType: "MULTISELECT",
		Values: values.make("Cotton", "Polyester", "Linen"),
	}
	size := &Attribute{
		ID: GlobalID("Attribute", 4), Slug: "size", Name: "Size", InputType: "DROPDOWN", ValueRequired: true,
		Values: values.make("S", "M", "L", "XL"),
	}

	juice := &ProductType{
		ID: GlobalID("ProductType", 1), Name: "Juice", HasVariants: true,
		ProductAttributes: []*Attribute{flavor},
		VariantAttributes: []*Attribute{bottleSize},
	}
	shirt := &ProductType{
		ID: GlobalID("ProductType", 2), Name: "T-Shirt", HasVariants: true,
		ProductAttributes: []*Attribute{material},
		VariantAttributes: []*Attribute{size},
	}
	cushion := &ProductType{
		ID: GlobalID("ProductType", 3), Name: "Cushion", HasVariants: false,
		ProductAttributes: []*Attribute{material},
		VariantAttributes: []*Attribute{},
	}

	seq := &seedSeq{}
	var products []*Product
	for i, name := range []string{"Apple", "Banana", "Bean", "Carrot", "Orange"} {
		p := seq.product(name+" Juice", juices, juice, Money{Amount: 3 + float64(i), Currency: "USD"}, 2)
		p.Collections = []*Collection{summer}
		p.Attributes = []AssignedAttribute{{Attribute: flavor, Values: []*AttributeValue{flavor.Values[i]}}}
		for j, bottle := range bottleSize.Values {
			v := seq.variant(p, bottle.Name, 50-j*10)
			v.Attributes = []AssignedAttribute{{Attribute: bottleSize, Values: []*AttributeValue{bottle}}}
			if j > 0 {
				v.PriceOverride = &Money{Amount: p.Price.Amount * float64(j+1), Currency: "USD"}
			}
		}
		products = append(products, p)
	}

	for _, name := range []string{"Code Division T-shirt", "Monospace Tee"} {
		p := seq.product(name, apparel, shirt, Money{Amount: 15, Currency: "USD"}, 3)
		p.Collections = []*Collection{winter}
		p.Attributes = []AssignedAttribute{{Attribute: material, Values: material.Values[:2]}}
		for _, s := range size.Values {
			v := seq.variant(p, s.Name, 20)
			v.Attributes = []AssignedAttribute{{Attribute: size, Values: []*AttributeValue{s}}}
		}
		products = append(products, p)
	}

	p := seq.product("Saleor Cushion", homewares, cushion, Money{Amount: 22.5, Currency: "USD"}, 25)
	p.Collections = []*Collection{summer, winter}
	p.Attributes = []AssignedAttribute{{Attribute: material, Values: material.Values[2:]}}
	p.IsPublished = false
	seq.variant(p, "", 7)
	products = append(products, p)

	return NewStore(
		[]*Category{juices, apparel, homewares},
		[]*Collection{summer, winter},
		[]*ProductType{juice, shirt, cushion},
		products,
	)
}

type valueSeq struct{ next int }

func newValueSeq() *valueSeq { return &valueSeq{next: 1} }

func (s *valueSeq) make(names ...string) []*AttributeValue {
	out := make([]*AttributeValue, 0, len(names))
	for _, name := range names {
		out = append(out, &AttributeValue{
			ID:   GlobalID("AttributeValue", s.next),
			Name: name,
			Slug: slugify(name),
		})
		s.next++
	}
	return out
}

type seedSeq struct {
	nProduct, nVariant, nImage int
}

func (s *seedSeq) product(name string, category *Category, productType *ProductType, price Money, images int) *Product {
	s.nProduct++
	slug := slugify(name)
	available := time.Date(2019, time.January, s.nProduct, 0, 0, 0, 0, time.UTC)
	p := &Product{
		ID:              GlobalID("Product", s.nProduct),
		Name:            name,
		Slug:            slug,
		DescriptionJSON: fmt.Sprintf(`{"blocks":[{"type":"unstyled","text":"%s"}]}`, name),
		SEOTitle:        name,
		SEODescription:  "Buy " + name + " online.",
		Category:        category,
		Price:           price,
		PurchaseCost: [2]Money{
			{Amount: price.Amount / 2, Currency: price.Currency},
			{Amount: price.Amount * 0.6, Currency: price.Currency},
		},
		IsPublished: true,
		AvailableOn: &available,
		ProductType: productType,
	}
	for i := 0; i < images; i++ {
		s.nImage++
		p.Images = append(p.Images, &Image{
			ID:        GlobalID("ProductImage", s.nImage),
			Alt:       fmt.Sprintf("%s #%d", name, i+1),
			SortOrder: i,
			URL:       fmt.Sprintf("%s%s-%d.jpg", mediaURL, slug, i+1),
		})
	}
	return p
}

func (s *seedSeq) variant(p *Product, name string, quantity int) *Variant {
	s.nVariant++
	v := &Variant{
		ID:                GlobalID("ProductVariant", s.nVariant),
		SKU:               fmt.Sprintf("%s-%d", strings.ToUpper(p.Slug), s.nVariant),
		Name:              name,
		CostPrice:         &Money{Amount: p.PurchaseCost[0].Amount, Currency: p.Price.Currency},
		Quantity:          quantity,
		QuantityAllocated: quantity / 10,
	}
	if len(p.Images) > 0 {
		v.Images = []string{p.Images[(s.nVariant-1)%len(p.Images)].ID}
	}
	p.Variants = append(p.Variants, v)
	return v
}

func slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, ".", "")
	return strings.Join(strings.Fields(s), "-")
}
