package enums

import "fmt"

// ProductCategory buckets the apothecary catalog.
type ProductCategory string

const (
	ProductCategoryTincture   ProductCategory = "tincture"
	ProductCategoryTea        ProductCategory = "tea"
	ProductCategoryCapsule    ProductCategory = "capsule"
	ProductCategoryTopical    ProductCategory = "topical"
	ProductCategoryBulkHerb   ProductCategory = "bulk_herb"
	ProductCategoryAccessory  ProductCategory = "accessory"
	ProductCategoryGiftBundle ProductCategory = "gift_bundle"
)

var validProductCategories = []ProductCategory{
	ProductCategoryTincture,
	ProductCategoryTea,
	ProductCategoryCapsule,
	ProductCategoryTopical,
	ProductCategoryBulkHerb,
	ProductCategoryAccessory,
	ProductCategoryGiftBundle,
}

func (c ProductCategory) String() string {
	return string(c)
}

func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}
