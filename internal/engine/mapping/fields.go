package mapping

// FieldID names one standard field of the target product schema.
type FieldID string

const (
	FieldTitle                FieldID = "title"
	FieldDescriptionHTML      FieldID = "descriptionHtml"
	FieldVendor               FieldID = "vendor"
	FieldHandle               FieldID = "handle"
	FieldProductType          FieldID = "productType"
	FieldTags                 FieldID = "tags"
	FieldStatus               FieldID = "status"
	FieldSEOTitle             FieldID = "seo.title"
	FieldSEODescription       FieldID = "seo.description"
	FieldPublishedAt          FieldID = "publishedAt"
	FieldRequiresSellingPlan  FieldID = "requiresSellingPlan"
	FieldTemplateSuffix       FieldID = "templateSuffix"
	FieldSKU                  FieldID = "sku"
	FieldBarcode              FieldID = "barcode"
	FieldPrice                FieldID = "price"
	FieldCompareAtPrice       FieldID = "compareAtPrice"
	FieldWeight               FieldID = "weight"
	FieldWeightUnit           FieldID = "weightUnit"
	FieldInventoryPolicy      FieldID = "inventoryPolicy"
	FieldInventoryQuantity    FieldID = "inventoryQuantity"
	FieldInventoryManagement  FieldID = "inventoryManagement"
	FieldTaxable              FieldID = "taxable"
	FieldTaxCode              FieldID = "taxCode"
	FieldHarmonizedSystemCode FieldID = "harmonizedSystemCode"
	FieldRequiresShipping     FieldID = "requiresShipping"
	FieldInventoryItemCost    FieldID = "inventoryItem.cost"
)

// Group says which part of the target product a standard field lands on.
type Group int

const (
	GroupRoot Group = iota
	GroupSEO
	GroupInventoryItem
)

// Placement is the fixed, non-configurable spot a standard field occupies.
type Placement struct {
	Group Group
	Key   string
}

// catalog lists every standard field in stable order. placements is the
// static placement table; neither is user-editable.
var catalog = []FieldID{
	FieldTitle,
	FieldDescriptionHTML,
	FieldVendor,
	FieldHandle,
	FieldProductType,
	FieldTags,
	FieldStatus,
	FieldSEOTitle,
	FieldSEODescription,
	FieldPublishedAt,
	FieldRequiresSellingPlan,
	FieldTemplateSuffix,
	FieldSKU,
	FieldBarcode,
	FieldPrice,
	FieldCompareAtPrice,
	FieldWeight,
	FieldWeightUnit,
	FieldInventoryPolicy,
	FieldInventoryQuantity,
	FieldInventoryManagement,
	FieldTaxable,
	FieldTaxCode,
	FieldHarmonizedSystemCode,
	FieldRequiresShipping,
	FieldInventoryItemCost,
}

var placements = map[FieldID]Placement{
	FieldTitle:                {GroupRoot, "title"},
	FieldDescriptionHTML:      {GroupRoot, "descriptionHtml"},
	FieldVendor:               {GroupRoot, "vendor"},
	FieldHandle:               {GroupRoot, "handle"},
	FieldProductType:          {GroupRoot, "productType"},
	FieldTags:                 {GroupRoot, "tags"},
	FieldStatus:               {GroupRoot, "status"},
	FieldSEOTitle:             {GroupSEO, "title"},
	FieldSEODescription:       {GroupSEO, "description"},
	FieldPublishedAt:          {GroupRoot, "publishedAt"},
	FieldRequiresSellingPlan:  {GroupRoot, "requiresSellingPlan"},
	FieldTemplateSuffix:       {GroupRoot, "templateSuffix"},
	FieldSKU:                  {GroupRoot, "sku"},
	FieldBarcode:              {GroupRoot, "barcode"},
	FieldPrice:                {GroupRoot, "price"},
	FieldCompareAtPrice:       {GroupRoot, "compareAtPrice"},
	FieldWeight:               {GroupRoot, "weight"},
	FieldWeightUnit:           {GroupRoot, "weightUnit"},
	FieldInventoryPolicy:      {GroupRoot, "inventoryPolicy"},
	FieldInventoryQuantity:    {GroupRoot, "inventoryQuantity"},
	FieldInventoryManagement:  {GroupRoot, "inventoryManagement"},
	FieldTaxable:              {GroupRoot, "taxable"},
	FieldTaxCode:              {GroupRoot, "taxCode"},
	FieldHarmonizedSystemCode: {GroupRoot, "harmonizedSystemCode"},
	FieldRequiresShipping:     {GroupRoot, "requiresShipping"},
	FieldInventoryItemCost:    {GroupInventoryItem, "cost"},
}

// PlacementOf returns the fixed placement for id; ok is false for ids that
// are not part of the standard catalog.
func PlacementOf(id FieldID) (Placement, bool) {
	p, ok := placements[id]
	return p, ok
}

// KnownField reports whether id belongs to the standard catalog.
func KnownField(id FieldID) bool {
	_, ok := placements[id]
	return ok
}

// Catalog returns the standard field ids in stable order.
func Catalog() []FieldID {
	out := make([]FieldID, len(catalog))
	copy(out, catalog)
	return out
}
